package identity

import (
	"context"
	"fmt"
	"time"

	"ticketify/internal/model"
	apperrors "ticketify/pkg/app_errors"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the subset of a Supabase access token the service reads.
type Claims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	keyFunc jwt.Keyfunc
	methods []string
	close   func()
}

// NewHMACVerifier verifies HS256 tokens signed with the project's JWT secret.
func NewHMACVerifier(secret []byte) TokenVerifier {
	return &JWTVerifier{
		keyFunc: func(*jwt.Token) (interface{}, error) { return secret, nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
		close:   func() {},
	}
}

// NewJWKSVerifier verifies asymmetric tokens against the auth service's JWKS endpoint.
// Call Close on the returned verifier to stop the background refresh.
func NewJWKSVerifier(ctx context.Context, jwksURL string) (*JWTVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	return &JWTVerifier{
		keyFunc: jwks.Keyfunc,
		methods: []string{"RS256", "ES256"},
		close:   jwks.EndBackground,
	}, nil
}

func (v *JWTVerifier) Close() {
	v.close()
}

func (v *JWTVerifier) Verify(ctx context.Context, accessToken string) (*model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, v.keyFunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAuthRejected, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", apperrors.ErrAuthRejected)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", apperrors.ErrAuthRejected)
	}

	return &model.Identity{
		ID:       id,
		Email:    claims.Email,
		Metadata: claims.UserMetadata,
	}, nil
}
