package identity

import (
	"context"
	"errors"
	"testing"

	apperrors "ticketify/pkg/app_errors"
	"ticketify/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// refusingAuth fails every sign up; other GoTrue calls are not exercised.
type refusingAuth struct {
	gotrue.Client
}

func (refusingAuth) Signup(types.SignupRequest) (*types.SignupResponse, error) {
	return nil, errors.New("user already registered")
}

func TestSupabaseProvider_SignUp(t *testing.T) {
	t.Run("Failed - refusal is logged without the email", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		previous := logger.L
		logger.L = zap.New(core)
		t.Cleanup(func() { logger.L = previous })

		p := NewSupabaseProvider(refusingAuth{})
		_, _, err := p.SignUp(context.Background(), "ana@example.com", "secret-pass", nil)

		assert.ErrorIs(t, err, apperrors.ErrWriteRejected)
		entries := logs.FilterMessage("sign up refused").All()
		if assert.Len(t, entries, 1) {
			for _, f := range entries[0].Context {
				assert.NotContains(t, f.String, "ana@example.com", "field %s", f.Key)
			}
		}
	})

	t.Run("Failed - cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := NewSupabaseProvider(refusingAuth{}).SignUp(ctx, "ana@example.com", "secret-pass", nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
