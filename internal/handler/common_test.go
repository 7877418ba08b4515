package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"ticketify/config"
	"ticketify/internal/handler"
	"ticketify/internal/mocks"
	"ticketify/internal/model"
	"ticketify/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var (
	InvalidJSON = `{"invalid": json}`
)

type testEnv struct {
	router    *gin.Engine
	provider  *mocks.ProviderMock
	verifier  *mocks.TokenVerifierMock
	profiles  *mocks.ProfileResolverMock
	profile   *mocks.ProfileServiceMock
	events    *mocks.EventServiceMock
	purchases *mocks.PurchaseServiceMock
	tickets   *mocks.TicketServiceMock
	stats     *mocks.StatsServiceMock
}

func setupRouter() *testEnv {
	gin.SetMode(gin.TestMode)
	e := &testEnv{
		provider:  mocks.NewProviderMock(),
		verifier:  mocks.NewTokenVerifierMock(),
		profiles:  mocks.NewProfileResolverMock(),
		profile:   mocks.NewProfileServiceMock(),
		events:    mocks.NewEventServiceMock(),
		purchases: mocks.NewPurchaseServiceMock(),
		tickets:   mocks.NewTicketServiceMock(),
		stats:     mocks.NewStatsServiceMock(),
	}
	manager := session.NewManager(e.provider, e.verifier, e.profiles)
	e.router = handler.NewRouter(&config.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}}, manager, handler.Handlers{
		Auth:    handler.NewAuthHandler(manager),
		Profile: handler.NewProfileHandler(e.profile),
		Event:   handler.NewEventHandler(e.events),
		Ticket:  handler.NewTicketHandler(e.purchases, e.tickets),
		Stats:   handler.NewStatsHandler(e.stats),
	})
	return e
}

// signIn makes token resolve to a fresh user with role.
func (e *testEnv) signIn(token string, role model.Role) uuid.UUID {
	id := &model.Identity{ID: uuid.New(), Email: "user@example.com"}
	e.verifier.On("Verify", mock.Anything, token).Return(id, nil)
	e.profiles.On("EnsureProfile", mock.Anything, id, "").Return(&model.Profile{ID: id.ID, Role: role}, nil)
	return id.ID
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func withRole(role model.Role) interface{} {
	return mock.MatchedBy(func(s *session.Session) bool { return s.Role() == role })
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
