package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/habittrack/internal/adapters/handler/http"
	"github.com/comitanigiacomo/habittrack/internal/adapters/repository"
	"github.com/comitanigiacomo/habittrack/internal/core/services"
)

var fixedNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

type testServer struct {
	router *gin.Engine
	tokens *services.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logs := repository.NewInMemoryHabitLogRepository()
	habits := repository.NewInMemoryHabitRepository(logs)
	profiles := repository.NewInMemoryProfileRepository()
	users := repository.NewInMemoryUserRepository()

	tokens := services.NewTokenService("handler-test-secret", "habittrack-test", time.Hour, users)
	profileSvc := services.NewProfileService(profiles, "UTC", nil)
	analyticsSvc := services.NewAnalyticsService(habits, logs, profileSvc, nil, nil)
	analyticsSvc.SetClock(func() time.Time { return fixedNow })

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(services.NewAuthService(users), tokens),
		HabitHandler:     adapterHTTP.NewHabitHandler(services.NewHabitService(habits, nil)),
		LogHandler:       adapterHTTP.NewLogHandler(services.NewLogService(logs, habits, nil)),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(analyticsSvc),
		ProfileHandler:   adapterHTTP.NewProfileHandler(profileSvc),
		Tokens:           tokens,
		StartTime:        time.Now(),
	})

	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signUp registers and logs in, returning the bearer token.
func (s *testServer) signUp(t *testing.T, email string) string {
	t.Helper()

	creds := map[string]string{"email": email, "password": "password123"}
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (s *testServer) createHabit(t *testing.T, token, title string) string {
	t.Helper()

	w := s.do(http.MethodPost, "/api/v1/habits", token, map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

func (s *testServer) toggle(t *testing.T, token, habitID, day string) bool {
	t.Helper()

	w := s.do(http.MethodPost, "/api/v1/habits/"+habitID+"/toggle", token, map[string]string{"date": day})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Completed bool `json:"completed"`
	}
	decode(t, w, &resp)
	return resp.Completed
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
