package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"campusflow/sched-api/middleware"
	"campusflow/sched-api/model"
	"campusflow/sched-api/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// stubMailer records sends instead of dialing SMTP. Setting fail makes
// every send error so registration rollback can be exercised
type stubMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *stubMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return fmt.Errorf("smtp unreachable")
	}

	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *stubMailer) last(t *testing.T) sentMail {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

// lastToken digs the plaintext verification token out of the last mail,
// the link format is <client.url>/email-verified/<token>
func (m *stubMailer) lastToken(t *testing.T) string {
	t.Helper()

	body := m.last(t).Body

	idx := strings.Index(body, "/email-verified/")
	require.NotEqual(t, -1, idx)

	token := body[idx+len("/email-verified/"):]
	return token[:strings.IndexAny(token, "'\" ")]
}

func newTestAPI(t *testing.T) (*API, *stubMailer) {
	t.Helper()

	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.lifetime_hours", 168)
	viper.Set("security.max_login_attempts", 5)
	viper.Set("security.lock_minutes", 120)
	viper.Set("security.verification_ttl_minutes", 15)
	viper.Set("client.url", "http://localhost:5173")
	viper.Set("ratelimit.rps", 1000)
	viper.Set("ratelimit.burst", 1000)
	viper.Set("cache.redis.enabled", false)
	viper.Set("cloudflare.turnstile.enabled", false)

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	err = db.AutoMigrate(model.User{}, model.Event{}, model.AcademicProfile{}, model.Grade{})
	require.NoError(t, err)

	mailer := &stubMailer{}

	a := &API{
		DB:     db,
		Router: gin.New(),
		Argon:  security.New(),
		Mailer: mailer,
	}

	a.Router.Use(gin.Recovery(), middleware.NewRequestIDMiddleware())
	a.registerRoutes()

	return a, mailer
}

func (a *API) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func validSignup(email string) map[string]any {
	return map[string]any{
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       email,
		"dob":         "2000-01-15",
		"countryCode": "+44",
		"phone":       phoneFor(email),
		"password":    "Abcdef1!",
	}
}

// phoneFor derives a distinct 10-digit phone per email so signups in
// the same test don't trip the phone uniqueness check
func phoneFor(email string) string {
	var sum int
	for _, r := range email {
		sum += int(r)
	}

	return fmt.Sprintf("7%09d", sum)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (a *API) signupAndVerify(t *testing.T, m *stubMailer, email string) {
	t.Helper()

	w := a.doJSON(t, http.MethodPost, "/api/signup", validSignup(email), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.doJSON(t, http.MethodPost, "/api/verify-email", map[string]any{"token": m.lastToken(t)}, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func (a *API) login(t *testing.T, email, password string) string {
	t.Helper()

	w := a.doJSON(t, http.MethodPost, "/api/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	return token
}
