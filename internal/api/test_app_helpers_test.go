package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sleeptrack/internal/auth"
	"github.com/terraincognita07/sleeptrack/internal/db"
	"github.com/terraincognita07/sleeptrack/internal/i18n"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecretKey = "test-secret-key-with-at-least-32-characters"
	testPassword  = "Sleepwell1"
)

type testAppOptions struct {
	attemptsPerMinute int
	disableSignup     bool
	now               time.Time
}

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()
	return newTestAppWithOptions(t, testAppOptions{})
}

func newTestAppWithOptions(t *testing.T, opts testAppOptions) (*fiber.App, *Handler) {
	t.Helper()

	database := openTestDatabase(t)

	manager, err := i18n.NewManager("en")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	jwtConfig := auth.JWTConfig{
		Secret:   []byte(testSecretKey),
		Issuer:   "sleeptrack",
		Audience: "authenticated",
		TTL:      time.Hour,
	}
	verifier, err := auth.NewJWTVerifier(jwtConfig)
	if err != nil {
		t.Fatalf("init verifier: %v", err)
	}
	issuer, err := auth.NewTokenIssuer(jwtConfig)
	if err != nil {
		t.Fatalf("init issuer: %v", err)
	}

	attempts := opts.attemptsPerMinute
	if attempts == 0 {
		attempts = 1000
	}

	handler, err := NewHandler(database, Options{
		Location:          time.UTC,
		I18n:              manager,
		Verifier:          verifier,
		Issuer:            issuer,
		AllowRegistration: !opts.disableSignup,
		AttemptsPerMinute: attempts,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.authService = handler.authService.WithHashCost(bcrypt.MinCost)
	if !opts.now.IsZero() {
		fixed := opts.now
		handler.now = func() time.Time { return fixed }
	}

	return NewApp(handler, AppConfig{}), handler
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "sleeptrack-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

type testResponse struct {
	status int
	header http.Header
	body   []byte
}

func (response testResponse) decode(t *testing.T, target any) {
	t.Helper()
	if err := json.Unmarshal(response.body, target); err != nil {
		t.Fatalf("decode response %q: %v", string(response.body), err)
	}
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, token string, payload any) testResponse {
	t.Helper()

	var body io.Reader
	switch typed := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return testResponse{status: response.StatusCode, header: response.Header, body: raw}
}

type sessionPayload struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func registerTestAccount(t *testing.T, app *fiber.App, email string) sessionPayload {
	t.Helper()

	response := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	if response.status != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d: %s", response.status, string(response.body))
	}

	var session sessionPayload
	response.decode(t, &session)
	if session.AccessToken == "" {
		t.Fatal("expected access token in register response")
	}
	return session
}

func assertErrorMessage(t *testing.T, response testResponse, status int, message string) {
	t.Helper()

	if response.status != status {
		t.Fatalf("expected status %d, got %d: %s", status, response.status, string(response.body))
	}
	var payload struct {
		Error string `json:"error"`
	}
	response.decode(t, &payload)
	if payload.Error != message {
		t.Fatalf("expected error %q, got %q", message, payload.Error)
	}
}

func assertIssueField(t *testing.T, response testResponse, field string) {
	t.Helper()

	if response.status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", response.status, string(response.body))
	}
	var payload struct {
		Issues []struct {
			Field string `json:"field"`
		} `json:"issues"`
	}
	response.decode(t, &payload)
	for _, issue := range payload.Issues {
		if issue.Field == field {
			return
		}
	}
	t.Fatalf("expected issue for field %q, got %s", field, string(response.body))
}

type signedInApp struct {
	app     *fiber.App
	handler *Handler
	token   string
	userID  string
}

func newSignedInApp(t *testing.T, opts testAppOptions) signedInApp {
	t.Helper()

	app, handler := newTestAppWithOptions(t, opts)
	session := registerTestAccount(t, app, "sleeper@example.com")
	return signedInApp{app: app, handler: handler, token: session.AccessToken, userID: session.User.ID}
}

func (signed signedInApp) get(t *testing.T, path string) testResponse {
	t.Helper()
	return doRequest(t, signed.app, http.MethodGet, path, signed.token, nil)
}

func (signed signedInApp) send(t *testing.T, method string, path string, payload any) testResponse {
	t.Helper()
	return doRequest(t, signed.app, method, path, signed.token, payload)
}
