package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bookvault/internal/app"
	"bookvault/internal/auth"
	"bookvault/internal/config"
	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/services"
	"bookvault/internal/storage"
)

// recordingNotifier keeps the last token and code sent to each address.
type recordingNotifier struct {
	mu     sync.Mutex
	tokens map[string]string
	codes  map[string]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{tokens: map[string]string{}, codes: map[string]string{}}
}

func (n *recordingNotifier) SendVerificationEmail(_ context.Context, email, _, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens[email] = token
	return nil
}

func (n *recordingNotifier) SendPasswordResetOTP(_ context.Context, email, _, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[email] = code
	return nil
}

func (n *recordingNotifier) token(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tokens[email]
}

func (n *recordingNotifier) code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

type testEnv struct {
	t        *testing.T
	app      *app.App
	cfg      *config.Config
	notifier *recordingNotifier
	store    *storage.MemoryStore
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                      config.EnvDevelopment,
		BaseURL:                  "http://api.test",
		JWTSecret:                "test_jwt_secret",
		SessionTTL:               30 * 24 * time.Hour,
		SessionCookieName:        "token",
		FrontendURL:              "http://localhost:5173",
		ResetOTPRequiresAuth:     true,
		ResetRequiresVerifiedOTP: true,
	}
}

// setupApp builds the full application on an isolated in-memory SQLite database.
func setupApp(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	db, err := repositories.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()))
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	notifier := newRecordingNotifier()
	store := storage.NewMemoryStore(cfg.BaseURL + "/files")
	a := app.New(app.Deps{
		Config:   cfg,
		Log:      zap.NewNop(),
		DB:       db,
		Notifier: notifier,
		Store:    store,
		HashCost: bcrypt.MinCost,
	})
	return &testEnv{t: t, app: a, cfg: cfg, notifier: notifier, store: store}
}

type response struct {
	status  int
	body    map[string]any
	cookies []*http.Cookie
}

func (r response) message() string {
	msg, _ := r.body["message"].(string)
	return msg
}

func (r response) object(key string) map[string]any {
	obj, _ := r.body[key].(map[string]any)
	return obj
}

func (r response) list(key string) []any {
	items, _ := r.body[key].([]any)
	return items
}

func (r response) cookie(name string) *http.Cookie {
	for _, c := range r.cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (e *testEnv) do(req *http.Request, cookie *http.Cookie) response {
	e.t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Fiber.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	body := map[string]any{}
	if len(raw) > 0 {
		require.NoError(e.t, json.Unmarshal(raw, &body), "body: %s", raw)
	}
	return response{status: resp.StatusCode, body: body, cookies: resp.Cookies()}
}

func (e *testEnv) json(method, path string, payload any, cookie *http.Cookie) response {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.do(req, cookie)
}

type filePart struct {
	field, filename, contentType string
	data                         []byte
}

func (e *testEnv) multipart(method, path string, fields map[string]string, files []filePart, cookie *http.Cookie) response {
	e.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.filename)}
		h["Content-Type"] = []string{f.contentType}
		part, err := w.CreatePart(h)
		require.NoError(e.t, err)
		_, err = part.Write(f.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(req, cookie)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func (e *testEnv) register(firstName, email, password string) response {
	return e.json(http.MethodPost, "/api/auth/register", map[string]string{
		"firstname": firstName,
		"lastname":  "Lee",
		"email":     email,
		"password":  password,
	}, nil)
}

func (e *testEnv) verify(email string) response {
	q := url.Values{"email": {email}, "token": {e.notifier.token(email)}}
	return e.json(http.MethodGet, "/api/auth/verify-email?"+q.Encode(), nil, nil)
}

func (e *testEnv) login(email, password string) response {
	return e.json(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, nil)
}

// session registers, verifies and logs in a user and returns the session cookie.
func (e *testEnv) session(email string) *http.Cookie {
	e.t.Helper()
	require.Equal(e.t, http.StatusCreated, e.register("Ann", email, "secret123").status)
	require.Equal(e.t, http.StatusOK, e.verify(email).status)
	res := e.login(email, "secret123")
	require.Equal(e.t, http.StatusOK, res.status)
	cookie := res.cookie("token")
	require.NotNil(e.t, cookie)
	return cookie
}

func (e *testEnv) adminSession() *http.Cookie {
	e.t.Helper()
	_, err := e.app.Auth.EnsureAdmin(context.Background(), services.RegisterInput{
		FirstName: "Root", LastName: "Admin", Email: "admin@x.com", Password: "adm1n-pass",
	})
	require.NoError(e.t, err)
	res := e.login("admin@x.com", "adm1n-pass")
	require.Equal(e.t, http.StatusOK, res.status)
	return res.cookie("token")
}

func TestRegisterVerifyLoginMe(t *testing.T) {
	env := setupApp(t, testConfig())

	res := env.register("Ann", "ann@x.com", "secret123")
	require.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, true, res.body["success"])

	stored, err := env.app.Users.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.NotEqual(t, "secret123", stored.Password)

	res = env.login("ann@x.com", "secret123")
	assert.Equal(t, http.StatusForbidden, res.status)
	assert.Equal(t, false, res.body["success"])
	assert.Nil(t, res.cookie("token"))

	require.Equal(t, http.StatusOK, env.verify("ann@x.com").status)
	res = env.verify("ann@x.com")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Verification link is invalid or expired.", res.message())

	res = env.login("ann@x.com", "secret123")
	require.Equal(t, http.StatusOK, res.status)
	assert.NotEmpty(t, res.body["token"])
	assert.Equal(t, "user", res.body["role"])
	_, leaked := res.object("user")["password"]
	assert.False(t, leaked)

	cookie := res.cookie("token")
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, res.body["token"], cookie.Value)

	me := env.json(http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.status)
	assert.Equal(t, "ann@x.com", me.object("user")["email"])
	assert.Equal(t, "user", me.object("user")["role"])

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	assert.Equal(t, http.StatusOK, env.do(req, nil).status)

	out := env.json(http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, out.status)
	cleared := out.cookie("token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupApp(t, testConfig())
	cookie := env.session("ann@x.com")

	res := env.json(http.MethodPost, "/api/auth/send-reset-otp", map[string]string{"email": "ann@x.com"}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)

	before := time.Now()
	res = env.json(http.MethodPost, "/api/auth/send-reset-otp", map[string]string{"email": "ann@x.com"}, cookie)
	require.Equal(t, http.StatusOK, res.status)

	stored, err := env.app.Users.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored.OTPExpires)
	assert.WithinDuration(t, before.Add(auth.OTPTTL), *stored.OTPExpires, 5*time.Second)

	code := env.notifier.code("ann@x.com")
	require.Len(t, code, 6)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	res = env.json(http.MethodPost, "/api/auth/verify-reset-otp", map[string]string{"email": "ann@x.com", "otp": wrong}, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Invalid OTP. Please try again.", res.message())

	res = env.json(http.MethodPost, "/api/auth/verify-reset-otp", map[string]string{"email": "ann@x.com", "otp": code}, nil)
	require.Equal(t, http.StatusOK, res.status)
	stored, err = env.app.Users.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Nil(t, stored.OTP)

	res = env.json(http.MethodPost, "/api/auth/reset-password", map[string]string{"email": "ann@x.com", "newPassword": "n3w-secret"}, nil)
	require.Equal(t, http.StatusOK, res.status)

	assert.Equal(t, http.StatusOK, env.login("ann@x.com", "n3w-secret").status)
	assert.Equal(t, http.StatusUnauthorized, env.login("ann@x.com", "secret123").status)
}

func TestResetPasswordEligibility(t *testing.T) {
	t.Run("requires verified otp", func(t *testing.T) {
		env := setupApp(t, testConfig())
		env.session("ann@x.com")

		res := env.json(http.MethodPost, "/api/auth/reset-password", map[string]string{"email": "ann@x.com", "newPassword": "n3w-secret"}, nil)
		assert.Equal(t, http.StatusForbidden, res.status)
		assert.Equal(t, "Please verify the OTP before resetting your password.", res.message())
		assert.Equal(t, http.StatusOK, env.login("ann@x.com", "secret123").status)
	})

	t.Run("email and password only when disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.ResetRequiresVerifiedOTP = false
		env := setupApp(t, cfg)
		env.session("ann@x.com")

		res := env.json(http.MethodPost, "/api/auth/reset-password", map[string]string{"email": "ann@x.com", "newPassword": "n3w-secret"}, nil)
		require.Equal(t, http.StatusOK, res.status)
		assert.Equal(t, http.StatusOK, env.login("ann@x.com", "n3w-secret").status)

		res = env.json(http.MethodPost, "/api/auth/reset-password", map[string]string{"email": "bob@x.com", "newPassword": "n3w-secret"}, nil)
		assert.Equal(t, http.StatusNotFound, res.status)
	})
}

func TestSendResetOTPWithoutSessionWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.ResetOTPRequiresAuth = false
	env := setupApp(t, cfg)
	env.session("ann@x.com")

	res := env.json(http.MethodPost, "/api/auth/send-reset-otp", map[string]string{"email": "ann@x.com"}, nil)
	assert.Equal(t, http.StatusOK, res.status)
	assert.NotEmpty(t, env.notifier.code("ann@x.com"))
}

func TestAccessGuardRejections(t *testing.T) {
	env := setupApp(t, testConfig())
	cookie := env.session("ann@x.com")

	expiredIssuer := auth.NewSessionIssuer(auth.SessionConfig{Secret: env.cfg.JWTSecret, TTL: time.Hour}).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	stored, err := env.app.Users.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	expired, _, err := expiredIssuer.Issue(stored.ID, stored.Role, stored.Email)
	require.NoError(t, err)

	ghost, _, err := env.app.Sessions.Issue(uuid.New().String(), models.RoleUser, "ghost@x.com")
	require.NoError(t, err)

	cases := map[string]*http.Cookie{
		"no cookie":    nil,
		"garbage":      {Name: "token", Value: "not-a-jwt"},
		"tampered":     {Name: "token", Value: cookie.Value[:len(cookie.Value)-4] + "AAAA"},
		"expired":      {Name: "token", Value: expired},
		"deleted user": {Name: "token", Value: ghost},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			res := env.json(http.MethodGet, "/api/auth/me", nil, c)
			assert.Equal(t, http.StatusUnauthorized, res.status)
			assert.Equal(t, false, res.body["success"])
		})
	}
}

func TestVerifySessionAllowsUnverifiedAccounts(t *testing.T) {
	env := setupApp(t, testConfig())
	require.Equal(t, http.StatusCreated, env.register("Ann", "ann@x.com", "secret123").status)
	stored, err := env.app.Users.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	token, _, err := env.app.Sessions.Issue(stored.ID, stored.Role, stored.Email)
	require.NoError(t, err)
	cookie := &http.Cookie{Name: "token", Value: token}

	res := env.json(http.MethodGet, "/api/auth/verify", nil, cookie)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, false, res.object("user")["isVerified"])

	res = env.json(http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = env.json(http.MethodGet, "/api/auth/verify", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}

func TestRegisterValidation(t *testing.T) {
	env := setupApp(t, testConfig())

	res := env.register("Ann", "not-an-email", "secret123")
	require.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Field 'email' failed on the 'email' tag", res.object("errors")["email"])

	res = env.json(http.MethodPost, "/api/auth/register", map[string]string{"email": "ann@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "All fields are required", res.message())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, env.do(req, nil).status)

	require.Equal(t, http.StatusCreated, env.register("Ann", "ann@x.com", "secret123").status)
	res = env.register("Ann", "ann@x.com", "other-pass")
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "Email already registered. Please login.", res.message())
}

func TestMultibytePasswordOverBcryptLimit(t *testing.T) {
	env := setupApp(t, testConfig())
	long := strings.Repeat("é", 40)

	res := env.register("Ann", "mb@x.com", long)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Password must be at most 72 bytes", res.message())

	require.Equal(t, http.StatusCreated, env.register("Ann", "ok@x.com", strings.Repeat("é", 36)).status)

	cookie := env.session("ann@x.com")
	require.Equal(t, http.StatusOK, env.json(http.MethodPost, "/api/auth/send-reset-otp", map[string]string{"email": "ann@x.com"}, cookie).status)
	code := env.notifier.code("ann@x.com")
	require.Equal(t, http.StatusOK, env.json(http.MethodPost, "/api/auth/verify-reset-otp", map[string]string{"email": "ann@x.com", "otp": code}, nil).status)

	res = env.json(http.MethodPost, "/api/auth/reset-password", map[string]string{"email": "ann@x.com", "newPassword": long}, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Password must be at most 72 bytes", res.message())
	assert.Equal(t, http.StatusOK, env.login("ann@x.com", "secret123").status)
}

func TestAdminRegisterAndRoleGate(t *testing.T) {
	env := setupApp(t, testConfig())
	userCookie := env.session("ann@x.com")
	adminCookie := env.adminSession()

	payload := map[string]any{
		"firstname": "Mo", "lastname": "Derator", "email": "mod@x.com", "password": "secret123",
		"role": "moderator", "subscription": true,
	}
	res := env.json(http.MethodPost, "/api/auth/admin-register", payload, userCookie)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = env.json(http.MethodPost, "/api/auth/admin-register", payload, adminCookie)
	require.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, "moderator", res.object("user")["role"])
	assert.Equal(t, true, res.object("user")["isVerified"])

	modLogin := env.login("mod@x.com", "secret123")
	require.Equal(t, http.StatusOK, modLogin.status)

	res = env.json(http.MethodPost, "/api/categories/create", map[string]string{"name": "Fiction"}, userCookie)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = env.json(http.MethodPost, "/api/categories/create", map[string]string{"name": "Fiction"}, modLogin.cookie("token"))
	assert.Equal(t, http.StatusCreated, res.status)
}

func TestEditProfileAndGetUser(t *testing.T) {
	env := setupApp(t, testConfig())
	cookie := env.session("ann@x.com")

	res := env.multipart(http.MethodPut, "/api/auth/edit-profile",
		map[string]string{"firstname": "Anna", "location": "Pune"},
		[]filePart{{field: "profilePicture", filename: "me.png", contentType: "image/png", data: pngBytes(t)}},
		cookie)
	require.Equal(t, http.StatusOK, res.status)
	user := res.object("user")
	assert.Equal(t, "Anna", user["firstname"])
	assert.Equal(t, "Pune", user["location"])
	assert.Contains(t, user["profilePicture"], "http://api.test/files/users/avatars/")
	assert.Equal(t, 1, env.store.Len())

	res = env.json(http.MethodGet, fmt.Sprintf("/api/auth/user/%s", user["id"]), nil, cookie)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Anna", res.object("user")["firstname"])
	_, hasOTP := res.object("user")["otp"]
	assert.False(t, hasOTP)

	res = env.json(http.MethodGet, "/api/auth/user/missing", nil, cookie)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestCatalogAndCartFlow(t *testing.T) {
	env := setupApp(t, testConfig())
	admin := env.adminSession()
	user := env.session("ann@x.com")

	res := env.json(http.MethodPost, "/api/categories/create", map[string]string{"name": "Fiction"}, admin)
	require.Equal(t, http.StatusCreated, res.status)
	categoryID := res.object("category")["id"].(string)

	res = env.json(http.MethodPost, "/api/categories/create", map[string]string{"name": "fiction"}, admin)
	assert.Equal(t, http.StatusConflict, res.status)

	res = env.json(http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list("categories"), 1)

	res = env.multipart(http.MethodPost, "/api/books/create",
		map[string]string{"name": "Dune", "author": "Herbert", "categoryId": categoryID, "price": "12.5", "accessType": "premium"},
		[]filePart{{field: "coverImage", filename: "dune.png", contentType: "image/png", data: pngBytes(t)}},
		admin)
	require.Equal(t, http.StatusCreated, res.status, res.message())
	book := res.object("book")
	bookID := book["id"].(string)
	assert.Equal(t, "premium", book["accessType"])
	assert.Equal(t, 12.5, book["price"])
	assert.Contains(t, book["coverImage"], "/files/books/covers/")

	res = env.json(http.MethodGet, "/api/books/search?accessType=premium", nil, user)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list("books"), 1)

	res = env.json(http.MethodPut, "/api/books/"+bookID+"/like", nil, user)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, true, res.body["liked"])
	assert.EqualValues(t, 1, res.body["likes"])

	res = env.multipart(http.MethodPost, "/api/books/"+bookID+"/episodes",
		map[string]string{"title": "Chapter 1", "episodeNumber": "1", "duration": "12:30"},
		[]filePart{{field: "audio", filename: "ch1.mp3", contentType: "audio/mpeg", data: []byte("ID3")}},
		admin)
	require.Equal(t, http.StatusCreated, res.status, res.message())
	episodeID := res.object("episode")["id"].(string)

	res = env.json(http.MethodPut, "/api/books/"+bookID+"/episodes/"+episodeID+"/like", nil, user)
	require.Equal(t, http.StatusOK, res.status)

	res = env.json(http.MethodGet, "/api/books/"+bookID+"/episodes", nil, user)
	require.Equal(t, http.StatusOK, res.status)
	require.Len(t, res.list("episodes"), 1)
	assert.EqualValues(t, 1, res.list("episodes")[0].(map[string]any)["likes"])

	res = env.json(http.MethodDelete, "/api/books/"+bookID+"/episodes/"+episodeID, nil, user)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = env.json(http.MethodPost, "/api/cart/add", map[string]any{"bookId": bookID, "quantity": 2}, user)
	require.Equal(t, http.StatusOK, res.status)
	res = env.json(http.MethodPost, "/api/cart/add", map[string]any{"bookId": bookID}, user)
	require.Equal(t, http.StatusOK, res.status)
	items := res.object("cart")["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].(map[string]any)["quantity"])

	res = env.json(http.MethodPut, "/api/cart/update", map[string]any{"bookId": "missing", "quantity": 1}, user)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = env.json(http.MethodPatch, "/api/books/"+bookID+"/book", nil, admin)
	require.Equal(t, http.StatusOK, res.status)
	res = env.json(http.MethodGet, "/api/books/"+bookID, nil, user)
	assert.Equal(t, http.StatusNotFound, res.status)
	res = env.json(http.MethodPatch, "/api/books/"+bookID+"/book", nil, admin)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = env.json(http.MethodDelete, "/api/books/multiDelete", map[string]any{"ids": []string{bookID}}, admin)
	require.Equal(t, http.StatusOK, res.status)
	assert.EqualValues(t, 1, res.body["deletedCount"])
	assert.Equal(t, 0, env.store.Len())
}

func TestCategoryStatusRequiresBody(t *testing.T) {
	env := setupApp(t, testConfig())
	admin := env.adminSession()

	res := env.json(http.MethodPost, "/api/categories/create", map[string]string{"name": "Poetry"}, admin)
	require.Equal(t, http.StatusCreated, res.status)
	id := res.object("category")["id"].(string)

	res = env.json(http.MethodPut, "/api/categories/"+id+"/status", map[string]any{}, admin)
	require.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Field 'status' failed on the 'required' tag", res.object("errors")["status"])

	res = env.json(http.MethodPut, "/api/categories/"+id+"/status", map[string]any{"status": false}, admin)
	require.Equal(t, http.StatusOK, res.status)

	res = env.json(http.MethodGet, "/api/categories/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestSubCategoryFlow(t *testing.T) {
	env := setupApp(t, testConfig())
	admin := env.adminSession()
	user := env.session("ann@x.com")

	res := env.json(http.MethodPost, "/api/categories/create", map[string]string{"name": "Fiction"}, admin)
	require.Equal(t, http.StatusCreated, res.status)
	categoryID := res.object("category")["id"].(string)

	assert.Equal(t, http.StatusUnauthorized, env.json(http.MethodGet, "/api/subCategories/all", nil, nil).status)

	fields := map[string]string{"name": "Space Opera", "description": "Ships", "parentCategoryId": categoryID}
	res = env.json(http.MethodPost, "/api/subCategories/create", fields, user)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = env.multipart(http.MethodPost, "/api/subCategories/create", fields,
		[]filePart{{field: "subCategoryImage", filename: "so.png", contentType: "image/png", data: pngBytes(t)}},
		admin)
	require.Equal(t, http.StatusCreated, res.status, res.message())
	sub := res.object("subCategory")
	subID := sub["id"].(string)
	assert.Equal(t, "space-opera", sub["slug"])
	assert.Equal(t, categoryID, sub["parentCategoryId"])
	assert.Equal(t, true, sub["status"])
	assert.Contains(t, sub["image"], "/files/subcategories/")

	res = env.json(http.MethodPost, "/api/subCategories/create", fields, admin)
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "Sub-category already exists", res.message())

	res = env.json(http.MethodPost, "/api/subCategories/create",
		map[string]string{"name": "Cozy", "description": "Tea", "parentCategoryId": "missing"}, admin)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Parent category does not exist", res.message())

	res = env.json(http.MethodGet, "/api/subCategories/all", nil, user)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list("subCategories"), 1)

	res = env.json(http.MethodGet, "/api/subCategories/search?featured=false&parentCategoryId="+categoryID, nil, user)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list("subCategories"), 1)
	assert.EqualValues(t, 1, res.object("pagination")["total"])

	res = env.json(http.MethodGet, "/api/subCategories/search?status=maybe", nil, user)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = env.json(http.MethodPost, "/api/books/create", map[string]any{
		"name": "Hyperion", "author": "Simmons", "price": 9.0, "categoryId": categoryID, "subCategoryId": subID,
	}, admin)
	require.Equal(t, http.StatusCreated, res.status, res.message())
	bookID := res.object("book")["id"].(string)
	assert.Equal(t, subID, res.object("book")["subCategoryId"])

	res = env.json(http.MethodGet, "/api/books/subCategory/"+subID, nil, user)
	require.Equal(t, http.StatusOK, res.status)
	require.Len(t, res.list("books"), 1)

	res = env.json(http.MethodPut, "/api/subCategories/"+subID+"/featured", map[string]any{"featured": true}, admin)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, true, res.object("subCategory")["featured"])

	assert.Equal(t, http.StatusForbidden, env.json(http.MethodGet, "/api/subCategories/deleted", nil, user).status)

	require.Equal(t, http.StatusOK, env.json(http.MethodPatch, "/api/subCategories/"+subID+"/softDelete", nil, admin).status)
	assert.Equal(t, http.StatusNotFound, env.json(http.MethodGet, "/api/subCategories/"+subID, nil, user).status)
	res = env.json(http.MethodGet, "/api/subCategories/deleted", nil, admin)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list("subCategories"), 1)
	require.Equal(t, http.StatusOK, env.json(http.MethodPatch, "/api/subCategories/"+subID+"/restore", nil, admin).status)
	assert.Equal(t, http.StatusOK, env.json(http.MethodGet, "/api/subCategories/"+subID, nil, user).status)

	res = env.json(http.MethodDelete, "/api/subCategories/hard-multiple-delete", map[string]any{"ids": []string{}}, admin)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = env.json(http.MethodDelete, "/api/subCategories/hard-multiple-delete", map[string]any{"ids": []string{subID}}, admin)
	require.Equal(t, http.StatusOK, res.status)
	assert.EqualValues(t, 1, res.body["deletedCount"])
	assert.Equal(t, 0, env.store.Len())

	res = env.json(http.MethodGet, "/api/books/"+bookID, nil, user)
	require.Equal(t, http.StatusOK, res.status)
	_, hasSub := res.object("book")["subCategoryId"]
	assert.False(t, hasSub)
}
