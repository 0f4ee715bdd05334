package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwiprasetyo/user-management-api/internal/application"
	"github.com/dwiprasetyo/user-management-api/internal/infrastructure/memory"
	handlers "github.com/dwiprasetyo/user-management-api/internal/interface/http"
	"github.com/dwiprasetyo/user-management-api/internal/router"
	"github.com/dwiprasetyo/user-management-api/internal/router/modules"
	"github.com/dwiprasetyo/user-management-api/pkg/helpers"
	"github.com/dwiprasetyo/user-management-api/pkg/validation"
)

var setupOnce sync.Once

// newTestServer builds the real router wired against the in-memory repository.
// Redis is absent, so rate limiting is a no-op.
func newTestServer(t *testing.T, refreshTTL time.Duration) (*gin.Engine, *memory.UserRepository) {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Init()
	})

	repo := memory.NewUserRepository()
	jwt := helpers.NewJWTManager("test-access", "test-refresh", 15*time.Minute, refreshTTL)

	authSvc := application.NewAuthService(repo, jwt, nil)
	userSvc := application.NewUserService(repo, nil, nil, "")

	engine := gin.New()
	reg := router.NewRegistry(engine, "api")
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, userSvc, nil)))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, nil), jwt))
	reg.RegisterAll()

	return engine, repo
}

type successBody struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
}

type errorBody struct {
	Success    bool              `json:"success"`
	StatusCode int               `json:"statusCode"`
	Message    []string          `json:"message"`
	Errors     map[string]string `json:"errors"`
	Timestamp  time.Time         `json:"timestamp"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder) successBody {
	t.Helper()
	var b successBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	require.True(t, b.Success)
	return b
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var b errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	require.False(t, b.Success)
	return b
}

func registerBody(email string) map[string]string {
	return map[string]string{
		"email":     email,
		"password":  "Abc12345!",
		"firstName": "A",
		"lastName":  "B",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeSuccess(t, w)
	assert.Equal(t, "User registered successfully", body.Message)
	user := body.Data["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotEmpty(t, user["id"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password digest must never be returned")
	_, hasTokens := body.Data["accessToken"]
	assert.False(t, hasTokens, "register does not auto-issue tokens")
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, []string{"Email already exists"}, body.Message)
	assert.Equal(t, http.StatusConflict, body.StatusCode)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/register", map[string]string{
		"email":     "not-an-email",
		"password":  "short",
		"firstName": "A",
		"lastName":  "B",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestLoginEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")

	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "Abc12345!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeSuccess(t, w)
	assert.NotEmpty(t, body.Data["accessToken"])
	assert.NotEmpty(t, body.Data["refreshToken"])
	assert.Equal(t, float64(900), body.Data["expiresIn"])
	user := body.Data["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
}

func TestLoginEndpoint_EnumerationResistance(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")

	wrongPassword := doJSON(t, engine, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "WrongPass1!",
	}, "")
	unknownEmail := doJSON(t, engine, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "Abc12345!",
	}, "")

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	// identical status and message text for both failure modes
	b1 := decodeError(t, wrongPassword)
	b2 := decodeError(t, unknownEmail)
	assert.Equal(t, b1.Message, b2.Message)
	assert.Equal(t, []string{"Invalid credentials"}, b1.Message)
}

func loginTokens(t *testing.T, engine *gin.Engine, email string) (access, refresh string) {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": "Abc12345!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeSuccess(t, w)
	return body.Data["accessToken"].(string), body.Data["refreshToken"].(string)
}

func TestRefreshEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	_, refresh := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodPost, "/api/auth/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeSuccess(t, w)
	assert.NotEmpty(t, body.Data["accessToken"])
	assert.Equal(t, float64(900), body.Data["expiresIn"])
}

func TestRefreshEndpoint_RejectsAccessToken(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	access, _ := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodPost, "/api/auth/refresh", nil, access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshEndpoint_Expired(t *testing.T) {
	engine, _ := newTestServer(t, -time.Minute)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	_, refresh := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodPost, "/api/auth/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshEndpoint_DeletedUser(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	access, refresh := loginTokens(t, engine, "a@x.com")

	// delete the account through the API, then the refresh token is dead
	w := doJSON(t, engine, http.MethodGet, "/api/users/profile", nil, access)
	id := decodeSuccess(t, w).Data["id"].(string)
	w = doJSON(t, engine, http.MethodDelete, "/api/users/"+id, nil, access)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/auth/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshEndpoint_MissingToken(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/refresh", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	access, _ := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodGet, "/api/users/profile", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeSuccess(t, w)
	assert.Equal(t, "a@x.com", body.Data["email"])

	// no token
	w = doJSON(t, engine, http.MethodGet, "/api/users/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// garbage token
	w = doJSON(t, engine, http.MethodGet, "/api/users/profile", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	access, _ := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodPatch, "/api/users/profile", map[string]string{
		"firstName": "Jane",
	}, access)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeSuccess(t, w)
	assert.Equal(t, "Jane", body.Data["firstName"])
	assert.Equal(t, "B", body.Data["lastName"])

	// single-character name fails validation
	w = doJSON(t, engine, http.MethodPatch, "/api/users/profile", map[string]string{
		"firstName": "J",
	}, access)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("b@x.com"), "")
	access, _ := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodGet, "/api/users?page=1&limit=10", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeSuccess(t, w)
	assert.Equal(t, float64(2), body.Data["total"])
	assert.Equal(t, float64(1), body.Data["totalPages"])
	assert.Len(t, body.Data["users"], 2)

	w = doJSON(t, engine, http.MethodGet, "/api/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserByIDEndpoints(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	access, _ := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodGet, "/api/users/profile", nil, access)
	id := decodeSuccess(t, w).Data["id"].(string)

	// get
	w = doJSON(t, engine, http.MethodGet, "/api/users/"+id, nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", decodeSuccess(t, w).Data["email"])

	// update
	w = doJSON(t, engine, http.MethodPatch, "/api/users/"+id, map[string]string{"lastName": "Smith"}, access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Smith", decodeSuccess(t, w).Data["lastName"])

	// unknown id
	w = doJSON(t, engine, http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000000", nil, access)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"User not found"}, decodeError(t, w).Message)

	// malformed id
	w = doJSON(t, engine, http.MethodGet, "/api/users/not-a-uuid", nil, access)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// delete, then the record is gone
	w = doJSON(t, engine, http.MethodDelete, "/api/users/"+id, nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", decodeSuccess(t, w).Data["message"])

	w = doJSON(t, engine, http.MethodDelete, "/api/users/"+id, nil, access)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint_NoES(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)
	doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	access, _ := loginTokens(t, engine, "a@x.com")

	w := doJSON(t, engine, http.MethodGet, "/api/users/search?q=a", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSuccess(t, w).Data["hits"])

	w = doJSON(t, engine, http.MethodGet, "/api/users/search", nil, access)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndToEndFlow(t *testing.T) {
	engine, _ := newTestServer(t, time.Hour)

	w := doJSON(t, engine, http.MethodPost, "/api/auth/register", registerBody("a@x.com"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "Abc12345!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeSuccess(t, w).Data
	access := data["accessToken"].(string)
	refresh := data["refreshToken"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	w = doJSON(t, engine, http.MethodGet, "/api/users/profile", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", decodeSuccess(t, w).Data["email"])
}
