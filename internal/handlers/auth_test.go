package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/nedirbay/project-management-own-version/internal/auth"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/nedirbay/project-management-own-version/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	router *gin.Engine
}

func setupTestEnv(t *testing.T, suggester services.TaskSuggester) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	tokens := auth.NewTokenIssuer(strings.Repeat("k", 32), "test-issuer", "test-audience", time.Hour)
	router := NewRouter(services.New(db, tokens, suggester), RouterConfig{
		Tokens:       tokens,
		SessionStore: cookie.NewStore([]byte("secret")),
	})

	return testEnv{db: db, tokens: tokens, router: router}
}

// do sends a JSON request, authenticated as user when user is not nil
func (env testEnv) do(t *testing.T, method, url string, payload interface{}, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, _, err := env.tokens.Issue(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "newuser",
		"email":     "NewUser@Example.com",
		"password":  "supersecret",
		"full_name": "New User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "newuser", response.User.Username)
	require.Equal(t, "newuser@example.com", response.User.Email)
	require.Equal(t, models.RoleMember, response.User.Role)
}

func TestAuthHandler_RegisterDuplicateUsername(t *testing.T) {
	env := setupTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "taken", models.RoleMember)

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "taken",
		"email":     "other@example.com",
		"password":  "supersecret",
		"full_name": "Someone Else",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_RegisterShortPassword(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "shorty",
		"email":     "shorty@example.com",
		"password":  "abc",
		"full_name": "Shorty",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginSetsSession(t *testing.T) {
	env := setupTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "existing", models.RoleMember)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "existing",
		"password": testutil.Password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "existing", response.User.Username)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The session cookie alone authenticates follow-up requests
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	env.router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)

	var user dto.UserDTO
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &user))
	require.Equal(t, response.User.ID, user.ID)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := setupTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "active", models.RoleMember)
	disabled := testutil.CreateUser(t, env.db, "disabled", models.RoleMember)
	require.NoError(t, env.db.Model(disabled).Update("active", false).Error)

	cases := map[string]map[string]string{
		"wrong password":   {"username": "active", "password": "not-the-password"},
		"unknown user":     {"username": "ghost", "password": testutil.Password},
		"inactive account": {"username": "disabled", "password": testutil.Password},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/login", payload, nil)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	bad := httptest.NewRecorder()
	env.router.ServeHTTP(bad, req)
	require.Equal(t, http.StatusUnauthorized, bad.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
