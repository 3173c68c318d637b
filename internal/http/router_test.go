package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/course-api/internal/auth"
	"github.com/redmonkez12/course-api/internal/config"
	"github.com/redmonkez12/course-api/internal/course"
	"github.com/redmonkez12/course-api/internal/database/databasetest"
	"github.com/redmonkez12/course-api/internal/httputil"
	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/ratelimit"
	"github.com/redmonkez12/course-api/internal/user"
	"github.com/redmonkez12/course-api/internal/validation"
)

// newTestAPI builds the full router on SQLite and miniredis. proxies are the
// trusted proxy addresses; httptest requests come from 192.0.2.1.
func newTestAPI(t *testing.T, proxies ...string) http.Handler {
	t.Helper()

	db := databasetest.NewSQLite(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	logger := logging.Discard()
	v := validation.New()
	limiter := ratelimit.NewLimiter(rdb, map[string]ratelimit.Rule{
		ratelimit.PurposeAuth:     {Max: 3, Window: time.Minute},
		ratelimit.PurposeRegister: {Max: 10, Window: time.Minute},
	})

	authService, err := auth.NewService(user.NewRepository(db), v, logger, bcrypt.MinCost)
	require.NoError(t, err)
	courseService := course.NewService(course.NewRepository(db), v, logger)

	cfg := &config.Config{Server: config.ServerConfig{Env: "prod", TrustedProxies: proxies}}
	router, err := NewRouter(cfg, Handlers{
		Users:          auth.NewHandler(authService, limiter),
		Courses:        course.NewHandler(courseService),
		AuthMiddleware: auth.NewMiddleware(authService, limiter),
	}, logger)
	require.NoError(t, err)
	return router
}

type credentials struct{ email, password string }

var (
	joe   = credentials{"joe@smith.com", "joepassword"}
	sally = credentials{"sally@jones.com", "sallypassword"}
)

func call(t *testing.T, api http.Handler, method, path, body string, as *credentials) *httptest.ResponseRecorder {
	t.Helper()
	return callWithHeaders(t, api, method, path, body, as, nil)
}

func callWithHeaders(t *testing.T, api http.Handler, method, path, body string, as *credentials, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.SetBasicAuth(as.email, as.password)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)
	return rr
}

func register(t *testing.T, api http.Handler, first, last string, c credentials) {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"firstName":    first,
		"lastName":     last,
		"emailAddress": c.email,
		"password":     c.password,
	})
	require.NoError(t, err)

	rr := call(t, api, http.MethodPost, "/api/users", string(body), nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestPublicRoutes(t *testing.T) {
	api := newTestAPI(t)

	rr := call(t, api, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Course Catalog REST API project!"}`, rr.Body.String())

	rr = call(t, api, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = call(t, api, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), httputil.CodeRouteNotFound)

	rr = call(t, api, http.MethodPatch, "/api/courses", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = call(t, api, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "swagger is disabled outside development")
}

func TestUserRoutes(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "Joe", "Smith", joe)

	rr := call(t, api, http.MethodGet, "/api/users", "", &joe)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"firstName":"Joe","lastName":"Smith","emailAddress":"joe@smith.com"}`, rr.Body.String())

	rr = call(t, api, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Access Denied","code":"access_denied"}`, rr.Body.String())

	rr = call(t, api, http.MethodPost, "/api/users",
		`{"firstName":"Joe","lastName":"Smith","emailAddress":"joe@smith.com","password":"other"}`, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = call(t, api, http.MethodPost, "/api/users",
		`{"firstName":"Joe","lastName":"Smith","emailAddress":"not-an-email","password":"other"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCourseRoutes(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "Joe", "Smith", joe)
	register(t, api, "Sally", "Jones", sally)

	const bookcase = `{"title":"Build a Basic Bookcase","description":"High-end furniture projects are great to dream about.","materialsNeeded":"* 1x2 common board"}`

	rr := call(t, api, http.MethodPost, "/api/courses", bookcase, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(t, api, http.MethodPost, "/api/courses", bookcase, &joe)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	location := rr.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/api/courses/"))

	rr = call(t, api, http.MethodGet, location, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got course.CourseResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Build a Basic Bookcase", got.Title)
	assert.Equal(t, "* 1x2 common board", *got.MaterialsNeeded)
	assert.Nil(t, got.EstimatedTime)
	require.NotNil(t, got.User)
	assert.Equal(t, "Joe", got.User.FirstName)
	assert.Equal(t, "Smith", got.User.LastName)

	rr = call(t, api, http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []course.CourseResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, got.ID, list[0].ID)

	update := `{"title":"Build a Better Bookcase","description":"Shelves included."}`

	rr = call(t, api, http.MethodPut, location, update, &sally)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Existence and ownership are checked before the body is read.
	rr = call(t, api, http.MethodPut, location, `{"title":`, &sally)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), httputil.CodeNotCourseOwner)

	rr = call(t, api, http.MethodPut, "/api/courses/7f9c2a4e-5b1d-4c3e-9a8f-0e6d2b1c4a57", `{"title":`, &joe)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = call(t, api, http.MethodPut, location, `{"title":`, &joe)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, api, http.MethodDelete, location, "", &sally)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(t, api, http.MethodPut, location, update, &joe)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = call(t, api, http.MethodDelete, location, "", &joe)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = call(t, api, http.MethodGet, location, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRepeatedAuthFailuresAreRateLimited(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "Joe", "Smith", joe)

	wrong := credentials{joe.email, "wrong"}
	for i := 0; i < 3; i++ {
		rr := call(t, api, http.MethodGet, "/api/users", "", &wrong)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := call(t, api, http.MethodGet, "/api/users", "", &joe)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestForwardedHeadersFromUntrustedPeerAreIgnored(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "Joe", "Smith", joe)

	wrong := credentials{joe.email, "wrong"}
	for i := 0; i < 3; i++ {
		rr := callWithHeaders(t, api, http.MethodGet, "/api/users", "", &wrong, map[string]string{
			"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1),
			"X-Real-IP":       fmt.Sprintf("198.51.100.%d", i+1),
		})
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := callWithHeaders(t, api, http.MethodGet, "/api/users", "", &wrong, map[string]string{
		"X-Forwarded-For": "203.0.113.99",
	})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestTrustedProxyClientsAreLimitedSeparately(t *testing.T) {
	api := newTestAPI(t, "192.0.2.0/24")
	register(t, api, "Joe", "Smith", joe)

	wrong := credentials{joe.email, "wrong"}
	first := map[string]string{"X-Forwarded-For": "203.0.113.7"}
	for i := 0; i < 3; i++ {
		rr := callWithHeaders(t, api, http.MethodGet, "/api/users", "", &wrong, first)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := callWithHeaders(t, api, http.MethodGet, "/api/users", "", &joe, first)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// A client prepending its own hop cannot escape: the rightmost untrusted hop counts.
	rr = callWithHeaders(t, api, http.MethodGet, "/api/users", "", &joe, map[string]string{
		"X-Forwarded-For": "10.9.9.9, 203.0.113.7",
	})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = callWithHeaders(t, api, http.MethodGet, "/api/users", "", &joe, map[string]string{
		"X-Forwarded-For": "203.0.113.8",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestNewRouterRejectsInvalidTrustedProxy(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Env: "prod", TrustedProxies: []string{"not-an-ip"}}}
	_, err := NewRouter(cfg, Handlers{}, logging.Discard())
	assert.Error(t, err)
}
