package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/nerv/internal/auth"
	"github.com/vaughan-dsouza/nerv/internal/db"
	"github.com/vaughan-dsouza/nerv/internal/logging"
	"github.com/vaughan-dsouza/nerv/internal/middleware"
	"github.com/vaughan-dsouza/nerv/internal/models"
	"github.com/vaughan-dsouza/nerv/internal/store"
)

type testAPI struct {
	http.Handler
	conn *sqlx.DB
}

func newTestAPI(t *testing.T, rateLimit int) *testAPI {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Connect(ctx, ":memory:", db.PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	log := logging.Discard()
	require.NoError(t, db.Migrate(ctx, conn, log))

	passwords, err := auth.NewPasswords(4)
	require.NoError(t, err)
	tokens, err := auth.NewTokens("handler-test-secret", "nerv-test", time.Hour)
	require.NoError(t, err)

	h := NewHandler(store.New(conn), conn, passwords, tokens, log)
	router := NewRouter(h, middleware.Auth(tokens, log), RouterOptions{
		Log:            log,
		AllowedOrigins: []string{"http://localhost:5173"},
		AuthRateLimit:  rateLimit,
	})
	return &testAPI{Handler: router, conn: conn}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) signUp(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp tokenResp
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, 100)

	rec := api.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResp
	decode(t, rec, &resp)
	assert.Equal(t, "UP", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestSignUpAndLogin(t *testing.T) {
	api := newTestAPI(t, 100)

	rec := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "  Alice@Example.com ", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var signed tokenResp
	decode(t, rec, &signed)
	assert.NotEmpty(t, signed.Token)
	assert.Equal(t, "alice@example.com", signed.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(t, http.MethodGet, "/api/auth/me", signed.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var signedMe models.User
	decode(t, rec, &signedMe)
	assert.Equal(t, signed.User.ID, signedMe.ID)
	assert.Equal(t, "alice@example.com", signedMe.Email)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ALICE@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var logged tokenResp
	decode(t, rec, &logged)
	assert.NotEmpty(t, logged.Token)
	assert.Equal(t, signed.User.ID, logged.User.ID)

	rec = api.do(t, http.MethodGet, "/api/auth/me", logged.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	decode(t, rec, &me)
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestSignUpValidation(t *testing.T) {
	api := newTestAPI(t, 100)

	for name, body := range map[string]any{
		"bad email":      map[string]string{"email": "not-an-email", "password": "secret123"},
		"short password": map[string]string{"email": "a@example.com", "password": "123"},
		"missing fields": map[string]string{},
		"malformed json": `{"email":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/auth/signup", "", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestSignUpPasswordByteLimit(t *testing.T) {
	api := newTestAPI(t, 100)

	// 40 runes, 80 bytes.
	rec := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "multi@example.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"password must be at most 72 bytes"}`, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "multi@example.com", "password": strings.Repeat("é", 36),
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	api := newTestAPI(t, 100)
	api.signUp(t, "dup@example.com")

	rec := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "DUP@example.com", "password": "another1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGateRejections(t *testing.T) {
	api := newTestAPI(t, 100)

	rec := api.do(t, http.MethodGet, "/api/courses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/courses", "garbage.token.value", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCoursesAreOwnerScoped(t *testing.T) {
	api := newTestAPI(t, 100)
	alice := api.signUp(t, "alice@example.com")
	bob := api.signUp(t, "bob@example.com")

	rec := api.do(t, http.MethodPost, "/api/courses", alice, map[string]string{"title": "Linear Algebra"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var course models.Course
	decode(t, rec, &course)
	assert.Equal(t, "Linear Algebra", course.Title)

	rec = api.do(t, http.MethodGet, "/api/courses", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	path := "/api/courses/" + course.ID
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPut, path, bob, map[string]string{"title": "Hijacked"}).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, path, bob, nil).Code)

	rec = api.do(t, http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &course)
	assert.Equal(t, "Linear Algebra", course.Title)

	rec = api.do(t, http.MethodPatch, path, alice, map[string]string{"title": "Linear Algebra II"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &course)
	assert.Equal(t, "Linear Algebra II", course.Title)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, path, alice, nil).Code)
}

func TestCourseValidation(t *testing.T) {
	api := newTestAPI(t, 100)
	token := api.signUp(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/api/courses", token, map[string]string{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")

	rec = api.do(t, http.MethodPost, "/api/courses", token, map[string]string{"title": "Physics"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var course models.Course
	decode(t, rec, &course)

	rec = api.do(t, http.MethodPut, "/api/courses/"+course.ID, token, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignmentCreateRequiresDueDate(t *testing.T) {
	api := newTestAPI(t, 100)
	token := api.signUp(t, "alice@example.com")

	for name, body := range map[string]map[string]string{
		"missing due date": {"title": "Essay"},
		"bad due date":     {"title": "Essay", "dueDate": "next tuesday"},
		"bad status":       {"title": "Essay", "dueDate": "2025-03-01", "status": "done"},
		"missing title":    {"dueDate": "2025-03-01"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/assignments", token, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := api.do(t, http.MethodGet, "/api/assignments", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAssignmentLifecycle(t *testing.T) {
	api := newTestAPI(t, 100)
	token := api.signUp(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/api/assignments", token, map[string]string{
		"title":       "Problem Set 1",
		"dueDate":     "2025-03-01",
		"courseTitle": "Calculus",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var a models.Assignment
	decode(t, rec, &a)
	assert.Equal(t, models.StatusPending, a.Status)
	assert.True(t, a.DueDate.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, a.CourseTitle)
	assert.Equal(t, "Calculus", *a.CourseTitle)

	path := "/api/assignments/" + a.ID
	rec = api.do(t, http.MethodPatch, path, token, map[string]string{"status": "in-progress"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &a)
	assert.Equal(t, models.StatusInProgress, a.Status)
	assert.Equal(t, "Problem Set 1", a.Title)

	rec = api.do(t, http.MethodPut, path, token, map[string]string{"dueDate": "2025-03-05T17:00:00Z"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &a)
	assert.True(t, a.DueDate.Equal(time.Date(2025, 3, 5, 17, 0, 0, 0, time.UTC)))

	rec = api.do(t, http.MethodPatch, path, token, map[string]string{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, path, token, nil).Code)
}

func TestNotesLifecycle(t *testing.T) {
	api := newTestAPI(t, 100)
	alice := api.signUp(t, "alice@example.com")
	bob := api.signUp(t, "bob@example.com")

	rec := api.do(t, http.MethodPost, "/api/notes", alice, map[string]string{
		"title": "Lecture 1", "content": "Limits", "link": "not a url",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/notes", alice, map[string]string{
		"title": "Lecture 1", "content": "Limits", "course": "Calculus", "link": "https://example.com/l1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var n models.Note
	decode(t, rec, &n)
	require.NotNil(t, n.Link)
	assert.Equal(t, "https://example.com/l1", *n.Link)

	path := "/api/notes/" + n.ID
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPatch, path, bob, map[string]string{"content": "x"}).Code)

	rec = api.do(t, http.MethodPatch, path, alice, map[string]string{"content": "Limits and continuity", "link": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &n)
	assert.Equal(t, "Limits and continuity", n.Content)
	assert.Nil(t, n.Link)

	rec = api.do(t, http.MethodGet, "/api/notes", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []models.Note
	decode(t, rec, &notes)
	assert.Len(t, notes, 1)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, path, alice, nil).Code)
}

func TestStoreFailureIsInternalError(t *testing.T) {
	api := newTestAPI(t, 100)
	token := api.signUp(t, "alice@example.com")
	require.NoError(t, api.conn.Close())

	rec := api.do(t, http.MethodGet, "/api/courses", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	api := newTestAPI(t, 2)
	body := map[string]string{"email": "nobody@example.com", "password": "secret123"}

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, api.do(t, http.MethodPost, "/api/auth/login", "", body).Code)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t, 100)

	rec := api.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
