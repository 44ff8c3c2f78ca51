package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{})
}

func TestIngestThenRenderRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	ingestBody, err := json.Marshal(ingestRequest{
		ID:       "hamlet",
		Text:     "to be or not to be",
		Comparer: "ordinal",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/corpora", bytes.NewReader(ingestBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	renderBody, err := json.Marshal(renderRequest{N: 2, Replay: []int{1, 0, 0}})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/corpora/hamlet/render", bytes.NewReader(renderBody))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]*string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["tokens"])
}

func TestIngestGeneratesIDWhenOmitted(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	body, err := json.Marshal(ingestRequest{Text: "a b c", Comparer: "ordinal"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/corpora", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	id, ok := resp["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
}

func TestRenderUnknownCorpusReturns404(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	body, _ := json.Marshal(renderRequest{N: 1})
	req := httptest.NewRequest(http.MethodPost, "/corpora/missing/render", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngestRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/corpora", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestRejectsUnknownComparer(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	body, _ := json.Marshal(ingestRequest{ID: "x", Text: "a b c", Comparer: "nonsense"})
	req := httptest.NewRequest(http.MethodPost, "/corpora", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteEndpointsRequireAuthWhenConfigured(t *testing.T) {
	auth := NewAuthService("test-secret", time.Minute)
	srv := NewServer(Config{AuthService: auth})
	router := srv.Router()

	body, _ := json.Marshal(ingestRequest{ID: "x", Text: "a", Comparer: "ordinal"})
	req := httptest.NewRequest(http.MethodPost, "/corpora", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.IssueToken("client-1")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/corpora", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	auth := NewAuthService("test-secret", time.Minute)
	srv := NewServer(Config{AuthService: auth, AdminPassword: "hunter2"})
	router := srv.Router()

	loginBody, err := json.Marshal(loginRequest{ClientID: "client-1", Password: "hunter2"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp["token"])

	ingestBody, _ := json.Marshal(ingestRequest{ID: "x", Text: "a", Comparer: "ordinal"})
	req = httptest.NewRequest(http.MethodPost, "/corpora", bytes.NewReader(ingestBody))
	req.Header.Set("Authorization", "Bearer "+loginResp["token"])
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := NewAuthService("test-secret", time.Minute)
	srv := NewServer(Config{AuthService: auth, AdminPassword: "hunter2"})
	router := srv.Router()

	loginBody, _ := json.Marshal(loginRequest{ClientID: "client-1", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWithoutAuthServiceReturns404(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	loginBody, _ := json.Marshal(loginRequest{ClientID: "client-1", Password: "whatever"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShutdownReturnsOnceRendersDrain(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
}

func TestLoginWithoutAdminPasswordReturns501(t *testing.T) {
	auth := NewAuthService("test-secret", time.Minute)
	srv := NewServer(Config{AuthService: auth})
	router := srv.Router()

	loginBody, _ := json.Marshal(loginRequest{ClientID: "client-1", Password: "whatever"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}
