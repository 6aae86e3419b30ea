package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/textcompare/internal/api"
	"github.com/mcoot/textcompare/internal/api/apierr"
	"github.com/mcoot/textcompare/internal/api/response"
	"github.com/mcoot/textcompare/internal/factory"
	"github.com/mcoot/textcompare/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		CompareGateway: app.CompareGateway,
		RefillService:  app.RefillService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// statusCode decodes the embedded "Status code" field
func statusCode(t *testing.T, rr *httptest.ResponseRecorder) int {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, "transport status is always 200")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	code, ok := body["Status code"].(float64)
	require.True(t, ok, "missing Status code in %s", rr.Body.String())
	return int(code)
}

func (ts *testServer) signup(t *testing.T, username, password string) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/signup", map[string]string{"Username": username, "Password": password})
	require.Equal(t, apierr.CodeOK, statusCode(t, rr))
}

func compareBody(username, password string) map[string]string {
	return map[string]string{
		"Username": username,
		"Password": password,
		"Text1":    "The quick brown fox",
		"Text2":    "The quick brown dog",
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		rr := ts.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ok")
	}
}

// Signup

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/signup", map[string]string{"Username": "alice", "Password": "pw1"})
	require.Equal(t, apierr.CodeOK, statusCode(t, rr))

	var resp response.SignupResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Your registration was successful.", resp.Message)
	assert.NotContains(t, rr.Body.String(), "pw1")
}

func TestSignupMissingInput(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []any{
		map[string]string{"Username": "alice"},
		map[string]string{"Password": "pw1"},
		map[string]string{"Username": "", "Password": "pw1"},
		"not json",
	} {
		rr := ts.request(http.MethodPost, "/signup", body)
		assert.Equal(t, apierr.CodeMissingInput, statusCode(t, rr))
	}
}

func TestSignupDuplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/signup", map[string]string{"Username": "alice", "Password": "pw2"})
	assert.Equal(t, apierr.CodeUsernameTaken, statusCode(t, rr))

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "An error happened.", resp.Message)
	assert.Equal(t, "Username is already taken.", resp.Error)
}

func TestSignupCannotClaimAdmin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/signup", map[string]string{"Username": "admin", "Password": "mine"})
	assert.Equal(t, apierr.CodeUsernameTaken, statusCode(t, rr))
}

// Compare

func TestCompare(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")
	ts.app.MockScorer.Value = 0.9

	rr := ts.request(http.MethodPost, "/compare", compareBody("alice", "pw1"))
	require.Equal(t, apierr.CodeOK, statusCode(t, rr))

	var resp response.CompareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Similarity successfully calculated.", resp.Message)
	assert.Equal(t, 0.9, resp.Similarity)
	assert.Equal(t, 9, resp.TokensRemaining)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Contains(t, raw, "Similarity value")
	assert.Contains(t, raw, "Tokens remaining")
}

func TestCompareErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/compare", map[string]string{"Username": "alice", "Password": "pw1", "Text1": "x"})
	assert.Equal(t, apierr.CodeMissingInput, statusCode(t, rr))

	rr = ts.request(http.MethodPost, "/compare", compareBody("bob", "pw1"))
	assert.Equal(t, apierr.CodeUnknownUsername, statusCode(t, rr))

	rr = ts.request(http.MethodPost, "/compare", compareBody("alice", "wrong"))
	assert.Equal(t, apierr.CodeWrongPassword, statusCode(t, rr))

	assert.Equal(t, 0, ts.app.MockScorer.Calls)
}

func TestCompareInsufficientTokens(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")

	for i := 0; i < 10; i++ {
		rr := ts.request(http.MethodPost, "/compare", compareBody("alice", "pw1"))
		require.Equal(t, apierr.CodeOK, statusCode(t, rr))
	}

	rr := ts.request(http.MethodPost, "/compare", compareBody("alice", "pw1"))
	assert.Equal(t, apierr.CodeInsufficientTokens, statusCode(t, rr))
}

func TestCompareScorerFailureIsInternalAndRefunded(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")
	ts.app.MockScorer.Err = errors.New("model offline")

	rr := ts.request(http.MethodPost, "/compare", compareBody("alice", "pw1"))
	assert.Equal(t, apierr.CodeInternalError, statusCode(t, rr))
	assert.NotContains(t, rr.Body.String(), "model offline")

	balance, err := ts.app.Ledger.Balance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
}

func TestConcurrentComparesOnLastToken(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")
	for i := 0; i < 9; i++ {
		_ = ts.request(http.MethodPost, "/compare", compareBody("alice", "pw1"))
	}

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = statusCode(t, ts.request(http.MethodPost, "/compare", compareBody("alice", "pw1")))
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{apierr.CodeOK, apierr.CodeInsufficientTokens}, codes)
}

// Refill

func TestRefill(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/refill", map[string]any{
		"Username": "alice", "Password": factory.TestAdminPassword, "RefillAmount": 5,
	})
	require.Equal(t, apierr.CodeOK, statusCode(t, rr))

	var resp response.RefillResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Tokens successfully refilled.", resp.Message)
	assert.Equal(t, 15, resp.CurrentTokens)
}

func TestRefillErrors(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")

	tests := []struct {
		name string
		body any
		code int
	}{
		{"missing amount", map[string]any{"Username": "alice", "Password": factory.TestAdminPassword}, apierr.CodeMissingInput},
		{"missing password", map[string]any{"Username": "alice", "RefillAmount": 5}, apierr.CodeMissingInput},
		{"zero amount", map[string]any{"Username": "alice", "Password": factory.TestAdminPassword, "RefillAmount": 0}, apierr.CodeInvalidAmount},
		{"negative amount", map[string]any{"Username": "alice", "Password": factory.TestAdminPassword, "RefillAmount": -3}, apierr.CodeInvalidAmount},
		{"fractional amount", `{"Username":"alice","Password":"admin-secret","RefillAmount":2.5}`, apierr.CodeInvalidAmount},
		{"amount past int64", `{"Username":"alice","Password":"admin-secret","RefillAmount":9223372036854775807}`, apierr.CodeInvalidAmount},
		{"amount past ceiling", `{"Username":"alice","Password":"admin-secret","RefillAmount":2147483648}`, apierr.CodeInvalidAmount},
		{"balance past ceiling", `{"Username":"alice","Password":"admin-secret","RefillAmount":2147483647}`, apierr.CodeInvalidAmount},
		{"unknown user", map[string]any{"Username": "bob", "Password": factory.TestAdminPassword, "RefillAmount": 5}, apierr.CodeUnknownUsername},
		{"target's own password", map[string]any{"Username": "alice", "Password": "pw1", "RefillAmount": 5}, apierr.CodeWrongAdminPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/refill", tt.body)
			assert.Equal(t, tt.code, statusCode(t, rr))
		})
	}

	balance, err := ts.app.Ledger.Balance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
}

func TestRefillHugeAmountKeepsAccountUsable(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice", "pw1")

	rr := ts.request(http.MethodPost, "/refill",
		`{"Username":"alice","Password":"admin-secret","RefillAmount":9223372036854775807}`)
	assert.Equal(t, apierr.CodeInvalidAmount, statusCode(t, rr))

	rr = ts.request(http.MethodPost, "/compare", compareBody("alice", "pw1"))
	require.Equal(t, apierr.CodeOK, statusCode(t, rr))

	var resp response.CompareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 9, resp.TokensRemaining)
}

func TestRefillUnknownUserMessage(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/refill", map[string]any{
		"Username": "bob", "Password": factory.TestAdminPassword, "RefillAmount": 5,
	})

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Username not present in database. Check spelling.", resp.Error)
}

// Full flow over the versioned prefix

func TestVersionedScenario(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/signup", map[string]string{"Username": "alice", "Password": "pw1"})
	require.Equal(t, apierr.CodeOK, statusCode(t, rr))

	for _, expected := range []int{9, 8} {
		rr = ts.request(http.MethodPost, "/api/v1/compare", compareBody("alice", "pw1"))
		var resp response.CompareResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, expected, resp.TokensRemaining)
	}

	rr = ts.request(http.MethodPost, "/api/v1/compare", compareBody("alice", "nope"))
	assert.Equal(t, apierr.CodeWrongPassword, statusCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/refill", map[string]any{
		"Username": "alice", "Password": factory.TestAdminPassword, "RefillAmount": 5,
	})
	var refillResp response.RefillResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refillResp))
	assert.Equal(t, 13, refillResp.CurrentTokens)

	rr = ts.request(http.MethodPost, "/api/v1/refill", map[string]any{
		"Username": "alice", "Password": "pw1", "RefillAmount": 5,
	})
	assert.Equal(t, apierr.CodeWrongAdminPassword, statusCode(t, rr))
}

func TestWrongMethod(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/signup", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestPasswordsNeverLogged(t *testing.T) {
	app := factory.NewTestApp()
	logger, logs := testutil.CaptureLogger()
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		CompareGateway: app.CompareGateway,
		RefillService:  app.RefillService,
	})
	ts := &testServer{handler: router, app: app}

	ts.signup(t, "alice", "s3cret-pw")
	_ = ts.request(http.MethodPost, "/compare", compareBody("alice", "s3cret-pw"))
	_ = ts.request(http.MethodPost, "/compare", compareBody("alice", "wrong-s3cret"))
	_ = ts.request(http.MethodPost, "/refill", map[string]any{
		"Username": "alice", "Password": factory.TestAdminPassword, "RefillAmount": 1,
	})

	out := logs.String()
	assert.Contains(t, out, `"path":"/signup"`)
	assert.NotContains(t, out, "s3cret-pw")
	assert.NotContains(t, out, "wrong-s3cret")
	assert.NotContains(t, out, factory.TestAdminPassword)
}

func TestResponsesCarryRequestID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/signup", map[string]string{"Username": "alice", "Password": "pw1"})
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
