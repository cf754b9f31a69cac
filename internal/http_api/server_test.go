package http_api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xZumii/cat-tv/internal/cattv"
	"github.com/0xZumii/cat-tv/internal/config"
	"github.com/0xZumii/cat-tv/internal/mediastore"
	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/internal/repository"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

const testSecret = "test-secret"

type stubChain struct{}

func (stubChain) Enabled() bool                                 { return false }
func (stubChain) MirrorFeed(string) (string, error)             { return "", errors.New("disabled") }
func (stubChain) ClaimFromFaucet(string, int64) (string, error) { return "", errors.New("disabled") }
func (stubChain) ProcessDecayAll(int64) (string, error)         { return "", errors.New("disabled") }
func (stubChain) ContractStats() (*models.ContractStats, error) {
	return nil, errors.New("disabled")
}
func (stubChain) TokenBalance(string) (*big.Int, error) { return nil, errors.New("disabled") }

type stubProvider struct {
	configured bool

	sessionID string
	url       string

	event     *models.WebhookEvent
	verifyErr error
}

func (p *stubProvider) Configured() bool { return p.configured }

func (p *stubProvider) CreateSession(userID string, tier models.Tier, successURL, cancelURL string) (string, string, error) {
	return p.sessionID, p.url, nil
}

func (p *stubProvider) VerifyEvent(payload []byte, sigHeader string) (*models.WebhookEvent, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.event, nil
}

type testServer struct {
	srv  *HTTPServer
	repo models.Repository
}

func newTestServer(t *testing.T, cfg *config.Config, provider *stubProvider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = &config.Config{
			DailyAmount:   100,
			FeedCost:      10,
			MaxDailyFeeds: 50,
			LedgerMode:    config.LedgerModeDB,
		}
	}
	cfg.JWTSecret = testSecret
	if cfg.MediaDir == "" {
		cfg.MediaDir = t.TempDir()
	}

	repo, err := repository.NewSQLiteDB(filepath.Join(t.TempDir(), "cattv.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	if provider == nil {
		provider = &stubProvider{}
	}
	media, err := mediastore.NewStore(logger.NewNop(), cfg.MediaDir, "")
	require.NoError(t, err)

	app := cattv.NewCatTV(repo, stubChain{}, provider, nil, logger.NewNop(), cfg)
	srv := NewHTTPServer(app, provider, media, cfg, logger.NewNop()).(*HTTPServer)
	return &testServer{srv: srv, repo: repo}
}

func signToken(t *testing.T, userID, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// call posts a callable-style envelope and decodes the response body.
func (ts *testServer) call(t *testing.T, path, token string, data interface{}) (int, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{"data": data})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.srv.router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func errorStatus(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %v", body)
	status, _ := errObj["status"].(string)
	return status
}

func result(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	res, ok := body["result"].(map[string]interface{})
	require.True(t, ok, "expected result envelope, got %v", body)
	return res
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	code, body := ts.call(t, "/api/v1/getUser", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHENTICATED", errorStatus(t, body))

	// Wrong signing key is rejected the same way.
	code, body = ts.call(t, "/api/v1/getUser", signToken(t, "alice", "other-secret"), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHENTICATED", errorStatus(t, body))

	// Malformed scheme.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/getUser", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	ts.srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserCreatesRecord(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	token := signToken(t, "alice", testSecret)

	code, body := ts.call(t, "/api/v1/getUser", token, nil)
	require.Equal(t, http.StatusOK, code)
	res := result(t, body)
	assert.Equal(t, "alice", res["id"])
	assert.Equal(t, float64(0), res["balance"])
}

func TestClaimDaily(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	token := signToken(t, "alice", testSecret)

	code, body := ts.call(t, "/api/v1/claimDaily", token, nil)
	require.Equal(t, http.StatusOK, code)
	res := result(t, body)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, float64(100), res["claimed"])
	assert.Equal(t, float64(100), res["balance"])
	// Without a chain payout there is no transaction to report.
	_, hasTxHash := res["txHash"]
	assert.False(t, hasTxHash)

	code, body = ts.call(t, "/api/v1/claimDaily", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FAILED_PRECONDITION", errorStatus(t, body))
}

func TestFeedFlow(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	alice := signToken(t, "alice", testSecret)
	bob := signToken(t, "bob", testSecret)

	code, body := ts.call(t, "/api/v1/addCat", bob, map[string]interface{}{
		"name":     "Whiskers",
		"mediaUrl": "https://example.com/cat.jpg",
		"vibes":    []string{"chonk"},
	})
	require.Equal(t, http.StatusOK, code)
	catID, _ := result(t, body)["catId"].(string)
	require.NotEmpty(t, catID)

	code, _ = ts.call(t, "/api/v1/claimDaily", alice, nil)
	require.Equal(t, http.StatusOK, code)

	code, body = ts.call(t, "/api/v1/feed", alice, map[string]interface{}{"catId": catID})
	require.Equal(t, http.StatusOK, code)
	res := result(t, body)
	assert.Equal(t, float64(90), res["balance"])
	assert.Equal(t, float64(49), res["feedsRemaining"])
	assert.Contains(t, res["message"], "Whiskers")

	// Unknown cat.
	code, body = ts.call(t, "/api/v1/feed", alice, map[string]interface{}{"catId": "nope"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", errorStatus(t, body))

	// Missing cat id.
	code, body = ts.call(t, "/api/v1/feed", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_ARGUMENT", errorStatus(t, body))
}

func TestFeedDailyLimitStatus(t *testing.T) {
	cfg := &config.Config{
		DailyAmount:   100,
		FeedCost:      1,
		MaxDailyFeeds: 2,
		LedgerMode:    config.LedgerModeDB,
	}
	ts := newTestServer(t, cfg, nil)
	alice := signToken(t, "alice", testSecret)
	bob := signToken(t, "bob", testSecret)

	code, body := ts.call(t, "/api/v1/addCat", bob, map[string]interface{}{
		"name":     "Whiskers",
		"mediaUrl": "https://example.com/cat.jpg",
	})
	require.Equal(t, http.StatusOK, code)
	catID, _ := result(t, body)["catId"].(string)

	code, _ = ts.call(t, "/api/v1/claimDaily", alice, nil)
	require.Equal(t, http.StatusOK, code)

	for i := 0; i < 2; i++ {
		code, _ = ts.call(t, "/api/v1/feed", alice, map[string]interface{}{"catId": catID})
		require.Equal(t, http.StatusOK, code)
	}

	code, body = ts.call(t, "/api/v1/feed", alice, map[string]interface{}{"catId": catID})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "RESOURCE_EXHAUSTED", errorStatus(t, body))
}

func TestAddCatRejectsLongName(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	token := signToken(t, "bob", testSecret)

	code, body := ts.call(t, "/api/v1/addCat", token, map[string]interface{}{
		"name":     strings.Repeat("x", 21),
		"mediaUrl": "https://example.com/cat.jpg",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_ARGUMENT", errorStatus(t, body))
}

func TestGetCatsIsPublic(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	bob := signToken(t, "bob", testSecret)

	code, _ := ts.call(t, "/api/v1/addCat", bob, map[string]interface{}{
		"name":     "Whiskers",
		"mediaUrl": "https://example.com/cat.jpg",
	})
	require.Equal(t, http.StatusOK, code)

	code, body := ts.call(t, "/api/v1/getCats", "", nil)
	require.Equal(t, http.StatusOK, code)
	cats, ok := result(t, body)["cats"].([]interface{})
	require.True(t, ok)
	require.Len(t, cats, 1)
	cat := cats[0].(map[string]interface{})
	assert.Equal(t, "Whiskers", cat["name"])
	happiness, ok := cat["happiness"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sad", happiness["level"])
}

func TestGetPurchaseTiers(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	code, body := ts.call(t, "/api/v1/getPurchaseTiers", "", nil)
	require.Equal(t, http.StatusOK, code)
	res := result(t, body)
	tiers, ok := res["tiers"].([]interface{})
	require.True(t, ok)
	assert.Len(t, tiers, 3)
	assert.NotEmpty(t, res["disclaimer"])
}

func TestWebhookCreditsPurchase(t *testing.T) {
	provider := &stubProvider{
		configured: true,
		sessionID:  "cs_123",
		url:        "https://pay.example.com/cs_123",
		event: &models.WebhookEvent{
			Type:      "checkout.session.completed",
			SessionID: "cs_123",
			PaymentID: "pi_1",
		},
	}
	ts := newTestServer(t, nil, provider)
	alice := signToken(t, "alice", testSecret)

	code, body := ts.call(t, "/api/v1/createCheckoutSession", alice, map[string]interface{}{"tierId": "tier1"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cs_123", result(t, body)["sessionId"])

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stripeWebhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	w := httptest.NewRecorder()
	ts.srv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)

	user, err := ts.repo.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Balance)

	// Redelivery is acknowledged without crediting again.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/stripeWebhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	ts.srv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	user, err = ts.repo.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Balance)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	provider := &stubProvider{configured: true, verifyErr: errors.New("signature mismatch")}
	ts := newTestServer(t, nil, provider)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stripeWebhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	w := httptest.NewRecorder()
	ts.srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
}

func TestUploadMedia(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	token := signToken(t, "bob", testSecret)

	encoded := base64.StdEncoding.EncodeToString([]byte("not-really-a-png"))
	code, body := ts.call(t, "/api/v1/uploadMedia", token, map[string]interface{}{
		"data":        encoded,
		"contentType": "image/png",
	})
	require.Equal(t, http.StatusOK, code)
	res := result(t, body)
	url, _ := res["mediaUrl"].(string)
	assert.Contains(t, url, "/media/")
	assert.True(t, strings.HasSuffix(url, ".png"), "got %s", url)
	assert.Equal(t, "image", res["mediaType"])

	code, body = ts.call(t, "/api/v1/uploadMedia", token, map[string]interface{}{
		"data":        encoded,
		"contentType": "audio/mpeg",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_ARGUMENT", errorStatus(t, body))
}

func TestContractEndpointsDisabled(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	token := signToken(t, "alice", testSecret)

	code, body := ts.call(t, "/api/v1/getContractStats", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FAILED_PRECONDITION", errorStatus(t, body))

	code, body = ts.call(t, "/api/v1/triggerDecay", token, map[string]interface{}{"maxCats": 10})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FAILED_PRECONDITION", errorStatus(t, body))

	code, body = ts.call(t, "/api/v1/getTokenBalance", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FAILED_PRECONDITION", errorStatus(t, body))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	ts.srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/getCats", nil)
	w := httptest.NewRecorder()
	ts.srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
