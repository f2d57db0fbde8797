package integration

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"pix-link-gateway/config"
	"pix-link-gateway/internal/adapter/gateway/fusionpay"
	httpHandler "pix-link-gateway/internal/adapter/http/handler"
	redisStorage "pix-link-gateway/internal/adapter/storage/redis"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/internal/service"
	"pix-link-gateway/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPayCode = "00020126580014BR.GOV.BCB.PIX0136test-key-0001"

// fakeGateway stands in for the upstream FusionPay API and records what it
// was sent.
type fakeGateway struct {
	server *httptest.Server

	mu       sync.Mutex
	hits     int
	lastAuth string
	lastBody map[string]interface{}
}

func newFakeGateway() *fakeGateway {
	g := &fakeGateway{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		g.mu.Lock()
		g.hits++
		g.lastAuth = r.Header.Get("Authorization")
		g.lastBody = nil
		_ = json.Unmarshal(body, &g.lastBody)
		g.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"pix": map[string]interface{}{"qrcode": testPayCode},
		})
	}))
	return g
}

func (g *fakeGateway) hitCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hits
}

func (g *fakeGateway) last() (auth string, body map[string]interface{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastAuth, g.lastBody
}

// testApp builds the full application stack: real HTTP layer, middleware,
// services, Redis cache via miniredis, in-memory postgres repos, and the real
// FusionPay client pointed at a fake upstream.

type testApp struct {
	server  *httptest.Server
	redis   *miniredis.Miniredis
	gateway *fakeGateway
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	gw := newFakeGateway()
	gwCfg := config.GatewayConfig{
		BaseURL:   gw.server.URL,
		PublicKey: "pk_platform",
		SecretKey: "sk_platform",
		PixExpiry: 10 * time.Minute,
		ItemTitle: "Pagamento",
		Timeout:   5 * time.Second,
	}

	log := logger.New("debug", false)

	// In-memory repos
	vendorRepo := newInMemoryVendorRepo()
	linkRepo := newInMemoryLinkRepo()
	credRepo := newInMemoryCredentialRepo()

	// Core services with real implementations
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 24*time.Hour, "test-issuer")
	codeGen := service.NewShortCodeGenerator(linkRepo)
	linkCache := redisStorage.NewLinkCache(rdb)

	// Business services
	authSvc := service.NewAuthService(vendorRepo, hashSvc, tokenSvc)
	linkSvc := service.NewLinkService(linkRepo, codeGen, linkCache, log)
	credSvc := service.NewCredentialService(credRepo)
	resolver := service.NewRoutingResolver(linkRepo, credRepo, gwCfg.PublicKey, gwCfg.SecretKey, log)
	gateway := fusionpay.NewClient(gwCfg, nil, log)
	tracker := service.NewMemoryTracker(log)
	checkoutSvc := service.NewCheckoutService(linkSvc, resolver, gateway, tracker, gwCfg, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		LinkSvc:        linkSvc,
		CheckoutSvc:    checkoutSvc,
		CredentialSvc:  credSvc,
		Tracker:        tracker,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		PublicURL:      "http://localhost:8080",
		Logger:         log,
	})

	return &testApp{
		server:  httptest.NewServer(router),
		redis:   mr,
		gateway: gw,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.gateway.server.Close()
	a.redis.Close()
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	regBody, _ := json.Marshal(map[string]string{
		"username":    "vendor1",
		"password":    "StrongPass123!",
		"vendor_name": "Loja Teste",
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	data := decodeData(t, resp.Body)
	assert.NotEmpty(t, data["vendor_id"])
	assert.Equal(t, "vendor1", data["username"])

	token := loginAndGetToken(t, app, "vendor1", "StrongPass123!")
	assert.NotEmpty(t, token)
}

func TestIntegration_DuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	regBody, _ := json.Marshal(map[string]string{
		"username":    "vendor1",
		"password":    "StrongPass123!",
		"vendor_name": "Loja Teste",
	})

	resp, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp2, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
}

func TestIntegration_VendorChargeEndToEnd(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token := registerAndLogin(t, app, "loja-da-maria")

	// Vendor configures their own gateway pair
	putCredentials(t, app, token, "pk_vendor", "sk_vendor")

	// Vendor mints a link for R$ 150.00
	code := createLink(t, app, token, "150.00", "Taxa de entrega")

	// Payer previews the link; display only, counter untouched
	respPrev, err := http.Get(app.server.URL + "/pagar/" + code)
	require.NoError(t, err)
	respPrev.Body.Close()
	assert.Equal(t, http.StatusOK, respPrev.StatusCode)

	// Payer generates the PIX charge
	chargeData := createCharge(t, app, "/pagar/"+code+"/pix", nil)
	assert.Equal(t, testPayCode, chargeData["pay_code"])
	assert.Equal(t, float64(15000), chargeData["amount_minor_units"])
	assert.NotEmpty(t, chargeData["qr_code_png"])

	// The upstream saw the link's amount and the vendor's key pair
	auth, body := app.gateway.last()
	assert.Equal(t, 1, app.gateway.hitCount())
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("sk_vendor:pk_vendor")), auth)
	assert.Equal(t, float64(15000), body["amount"])

	// Countdown is live
	instID := chargeData["instrument_id"].(string)
	respStatus, err := http.Get(app.server.URL + "/api/v1/pix/" + instID)
	require.NoError(t, err)
	defer respStatus.Body.Close()
	assert.Equal(t, http.StatusOK, respStatus.StatusCode)
	statusData := decodeData(t, respStatus.Body)
	assert.Equal(t, "ACTIVE", statusData["state"])
	assert.Greater(t, statusData["remaining"].(float64), float64(0))

	// Charge generation moved the access counter; the preview did not
	links := listLinks(t, app, token)
	require.Len(t, links, 1)
	assert.Equal(t, float64(1), links[0]["access_count"])
}

func TestIntegration_UnknownLink_GatewayNeverCalled(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp := postCharge(t, app, "/pagar/DEAD99/pix")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	bodyBytes, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(bodyBytes), "LNK_001")
	assert.Equal(t, 0, app.gateway.hitCount())
}

func TestIntegration_VendorWithoutCredentials(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token := registerAndLogin(t, app, "loja-sem-chaves")
	code := createLink(t, app, token, "99.90", "")

	resp := postCharge(t, app, "/pagar/"+code+"/pix")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	bodyBytes, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(bodyBytes), "CFG_001")
	// The generic envelope must not reveal the vendor's configuration state
	assert.NotContains(t, string(bodyBytes), "vendor")
	assert.Equal(t, 0, app.gateway.hitCount())
}

func TestIntegration_PlatformCharge(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	amount := "25.50"
	chargeData := createCharge(t, app, "/api/v1/pix", &amount)
	assert.Equal(t, float64(2550), chargeData["amount_minor_units"])

	auth, body := app.gateway.last()
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("sk_platform:pk_platform")), auth)
	assert.Equal(t, float64(2550), body["amount"])
}

func TestIntegration_DeactivatedLinkRejectsCharges(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token := registerAndLogin(t, app, "loja-fechada")
	putCredentials(t, app, token, "pk_vendor", "sk_vendor")
	code := createLink(t, app, token, "10.00", "")

	req, _ := http.NewRequest(http.MethodDelete, app.server.URL+"/api/v1/links/"+code, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	respDel, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	respDel.Body.Close()
	require.Equal(t, http.StatusOK, respDel.StatusCode)

	resp := postCharge(t, app, "/pagar/"+code+"/pix")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, app.gateway.hitCount())
}

func TestIntegration_JWT_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/links", nil)
	// No Authorization header
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// --- Helpers ---

func decodeData(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", resp)
	return data
}

func registerAndLogin(t *testing.T, app *testApp, username string) string {
	t.Helper()
	regBody, _ := json.Marshal(map[string]string{
		"username":    username,
		"password":    "StrongPass123!",
		"vendor_name": "Test Vendor",
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return loginAndGetToken(t, app, username, "StrongPass123!")
}

func loginAndGetToken(t *testing.T, app *testApp, username, password string) string {
	t.Helper()
	loginBody, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return decodeData(t, resp.Body)["token"].(string)
}

func putCredentials(t *testing.T, app *testApp, token, publicKey, secretKey string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"public_key": publicKey,
		"secret_key": secretKey,
	})
	req, _ := http.NewRequest(http.MethodPut, app.server.URL+"/api/v1/credentials", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func createLink(t *testing.T, app *testApp, token, amount, description string) string {
	t.Helper()
	payload := map[string]string{"amount": amount}
	if description != "" {
		payload["description"] = description
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := decodeData(t, resp.Body)
	code := data["code"].(string)
	require.Len(t, code, 6)
	return code
}

func listLinks(t *testing.T, app *testApp, token string) []map[string]interface{} {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	items, ok := envelope["data"].([]interface{})
	require.True(t, ok, "response has no data array: %v", envelope)

	result := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		result = append(result, item.(map[string]interface{}))
	}
	return result
}

func chargeBody(t *testing.T, amount *string) *bytes.Reader {
	t.Helper()
	payload := map[string]string{
		"customer_name":  "Maria Silva",
		"customer_email": "maria@example.com",
		"customer_cpf":   "123.456.789-09",
	}
	if amount != nil {
		payload["amount"] = *amount
	}
	body, _ := json.Marshal(payload)
	return bytes.NewReader(body)
}

func postCharge(t *testing.T, app *testApp, path string) *http.Response {
	t.Helper()
	resp, err := http.Post(app.server.URL+path, "application/json", chargeBody(t, nil))
	require.NoError(t, err)
	return resp
}

func createCharge(t *testing.T, app *testApp, path string, amount *string) map[string]interface{} {
	t.Helper()
	resp, err := http.Post(app.server.URL+path, "application/json", chargeBody(t, amount))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeData(t, resp.Body)
}
