package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/reluguard-site/internal/config"
	"github.com/wolfman30/reluguard-site/internal/notify"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		GenerateProvider:    "openai",
		OpenAIModel:         "gpt-4o-mini",
		MaxChars:            12000,
		NotifyProvider:      "resend",
		LeadNotifyFrom:      "onboarding@resend.dev",
		LeadRateLimitMax:    8,
		LeadRateLimitWindow: time.Minute,
		LeadMaxBodyBytes:    20000,
		CORSAllowedOrigins:  []string{"*"},
		MetricsEnabled:      true,
		AWSRegion:           "us-east-1",
	}
}

func quietLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func buildSite(t *testing.T, cfg *appconfig.Config) *Site {
	t.Helper()
	site, err := BuildSite(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = site.Close() })
	return site
}

func do(site *Site, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:4242"
	rec := httptest.NewRecorder()
	site.Handler.ServeHTTP(rec, req)
	return rec
}

func TestBuildSite_HealthAndMetrics(t *testing.T) {
	site := buildSite(t, testConfig())

	rec := do(site, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(site, http.MethodPost, "/api/lead", `{"email":"nope"}`)

	rec = do(site, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `reluguard_lead_submissions_total{outcome="missing_required_field"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestBuildSite_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	site := buildSite(t, cfg)

	rec := do(site, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildSite_LeadDeliveredThroughResend(t *testing.T) {
	var sent atomic.Int32
	var payload map[string]any
	resend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent.Add(1)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer resend.Close()

	cfg := testConfig()
	cfg.ResendAPIKey = "re_test"
	cfg.ResendBaseURL = resend.URL
	cfg.LeadNotifyTo = "sales@reluguard.test"
	site := buildSite(t, cfg)

	rec := do(site, http.MethodPost, "/api/lead", `{"email":"cio@acme.test","orgName":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, int32(1), sent.Load())
	assert.Equal(t, "ReluGuard lead - cio@acme.test (Acme)", payload["subject"])
	assert.Equal(t, []any{"sales@reluguard.test"}, payload["to"])
}

func TestBuildSite_RedisBackedLeadLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()
	cfg.LeadRateLimitMax = 1
	site := buildSite(t, cfg)
	require.NotNil(t, site.Redis)

	first := do(site, http.MethodPost, "/api/lead", `{"email":"a@b.co"}`)
	second := do(site, http.MethodPost, "/api/lead", `{"email":"a@b.co"}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, mr.Keys())
}

func TestBuildSite_UnreachableRedisFallsBackToMemory(t *testing.T) {
	cfg := testConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	site := buildSite(t, cfg)

	assert.Nil(t, site.Redis)
	rec := do(site, http.MethodPost, "/api/lead", `{"email":"a@b.co"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildSite_GenerateWithoutKey(t *testing.T) {
	site := buildSite(t, testConfig())

	rec := do(site, http.MethodPost, "/api/generate", `{"text":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Server missing OPENAI_API_KEY"}`, rec.Body.String())
}

func TestBuildSite_GenerateThroughOpenAI(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"# AI Acceptable Use Policy"}]}]}`))
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.OpenAIAPIKey = "sk-test"
	cfg.OpenAIBaseURL = upstream.URL + "/v1"
	site := buildSite(t, cfg)

	text := strings.Repeat("We use copilots for customer support. ", 3)
	raw, _ := json.Marshal(map[string]string{"text": text})
	rec := do(site, http.MethodPost, "/api/generate", string(raw))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"output":"# AI Acceptable Use Policy"}`, rec.Body.String())
}

func TestBuildSite_UnknownProviders(t *testing.T) {
	cfg := testConfig()
	cfg.NotifyProvider = "pigeon"
	_, err := BuildSite(context.Background(), cfg, quietLogger())
	assert.ErrorContains(t, err, "NOTIFY_PROVIDER")

	cfg = testConfig()
	cfg.GenerateProvider = "oracle"
	_, err = BuildSite(context.Background(), cfg, quietLogger())
	assert.ErrorContains(t, err, "GENERATE_PROVIDER")
}

func TestBuildEmailSender(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	sender, err := BuildEmailSender(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, sender, "resend without a key must be a nil interface")

	cfg.NotifyProvider = "sendgrid"
	sender, err = BuildEmailSender(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, sender)

	cfg.SendGridAPIKey = "SG.test"
	sender, err = BuildEmailSender(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.SendGridSender{}, sender)

	cfg.NotifyProvider = "log"
	sender, err = BuildEmailSender(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.LogSender{}, sender)

	cfg.NotifyProvider = "ses"
	cfg.AWSAccessKeyID = "test"
	cfg.AWSSecretAccessKey = "test"
	cfg.AWSEndpointOverride = "http://localhost:4566"
	sender, err = BuildEmailSender(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.SESSender{}, sender)
}

func TestBuildCompleter(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	completer, credential, err := BuildCompleter(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, completer)
	assert.Equal(t, "OPENAI_API_KEY", credential)

	cfg.GenerateProvider = "bedrock"
	completer, credential, err = BuildCompleter(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, completer)
	assert.Equal(t, "BEDROCK_MODEL_ID", credential)

	cfg.BedrockModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	cfg.AWSAccessKeyID = "test"
	cfg.AWSSecretAccessKey = "test"
	completer, _, err = BuildCompleter(ctx, cfg, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, completer)
	assert.Equal(t, "Bedrock", completer.Provider())

	cfg.GenerateProvider = "gemini"
	completer, credential, err = BuildCompleter(ctx, cfg, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, completer)
	assert.Equal(t, "GEMINI_API_KEY", credential)
}
