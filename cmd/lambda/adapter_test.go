package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/wolfman30/reluguard-site/internal/app/bootstrap"
	appconfig "github.com/wolfman30/reluguard-site/internal/config"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

func event(method, path, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		Body:    body,
		Headers: map[string]string{"content-type": "application/json"},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: "reluguard.example",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:   method,
				Path:     path,
				SourceIP: "198.51.100.9",
			},
		},
	}
}

func TestHandleReplaysRequest(t *testing.T) {
	var got *http.Request
	var gotBody string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		http.SetCookie(w, &http.Cookie{Name: "seen", Value: "1"})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	evt := event(http.MethodPost, "/api/lead", base64.StdEncoding.EncodeToString([]byte(`{"email":"a@b.co"}`)))
	evt.IsBase64Encoded = true
	evt.RawQueryString = "utm=ads"
	evt.Cookies = []string{"a=1", "b=2"}

	resp, err := handle(context.Background(), handler, evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}
	if resp.Body != `{"ok":true}` || resp.IsBase64Encoded {
		t.Fatalf("unexpected body %q (base64=%v)", resp.Body, resp.IsBase64Encoded)
	}
	if resp.Headers["content-type"] != "application/json" {
		t.Fatalf("expected content-type header, got %v", resp.Headers)
	}
	if len(resp.Cookies) != 1 || !strings.HasPrefix(resp.Cookies[0], "seen=1") {
		t.Fatalf("expected cookie to be returned, got %v", resp.Cookies)
	}

	if got.Method != http.MethodPost || got.URL.Path != "/api/lead" || got.URL.RawQuery != "utm=ads" {
		t.Fatalf("unexpected request line %s %s", got.Method, got.URL.String())
	}
	if gotBody != `{"email":"a@b.co"}` {
		t.Fatalf("expected decoded body, got %q", gotBody)
	}
	if got.Header.Get("X-Forwarded-For") != "198.51.100.9" {
		t.Fatalf("expected source ip in X-Forwarded-For, got %q", got.Header.Get("X-Forwarded-For"))
	}
	if got.Header.Get("Cookie") != "a=1; b=2" {
		t.Fatalf("expected cookies to be joined, got %q", got.Header.Get("Cookie"))
	}
	if got.Host != "reluguard.example" {
		t.Fatalf("expected host from domain name, got %q", got.Host)
	}
}

func TestHandleRejectsInvalidBase64(t *testing.T) {
	evt := event(http.MethodPost, "/api/lead", "%%%")
	evt.IsBase64Encoded = true

	resp, err := handle(context.Background(), http.NotFoundHandler(), evt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandleEncodesCompressedBodies(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		_, _ = zw.Write([]byte("hello"))
		_ = zw.Close()
	})

	resp, err := handle(context.Background(), handler, event(http.MethodGet, "/", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsBase64Encoded {
		t.Fatalf("expected gzip body to be base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	plain, _ := io.ReadAll(zr)
	if string(plain) != "hello" {
		t.Fatalf("expected hello, got %q", plain)
	}
}

func TestHandleThroughSite(t *testing.T) {
	cfg := &appconfig.Config{
		GenerateProvider:   "openai",
		NotifyProvider:     "log",
		LeadRateLimitMax:   8,
		LeadMaxBodyBytes:   20000,
		CORSAllowedOrigins: []string{"*"},
	}
	site, err := bootstrap.BuildSite(context.Background(), cfg, logging.NewWithWriter("error", io.Discard))
	if err != nil {
		t.Fatalf("build site: %v", err)
	}
	defer site.Close()

	resp, err := handle(context.Background(), site.Handler, event(http.MethodPost, "/api/lead", `{"email":"cio@acme.test"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != "{\"ok\":true}\n" {
		t.Fatalf("expected lead accepted, got %d %q", resp.StatusCode, resp.Body)
	}
	if resp.Headers["access-control-allow-origin"] != "*" {
		t.Fatalf("expected CORS header, got %v", resp.Headers)
	}

	resp, err = handle(context.Background(), site.Handler, event(http.MethodGet, "/api/generate", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, resp.StatusCode)
	}
}
