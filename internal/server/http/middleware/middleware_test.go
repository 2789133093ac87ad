package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/weddingmart/internal/domain/model"
	pkgAuth "github.com/polkiloo/weddingmart/internal/pkg/auth"
	testhelpers "github.com/polkiloo/weddingmart/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{}))
	router.GET("/", func(c *gin.Context) {})
	resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", func(c *gin.Context) {})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	if resp = serve(router, req); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: context.DeadlineExceeded}))
	router.GET("/", func(c *gin.Context) {})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	if resp = serve(router, req); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var stored model.Principal
	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Principal: model.Principal{UserID: "user-42", Role: model.RoleUser}}))
	router.GET("/", func(c *gin.Context) {
		stored = CurrentPrincipal(c)
		c.Status(http.StatusOK)
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-auth-token", "token")
	if resp = serve(router, req); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored.UserID != "user-42" {
		t.Fatalf("expected principal user-42, got %+v", stored)
	}
}

func TestAdminRequired(t *testing.T) {
	cases := []struct {
		name string
		role model.Role
		want int
	}{
		{name: "admin", role: model.RoleAdmin, want: http.StatusOK},
		{name: "customer", role: model.RoleUser, want: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthRequired(testhelpers.TokenParserStub{Principal: model.Principal{UserID: "u", Role: tc.role}}), AdminRequired())
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer token")
			if resp := serve(router, req); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestCurrentPrincipalMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if p := CurrentPrincipal(c); p.UserID != "" || p.IsAdmin() {
		t.Fatalf("expected zero principal, got %+v", p)
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" || cookies[0].Name != authCookieName {
		t.Fatalf("expected cookie with token, got %+v", cookies)
	}
}

func TestExtractToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
	c.Request.Header.Set(legacyTokenHeader, "legacy")
	if token := extractToken(c); token != "legacy" {
		t.Fatalf("expected token from x-auth-token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected bearer token to win, got %q", token)
	}
}

func TestDecompressRequest(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("payload"))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest())
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Encoding", "gzip")
	serve(router, req)
	if body != "payload" {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	body = ""
	serve(router, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("plain"))))
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	if resp := serve(router, req); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for corrupt gzip, got %d", resp.Code)
	}
}

func TestDecompressRequestCapsInflatedBody(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(make([]byte, MaxDecompressedBody+1))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest())
	router.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Encoding", "GZIP")
	if resp := serve(router, req); resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized body, got %d", resp.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := resp.Header().Get(RequestIDHeader)
	if generated == "" {
		t.Fatal("expected generated request id")
	}
	if !bytes.Contains(buf.Bytes(), []byte(generated)) {
		t.Fatalf("expected request id in log, got %s", buf.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	if resp = serve(router, req); resp.Header().Get(RequestIDHeader) != "req-1" {
		t.Fatalf("expected incoming request id to be reused, got %q", resp.Header().Get(RequestIDHeader))
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		raw     string
		limit   int64
		period  time.Duration
		wantErr bool
	}{
		{raw: "50-5m", limit: 50, period: 5 * time.Minute},
		{raw: "10-30s", limit: 10, period: 30 * time.Second},
		{raw: "100-1h", limit: 100, period: time.Hour},
		{raw: "5-M", limit: 5, period: time.Minute},
		{raw: "1000-1d", limit: 1000, period: 24 * time.Hour},
		{raw: "50", wantErr: true},
		{raw: "x-5m", wantErr: true},
		{raw: "0-5m", wantErr: true},
		{raw: "5-", wantErr: true},
		{raw: "5-3w", wantErr: true},
		{raw: "5-am", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			rate, err := ParseRate(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", rate)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rate.Limit != tc.limit || rate.Period != tc.period {
				t.Fatalf("unexpected rate %+v", rate)
			}
		})
	}
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	rl, err := NewRateLimiter(NewMemoryStore(), "2-1m")
	if err != nil {
		t.Fatalf("new rate limiter: %v", err)
	}
	if rl.Rate().Limit != 2 {
		t.Fatalf("unexpected rate %+v", rl.Rate())
	}

	router := gin.New()
	router.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		codes = append(codes, serve(router, req).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.8:1234"
	if resp := serve(router, req); resp.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", resp.Code)
	}
}

func TestNewRateLimiterInvalidRate(t *testing.T) {
	if _, err := NewRateLimiter(NewMemoryStore(), "lots"); err == nil {
		t.Fatal("expected error for invalid rate")
	}
}

func TestNewRedisStoreInvalidURL(t *testing.T) {
	if _, _, err := NewRedisStore(context.Background(), "://nope"); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}
