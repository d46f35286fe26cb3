package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func findCookie(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("expected %s cookie", name)
	return nil
}

func TestSetSessionCookie_Secure_UsesHostPrefix(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "sid123", 10*time.Minute, true)

	res := rr.Result()
	defer res.Body.Close()

	c := findCookie(t, res, "__Host-"+SessionCookieName)

	if c.Value != "sid123" {
		t.Fatalf("expected value sid123, got %q", c.Value)
	}
	if c.Path != "/" {
		t.Fatalf("expected path /, got %q", c.Path)
	}
	if !c.HttpOnly {
		t.Fatalf("expected HttpOnly=true")
	}
	if !c.Secure {
		t.Fatalf("expected Secure=true")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.MaxAge != 600 {
		t.Fatalf("expected MaxAge=600, got %d", c.MaxAge)
	}
}

func TestSetSessionCookie_Insecure_PlainName(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "sid123", time.Hour, false)

	res := rr.Result()
	defer res.Body.Close()

	c := findCookie(t, res, SessionCookieName)
	if c.Secure {
		t.Fatalf("expected Secure=false")
	}
}

func TestClearSessionCookie_ClearsCookie(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	ClearSessionCookie(rr, false)

	res := rr.Result()
	defer res.Body.Close()

	c := findCookie(t, res, SessionCookieName)

	if c.Value != "" {
		t.Fatalf("expected empty value, got %q", c.Value)
	}
	if c.Path != "/" {
		t.Fatalf("expected path /, got %q", c.Path)
	}
	if c.MaxAge != -1 {
		t.Fatalf("expected MaxAge=-1, got %d", c.MaxAge)
	}
	if !c.HttpOnly {
		t.Fatalf("expected HttpOnly=true")
	}
}

func TestReadSessionCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc"})
	if v := ReadSessionCookie(req); v != "abc" {
		t.Fatalf("expected abc, got %q", v)
	}

	req = httptest.NewRequest(http.MethodGet, "http://example.com/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "plain"})
	req.AddCookie(&http.Cookie{Name: "__Host-" + SessionCookieName, Value: "secure"})
	if v := ReadSessionCookie(req); v != "secure" {
		t.Fatalf("expected __Host- cookie to win, got %q", v)
	}
}

func TestReadSessionCookie_Missing_ReturnsEmpty(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/auth/me", nil)
	if v := ReadSessionCookie(req); v != "" {
		t.Fatalf("expected empty, got %q", v)
	}
}
