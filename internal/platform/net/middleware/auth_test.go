package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kudos/internal/platform/net"
	"kudos/internal/platform/net/middleware"
)

type fakeAuthPort struct {
	user string
	org  string
	err  error
}

func (f fakeAuthPort) Parse(r *http.Request) (string, string, error) {
	return f.user, f.org, f.err
}

func writeStub(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
}

func TestAuth_NilPortPassesThrough(t *testing.T) {
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(200)
	})

	mw := middleware.Auth(nil, writeStub)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if !nextCalled {
		t.Fatal("expected next to be called")
	}
	if rr.Code != 200 {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestAuth_ErrorFromPortWritesMappedError(t *testing.T) {
	p := fakeAuthPort{err: http.ErrNoCookie}
	mw := middleware.Auth(p, writeStub)

	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if nextCalled {
		t.Fatal("did not expect next to be called on auth error")
	}
	// exact status is delegated to pnet.Error, which can vary
	// assert it is a 4xx or 5xx rather than a 2xx
	if rr.Code < 400 {
		t.Fatalf("expected error status got %d", rr.Code)
	}
}

func TestAuth_SetsOrgOnContext(t *testing.T) {
	p := fakeAuthPort{user: "u1", org: "o1", err: nil}
	mw := middleware.Auth(p, writeStub)

	var seenOrg string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOrg = net.OrgID(r.Context())
		w.WriteHeader(200)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if seenOrg != "o1" {
		t.Fatalf("expected org o1 got %q", seenOrg)
	}
}
