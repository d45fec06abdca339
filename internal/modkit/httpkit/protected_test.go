package httpkit

import (
	"net/http"
	"testing"

	phttp "kudos/internal/platform/net/http"
)

// fakeAuthPort satisfies middleware.AuthPort without hitting real auth
type fakeAuthPort struct{ calls int }

func (f *fakeAuthPort) Parse(*http.Request) (string, string, error) {
	f.calls++
	return "user-x", "org-y", nil
}

func TestProtected_InstallsAuthAndForwardsRoutes(t *testing.T) {
	t.Parallel()

	// Reuse the shared fakeRouter defined in routes_test.go
	root := &fakeRouter{}
	ap := &fakeAuthPort{}

	var h phttp.Handler = nil

	Protected(root, ap, func(gr Router) {
		gr.Get("/a", h)
		gr.Post("/b", h)
		gr.Route("/api", func(rr Router) {
			rr.Delete("/x", h)
		})
	})

	if root.useCalls != 1 || root.lastMWLen != 1 {
		t.Fatalf("expected the auth middleware installed once, got calls=%d len=%d", root.useCalls, root.lastMWLen)
	}

	if got, want := len(root.prefixes), 1; got != want {
		t.Fatalf("expected %d nested Route call, got %d (prefixes=%v)", want, got, root.prefixes)
	}
	if root.prefixes[0] != "/api" {
		t.Fatalf("expected nested prefix /api, got %q", root.prefixes[0])
	}

	want := []struct {
		verb string
		path string
	}{
		{"GET", "/a"},
		{"POST", "/b"},
		{"DELETE", "/x"},
	}
	if len(root.verbCalls) != len(want) {
		t.Fatalf("expected %d verb calls, got %d: %#v", len(want), len(root.verbCalls), root.verbCalls)
	}
	for i, w := range want {
		if root.verbCalls[i].verb != w.verb || root.verbCalls[i].path != w.path {
			t.Fatalf("call %d: want %s %s, got %s %s", i, w.verb, w.path, root.verbCalls[i].verb, root.verbCalls[i].path)
		}
	}

	// Parse runs at request time, never during wiring
	if ap.calls != 0 {
		t.Fatalf("auth port Parse should not be called during route wiring, got %d", ap.calls)
	}
}
