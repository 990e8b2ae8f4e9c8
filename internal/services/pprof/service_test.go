package pprof

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	logx "playout/pkg/logx"
)

func TestIsLoopbackAddr(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:6060", true},
		{"localhost:6060", true},
		{"[::1]:6060", true},
		{"0.0.0.0:6060", false},
		{":6060", false},
		{"10.0.0.5:6060", false},
		{"not-an-addr", false},
	}
	for _, tc := range cases {
		if got := isLoopbackAddr(tc.addr); got != tc.want {
			t.Errorf("isLoopbackAddr(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestWithAuth(t *testing.T) {
	h := withAuth("secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		url    string
		header string
		want   int
	}{
		{"no credentials", "/healthz", "", http.StatusUnauthorized},
		{"query token", "/healthz?token=secret", "", http.StatusNoContent},
		{"wrong query token", "/healthz?token=nope", "", http.StatusUnauthorized},
		{"bearer", "/healthz", "Bearer secret", http.StatusNoContent},
		{"wrong bearer", "/healthz", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestWithAuthEmptyTokenPassesThrough(t *testing.T) {
	h := withAuth("", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRefusesNonLoopbackWithoutToken(t *testing.T) {
	s := New(Config{Enabled: true, Addr: "0.0.0.0:0"}, logx.Nop())
	s.Start()
	defer s.Stop(context.Background())

	s.mu.Lock()
	running := s.srv != nil
	s.mu.Unlock()
	if running {
		t.Fatalf("server started on non-loopback addr without token")
	}
}

func TestStartStop(t *testing.T) {
	s := New(Config{Enabled: true, Addr: "127.0.0.1:0"}, logx.Nop())
	s.Start()

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		t.Fatalf("server did not start")
	}

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	s.Stop(context.Background())
	s.Stop(context.Background()) // second stop is a no-op
}
