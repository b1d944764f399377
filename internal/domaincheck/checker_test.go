package domaincheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces and case", in: "Blue Rocket", want: "bluerocket"},
		{name: "punctuation", in: "Café & Co.", want: "cafco"},
		{name: "digits kept", in: "Shop24", want: "shop24"},
		{name: "empty", in: "  ", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.in); got != tc.want {
				t.Fatalf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func newDoHServer(t *testing.T, handler func(domain string) (status int, body string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/dns-json" {
			t.Errorf("Accept = %q", got)
		}
		status, body := handler(r.URL.Query().Get("name"))
		w.Header().Set("Content-Type", "application/dns-json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestCheckNameAllTaken(t *testing.T) {
	srv := newDoHServer(t, func(domain string) (int, string) {
		return http.StatusOK, `{"Status":0,"Answer":[{"name":"` + domain + `","type":1,"data":"192.0.2.1"}]}`
	})
	defer srv.Close()

	c := NewChecker(Options{ResolverURL: srv.URL, Delay: 0})
	res, err := c.CheckName(context.Background(), "Blue Rocket")
	if err != nil {
		t.Fatalf("CheckName returned error: %v", err)
	}
	if res.DomainAvailable {
		t.Error("DomainAvailable = true, want false when every TLD resolves")
	}
	if len(res.AvailableExtensions) != 0 {
		t.Errorf("AvailableExtensions = %v, want empty", res.AvailableExtensions)
	}
	if len(res.Domains) != len(DefaultTLDs) {
		t.Errorf("Domains = %d entries, want %d", len(res.Domains), len(DefaultTLDs))
	}
	if !res.Heuristic {
		t.Error("Heuristic = false, want results labeled heuristic")
	}
}

func TestCheckNameAllFree(t *testing.T) {
	srv := newDoHServer(t, func(domain string) (int, string) {
		return http.StatusOK, `{"Status":3}`
	})
	defer srv.Close()

	c := NewChecker(Options{ResolverURL: srv.URL, Delay: 0})
	res, err := c.CheckName(context.Background(), "novexa")
	if err != nil {
		t.Fatalf("CheckName returned error: %v", err)
	}
	if !res.DomainAvailable {
		t.Error("DomainAvailable = false, want true when nothing resolves")
	}
	if len(res.AvailableExtensions) != len(DefaultTLDs) {
		t.Errorf("AvailableExtensions = %v, want full TLD list", res.AvailableExtensions)
	}
}

func TestCheckNameMixed(t *testing.T) {
	srv := newDoHServer(t, func(domain string) (int, string) {
		if strings.HasSuffix(domain, ".com") {
			return http.StatusOK, `{"Status":0,"Answer":[{"name":"` + domain + `","type":1,"data":"192.0.2.1"}]}`
		}
		return http.StatusOK, `{"Status":0,"Answer":[]}`
	})
	defer srv.Close()

	c := NewChecker(Options{ResolverURL: srv.URL, Delay: 0})
	res, err := c.CheckName(context.Background(), "novexa")
	if err != nil {
		t.Fatalf("CheckName returned error: %v", err)
	}
	if !res.DomainAvailable {
		t.Error("DomainAvailable = false, want true with free extensions remaining")
	}
	for _, ext := range res.AvailableExtensions {
		if ext == ".com" {
			t.Error(".com resolved but is listed available")
		}
	}
}

func TestCheckNameLookupFailureNotCountedAvailable(t *testing.T) {
	srv := newDoHServer(t, func(domain string) (int, string) {
		return http.StatusBadGateway, `{}`
	})
	defer srv.Close()

	c := NewChecker(Options{ResolverURL: srv.URL, Delay: 0})
	res, err := c.CheckName(context.Background(), "novexa")
	if err != nil {
		t.Fatalf("CheckName returned error: %v", err)
	}
	if res.DomainAvailable {
		t.Error("DomainAvailable = true, want false when lookups fail")
	}
	for _, d := range res.Domains {
		if d.Checked {
			t.Errorf("domain %s marked checked despite resolver failure", d.Domain)
		}
		if d.Available {
			t.Errorf("domain %s marked available despite resolver failure", d.Domain)
		}
	}
}

func TestCheckNameUnusableInput(t *testing.T) {
	c := NewChecker(Options{Delay: 0})
	if _, err := c.CheckName(context.Background(), "!!!"); err == nil {
		t.Fatal("CheckName succeeded on unusable name, want error")
	}
}
