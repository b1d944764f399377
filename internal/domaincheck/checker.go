package domaincheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTLDs is the extension list checked for every candidate name.
var DefaultTLDs = []string{".com", ".net", ".org", ".io", ".co"}

const (
	defaultResolverURL = "https://cloudflare-dns.com/dns-query"
	defaultCheckDelay  = 200 * time.Millisecond
	dohTimeout         = 10 * time.Second

	rcodeNXDomain = 3
)

// DomainResult is the outcome of a single DNS-over-HTTPS lookup. Absence of
// an A record is treated as availability, which is a heuristic, not a
// registrar guarantee; Checked is false when the lookup itself failed, and
// such domains are never counted as available.
type DomainResult struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	Checked   bool   `json:"checked"`
}

// NameResult aggregates the per-TLD lookups for one candidate name.
type NameResult struct {
	Name                string         `json:"name"`
	Sanitized           string         `json:"sanitized"`
	DomainAvailable     bool           `json:"domain_available"`
	AvailableExtensions []string       `json:"available_extensions"`
	Domains             []DomainResult `json:"domains"`
	Heuristic           bool           `json:"heuristic"`
}

// Options configures the checker.
type Options struct {
	ResolverURL string
	TLDs        []string
	Delay       time.Duration
	HTTPClient  *http.Client
	Logger      *zerolog.Logger
}

// Checker performs DNS-over-HTTPS availability lookups against a JSON
// resolver endpoint.
type Checker struct {
	resolverURL string
	tlds        []string
	delay       time.Duration
	client      *http.Client
	logger      zerolog.Logger
}

type dohResponse struct {
	Status int `json:"Status"`
	Answer []struct {
		Name string `json:"name"`
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

// NewChecker constructs a checker with sane defaults.
func NewChecker(opts Options) *Checker {
	resolverURL := strings.TrimSpace(opts.ResolverURL)
	if resolverURL == "" {
		resolverURL = defaultResolverURL
	}
	tlds := opts.TLDs
	if len(tlds) == 0 {
		tlds = DefaultTLDs
	}
	delay := opts.Delay
	if delay < 0 {
		delay = defaultCheckDelay
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: dohTimeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Checker{
		resolverURL: resolverURL,
		tlds:        tlds,
		delay:       delay,
		client:      client,
		logger:      logger,
	}
}

// CheckName looks up every configured TLD for the sanitized name. A fixed
// delay between lookups keeps the resolver from rate limiting bursts.
func (c *Checker) CheckName(ctx context.Context, name string) (NameResult, error) {
	sanitized := SanitizeName(name)
	result := NameResult{
		Name:      name,
		Sanitized: sanitized,
		Heuristic: true,
	}
	if sanitized == "" {
		return result, fmt.Errorf("name %q has no usable characters", name)
	}

	for i, tld := range c.tlds {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(c.delay):
			}
		}
		dom := sanitized + tld
		available, err := c.lookup(ctx, dom)
		if err != nil {
			c.logger.Warn().Err(err).Str("domain", dom).Msg("domaincheck: lookup failed")
			result.Domains = append(result.Domains, DomainResult{Domain: dom, Available: false, Checked: false})
			continue
		}
		result.Domains = append(result.Domains, DomainResult{Domain: dom, Available: available, Checked: true})
		if available {
			result.AvailableExtensions = append(result.AvailableExtensions, tld)
		}
	}
	result.DomainAvailable = len(result.AvailableExtensions) > 0
	return result, nil
}

// lookup reports whether the domain has no A record.
func (c *Checker) lookup(ctx context.Context, domain string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolverURL, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	q := req.URL.Query()
	q.Set("name", domain)
	q.Set("type", "A")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/dns-json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("doh lookup: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("doh status %d", resp.StatusCode)
	}
	var out dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode doh response: %w", err)
	}
	if out.Status == rcodeNXDomain {
		return true, nil
	}
	return len(out.Answer) == 0, nil
}

// SanitizeName lowercases the name and strips everything that cannot appear
// in a domain label.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
