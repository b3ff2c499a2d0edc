package domain

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Site identifies which extractor handles a product page
type Site string

const (
	// SiteAmazon covers every Amazon storefront and amzn short links
	SiteAmazon Site = "amazon"
	// SiteFlipkart covers flipkart.com
	SiteFlipkart Site = "flipkart"
	// SiteGeneric covers every other shop
	SiteGeneric Site = "generic"
)

// Info contains parsed domain information for a product page
type Info struct {
	Domain    string `json:"domain"`
	Subdomain string `json:"subdomain,omitempty"`
	TLD       string `json:"tld"`
	SLD       string `json:"sld"`
	Site      Site   `json:"site"`
}

// Registrable returns the registrable domain, e.g. amazon.in for www.amazon.in.
// IP hosts have none and return the address itself
func (i *Info) Registrable() string {
	if i.TLD == "" {
		return i.Domain
	}

	return i.SLD + "." + i.TLD
}

// ParseURL validates a product page URL and extracts its domain information.
// Only absolute http and https URLs with a host are accepted
func ParseURL(raw string) (*url.URL, *Info, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidURLFormat, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if u.Hostname() == "" {
		return nil, nil, fmt.Errorf("%w: missing host", ErrInvalidURLFormat)
	}

	info, err := Parse(u.Hostname())
	if err != nil {
		return nil, nil, err
	}

	return u, info, nil
}

// Parse extracts domain information from a host name or URL
func Parse(input string) (*Info, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	// Remove protocol if present
	if strings.Contains(input, "://") {
		u, err := url.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidURLFormat, err)
		}

		input = u.Host
	}

	// Remove port if present
	if host, _, err := net.SplitHostPort(input); err == nil {
		input = host
	}

	input = strings.TrimSuffix(input, ".")

	// IP literals have no registrable domain
	if ip := net.ParseIP(strings.Trim(input, "[]")); ip != nil {
		return &Info{Domain: ip.String(), Site: SiteGeneric}, nil
	}

	if input == "" || !strings.Contains(input, ".") || strings.HasPrefix(input, ".") {
		return nil, ErrInvalidDomainFormat
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomainFormat, err)
	}

	tld, _ := publicsuffix.PublicSuffix(input)
	sld := strings.TrimSuffix(etld1, "."+tld)

	subdomain := ""
	if etld1 != input {
		subdomain = strings.TrimSuffix(input, "."+etld1)
	}

	info := &Info{
		Domain:    input,
		Subdomain: subdomain,
		TLD:       tld,
		SLD:       sld,
	}
	info.Site = siteFor(info)

	return info, nil
}

// siteFor maps a registrable domain to the extractor that understands its markup
func siteFor(info *Info) Site {
	switch {
	case info.SLD == "amazon" || info.SLD == "amzn":
		return SiteAmazon
	case info.Registrable() == "flipkart.com":
		return SiteFlipkart
	default:
		return SiteGeneric
	}
}
