// Package resolver maps request hosts and paths to vendor slugs and builds
// vendor public URLs.
package resolver

import (
	"net"
	"net/url"
	"strings"

	"github.com/mintalist/mintalist-backend/pkg/enums"
	"github.com/mintalist/mintalist-backend/pkg/tier"
)

// MainHost returns the hostname of baseURL without a leading "www.".
// Example: https://www.mintalist.com -> mintalist.com
func MainHost(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	host := baseURL
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// SubdomainSlug extracts "<slug>" from "<slug>.<mainHost>[:port]". It returns
// "" for the apex, www, nested subdomains and foreign hosts.
func SubdomainSlug(host, mainHost string) string {
	host = strings.ToLower(strings.TrimSpace(stripPort(host)))
	mainHost = strings.ToLower(strings.TrimSpace(mainHost))
	if host == "" || mainHost == "" {
		return ""
	}
	suffix := "." + mainHost
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	candidate := strings.TrimSuffix(host, suffix)
	if candidate == "" || candidate == "www" || strings.Contains(candidate, ".") {
		return ""
	}
	return candidate
}

// Resolve returns the vendor slug for a request. A subdomain wins over the
// first path segment; fromSubdomain reports which one was used.
func Resolve(host, path, mainHost string) (slug string, fromSubdomain bool) {
	if s := SubdomainSlug(host, mainHost); s != "" {
		return s, true
	}
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.ToLower(trimmed), false
}

// PublicURL builds the canonical public page URL for a vendor: subdomain for
// tiers with the subdomain capability, path-based otherwise.
func PublicURL(slug string, t enums.Tier, baseURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	origin := trimmed
	scheme := "https"
	if u, err := url.Parse(trimmed); err == nil && u.Scheme != "" && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
		scheme = u.Scheme
	}

	if tier.Allows(t, tier.CapabilitySubdomain) {
		return scheme + "://" + slug + "." + MainHost(trimmed)
	}
	return origin + "/" + slug
}

func stripPort(host string) string {
	if !strings.Contains(host, ":") {
		return host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
