package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

const (
	dnsResolves = "RESOLVES"
	dnsNXDomain = "NXDOMAIN"
	dnsNoA      = "NO_A_RECORD"
	dnsServfail = "SERVFAIL_or_TIMEOUT"
	dnsInvalid  = "INVALID_NAME"
)

var dnsTimeout = 3 * time.Second

// classifyDNS answers "does this name resolve, and if not, why" using the OS
// resolver. It is diagnostic only; the probe outcome does not depend on it.
func classifyDNS(ctx context.Context, domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" || strings.Contains(domain, "://") {
		return dnsInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	r := &net.Resolver{}

	ips, err := r.LookupIP(ctx, "ip", domain)
	if err == nil && len(ips) > 0 {
		return dnsResolves
	}

	if err != nil {
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				// A name with NS records but no address record is a
				// different failure than a missing name.
				if ns, nserr := r.LookupNS(ctx, domain); nserr == nil && len(ns) > 0 {
					return dnsNoA
				}
				return dnsNXDomain
			}
			if de.IsTemporary || de.Timeout() {
				return dnsServfail
			}
		}
		return dnsServfail
	}
	return dnsNXDomain
}
