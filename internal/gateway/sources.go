package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"
)

var (
	errPrivateSource = errors.New("image url points at a private or local address")
	errSourceHost    = errors.New("image host is not allowed")
)

// sharedAddressSpace is the carrier-grade NAT range, which netip does not treat as private.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// checkSource rejects image URLs the gateway must not fetch: hosts outside the configured
// allowlist, localhost names and literal non-public addresses. Names that resolve to
// non-public addresses are refused at dial time by NewSourceClient.
func (s *Server) checkSource(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return badRequest(fmt.Errorf("invalid image url %q", raw))
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")

	if len(s.cfg.SourceHosts) > 0 && !hostAllowed(host, s.cfg.SourceHosts) {
		return fmt.Errorf("%w: %s", errSourceHost, host)
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: %s", errPrivateSource, host)
	}
	if addr, err := netip.ParseAddr(host); err == nil && !publicAddr(addr) {
		return fmt.Errorf("%w: %s", errPrivateSource, host)
	}
	return nil
}

// hostAllowed matches host against entries that are either exact names or parent domains.
func hostAllowed(host string, allowed []string) bool {
	for _, a := range allowed {
		a = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(a)), ".")
		if a == "" {
			continue
		}
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

func publicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsGlobalUnicast() && !addr.IsPrivate() && !sharedAddressSpace.Contains(addr)
}

// NewSourceClient returns the HTTP client the gateway fetches caller-supplied images
// with. It refuses to connect to loopback, private, link-local and other non-public
// addresses, which also covers redirects and names that resolve to such addresses.
func NewSourceClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: refusePrivateDial,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

func refusePrivateDial(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("refusing to dial %s: %w", address, err)
	}
	if !publicAddr(ap.Addr()) {
		return fmt.Errorf("refusing to dial %s: %w", address, errPrivateSource)
	}
	return nil
}
