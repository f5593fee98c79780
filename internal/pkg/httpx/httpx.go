package httpx

import (
	"context"
	"errors"
	"net"
	"syscall"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// IsTransientStatus reports statuses worth surfacing as "try again later".
func IsTransientStatus(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

// IsTransientError reports network level failures: timeouts, refused or reset
// connections, DNS errors and transient upstream statuses.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsTransientStatus(sc.HTTPStatusCode())
	}
	return false
}
