package resolver

import (
	"context"
	"errors"
	"net"
	"time"
)

// DNSResolver resolves hosts with the system resolver
type DNSResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewDNSResolver creates a DNSResolver. A zero timeout means no per-host limit.
func NewDNSResolver(timeout time.Duration) *DNSResolver {
	return &DNSResolver{resolver: net.DefaultResolver, timeout: timeout}
}

// Resolve implements Resolver. A host with no addresses counts as not found.
func (r *DNSResolver) Resolve(ctx context.Context, host string) (bool, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	addrs, err := r.resolver.LookupHost(ctx, host)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return len(addrs) > 0, nil
}

// IsNotFound reports whether err means that the host does not exist
func IsNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
