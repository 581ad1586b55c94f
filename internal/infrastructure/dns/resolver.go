package dns

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrNoRecords is returned when a name exists in no usable form (NXDOMAIN or no TXT)
var ErrNoRecords = errors.New("no txt records")

// TXTResolver resolves the TXT strings published at host. Multi-string records are
// returned joined, one element per record.
type TXTResolver interface {
	LookupTXT(ctx context.Context, host string) ([]string, error)
}

// SystemResolver uses the operating system's configured resolvers
type SystemResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewSystemResolver creates a resolver bound to net.DefaultResolver
func NewSystemResolver(timeout time.Duration) *SystemResolver {
	return &SystemResolver{resolver: net.DefaultResolver, timeout: timeout}
}

// LookupTXT performs a TXT query bounded by the resolver timeout
func (r *SystemResolver) LookupTXT(ctx context.Context, host string) ([]string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	records, err := r.resolver.LookupTXT(ctx, host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, ErrNoRecords
		}
		return nil, err
	}
	return records, nil
}

// ChainResolver asks each resolver in turn and returns the first answer that is not an
// error. ErrNoRecords from an earlier resolver is kept only if every later one fails too.
type ChainResolver struct {
	resolvers []TXTResolver
}

// NewChainResolver creates a resolver that falls through rs in order
func NewChainResolver(rs ...TXTResolver) *ChainResolver {
	return &ChainResolver{resolvers: rs}
}

func (c *ChainResolver) LookupTXT(ctx context.Context, host string) ([]string, error) {
	var lastErr error = ErrNoRecords
	sawEmpty := false
	for _, r := range c.resolvers {
		records, err := r.LookupTXT(ctx, host)
		if err == nil && len(records) > 0 {
			return records, nil
		}
		if err == nil || errors.Is(err, ErrNoRecords) {
			sawEmpty = true
			continue
		}
		lastErr = err
	}
	if sawEmpty {
		return nil, ErrNoRecords
	}
	return nil, lastErr
}
