package dns

import "time"

// New builds the resolver selected by mode: "doh", "system" or "chain" (DoH first,
// system resolver on failure). Unknown modes select "chain".
func New(mode, dohEndpoint, userAgent string, timeout time.Duration) TXTResolver {
	switch mode {
	case "doh":
		return NewDoHResolver(dohEndpoint, userAgent, timeout)
	case "system":
		return NewSystemResolver(timeout)
	default:
		return NewChainResolver(
			NewDoHResolver(dohEndpoint, userAgent, timeout),
			NewSystemResolver(timeout),
		)
	}
}
