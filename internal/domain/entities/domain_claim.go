package entities

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// DomainClaimStatus represents the state of a domain ownership claim
type DomainClaimStatus string

const (
	DomainClaimPending  DomainClaimStatus = "PENDING"
	DomainClaimVerified DomainClaimStatus = "VERIFIED"
)

// DomainClaim binds one normalized domain to one claimant
type DomainClaim struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"userId"`
	Domain      string            `json:"domain"`
	TXTToken    string            `json:"-"`
	Status      DomainClaimStatus `json:"status"`
	DNSVerified bool              `json:"dnsVerified"`
	VerifiedAt  null.Time         `json:"verifiedAt,omitempty"`
	EmailIssued null.String       `json:"emailIssued,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// DNS record conventions
const (
	RecordTypeTXT = "TXT"

	PreferredHostLabel = "_aeobro-verify"
	LegacyHostLabel    = "_aeobro"

	PreferredValuePrefix = "aeobro-site-verify="
	LegacyValuePrefix    = "aeobro-verification="
)

// HostCandidate is one place a verification record may live. An empty Label means
// the bare apex.
type HostCandidate struct {
	Name  string
	Label string
}

// Host returns the fully qualified lookup name for domain
func (h HostCandidate) Host(domain string) string {
	if h.Label == "" {
		return domain
	}
	return h.Label + "." + domain
}

// ValueShape is one accepted TXT value form. An empty Prefix means the bare token.
type ValueShape struct {
	Name   string
	Prefix string
}

// Expected returns the lower-cased value this shape expects for token
func (v ValueShape) Expected(token string) string {
	return strings.ToLower(v.Prefix + token)
}

// Lookup precedence: the current host first, then the legacy host, then the apex.
// Adding or retiring a compatibility shape is a one-line change here.
var (
	TXTHostCandidates = []HostCandidate{
		{Name: "preferred", Label: PreferredHostLabel},
		{Name: "legacy", Label: LegacyHostLabel},
		{Name: "apex", Label: ""},
	}

	TXTValueShapes = []ValueShape{
		{Name: "current", Prefix: PreferredValuePrefix},
		{Name: "legacy", Prefix: LegacyValuePrefix},
		{Name: "bare", Prefix: ""},
	}
)

// DomainChallenge is returned by the start operation
type DomainChallenge struct {
	Domain       string `json:"domain"`
	Token        string `json:"token"`
	RecordHost   string `json:"recordHost"`
	RecordType   string `json:"recordType"`
	RecordValue  string `json:"recordValue"`
	Instructions string `json:"instructions"`
}

// NewDomainChallenge renders the preferred record shape for domain and token
func NewDomainChallenge(domain, token string) *DomainChallenge {
	host := TXTHostCandidates[0].Host(domain)
	value := PreferredValuePrefix + token
	return &DomainChallenge{
		Domain:       domain,
		Token:        token,
		RecordHost:   host,
		RecordType:   RecordTypeTXT,
		RecordValue:  value,
		Instructions: "Add a TXT record at " + host + " with the value " + value + ", then run the check. DNS changes can take a while to propagate.",
	}
}

// ErrInvalidDomain is returned by NormalizeDomain for input that is not a hostname
var ErrInvalidDomain = errors.New("invalid domain")

// NormalizeDomain reduces user input (URL, host, host:port) to a lower-case host
// without scheme, path, port, trailing dot or leading "www.".
func NormalizeDomain(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", ErrInvalidDomain
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return "", ErrInvalidDomain
		}
		s = u.Host
	} else {
		s = strings.TrimPrefix(s, "//")
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
	}

	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimPrefix(s, "www.")

	if !isHostname(s) {
		return "", ErrInvalidDomain
	}
	return s, nil
}

func isHostname(s string) bool {
	if len(s) == 0 || len(s) > 253 || net.ParseIP(s) != nil {
		return false
	}
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
				return false
			}
		}
	}
	// TLD must not be all digits
	tld := labels[len(labels)-1]
	return strings.Trim(tld, "0123456789") != ""
}
