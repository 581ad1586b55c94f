package entities

// VerificationStatus is the trust tier of a profile
type VerificationStatus string

const (
	VerificationUnverified       VerificationStatus = "UNVERIFIED"
	VerificationPlatformVerified VerificationStatus = "PLATFORM_VERIFIED"
	VerificationDomainVerified   VerificationStatus = "DOMAIN_VERIFIED"
)

// Rank orders tiers: DOMAIN_VERIFIED > PLATFORM_VERIFIED > UNVERIFIED.
// Unknown values rank with UNVERIFIED.
func (s VerificationStatus) Rank() int {
	switch s {
	case VerificationDomainVerified:
		return 2
	case VerificationPlatformVerified:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is ranked at or above other
func (s VerificationStatus) AtLeast(other VerificationStatus) bool {
	return s.Rank() >= other.Rank()
}

// Stronger returns the higher ranked of the two tiers; ties keep current.
func Stronger(current, proven VerificationStatus) VerificationStatus {
	if proven.Rank() > current.Rank() {
		return proven
	}
	if current == "" {
		return VerificationUnverified
	}
	return current
}

// VerificationMethod names the proof mechanism for logs, metrics and responses
type VerificationMethod string

const (
	MethodDNS      VerificationMethod = "dns"
	MethodBio      VerificationMethod = "bio"
	MethodPlatform VerificationMethod = "platform"
)

// Outcome is the non-error result of a check. Failures travel as errors.
type Outcome string

const (
	OutcomeVerified        Outcome = "VERIFIED"
	OutcomeNotYetSatisfied Outcome = "NOT_YET_SATISFIED"
)

// CheckResult is what a check operation reports back to the caller
type CheckResult struct {
	Verified bool               `json:"verified"`
	Outcome  Outcome            `json:"outcome"`
	Status   VerificationStatus `json:"status"`
	Message  string             `json:"message,omitempty"`
}

// Verified builds a satisfied result carrying the profile's resulting tier
func Verified(status VerificationStatus, message string) *CheckResult {
	return &CheckResult{Verified: true, Outcome: OutcomeVerified, Status: status, Message: message}
}

// NotYetSatisfied builds the soft, retryable result
func NotYetSatisfied(status VerificationStatus, hint string) *CheckResult {
	return &CheckResult{Verified: false, Outcome: OutcomeNotYetSatisfied, Status: status, Message: hint}
}
