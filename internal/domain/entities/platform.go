package entities

import (
	"net/url"
	"strings"
)

// Platform identifies an external platform a user can prove control over
type Platform string

const (
	PlatformGitHub    Platform = "github"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformX         Platform = "x"
	PlatformFacebook  Platform = "facebook"
)

var bioPlatforms = map[Platform]bool{
	PlatformGitHub:    true,
	PlatformYouTube:   true,
	PlatformInstagram: true,
	PlatformTikTok:    true,
	PlatformLinkedIn:  true,
	PlatformX:         true,
	PlatformFacebook:  true,
}

// ParsePlatform normalizes a platform key. "twitter" is accepted as an alias of x.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p == "twitter" {
		p = PlatformX
	}
	return p, bioPlatforms[p]
}

// Upper returns the platform key as used inside bio codes
func (p Platform) Upper() string {
	return strings.ToUpper(string(p))
}

var platformHosts = map[Platform][]string{
	PlatformGitHub:    {"github.com"},
	PlatformYouTube:   {"youtube.com"},
	PlatformInstagram: {"instagram.com"},
	PlatformTikTok:    {"tiktok.com"},
	PlatformLinkedIn:  {"linkedin.com"},
	PlatformX:         {"x.com", "twitter.com"},
	PlatformFacebook:  {"facebook.com", "fb.com"},
}

// OwnsHost reports whether host is the platform's site or one of its subdomains
func (p Platform) OwnsHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, h := range platformHosts[p] {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ParseProfileURL validates that raw is an absolute http(s) URL on the platform's site
func (p Platform) ParseProfileURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Hostname() == "" {
		return nil, false
	}
	if !p.OwnsHost(u.Hostname()) {
		return nil, false
	}
	return u, true
}
