package enums

import "fmt"

// SocialPlatform enumerates the supported social link targets.
type SocialPlatform string

const (
	SocialPlatformInstagram SocialPlatform = "instagram"
	SocialPlatformFacebook  SocialPlatform = "facebook"
	SocialPlatformTikTok    SocialPlatform = "tiktok"
	SocialPlatformX         SocialPlatform = "x"
	SocialPlatformYouTube   SocialPlatform = "youtube"
	SocialPlatformLinkedIn  SocialPlatform = "linkedin"
	SocialPlatformWhatsApp  SocialPlatform = "whatsapp"
)

var validSocialPlatforms = []SocialPlatform{
	SocialPlatformInstagram,
	SocialPlatformFacebook,
	SocialPlatformTikTok,
	SocialPlatformX,
	SocialPlatformYouTube,
	SocialPlatformLinkedIn,
	SocialPlatformWhatsApp,
}

// String implements fmt.Stringer.
func (s SocialPlatform) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SocialPlatform.
func (s SocialPlatform) IsValid() bool {
	for _, candidate := range validSocialPlatforms {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSocialPlatform converts raw input into a SocialPlatform.
func ParseSocialPlatform(value string) (SocialPlatform, error) {
	for _, candidate := range validSocialPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid social platform %q", value)
}

// SocialPlatforms returns the supported platforms in display order.
func SocialPlatforms() []SocialPlatform {
	out := make([]SocialPlatform, len(validSocialPlatforms))
	copy(out, validSocialPlatforms)
	return out
}
