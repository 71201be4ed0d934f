package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneType represents the type of phone number.
type PhoneType string

const (
	TypeFixedLine         PhoneType = "FIXED_LINE"
	TypeMobile            PhoneType = "MOBILE"
	TypeFixedLineOrMobile PhoneType = "FIXED_LINE_OR_MOBILE"
	TypeTollFree          PhoneType = "TOLL_FREE"
	TypeVoip              PhoneType = "VOIP"
	TypeUnknown           PhoneType = "UNKNOWN"
)

// Info describes a parsed lead phone number.
type Info struct {
	Raw      string    `json:"raw"`
	Valid    bool      `json:"valid"`
	E164     string    `json:"e164,omitempty"`
	National string    `json:"national,omitempty"`
	Region   string    `json:"region,omitempty"`
	Type     PhoneType `json:"type"`
}

// Normalizer turns free-form numbers typed by lead generators into E.164.
// Numbers that cannot be parsed are kept as typed; nothing is rejected.
type Normalizer struct {
	region string
}

// NewNormalizer creates a normalizer that resolves national numbers against region.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	return &Normalizer{region: region}
}

// Region returns the default region.
func (n *Normalizer) Region() string {
	return n.region
}

// E164 returns the E.164 form of raw, or "" when raw is not a valid number.
func (n *Normalizer) E164(raw string) string {
	info, err := n.Describe(raw)
	if err != nil || !info.Valid {
		return ""
	}
	return info.E164
}

// Describe parses raw and reports its formats and type.
func (n *Normalizer) Describe(raw string) (*Info, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("phone number cannot be empty")
	}

	parsed, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	info := &Info{
		Raw:   raw,
		Valid: phonenumbers.IsValidNumber(parsed),
		Type:  getPhoneTypeString(phonenumbers.GetNumberType(parsed)),
	}
	if info.Valid {
		info.E164 = phonenumbers.Format(parsed, phonenumbers.E164)
		info.National = phonenumbers.Format(parsed, phonenumbers.NATIONAL)
		info.Region = phonenumbers.GetRegionCodeForNumber(parsed)
	}
	return info, nil
}

// getPhoneTypeString converts phonenumbers.PhoneNumberType to PhoneType string.
func getPhoneTypeString(t phonenumbers.PhoneNumberType) PhoneType {
	switch t {
	case phonenumbers.FIXED_LINE:
		return TypeFixedLine
	case phonenumbers.MOBILE:
		return TypeMobile
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return TypeFixedLineOrMobile
	case phonenumbers.TOLL_FREE:
		return TypeTollFree
	case phonenumbers.VOIP:
		return TypeVoip
	default:
		return TypeUnknown
	}
}
