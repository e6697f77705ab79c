package harvest

import (
	"sort"
	"strings"
)

// ValidatorConfig bounds the accepted identifier length and names the region
// assumed for bare national numbers.
type ValidatorConfig struct {
	MinDigits        int
	MaxDigits        int
	DefaultRegionTag string
}

// Validator normalizes extracted candidates and resolves them against the
// configured target-region table. It is a pure function of the candidate and
// the table; rejected candidates are expected and not logged.
type Validator struct {
	cfg     ValidatorConfig
	regions []Region
}

// NewValidator builds a Validator over the configured regions. Regions are
// matched by dialing-code prefix, longest code first, so overlapping codes
// (e.g. "1" and "91") resolve deterministically.
func NewValidator(regions []Region, cfg ValidatorConfig) *Validator {
	if cfg.MinDigits <= 0 {
		cfg.MinDigits = 10
	}
	if cfg.MaxDigits <= 0 {
		cfg.MaxDigits = 15
	}
	ordered := append([]Region(nil), regions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].DialCode) > len(ordered[j].DialCode)
	})
	return &Validator{cfg: cfg, regions: ordered}
}

// Validate normalizes candidate and resolves its region. The returned
// Validation carries the canonical identifier and region details on success,
// or a rejection reason otherwise.
func (v *Validator) Validate(candidate string) Validation {
	digits, hasPlus := stripCandidate(candidate)
	if len(digits) < v.cfg.MinDigits || len(digits) > v.cfg.MaxDigits {
		return Validation{Reason: ReasonInvalidFormat}
	}

	// A bare national number is attributed to the configured default region.
	if !hasPlus && len(digits) == v.cfg.MinDigits {
		if def, ok := v.regionByTag(v.cfg.DefaultRegionTag); ok {
			digits = def.DialCode + digits
		}
	}

	region, ok := v.regionByDialCode(digits)
	if !ok {
		return Validation{Reason: ReasonRegionNotTargeted}
	}
	return Validation{
		Valid:      true,
		Identifier: "+" + digits,
		Region:     region.Name,
		RegionTag:  region.Tag,
		RegionCode: "+" + region.DialCode,
	}
}

// Regions returns the configured region table.
func (v *Validator) Regions() []Region {
	return append([]Region(nil), v.regions...)
}

func (v *Validator) regionByDialCode(digits string) (Region, bool) {
	for _, r := range v.regions {
		if r.DialCode != "" && strings.HasPrefix(digits, r.DialCode) {
			return r, true
		}
	}
	return Region{}, false
}

func (v *Validator) regionByTag(tag string) (Region, bool) {
	if tag == "" {
		return Region{}, false
	}
	for _, r := range v.regions {
		if strings.EqualFold(r.Tag, tag) {
			return r, true
		}
	}
	return Region{}, false
}

func stripCandidate(candidate string) (digits string, hasPlus bool) {
	var b strings.Builder
	for i, r := range candidate {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			hasPlus = true
		}
	}
	return b.String(), hasPlus
}
