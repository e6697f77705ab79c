package harvest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testRegions() []Region {
	return []Region{
		{Name: "United States", Tag: "us", DialCode: "1", SearchTokens: []string{"usa"}},
		{Name: "India", Tag: "in", DialCode: "91", SearchTokens: []string{"india"}},
		{Name: "Bangladesh", Tag: "bd", DialCode: "880", SearchTokens: []string{"bangladesh"}},
	}
}

func TestValidator_ResolvesTargetRegions(t *testing.T) {
	t.Parallel()

	v := NewValidator(testRegions(), ValidatorConfig{MinDigits: 10, MaxDigits: 15, DefaultRegionTag: "us"})

	tests := []struct {
		name       string
		candidate  string
		identifier string
		region     string
		regionCode string
	}{
		{name: "international us", candidate: "+1 800 555 0100", identifier: "+18005550100", region: "United States", regionCode: "+1"},
		{name: "india with separators", candidate: "+91 98765 43210", identifier: "+919876543210", region: "India", regionCode: "+91"},
		{name: "bangladesh without plus", candidate: "880 1712-345678", identifier: "+8801712345678", region: "Bangladesh", regionCode: "+880"},
		{name: "bare national number assumes default region", candidate: "555-123-4567", identifier: "+15551234567", region: "United States", regionCode: "+1"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := v.Validate(tc.candidate)
			require.True(t, got.Valid, "reason: %s", got.Reason)
			require.Equal(t, tc.identifier, got.Identifier)
			require.Equal(t, tc.region, got.Region)
			require.Equal(t, tc.regionCode, got.RegionCode)
		})
	}
}

func TestValidator_RejectsInvalidFormat(t *testing.T) {
	t.Parallel()

	v := NewValidator(testRegions(), ValidatorConfig{MinDigits: 10, MaxDigits: 15})

	for _, candidate := range []string{"not a number", "", "12345", "+123456789012345678"} {
		got := v.Validate(candidate)
		require.False(t, got.Valid)
		require.Equal(t, ReasonInvalidFormat, got.Reason)
	}
}

func TestValidator_RejectsUntargetedRegion(t *testing.T) {
	t.Parallel()

	v := NewValidator(testRegions(), ValidatorConfig{MinDigits: 10, MaxDigits: 15})

	// A valid-length number whose dialing code is not in the target table.
	got := v.Validate("+44 20 7946 0958")
	require.False(t, got.Valid)
	require.Equal(t, ReasonRegionNotTargeted, got.Reason)
}

func TestValidator_LongestDialCodeWins(t *testing.T) {
	t.Parallel()

	regions := []Region{
		{Name: "United States", Tag: "us", DialCode: "1"},
		{Name: "India", Tag: "in", DialCode: "91"},
	}
	v := NewValidator(regions, ValidatorConfig{MinDigits: 10, MaxDigits: 15})

	// "91..." must resolve to India even though "1" is not a prefix here and
	// the table lists the shorter code first.
	got := v.Validate("+91 98765 43210")
	require.True(t, got.Valid)
	require.Equal(t, "India", got.Region)
}
