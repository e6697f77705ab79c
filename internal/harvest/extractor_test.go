package harvest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractor_TwoCandidatesLeftToRight(t *testing.T) {
	t.Parallel()

	e := NewExtractor()
	got := e.Extract("call me at 555-123-4567 or +1 800 555 0100")
	require.Equal(t, []string{"555-123-4567", "+1 800 555 0100"}, got)
}

func TestExtractor_NoMatches(t *testing.T) {
	t.Parallel()

	e := NewExtractor()
	require.Empty(t, e.Extract(""))
	require.Empty(t, e.Extract("no digits in here at all"))
	require.Empty(t, e.Extract("room 42 on floor 3"))
}

func TestExtractor_ToleratesSeparatorStyles(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "dots", text: "ping 555.123.4567 today", want: "555.123.4567"},
		{name: "parens", text: "office (020) 7946 0958", want: "(020) 7946 0958"},
		{name: "plain run", text: "whatsapp 8801712345678 now", want: "8801712345678"},
		{name: "plus and spaces", text: "reach +91 98765 43210 anytime", want: "+91 98765 43210"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tc.text)
			require.Equal(t, []string{tc.want}, got)
		})
	}
}

func TestExtractor_ShortRunsFilteredBySpan(t *testing.T) {
	t.Parallel()

	e := NewExtractor()
	// Two digit groups but total span below the minimum.
	require.Empty(t, e.Extract("ext 12-345"))
}
