package league

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "premier league slug with season", input: "2025-26-english-premier-league", want: "Premier League"},
		{name: "la liga slug without season", input: "spanish-la-liga", want: "La Liga"},
		{name: "argentine variant", input: "argentine-liga-profesional-de-futbol", want: "Liga Professional"},
		{name: "unknown slug passes through title-cased", input: "2025-26-mystery-cup", want: "Mystery Cup"},
		{name: "already long form known", input: "english-premier-league", want: "Premier League"},
		{name: "single token", input: "bundesliga", want: "Bundesliga"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "uppercase tokens are folded", input: "SPANISH-LA-LIGA", want: "La Liga"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NormalizeName(tc.input))
		})
	}
}

func TestIsKnownName(t *testing.T) {
	require.True(t, IsKnownName("2025-26-english-premier-league"))
	require.False(t, IsKnownName("2025-26-mystery-cup"))
}
