package league

import (
	"regexp"
	"strings"
	"unicode"
)

var seasonPrefixPattern = regexp.MustCompile(`^\d{4}-\d{2}-`)

// canonicalNames maps the long-form name derived from a feed slug to the
// display name used across the dashboard. The feed is inconsistent about
// league naming across seasons and payload sections; without this table one
// league fragments into several rows and corrupts every aggregate downstream.
// Extend the table with new variants instead of touching NormalizeName.
var canonicalNames = map[string]string{
	"English Premier League":               "Premier League",
	"Spanish La Liga":                      "La Liga",
	"Spanish Laliga":                       "La Liga",
	"Argentine Liga Profesional De Futbol": "Liga Professional",
	"Argentine Liga Profesional":           "Liga Professional",
	"Argentina Liga Profesional":           "Liga Professional",
	"Argentine Primera Division":           "Liga Professional",
}

// NormalizeName resolves a feed league slug or free-text league name to its
// canonical display name. Input like "2025-26-english-premier-league" first
// loses its season prefix, then hyphens become spaces with each token
// title-cased, and finally the long-form name is looked up in the synonym
// table. Unrecognized names pass through unchanged so a new competition never
// blocks ingestion.
func NormalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	trimmed = seasonPrefixPattern.ReplaceAllString(trimmed, "")

	tokens := strings.Split(trimmed, "-")
	for i, token := range tokens {
		tokens[i] = titleToken(token)
	}
	longForm := strings.Join(tokens, " ")
	longForm = strings.Join(strings.Fields(longForm), " ")

	if canonical, ok := canonicalNames[longForm]; ok {
		return canonical
	}

	return longForm
}

// IsKnownName reports whether the long-form name resolved to a synonym-table
// entry. Callers use it to flag unmapped league names for review.
func IsKnownName(raw string) bool {
	trimmed := seasonPrefixPattern.ReplaceAllString(strings.TrimSpace(raw), "")
	tokens := strings.Split(trimmed, "-")
	for i, token := range tokens {
		tokens[i] = titleToken(token)
	}
	longForm := strings.Join(strings.Fields(strings.Join(tokens, " ")), " ")

	_, ok := canonicalNames[longForm]
	return ok
}

func titleToken(token string) string {
	if token == "" {
		return ""
	}

	runes := []rune(strings.ToLower(token))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
