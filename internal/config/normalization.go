package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file is the normalization rule set for turning casual Indonesian/Jaksel
// chat messages into structured expenses. It is a policy artifact: closed
// taxonomies, the amount grammar, date cue classes and grouping rules. The
// interpreter encodes these tables into its instruction document and validates
// provider output against them.

// Categories is the closed 11-value category taxonomy. Items that match no
// category keyword map to "other".
var Categories = []string{
	"food", "coffee", "transport", "shopping", "entertainment",
	"bills", "health", "groceries", "snack", "drink", "other",
}

// Moods is the closed 7-value mood taxonomy. No cue means no mood, never a
// guessed default.
var Moods = []string{
	"happy", "excited", "satisfied", "neutral", "reluctant", "regret", "guilty",
}

// MoodCues maps common slang cues to mood values, used as worked examples in
// the instruction document.
var MoodCues = map[string]string{
	"nyesel":   "regret",
	"males":    "reluctant",
	"asik":     "happy",
	"seru":     "happy",
	"mantep":   "happy",
	"puas":     "satisfied",
	"worth":    "satisfied",
	"bersalah": "guilty",
}

// YesterdayCues and TodayCues are the date keyword classes. A yesterday cue
// resolves the expense date to referenceDate-1; a today cue, or no cue at
// all, resolves to referenceDate.
var (
	YesterdayCues = []string{"kemarin", "kemaren"}
	TodayCues     = []string{"tadi", "barusan", "hari ini"}
)

// ItemJoinSeparator joins item names when one price covers several items
// ("bebek bakar + jus tomat").
const ItemJoinSeparator = " + "

// DefaultStorySimilarity is the token-overlap threshold above which an
// extracted story is considered a restatement of the item and dropped.
// Overridable via the interpreter.story_similarity viper key.
const DefaultStorySimilarity = 0.8

// amountScales is the amount grammar suffix table. Longer suffixes are
// matched first so "ribu" wins over "rb".
var amountScales = []struct {
	Suffix string
	Scale  float64
}{
	{"ribu", 1_000},
	{"juta", 1_000_000},
	{"rb", 1_000},
	{"jt", 1_000_000},
	{"k", 1_000},
}

// IsCategory reports whether v belongs to the closed category taxonomy.
// Matching is case-insensitive.
func IsCategory(v string) bool {
	v = strings.ToLower(v)
	for _, c := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// IsMood reports whether v belongs to the closed mood taxonomy.
func IsMood(v string) bool {
	v = strings.ToLower(v)
	for _, m := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

// ParseAmount resolves an amount literal with an optional scale suffix to a
// non-negative integer in the smallest currency unit: "20k" -> 20000,
// "50rb" -> 50000, "80ribu" -> 80000, "1.5jt" -> 1500000. A bare number is
// taken literally. Fractions left after scaling round half up.
func ParseAmount(raw string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	scale := 1.0
	for _, as := range amountScales {
		if strings.HasSuffix(s, as.Suffix) {
			scale = as.Scale
			s = strings.TrimSpace(strings.TrimSuffix(s, as.Suffix))
			break
		}
	}

	// Indonesian chat uses both "1.5jt" and "1,5jt".
	s = strings.ReplaceAll(s, ",", ".")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative amount %q", raw)
	}

	return int64(math.Floor(value*scale + 0.5)), nil
}
