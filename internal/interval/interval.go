// Package interval converts natural-language care-frequency phrases
// ("every 2-3 weeks", "monthly", "when soil is dry") into a bounded number
// of days. It never fails: anything unrecognizable resolves to a sensible
// default, and every result is clamped to [1, 90].
package interval

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultDays is returned for empty, condition-based ("as needed") and
	// unrecognizable phrases.
	DefaultDays = 14

	MinDays = 1
	MaxDays = 90
)

var (
	rangeRe  = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)`)
	numberRe = regexp.MustCompile(`\d+`)
)

// keywords is scanned for the earliest occurrence in the phrase, so a
// multi-clause phrase like "monthly in summer, weekly in winter" resolves to
// its first clause. Position ties go to the longer keyword, which is what
// keeps "weekly" from winning inside "biweekly".
var keywords = []struct {
	word string
	days int
}{
	{"fortnightly", 14},
	{"bi-monthly", 60},
	{"bi-weekly", 14},
	{"bimonthly", 60},
	{"biweekly", 14},
	{"annually", 365},
	{"monthly", 30},
	{"yearly", 365},
	{"annual", 365},
	{"weekly", 7},
	{"daily", 1},
	{"month", 30},
	{"week", 7},
	{"year", 365},
}

var soilTerms = []string{"soil", "moist", "dry", "wet"}

// Parse resolves a frequency phrase to a number of days in [MinDays, MaxDays].
func Parse(text string) int {
	return clamp(parseDays(strings.ToLower(strings.TrimSpace(text))))
}

func parseDays(s string) int {
	if s == "" {
		return DefaultDays
	}
	if conditionBased(s) {
		return DefaultDays
	}
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			hi = lo
		}
		return hi * unitMultiplier(s)
	}
	if m := numberRe.FindString(s); m != "" {
		n, _ := strconv.Atoi(m)
		return n * unitMultiplier(s)
	}
	if strings.Contains(s, "twice a week") {
		return 4
	}
	if strings.Contains(s, "twice a month") {
		return 15
	}
	if d, ok := earliestKeyword(s); ok {
		return d
	}
	return DefaultDays
}

// conditionBased detects phrases that describe a condition to check rather
// than a recurrence ("as needed", "check weekly", "when soil is dry").
func conditionBased(s string) bool {
	if strings.Contains(s, "as needed") || strings.Contains(s, "check") {
		return true
	}
	conditional := strings.HasPrefix(s, "when ") || strings.Contains(s, " when ") ||
		strings.HasPrefix(s, "if ") || strings.Contains(s, " if ")
	if !conditional {
		return false
	}
	for _, term := range soilTerms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// unitMultiplier picks the unit for an embedded number. When a phrase
// mentions both weeks and months the earlier mention wins.
func unitMultiplier(s string) int {
	w := strings.Index(s, "week")
	m := strings.Index(s, "month")
	switch {
	case w >= 0 && (m < 0 || w < m):
		return 7
	case m >= 0:
		return 30
	}
	return 1
}

func earliestKeyword(s string) (int, bool) {
	best := -1
	bestLen := 0
	days := 0
	for _, k := range keywords {
		idx := strings.Index(s, k.word)
		if idx < 0 {
			continue
		}
		if best == -1 || idx < best || (idx == best && len(k.word) > bestLen) {
			best = idx
			bestLen = len(k.word)
			days = k.days
		}
	}
	return days, best >= 0
}

func clamp(days int) int {
	if days < MinDays {
		return MinDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}
