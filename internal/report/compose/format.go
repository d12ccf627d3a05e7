package compose

import (
	"fmt"
	"html"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titlePolicy = bluemonday.StrictPolicy()

// sanitizeTitle strips markup from template supplied titles and returns
// plain text.
func sanitizeTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(title)))
}

func formatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

func formatMetric(v any) string {
	switch n := v.(type) {
	case float64:
		return formatFixed(n, 2)
	case float32:
		return formatFixed(float64(n), 2)
	case int:
		return formatFixed(float64(n), 2)
	case int64:
		return formatFixed(float64(n), 2)
	case string:
		return n
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

func toneFor(percent float64) Tone {
	switch {
	case percent >= 70:
		return ToneHigh
	case percent >= 40:
		return ToneMedium
	default:
		return ToneLow
	}
}

// humanize turns a dimension key like "team-spirit" into "Team Spirit".
func humanize(key string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	return caser.String(strings.ReplaceAll(key, "-", " "))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
