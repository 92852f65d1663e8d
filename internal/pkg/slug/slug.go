// Package slug derives URL-safe category slugs from display names.
// Thaana script is preserved so Dhivehi category names keep readable URLs.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// invalidRuns matches runs of anything outside lowercase latin, digits,
	// and the Thaana block (U+0780–U+07BF).
	invalidRuns = regexp.MustCompile(`[^a-z0-9\x{0780}-\x{07BF}]+`)
	hyphenRuns  = regexp.MustCompile(`-{2,}`)
)

// Derive computes the slug for a category name.
// The result is never empty: names with no usable characters fall back to
// a timestamp-based slug.
func Derive(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = invalidRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fmt.Sprintf("category-%d", time.Now().UnixMilli())
	}
	return s
}
