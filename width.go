package rendercore

import (
	"os"
	"strings"
	"sync"

	"github.com/unilibs/uniwidth"
)

// CJKWidthPolicy selects how ambiguous-width runes (the East Asian
// "Ambiguous" category) are measured.
type CJKWidthPolicy uint8

const (
	// CJKWidthNarrow treats ambiguous-width runes as 1 column (default).
	CJKWidthNarrow CJKWidthPolicy = iota
	// CJKWidthWide treats ambiguous-width runes as 2 columns, matching CJK
	// locale terminal behavior.
	CJKWidthWide
)

// WidthPolicy resolves the display width of runes and strings under a
// process-wide CJK ambiguous-width setting, cached once per process per
// spec.md §9 ("Global state... Width policy is either per-engine
// configuration or resolved once at startup from environment inputs").
type WidthPolicy struct {
	cjk CJKWidthPolicy
}

var (
	defaultWidthPolicyOnce sync.Once
	defaultWidthPolicy     *WidthPolicy
)

// DefaultWidthPolicy resolves the process-wide width policy from
// FTUI_GLYPH_DOUBLE_WIDTH, FTUI_TEXT_CJK_WIDTH, LC_CTYPE, and LANG,
// caching the result for the process lifetime.
func DefaultWidthPolicy() *WidthPolicy {
	defaultWidthPolicyOnce.Do(func() {
		defaultWidthPolicy = &WidthPolicy{cjk: resolveCJKPolicyFromEnv()}
	})
	return defaultWidthPolicy
}

// NewWidthPolicy constructs an explicit width policy, bypassing environment
// resolution — used by engines that want deterministic behavior regardless
// of process environment (e.g. tests, fixture harnesses).
func NewWidthPolicy(cjk CJKWidthPolicy) *WidthPolicy {
	return &WidthPolicy{cjk: cjk}
}

func resolveCJKPolicyFromEnv() CJKWidthPolicy {
	for _, v := range []string{os.Getenv("FTUI_GLYPH_DOUBLE_WIDTH"), os.Getenv("FTUI_TEXT_CJK_WIDTH")} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "wide", "yes":
			return CJKWidthWide
		case "0", "false", "narrow", "no":
			return CJKWidthNarrow
		}
	}
	locale := os.Getenv("LC_CTYPE")
	if locale == "" {
		locale = os.Getenv("LANG")
	}
	locale = strings.ToLower(locale)
	for _, tag := range []string{"zh", "ja", "ko"} {
		if strings.Contains(locale, tag) {
			return CJKWidthWide
		}
	}
	return CJKWidthNarrow
}

// CharWidth returns the display width of a single Unicode scalar: 2 for wide
// characters, 1 for normal, 0 for combining marks / zero-width / control.
func (p *WidthPolicy) CharWidth(r rune) int {
	w := uniwidth.RuneWidth(r)
	if w == 1 && p.cjk == CJKWidthWide && isEastAsianAmbiguous(r) {
		return 2
	}
	return w
}

// StringWidth returns the total display width of a string (sum of rune
// widths, grapheme clusters notwithstanding — callers needing cluster-aware
// width should segment with Segments first).
func (p *WidthPolicy) StringWidth(s string) int {
	total := 0
	for _, r := range s {
		total += p.CharWidth(r)
	}
	return total
}

// isEastAsianAmbiguous reports membership in a practical subset of the
// Unicode East Asian Width "Ambiguous" category — the ranges most commonly
// widened under CJK locales (U+00A1-U+00A3, general punctuation
// U+2010-U+2027, box drawing, block elements, geometric shapes). Not
// exhaustive; uniwidth already resolves the
// unambiguous Wide/Fullwidth/Narrow/Halfwidth categories.
func isEastAsianAmbiguous(r rune) bool {
	switch {
	case r >= 0x00A1 && r <= 0x00A3:
		return true
	case r >= 0x2010 && r <= 0x2027:
		return true
	case r >= 0x2500 && r <= 0x257F: // box drawing
		return true
	case r >= 0x2580 && r <= 0x259F: // block elements
		return true
	case r >= 0x25A0 && r <= 0x25FF: // geometric shapes
		return true
	default:
		return false
	}
}
