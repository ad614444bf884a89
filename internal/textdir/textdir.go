// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textdir classifies text directionality for rendering.
//
// Chat transcripts routinely mix scripts: a mostly-English reply with an
// Arabic quotation, a Hebrew question answered in English. Direction is
// therefore decided by density, not by sniffing the first character — a
// message is right-to-left when at least 30% of its letters and digits
// belong to a right-to-left script.
//
// Everything here is a pure function of the input text. Analyze runs on
// every message bubble each render and on every input keystroke, so it
// is a single pass with no allocation beyond the returned record.
package textdir

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// DIRECTION
// =============================================================================

// Direction is a text rendering direction.
type Direction string

const (
	// LTR is left-to-right, the default.
	LTR Direction = "ltr"

	// RTL is right-to-left.
	RTL Direction = "rtl"
)

// rtlThreshold is the density at which text flips to right-to-left.
const rtlThreshold = 0.3

// =============================================================================
// SCRIPT TABLES
// =============================================================================

// rtlRanges lists the right-to-left Unicode blocks, in code point order.
// Covers Hebrew, Arabic, and the related historical scripts plus the
// presentation-form compatibility blocks.
var rtlRanges = []struct {
	lo, hi rune
}{
	{0x0590, 0x05FF}, // Hebrew
	{0x0600, 0x06FF}, // Arabic
	{0x0700, 0x074F}, // Syriac
	{0x0750, 0x077F}, // Arabic Supplement
	{0x0780, 0x07BF}, // Thaana
	{0x07C0, 0x07FF}, // NKo
	{0x0800, 0x083F}, // Samaritan
	{0x0840, 0x085F}, // Mandaic
	{0x0860, 0x086F}, // Syriac Supplement
	{0x08A0, 0x08FF}, // Arabic Extended-A
	{0xFB1D, 0xFB4F}, // Hebrew Presentation Forms
	{0xFB50, 0xFDFF}, // Arabic Presentation Forms-A
	{0xFE70, 0xFEFF}, // Arabic Presentation Forms-B
}

// IsRTLRune reports whether r belongs to a right-to-left script block.
func IsRTLRune(r rune) bool {
	for _, rng := range rtlRanges {
		if r < rng.lo {
			return false
		}
		if r <= rng.hi {
			return true
		}
	}
	return false
}

// Persian is distinguished from the rest of the Arabic block by its four
// extra letters.
var persianRunes = map[rune]bool{
	'پ': true, // پ
	'چ': true, // چ
	'ژ': true, // ژ
	'گ': true, // گ
}

// Urdu is distinguished by its retroflex and digraph letters, which sit
// in the Arabic block but never occur in Arabic itself.
var urduRunes = map[rune]bool{
	'ٹ': true, // ٹ
	'ڈ': true, // ڈ
	'ڑ': true, // ڑ
	'ں': true, // ں
	'ھ': true, // ھ
	'ہ': true, // ہ
	'ے': true, // ے
}

// isArabicCore reports whether r is a base Arabic letter or Arabic-Indic
// digit — the subset shared by written Arabic but not the Persian/Urdu
// extensions.
func isArabicCore(r rune) bool {
	return (r >= 0x0621 && r <= 0x064A) || (r >= 0x0660 && r <= 0x0669)
}

func isHebrew(r rune) bool {
	return (r >= 0x0590 && r <= 0x05FF) || (r >= 0xFB1D && r <= 0xFB4F)
}

// =============================================================================
// FONT HINTS
// =============================================================================

// fontFamilies maps a guessed language to an advisory font stack. The
// terminal picks glyphs itself; the hint travels with exported or
// web-rendered transcripts.
var fontFamilies = map[string]string{
	"persian": "Vazirmatn, Tahoma, sans-serif",
	"arabic":  "Noto Sans Arabic, Tahoma, sans-serif",
	"hebrew":  "Noto Sans Hebrew, Arial, sans-serif",
	"urdu":    "Noto Nastaliq Urdu, Tahoma, sans-serif",
	"rtl":     "Tahoma, sans-serif",
}

// FontFamilyFor returns the advisory font stack for a guessed language,
// or "" when no hint applies.
func FontFamilyFor(language string) string {
	return fontFamilies[language]
}

// =============================================================================
// ANALYSIS
// =============================================================================

// Analysis is the classification of one piece of text.
type Analysis struct {
	// Direction is LTR or RTL.
	Direction Direction

	// Language is the guessed language tag ("persian", "arabic",
	// "hebrew", "urdu"), the generic "rtl" when the text is
	// right-to-left but matched no specific pattern, or "" for
	// left-to-right text.
	Language string

	// FontFamily is the advisory font stack for Language, "" when none.
	FontFamily string

	// RTLRatio is the fraction of letters and digits that are
	// right-to-left, in [0, 1].
	RTLRatio float64
}

// Analyze classifies text in a single pass. Input is normalized to NFC
// first so precomposed and decomposed forms classify identically.
func Analyze(text string) Analysis {
	text = norm.NFC.String(text)

	var total, rtl int
	var hasPersian, hasArabic, hasHebrew, hasUrdu bool

	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			continue
		}
		total++
		if !IsRTLRune(r) {
			continue
		}
		rtl++
		switch {
		case persianRunes[r]:
			hasPersian = true
		case urduRunes[r]:
			hasUrdu = true
		case isArabicCore(r):
			hasArabic = true
		case isHebrew(r):
			hasHebrew = true
		}
	}

	var ratio float64
	if total > 0 {
		ratio = float64(rtl) / float64(total)
	}

	result := Analysis{Direction: LTR, RTLRatio: ratio}
	if ratio < rtlThreshold {
		return result
	}
	result.Direction = RTL

	// First match in a fixed order decides the language guess.
	switch {
	case hasPersian:
		result.Language = "persian"
	case hasArabic:
		result.Language = "arabic"
	case hasHebrew:
		result.Language = "hebrew"
	case hasUrdu:
		result.Language = "urdu"
	default:
		result.Language = "rtl"
	}
	result.FontFamily = fontFamilies[result.Language]
	return result
}

// RTLRatio returns only the density figure for text.
func RTLRatio(text string) float64 {
	return Analyze(text).RTLRatio
}

// IsRTL reports whether text renders right-to-left.
func IsRTL(text string) bool {
	return Analyze(text).Direction == RTL
}
