package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateName validates a panel or board name.
//
// Names are used as map keys, SVG element ids and JSON keys, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - No path separators (names are joined with "/" in region keys)
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	if strings.Contains(name, "/") {
		return New(ErrCodeInvalidInput, "name cannot contain %q: %q", "/", name)
	}

	return nil
}

// ValidateSize checks that a length in inches is finite and not negative.
func ValidateSize(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", what, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative, got %v", what, v)
	}
	return nil
}

// ValidateRatios checks split ratios and the spacing between chunks.
//
// Validation rules:
//   - At least one chunk
//   - Every ratio positive and finite
//   - Exactly one spacing value per gap (len(ratios)-1), each in [0, 1)
//   - Total spacing strictly below 1 so chunks keep a positive length
func ValidateRatios(ratios, spacing []float64) error {
	if len(ratios) == 0 {
		return New(ErrCodeInvalidRatios, "split requires at least one chunk")
	}
	for i, r := range ratios {
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return New(ErrCodeInvalidRatios, "ratio %d must be positive, got %v", i, r)
		}
	}
	if len(spacing) != len(ratios)-1 {
		return New(ErrCodeInvalidRatios, "expected %d spacing values, got %d", len(ratios)-1, len(spacing))
	}
	var total float64
	for i, s := range spacing {
		if math.IsNaN(s) || s < 0 || s >= 1 {
			return New(ErrCodeInvalidRatios, "spacing %d must be in [0, 1), got %v", i, s)
		}
		total += s
	}
	if total >= 1 {
		return New(ErrCodeInvalidRatios, "total spacing %v leaves no room for chunks", total)
	}
	return nil
}

// ValidateBreakpoints checks sorted split breakpoints for an axis of length n.
// Breakpoints must be strictly increasing and lie inside (0, n).
func ValidateBreakpoints(breakpoints []int, n int) error {
	prev := 0
	for i, b := range breakpoints {
		if b <= 0 || b >= n {
			return New(ErrCodeInvalidBreakpoints, "breakpoint %d out of range (0, %d)", b, n)
		}
		if i > 0 && b <= prev {
			return New(ErrCodeInvalidBreakpoints, "breakpoints must be unique, %d repeated", b)
		}
		prev = b
	}
	return nil
}

// ValidatePermutation checks that index is a permutation of 0..n-1.
func ValidatePermutation(index []int, n int) error {
	if len(index) != n {
		return New(ErrCodeInvalidReindex, "length of reindex (%d) should match %d elements", len(index), n)
	}
	seen := make([]bool, n)
	for _, ix := range index {
		if ix < 0 || ix >= n {
			return New(ErrCodeInvalidReindex, "index %d out of range [0, %d)", ix, n)
		}
		if seen[ix] {
			return New(ErrCodeInvalidReindex, "index %d appears more than once", ix)
		}
		seen[ix] = true
	}
	return nil
}
