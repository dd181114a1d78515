// Package quantity extracts pack quantities and units from free-form
// product text ("Exo Round 500g", "2 x 250ml combo", "Net wt 1 Kg").
package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

// Result is a successfully extracted quantity.
type Result struct {
	Value float64
	Unit  string
}

// simpleRe matches the bare <number><unit> family shared by the lookup
// adapters for titles and packaging strings.
var simpleRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(g|gm|gram|ml|l|liter|kg|pc|pack)\b`)

// compoundRe matches multipack forms like "2 x 500g"; the extracted
// quantity is the product of both numbers.
var compoundRe = regexp.MustCompile(`(?i)(\d+)\s*x\s*(\d+(?:\.\d+)?)\s*(g|ml|gm|l)`)

// unitPattern pairs a unit-specific regex with the canonical unit it yields.
type unitPattern struct {
	re   *regexp.Regexp
	unit string
}

// unitPatterns is the ordered family of unit-specific patterns. Order
// matters: the first match wins, and the gram pattern must run before the
// bare "l" pattern so "500g" is not read as liters.
var unitPatterns = []unitPattern{
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:g|gm|gram|grams|grm)\b`), "g"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:ml|millilit(?:er|re))\b`), "ml"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:kg|kilo|kilogram)\b`), "kg"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:l|ltr|lit|liter|litre)\b`), "l"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:pc|pcs|piece|pieces|pack)\b`), "pc"},
}

// bareNumberRe is the fallback scan for a number directly followed by a
// weight unit anywhere in the text.
var bareNumberRe = regexp.MustCompile(`(?i)(\d+)\s*(g|gm|gram|ml|l|kg)\b`)

// gmLastResortRe matches the "500 Gm" listing format some storefronts use.
var gmLastResortRe = regexp.MustCompile(`(?i)(\d+)\s*Gm\b`)

// ExtractSimple runs the shared <number><unit> scan used by the source
// adapters. The unit is returned lowercased.
func ExtractSimple(text string) (Result, bool) {
	m := simpleRe.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Result{}, false
	}
	return Result{Value: value, Unit: strings.ToLower(m[2])}, true
}

// Extract runs the full ordered pattern chain over text:
// compound multipack form, unit-specific patterns, bare-number scan, and a
// last-resort "N Gm" scan. The first successful match wins.
func Extract(text string) (Result, bool) {
	if m := compoundRe.FindStringSubmatch(text); m != nil {
		count, err1 := strconv.ParseFloat(m[1], 64)
		each, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return Result{Value: count * each, Unit: strings.ToLower(m[3])}, true
		}
	}

	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			value, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return Result{Value: value, Unit: p.unit}, true
			}
		}
	}

	if m := bareNumberRe.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return Result{Value: value, Unit: strings.ToLower(m[2])}, true
		}
	}

	if m := gmLastResortRe.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return Result{Value: value, Unit: "g"}, true
		}
	}

	return Result{}, false
}
