package structuring

import (
	"regexp"
	"strings"
)

// Repair transforms run in order from least to most invasive. Each is a
// pure string rewrite; the caller attempts a parse after each stage.

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	missingCommaRe  = regexp.MustCompile(`"(\s*\n\s*)"`)
	singleQuoteRe   = regexp.MustCompile(`'([^'\n]*)'`)
	bareValueRe     = regexp.MustCompile(`:\s*([A-Za-z][A-Za-z0-9 _.-]*?)(\s*[,}\n])`)
)

// stripFence removes a markdown code fence around the payload.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// extractObject narrows the text to the outermost brace span. Returns
// the input unchanged when no braces are present.
func extractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

// conservativeRepair fixes the common structural slips: unquoted keys,
// trailing commas, and a dropped comma between adjacent string fields.
func conservativeRepair(text string) string {
	text = bareKeyRe.ReplaceAllString(text, `$1"$2":`)
	text = trailingCommaRe.ReplaceAllString(text, `$1`)
	text = missingCommaRe.ReplaceAllString(text, `",$1"`)
	return text
}

// aggressiveRepair converts single-quoted strings to double quotes and
// quotes bare word values. Literals and numbers are left alone.
func aggressiveRepair(text string) string {
	text = singleQuoteRe.ReplaceAllString(text, `"$1"`)
	text = bareValueRe.ReplaceAllStringFunc(text, func(match string) string {
		groups := bareValueRe.FindStringSubmatch(match)
		value := strings.TrimSpace(groups[1])
		switch value {
		case "true", "false", "null":
			return match
		}
		return `: "` + groups[1] + `"` + groups[2]
	})
	return text
}
