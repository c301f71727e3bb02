// Package latex turns model/teacher supplied text into LaTeX-safe source.
// Math spans ($...$ and $$...$$) are preserved verbatim apart from symbol
// normalization; everything else gets reserved characters escaped.
package latex

import (
	"regexp"
	"strings"
)

// BlankCommand is the fill-in-the-blank primitive emitted for runs of
// underscores. Defined in the paper preamble as \underline{\makebox[3em]{}}.
const BlankCommand = `\undsp `

var (
	mathSpanRe = regexp.MustCompile(`(?s)\$\$.*?\$\$|\$.*?\$`)

	codeFenceRe  = regexp.MustCompile("(?s)```.*?```")
	headingRe    = regexp.MustCompile(`(?m)^\s*#{1,6}\s*`)
	listMarkerRe = regexp.MustCompile(`(?m)^\s*[-+*]\s+`)
	italicRe     = regexp.MustCompile(`\*([^*\n]+)\*`)

	// Run of two or more underscores, each optionally pre-escaped, standing
	// in for a fill-in-the-blank line.
	blankRunRe = regexp.MustCompile(`(\\?_){2,}`)

	// Function names become \sin etc. only when they stand alone and are not
	// already escaped: the leading group rejects a backslash or a letter
	// immediately before the name.
	funcNameRe = regexp.MustCompile(`(^|[^\\A-Za-z])(arcsin|arccos|arctan|sin|cos|tan|cot|sec|csc|ln|log|exp)\b`)

	// // used as the parallel symbol; a preceding colon marks a URL.
	mathParallelRe = regexp.MustCompile(`(^|[^:\\])//`)
)

const blankPlaceholder = "\x00BLANK\x00"

var mathSymbolReplacer = strings.NewReplacer(
	"π", `\pi`,
	"∥", `\spar`,
	"∞", `\infty`,
	"×", `\times`,
	"÷", `\div`,
	"°", `^\circ`,
	"₀", "_0", "₁", "_1", "₂", "_2", "₃", "_3", "₄", "_4",
	"₅", "_5", "₆", "_6", "₇", "_7", "₈", "_8", "₉", "_9",
	"⁰", "^0", "¹", "^1", "²", "^2", "³", "^3", "⁴", "^4",
	"⁵", "^5", "⁶", "^6", "⁷", "^7", "⁸", "^8", "⁹", "^9",
)

var plainSymbolReplacer = strings.NewReplacer(
	"π", `$\pi$`,
	"∥", `$\spar$`,
	"∞", `$\infty$`,
	"×", `$\times$`,
	"÷", `$\div$`,
	"°", `$^\circ$`,
)

// Full-width punctuation keeps slipping in from OCR; normalize it so
// brackets and commas render consistently.
var fullwidthReplacer = strings.NewReplacer(
	"（", "(",
	"）", ")",
	"，", ", ",
	"：", ": ",
	"；", "; ",
	"？", "?",
	"！", "!",
	"．", ".",
	"　", " ",
)

var textEscapes = map[rune]string{
	'&': `\&`,
	'%': `\%`,
	'#': `\#`,
	'_': `\_`,
	'{': `\{`,
	'}': `\}`,
	'~': `\textasciitilde{}`,
	'^': `\^{}`,
}

// Escape produces LaTeX-safe text. Reserved characters outside math spans
// are escaped, math spans are normalized but otherwise untouched, and an
// unbalanced $ is repaired by appending a closing one. Escape must be
// applied exactly once per string: it does not detect its own output.
func Escape(text string) string {
	if text == "" {
		return ""
	}

	text = strings.TrimSpace(text)

	if countUnescapedDollars(text)%2 != 0 {
		text += "$"
	}

	var out strings.Builder
	last := 0
	for _, span := range mathSpanRe.FindAllStringIndex(text, -1) {
		out.WriteString(escapePlain(text[last:span[0]]))
		out.WriteString(NormalizeMath(text[span[0]:span[1]]))
		last = span[1]
	}
	out.WriteString(escapePlain(text[last:]))
	return out.String()
}

// NormalizeMath rewrites Unicode math symbols and bare function names into
// their LaTeX command form. Used for math spans and for TikZ node labels,
// which are emitted inside math mode and need no character escaping.
func NormalizeMath(text string) string {
	if text == "" {
		return ""
	}
	text = mathSymbolReplacer.Replace(text)
	text = funcNameRe.ReplaceAllString(text, `${1}\${2}`)
	text = mathParallelRe.ReplaceAllString(text, `${1}\spar `)
	return text
}

// cleanMarkdown runs on plain spans only: math spans keep their fenced
// text and fullwidth characters untouched.
func cleanMarkdown(text string) string {
	if text == "" {
		return ""
	}
	t := codeFenceRe.ReplaceAllString(text, "")
	t = headingRe.ReplaceAllString(t, "")
	// Keep __ intact: double underscores are fill-in-the-blank markers.
	t = strings.ReplaceAll(t, "**", "")
	t = italicRe.ReplaceAllString(t, "$1")
	t = listMarkerRe.ReplaceAllString(t, "")
	return fullwidthReplacer.Replace(t)
}

func escapePlain(text string) string {
	if text == "" {
		return ""
	}
	text = cleanMarkdown(text)
	// Protect blank runs before per-character escaping so ____ becomes one
	// \undsp instead of four \_ in a row.
	t := blankRunRe.ReplaceAllString(text, blankPlaceholder)

	var out strings.Builder
	for _, r := range t {
		if esc, ok := textEscapes[r]; ok {
			out.WriteString(esc)
		} else {
			out.WriteRune(r)
		}
	}

	// Symbol substitution runs after character escaping: the commands it
	// inserts carry ^ and \ of their own and must not be re-escaped.
	t = plainSymbolReplacer.Replace(out.String())
	t = strings.ReplaceAll(t, " // ", ` \spar `)
	return strings.ReplaceAll(t, blankPlaceholder, BlankCommand)
}

func countUnescapedDollars(text string) int {
	n := 0
	escaped := false
	for _, r := range text {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '$':
			n++
		}
	}
	return n
}
