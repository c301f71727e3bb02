package latex

import (
	"strings"
	"testing"
)

func countUnescaped(s string) int {
	n := 0
	escaped := false
	for _, r := range s {
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

func TestEscapeBalancesOddDollar(t *testing.T) {
	inputs := []string{
		"solve $x+1",
		"$",
		"a $b$ c $d",
	}
	for _, in := range inputs {
		out := Escape(in)
		if countUnescaped(out)%2 != 0 {
			t.Fatalf("Escape(%q) = %q has odd unescaped $ count", in, out)
		}
	}
}

func TestEscapePreservesMathSpans(t *testing.T) {
	out := Escape("Let $x_1 + y^2$ hold.")
	if !strings.Contains(out, "$x_1 + y^2$") {
		t.Fatalf("math span was altered: %q", out)
	}
}

func TestEscapeReservedCharsOutsideMath(t *testing.T) {
	out := Escape("50% of a&b #1")
	for _, want := range []string{`\%`, `\&`, `\#`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestEscapeBlankRunBecomesSinglePrimitive(t *testing.T) {
	out := Escape("a____b")
	if out != "a"+BlankCommand+"b" {
		t.Fatalf("got %q", out)
	}
	if strings.Contains(out, `\_`) {
		t.Fatalf("blank run was shredded into per-char escapes: %q", out)
	}
}

func TestEscapePreEscapedBlankRun(t *testing.T) {
	out := Escape(`a\_\_\_\_b`)
	if out != "a"+BlankCommand+"b" {
		t.Fatalf("got %q", out)
	}
}

func TestEscapeSingleUnderscoreStillEscaped(t *testing.T) {
	out := Escape("a_b")
	if out != `a\_b` {
		t.Fatalf("got %q", out)
	}
}

func TestEscapeIsNotNaivelyIdempotent(t *testing.T) {
	// Escape must run exactly once per pipeline stage: a second pass
	// re-escapes the first pass's own backslash sequences.
	in := "a&b"
	once := Escape(in)
	twice := Escape(once)
	if twice == once {
		t.Fatalf("double escape unexpectedly stable: %q", once)
	}
}

func TestEscapeUnicodeSymbolsInPlainText(t *testing.T) {
	out := Escape("angle 60° and π")
	if !strings.Contains(out, `$^\circ$`) || !strings.Contains(out, `$\pi$`) {
		t.Fatalf("got %q", out)
	}
}

func TestEscapeFullwidthPunctuation(t *testing.T) {
	out := Escape("（１）设ｆ（ｘ）")
	if strings.ContainsAny(out, "（）") {
		t.Fatalf("fullwidth brackets survived: %q", out)
	}
}

func TestEscapeStripsMarkdown(t *testing.T) {
	out := Escape("## Title\n**bold** text\n- item")
	if strings.Contains(out, "#") || strings.Contains(out, "**") {
		t.Fatalf("markdown markers survived: %q", out)
	}
	if !strings.Contains(out, "bold") || !strings.Contains(out, "item") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestEscapeFullwidthInsideMathUntouched(t *testing.T) {
	out := Escape("（1）当 $S（t）$ 最大")
	if !strings.Contains(out, "$S（t）$") {
		t.Fatalf("math span punctuation rewritten: %q", out)
	}
	if !strings.Contains(out, "(1)") {
		t.Fatalf("plain-span fullwidth bracket survived: %q", out)
	}
}

func TestEscapeStripsItalicMarkers(t *testing.T) {
	out := Escape("a *slanted* word")
	if strings.Contains(out, "*") {
		t.Fatalf("italic markers survived: %q", out)
	}
	if !strings.Contains(out, "slanted") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestEscapeKeepsLoneAsterisk(t *testing.T) {
	out := Escape("2 * 3")
	if !strings.Contains(out, "*") {
		t.Fatalf("unpaired asterisk removed: %q", out)
	}
}

func TestNormalizeMathFunctionNames(t *testing.T) {
	out := NormalizeMath("sin x + arcsin y - log z")
	for _, want := range []string{`\sin`, `\arcsin`, `\log`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestNormalizeMathDoesNotDoubleEscape(t *testing.T) {
	out := NormalizeMath(`\sin x`)
	if strings.Contains(out, `\\sin`) {
		t.Fatalf("double escaped: %q", out)
	}
}

func TestNormalizeMathLeavesIdentifiersAlone(t *testing.T) {
	out := NormalizeMath("expand sink")
	if strings.Contains(out, `\exp`) || strings.Contains(out, `\sin`) {
		t.Fatalf("identifier substring corrupted: %q", out)
	}
}

func TestNormalizeMathSubscriptDigits(t *testing.T) {
	out := NormalizeMath("x₁ + y²")
	if !strings.Contains(out, "x_1") || !strings.Contains(out, "y^2") {
		t.Fatalf("got %q", out)
	}
}

func TestNormalizeMathParallelSlashes(t *testing.T) {
	out := NormalizeMath("AB//CD")
	if !strings.Contains(out, `\spar`) {
		t.Fatalf("got %q", out)
	}
	if url := NormalizeMath("https://example.com"); strings.Contains(url, `\spar`) {
		t.Fatalf("url corrupted: %q", url)
	}
}

func TestEscapeEmptyString(t *testing.T) {
	if Escape("") != "" {
		t.Fatalf("empty input must stay empty")
	}
}
