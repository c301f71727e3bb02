package export

import (
	"strings"
	"testing"
)

func TestExtractAnswerLetter(t *testing.T) {
	cases := map[string]string{
		"【答案】B":          "B",
		"【答案】 ac":        "AC",
		"B。由题意得……":       "B",
		"AD":             "AD",
		"":               "",
		"【答案】A\n【解析】因为……": "A",
	}
	for in, want := range cases {
		if got := extractAnswerLetter(in); got != want {
			t.Fatalf("extractAnswerLetter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractAnswerLetterFallbackTruncates(t *testing.T) {
	long := strings.Repeat("很", 40)
	got := extractAnswerLetter(long)
	if len([]rune(got)) != 20 {
		t.Fatalf("fallback length = %d runes", len([]rune(got)))
	}
}

func TestExtractFillBlankAnswer(t *testing.T) {
	got := extractFillBlankAnswer("【答案】$x=2$\n【解析】移项即可")
	if got != "$x=2$" {
		t.Fatalf("got %q", got)
	}
	if plain := extractFillBlankAnswer("42"); plain != "42" {
		t.Fatalf("plain answer mangled: %q", plain)
	}
}

func TestBuildAnswerSheet(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	doc := BuildAnswerSheetLaTeX(paper, pqs, qmap)

	if !strings.Contains(doc.LaTeX, "答案卷") {
		t.Fatalf("title missing")
	}
	// Single and multi choice sections render letter tables.
	if !strings.Contains(doc.LaTeX, `\begin{tabular}{|c|}`) {
		t.Fatalf("letter table missing:\n%s", doc.LaTeX)
	}
	if !strings.Contains(doc.LaTeX, "一、选择题答案") || !strings.Contains(doc.LaTeX, "二、多选题答案") {
		t.Fatalf("choice sections missing")
	}
	if !strings.Contains(doc.LaTeX, "AC") {
		t.Fatalf("multi-choice letters missing")
	}
	if !strings.Contains(doc.LaTeX, "四、解答题答案") {
		t.Fatalf("solve section missing")
	}
}

func TestBuildAnswerSheetEmptySolveAnswer(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	for _, q := range qmap {
		if q.QuestionType == "solve" {
			q.Answer = ""
		}
	}
	doc := BuildAnswerSheetLaTeX(paper, pqs, qmap)
	if !strings.Contains(doc.LaTeX, "（无答案）") {
		t.Fatalf("empty solve answer needs a visible marker")
	}
}
