package export

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/T332932/for-dachaung/internal/templates"
	"github.com/T332932/for-dachaung/internal/types"
)

func jsonArray(t *testing.T, items []string) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return datatypes.JSON(raw)
}

func makeQuestion(t *testing.T, qtype, text, answer string, options []string) *types.Question {
	t.Helper()
	q := &types.Question{
		ID:           uuid.New(),
		QuestionText: text,
		Answer:       answer,
		QuestionType: qtype,
	}
	if options != nil {
		q.Options = jsonArray(t, options)
	}
	return q
}

func buildFixture(t *testing.T) (*types.Paper, []types.PaperQuestion, map[uuid.UUID]*types.Question) {
	t.Helper()
	paper := &types.Paper{ID: uuid.New(), Title: "期中测试"}
	questions := []*types.Question{
		makeQuestion(t, "choice", "设集合 $A$，求 $A$ 的元素个数。", "【答案】B", []string{"A. 1", "B. 2", "C. 3", "D. 4"}),
		makeQuestion(t, "multi", "下列说法正确的是", "【答案】AC", []string{"A. 甲", "B. 乙", "C. 丙", "D. 丁"}),
		makeQuestion(t, "fillblank", "计算 $1+1=$ ____", "【答案】2", nil),
		makeQuestion(t, "solve", "证明不等式成立。", "【答案】见解析", nil),
	}
	var pqs []types.PaperQuestion
	qmap := map[uuid.UUID]*types.Question{}
	for i, q := range questions {
		qmap[q.ID] = q
		pqs = append(pqs, types.PaperQuestion{
			ID:         uuid.New(),
			PaperID:    paper.ID,
			QuestionID: q.ID,
			Seq:        i + 1,
			Score:      5,
		})
	}
	return paper, pqs, qmap
}

func TestBuildPaperSectionOrder(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	doc := BuildPaperLaTeX(paper, pqs, qmap, Options{})

	single := strings.Index(doc.LaTeX, "一、")
	multi := strings.Index(doc.LaTeX, "二、")
	fill := strings.Index(doc.LaTeX, "三、")
	solve := strings.Index(doc.LaTeX, "四、")
	if single == -1 || multi == -1 || fill == -1 || solve == -1 {
		t.Fatalf("missing section headings")
	}
	if !(single < multi && multi < fill && fill < solve) {
		t.Fatalf("sections out of order: %d %d %d %d", single, multi, fill, solve)
	}
}

func TestBuildPaperChoiceMacro(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	doc := BuildPaperLaTeX(paper, pqs, qmap, Options{})
	if !strings.Contains(doc.LaTeX, `\choice{1}{2}{3}{4}`) {
		t.Fatalf("choice macro with stripped prefixes not found:\n%s", doc.LaTeX)
	}
}

func TestBuildPaperDocumentStructure(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	doc := BuildPaperLaTeX(paper, pqs, qmap, Options{})
	for _, want := range []string{`\documentclass`, `\begin{document}`, `\end{document}`, "期中测试"} {
		if !strings.Contains(doc.LaTeX, want) {
			t.Fatalf("missing %q", want)
		}
	}
}

func TestBuildPaperAnswersToggle(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	without := BuildPaperLaTeX(paper, pqs, qmap, Options{})
	if strings.Contains(without.LaTeX, "答案：") {
		t.Fatalf("answers leaked into blank paper")
	}
	with := BuildPaperLaTeX(paper, pqs, qmap, Options{IncludeAnswer: true})
	if !strings.Contains(with.LaTeX, "答案：") {
		t.Fatalf("answers missing from answered paper")
	}
}

func TestBuildPaperSolveLeavesWorkingSpace(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	doc := BuildPaperLaTeX(paper, pqs, qmap, Options{})
	if !strings.Contains(doc.LaTeX, `\vspace{6em}`) {
		t.Fatalf("solve question without figure must leave working space")
	}
}

func TestBuildPaperSkipsUnknownQuestions(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	pqs = append(pqs, types.PaperQuestion{ID: uuid.New(), QuestionID: uuid.New(), Seq: 99})
	doc := BuildPaperLaTeX(paper, pqs, qmap, Options{})
	if strings.Contains(doc.LaTeX, "99") {
		t.Fatalf("dangling question reference rendered")
	}
}

var includeGraphicsRe = regexp.MustCompile(`\\includegraphics\[[^\]]*\]\{([^}]+)\}`)

func TestBuildPaperAttachmentReferencesResolve(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	// A fill-only rect compiles to no TikZ command, which forces the raster
	// fallback and produces an attachment.
	for _, q := range qmap {
		if q.QuestionType == "solve" {
			q.HasGeometry = true
			q.GeometrySVG = `<svg viewBox="0 0 100 100"><rect x="10" y="10" width="50" height="30" fill="gray"/></svg>`
			q.TikzCode = ""
		}
	}
	doc := BuildPaperLaTeX(paper, pqs, qmap, Options{IncludeAnswer: true})

	refs := includeGraphicsRe.FindAllStringSubmatch(doc.LaTeX, -1)
	if len(refs) == 0 {
		t.Fatalf("raster fallback produced no \\includegraphics")
	}
	names := map[string]bool{}
	for _, att := range doc.Attachments {
		names[att.Name] = true
	}
	for _, m := range refs {
		if !names[m[1]] {
			t.Fatalf("referenced attachment %q not present", m[1])
		}
	}
}

func TestBuildTemplatePlaceholderForMissingSlot(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	tpl, err := templates.Get("gaokao_new_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	doc := BuildTemplateLaTeX(paper, tpl, pqs, qmap, Options{})
	if !strings.Contains(doc.LaTeX, "缺题占位") {
		t.Fatalf("empty slots must render a placeholder")
	}
	if !strings.Contains(doc.LaTeX, "设集合") {
		t.Fatalf("assigned question missing from template build")
	}
}

func TestStripOptionPrefix(t *testing.T) {
	cases := map[string]string{
		"A. 答案一":   "答案一",
		"Ｂ．答案二":   "答案二",
		"c) 答案三":   "答案三",
		"D、答案四":    "答案四",
		"没有前缀":     "没有前缀",
		"  A. 空白 ": "空白",
	}
	for in, want := range cases {
		if got := stripOptionPrefix(in); got != want {
			t.Fatalf("stripOptionPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWrapDiagramBlockEmpty(t *testing.T) {
	if wrapDiagramBlock("") != "" {
		t.Fatalf("empty diagram must produce no block")
	}
}
