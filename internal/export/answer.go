package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/T332932/for-dachaung/internal/types"
)

var (
	answerLetterRe  = regexp.MustCompile(`【答案】\s*([A-Za-z]+)`)
	leadingLetterRe = regexp.MustCompile(`^([A-Za-z]+)`)
	fillAnswerRe    = regexp.MustCompile(`(?s)【答案】\s*(.+?)(【|$)`)
)

// extractAnswerLetter pulls the choice letters out of a full answer text:
// the 【答案】-anchored run wins, then a leading run of letters, then a
// truncated fallback of the raw text.
func extractAnswerLetter(answer string) string {
	if answer == "" {
		return ""
	}
	if m := answerLetterRe.FindStringSubmatch(answer); m != nil {
		return strings.ToUpper(m[1])
	}
	trimmed := strings.TrimSpace(answer)
	if m := leadingLetterRe.FindStringSubmatch(trimmed); m != nil {
		return strings.ToUpper(m[1])
	}
	return truncateRunes(trimmed, 20)
}

// extractFillBlankAnswer pulls the short value for a fill-in question.
func extractFillBlankAnswer(answer string) string {
	if answer == "" {
		return ""
	}
	if m := fillAnswerRe.FindStringSubmatch(answer); m != nil {
		return truncateRunes(strings.TrimSpace(m[1]), 50)
	}
	return truncateRunes(strings.TrimSpace(answer), 50)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// BuildAnswerSheetLaTeX produces the companion answer sheet: letter tables
// for the choice sections, short values for fill-ins, and the full worked
// answers for solve questions.
func BuildAnswerSheetLaTeX(paper *types.Paper, pqs []types.PaperQuestion, qmap map[uuid.UUID]*types.Question) AssembledDoc {
	sorted := make([]types.PaperQuestion, len(pqs))
	copy(sorted, pqs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	type numbered struct {
		seq int
		q   *types.Question
	}
	groups := map[string][]numbered{}
	for i := range sorted {
		q := qmap[sorted[i].QuestionID]
		if q == nil {
			continue
		}
		kind := normalizeSectionType(q.QuestionType)
		groups[kind] = append(groups[kind], numbered{seq: sorted[i].Seq, q: q})
	}

	var body []string

	letterTable := func(heading string, items []numbered) {
		body = append(body,
			fmt.Sprintf(`{\bf %s}`, heading),
			`\begin{center}`,
			`\begin{tabular}{|`+strings.Repeat("c|", len(items))+`}`,
			`\hline`,
		)
		var nums, letters []string
		for _, it := range items {
			nums = append(nums, fmt.Sprintf("%d", it.seq))
			letters = append(letters, extractAnswerLetter(it.q.Answer))
		}
		body = append(body,
			strings.Join(nums, " & ")+` \\`,
			`\hline`,
			strings.Join(letters, " & ")+` \\`,
			`\hline`,
			`\end{tabular}`,
			`\end{center}`,
			`\vspace{1em}`,
		)
	}

	if items := groups["choice_single"]; len(items) > 0 {
		letterTable("一、选择题答案", items)
	}
	if items := groups["choice_multi"]; len(items) > 0 {
		letterTable("二、多选题答案", items)
	}
	if items := groups["fill"]; len(items) > 0 {
		body = append(body,
			`{\bf 三、填空题答案}`,
			fmt.Sprintf(`\begin{enumerate}[label=\arabic*.,start=%d,leftmargin=1.5em]`, items[0].seq),
		)
		for _, it := range items {
			body = append(body, `\item `+escape(extractFillBlankAnswer(it.q.Answer)))
		}
		body = append(body, `\end{enumerate}`, `\vspace{1em}`)
	}
	if items := groups["solve"]; len(items) > 0 {
		body = append(body,
			`{\bf 四、解答题答案}`,
			fmt.Sprintf(`\begin{enumerate}[label=\arabic*.,start=%d,leftmargin=1.5em,itemsep=1.5em]`, items[0].seq),
		)
		for _, it := range items {
			// The placeholder keeps its fullwidth parentheses, so it must not
			// go through the punctuation-normalizing escaper.
			ans := escape(it.q.Answer)
			if it.q.Answer == "" {
				ans = "（无答案）"
			}
			body = append(body, `\item `+ans)
		}
		body = append(body, `\end{enumerate}`)
	}

	doc := answerPreamble +
		"\\begin{center}\\Large\\textbf{" + escape(paper.Title) + " — 答案卷}\\end{center}\n\\vspace{1em}\n\n" +
		strings.Join(body, "\n") +
		"\n\\end{document}\n"
	return AssembledDoc{LaTeX: doc}
}
