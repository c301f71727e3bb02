package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/T332932/for-dachaung/internal/templates"
	"github.com/T332932/for-dachaung/internal/types"
)

// Section order and instructions follow the national exam convention:
// single choice, multi choice, fill-in-the-blank, solve.
var sectionOrder = []string{"choice_single", "choice_multi", "fill", "solve"}

var sectionTitles = map[string]string{
	"choice_single": "选择题：本题共 %d 小题，每小题 %d 分，共 %d 分。在每小题给出的四个选项中，只有一项是符合题目要求的。",
	"choice_multi":  "选择题：本题共 %d 小题，每小题 %d 分，共 %d 分。在每小题给出的选项中，有多项符合题目要求。",
	"fill":          "填空题：本题共 %d 小题，每小题 %d 分，共 %d 分。",
	"solve":         "解答题：本题共 %d 小题，共 %d 分。解答应写出文字说明、证明过程或演算步骤。",
}

var sectionNames = []string{"一", "二", "三", "四", "五"}

// normalizeSectionType folds question type aliases into one of the four
// section kinds. Unknown types land in solve.
func normalizeSectionType(qtype string) string {
	switch qtype {
	case "choice", "choice_single":
		return "choice_single"
	case "multi", "choice_multi":
		return "choice_multi"
	case "fillblank", "fill":
		return "fill"
	default:
		return "solve"
	}
}

type placedQuestion struct {
	pq *types.PaperQuestion
	q  *types.Question
}

// BuildPaperLaTeX assembles the full exam paper: questions grouped into
// sections, options laid out with the \choice macro, diagrams placed per
// section kind. Questions missing from qmap are skipped.
func BuildPaperLaTeX(paper *types.Paper, pqs []types.PaperQuestion, qmap map[uuid.UUID]*types.Question, opts Options) AssembledDoc {
	var attachments []Attachment

	sorted := make([]types.PaperQuestion, len(pqs))
	copy(sorted, pqs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	byType := map[string][]placedQuestion{}
	for i := range sorted {
		pq := &sorted[i]
		q := qmap[pq.QuestionID]
		if q == nil {
			continue
		}
		kind := normalizeSectionType(q.QuestionType)
		byType[kind] = append(byType[kind], placedQuestion{pq: pq, q: q})
	}

	var body []string
	sectionNumber := 0
	questionNumber := 0

	for _, kind := range sectionOrder {
		section := byType[kind]
		if len(section) == 0 {
			continue
		}
		sectionNumber++

		total := 0
		for _, pl := range section {
			total += pl.pq.Score
		}
		avg := 5
		if len(section) > 0 && section[0].pq.Score > 0 {
			avg = section[0].pq.Score
		}

		var title string
		if kind == "solve" {
			title = fmt.Sprintf(sectionTitles[kind], len(section), total)
		} else {
			title = fmt.Sprintf(sectionTitles[kind], len(section), avg, total)
		}
		name := fmt.Sprintf("%d", sectionNumber)
		if sectionNumber <= len(sectionNames) {
			name = sectionNames[sectionNumber-1]
		}

		var sec []string
		sec = append(sec,
			`\begin{enumerate}[align=left,labelindent=0em,labelwidth=2em,labelsep=0em,leftmargin=2em]`,
			fmt.Sprintf(`\item[{\bf %s、}]{\bf\sf %s}`, name, title),
			`\end{enumerate}`,
			fmt.Sprintf(`\begin{enumerate}[align=left,labelindent=0em,label={\bf\sf\arabic*.},labelwidth=1.5em,labelsep=0em,leftmargin=1.5em,itemsep=0pt,topsep=0pt,start=%d]`, questionNumber+1),
		)

		for _, pl := range section {
			questionNumber++
			item, atts := renderQuestionItem(pl.q, kind, opts)
			attachments = append(attachments, atts...)
			sec = append(sec, item)
		}
		sec = append(sec, `\end{enumerate}`)
		body = append(body, strings.Join(sec, "\n"))
	}

	doc := gaokaoPreamble +
		"\\begin{center}\n\\zihao{2}\\heiti " + escape(paper.Title) + "\n\\end{center}\n\n" +
		strings.Join(body, "\n\n") +
		"\n\\end{document}\n"
	return AssembledDoc{LaTeX: doc, Attachments: attachments}
}

// renderQuestionItem emits one \item with options, figure, and optionally
// answer and explanation. Solve questions without answers get working space
// below the body; their figure sits left of the blank area.
func renderQuestionItem(q *types.Question, kind string, opts Options) (string, []Attachment) {
	var parts []string
	var attachments []Attachment

	parts = append(parts, `\item `+escape(q.QuestionText))

	options := q.OptionList()
	isChoice := kind == "choice_single" || kind == "choice_multi"
	switch {
	case isChoice && len(options) == 4:
		cleaned := make([]string, 4)
		for i, opt := range options {
			cleaned[i] = escape(stripOptionPrefix(opt))
		}
		parts = append(parts, "\\\\\n"+fmt.Sprintf(`\choice{%s}{%s}{%s}{%s}`, cleaned[0], cleaned[1], cleaned[2], cleaned[3]))
	case len(options) > 0:
		var line []string
		line = append(line, `\\`)
		for i, opt := range options {
			label := rune('A' + i)
			line = append(line, fmt.Sprintf(`{\sf %c}．%s\quad`, label, escape(stripOptionPrefix(opt))))
		}
		parts = append(parts, strings.Join(line, "\n"))
	}

	diagram, att := diagramFor(q)
	if att != nil {
		attachments = append(attachments, *att)
	}

	if kind == "solve" {
		switch {
		case diagram != "" && !opts.IncludeAnswer:
			// Figure left, answer space right.
			parts = append(parts,
				"\n"+`\par\noindent`,
				`\begin{minipage}[t]{0.45\textwidth}`,
				`\centering`,
				diagram,
				`\end{minipage}`,
				`\hfill`,
				`\begin{minipage}[t]{0.5\textwidth}`,
				`\vspace{8em}`,
				`\end{minipage}`,
			)
		case diagram != "":
			parts = append(parts, wrapDiagramBlock(diagram))
		case !opts.IncludeAnswer:
			parts = append(parts, "\n"+`\vspace{6em}`)
		}
	} else if diagram != "" {
		parts = append(parts, wrapDiagramBlock(diagram))
	}

	if opts.IncludeAnswer && q.Answer != "" {
		parts = append(parts, "\n\\textbf{答案：} "+escape(q.Answer))
	}
	if opts.IncludeExplanation && q.Explanation != "" {
		parts = append(parts, "\n\\textbf{解析：} "+escape(q.Explanation))
	}

	return strings.Join(parts, "\n"), attachments
}

// BuildTemplateLaTeX walks a template's slots in order and pairs each with
// the question assigned to its sequence number. Unfilled slots get a
// visible placeholder instead of silently shifting numbering.
func BuildTemplateLaTeX(paper *types.Paper, tpl *templates.Template, pqs []types.PaperQuestion, qmap map[uuid.UUID]*types.Question, opts Options) AssembledDoc {
	var attachments []Attachment

	bySeq := map[int]*types.PaperQuestion{}
	for i := range pqs {
		bySeq[pqs[i].Seq] = &pqs[i]
	}

	var body []string
	for _, section := range tpl.Sections {
		if len(section.Slots) == 0 {
			continue
		}
		var sec []string
		sec = append(sec, fmt.Sprintf(`{\bf %s}`, section.Title))
		sec = append(sec, fmt.Sprintf(`\begin{enumerate}[label=\arabic*.,start=%d,leftmargin=1.5em,itemsep=1em]`, section.Slots[0].Seq))
		for _, slot := range section.Slots {
			pq := bySeq[slot.Seq]
			var q *types.Question
			if pq != nil {
				q = qmap[pq.QuestionID]
			}
			if q == nil {
				sec = append(sec, fmt.Sprintf(`\item (%d分) \textit{缺题占位}`, slot.Score))
				continue
			}
			score := slot.Score
			if pq.Score > 0 {
				score = pq.Score
			}
			item, atts := renderQuestionItem(q, normalizeSectionType(slot.QuestionType), opts)
			attachments = append(attachments, atts...)
			item = strings.Replace(item, `\item `, fmt.Sprintf(`\item (%d分) `, score), 1)
			sec = append(sec, item)
		}
		sec = append(sec, `\end{enumerate}`)
		body = append(body, strings.Join(sec, "\n"))
	}

	doc := gaokaoPreamble +
		"\\begin{center}\n\\zihao{2}\\heiti " + escape(paper.Title) + "\n\\end{center}\n\n" +
		strings.Join(body, "\n\n") +
		"\n\\end{document}\n"
	return AssembledDoc{LaTeX: doc, Attachments: attachments}
}
