package export

import (
	"strings"

	"github.com/google/uuid"

	"github.com/T332932/for-dachaung/internal/extract"
	"github.com/T332932/for-dachaung/internal/tikz"
)

// BuildSingleQuestionLaTeX renders one analyzed question as a standalone
// document, used to preview a record before it joins a paper.
func BuildSingleQuestionLaTeX(rec extract.QuestionRecord, opts Options) AssembledDoc {
	var parts []string
	var attachments []Attachment

	parts = append(parts, escape(rec.QuestionText))
	for _, opt := range rec.Options {
		parts = append(parts, `\par `+escape(opt))
	}

	if rec.HasGeometry && rec.GeometrySVG != "" {
		if block, ok := tikz.CompileSVG(rec.GeometrySVG); ok {
			parts = append(parts, wrapDiagramBlock(block))
		} else if png, err := tikz.RasterizeSVG(rec.GeometrySVG); err == nil {
			name := "svg_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".png"
			attachments = append(attachments, Attachment{Name: name, Data: png})
			parts = append(parts, wrapDiagramBlock(`\includegraphics[width=0.48\textwidth]{`+name+`}`))
		}
	}

	if opts.IncludeAnswer && rec.Answer != "" {
		parts = append(parts, "\n\\textbf{答案：} "+escape(rec.Answer))
	}
	if opts.IncludeExplanation && rec.Explanation != "" {
		parts = append(parts, "\n\\textbf{解析：} "+escape(rec.Explanation))
	}

	doc := singlePreamble + strings.Join(parts, "\n\n") + "\n\\end{document}\n"
	return AssembledDoc{LaTeX: doc, Attachments: attachments}
}
