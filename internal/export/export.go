// Package export assembles question records into compilable LaTeX documents
// and drives the xelatex toolchain. Assembly is pure string building; the
// only process boundary is CompilePDF.
package export

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/T332932/for-dachaung/internal/latex"
	"github.com/T332932/for-dachaung/internal/tikz"
	"github.com/T332932/for-dachaung/internal/types"
)

// Attachment is a sidecar file the LaTeX source references by name. The
// name written here must match the \includegraphics argument exactly.
type Attachment struct {
	Name string
	Data []byte
}

// AssembledDoc is a complete LaTeX document plus the files it references.
type AssembledDoc struct {
	LaTeX       string
	Attachments []Attachment
}

// Options control what the assembled paper carries beyond the questions.
type Options struct {
	IncludeAnswer      bool
	IncludeExplanation bool
}

// Option prefixes like "A.", "Ａ．" or "a)" duplicate the choice macro's own
// labels and are stripped before typesetting.
var optionPrefixRe = regexp.MustCompile(`^\s*[A-DＡ-Ｄa-d][\.。．、﹒)]\s*`)

func stripOptionPrefix(text string) string {
	return strings.TrimSpace(optionPrefixRe.ReplaceAllString(text, ""))
}

// wrapDiagramBlock floats a diagram right in a half-width minipage so it
// does not push the question body around.
func wrapDiagramBlock(content string) string {
	if content == "" {
		return ""
	}
	return "\n\\par\\noindent\\hfill\\begin{minipage}{0.45\\textwidth}\\centering\n" +
		content +
		"\n\\end{minipage}\\hfill\\null\n"
}

// diagramFor resolves a question's figure: stored TikZ wins, then a fresh
// SVG conversion, then rasterization to a PNG attachment. Returns an empty
// block when nothing renders.
func diagramFor(q *types.Question) (string, *Attachment) {
	if !q.HasGeometry {
		return "", nil
	}
	if q.TikzCode != "" {
		return q.TikzCode, nil
	}
	if q.GeometrySVG == "" {
		return "", nil
	}
	if block, ok := tikz.CompileSVG(q.GeometrySVG); ok {
		return block, nil
	}
	png := q.RasterPNG
	if png == nil {
		data, err := tikz.RasterizeSVG(q.GeometrySVG)
		if err != nil {
			return "", nil
		}
		png = data
	}
	name := "svg_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".png"
	return `\includegraphics[width=0.35\textwidth]{` + name + `}`, &Attachment{Name: name, Data: png}
}

func escape(text string) string {
	return latex.Escape(text)
}
