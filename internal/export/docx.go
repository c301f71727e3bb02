package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/T332932/for-dachaung/internal/tikz"
	"github.com/T332932/for-dachaung/internal/types"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// docxImage is one embedded figure: the media part plus its relationship id.
type docxImage struct {
	relID string
	name  string
	data  []byte
}

type docxBuilder struct {
	body   strings.Builder
	images []docxImage
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := escapeXMLText(&b, s); err != nil {
		return s
	}
	return b.String()
}

func escapeXMLText(b *strings.Builder, s string) error {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return nil
}

func (d *docxBuilder) paragraph(runs ...string) {
	d.body.WriteString("<w:p>")
	for _, r := range runs {
		d.body.WriteString(r)
	}
	d.body.WriteString("</w:p>")
}

func run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + xmlEscape(text) + `</w:t></w:r>`
}

func boldRun(text string) string {
	return `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">` + xmlEscape(text) + `</w:t></w:r>`
}

func headingRun(text string) string {
	return `<w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr><w:t xml:space="preserve">` + xmlEscape(text) + `</w:t></w:r>`
}

// addImage registers a PNG and returns the inline drawing run. Dimensions
// are fixed at roughly 8x6 cm in EMUs; Word rescales on demand.
func (d *docxBuilder) addImage(png []byte) string {
	relID := fmt.Sprintf("rIdImg%d", len(d.images)+1)
	name := fmt.Sprintf("media/image%d.png", len(d.images)+1)
	d.images = append(d.images, docxImage{relID: relID, name: name, data: png})

	const cx, cy = 2880000, 2160000
	return fmt.Sprintf(`<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="figure%d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="figure%d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		cx, cy, len(d.images), len(d.images), len(d.images), len(d.images), relID, cx, cy)
}

func (d *docxBuilder) documentXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<w:body>` + d.body.String() + `</w:body></w:document>`
}

func (d *docxBuilder) documentRels() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, img := range d.images {
		b.WriteString(fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="%s"/>`, img.relID, img.name))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// BuildDOCX renders the paper as a Word package. Math stays in plain-text
// $...$ form; diagrams are rasterized and embedded as PNGs.
func BuildDOCX(paper *types.Paper, pqs []types.PaperQuestion, qmap map[uuid.UUID]*types.Question, opts Options) ([]byte, error) {
	sorted := make([]types.PaperQuestion, len(pqs))
	copy(sorted, pqs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	var d docxBuilder
	d.paragraph(headingRun(paper.Title))

	for i := range sorted {
		pq := &sorted[i]
		q := qmap[pq.QuestionID]
		if q == nil {
			continue
		}
		d.paragraph(
			boldRun(fmt.Sprintf("%d. (%d分) ", pq.Seq, pq.Score)),
			run(q.QuestionText),
		)
		for _, opt := range q.OptionList() {
			d.paragraph(run(opt))
		}
		if opts.IncludeAnswer && q.Answer != "" {
			d.paragraph(run("【答案】" + q.Answer))
		}
		if opts.IncludeExplanation && q.Explanation != "" {
			d.paragraph(run("【解析】" + q.Explanation))
		}
		if q.HasGeometry && q.GeometrySVG != "" {
			png := q.RasterPNG
			if png == nil {
				if data, err := tikz.RasterizeSVG(q.GeometrySVG); err == nil {
					png = data
				}
			}
			if png != nil {
				d.paragraph(d.addImage(png))
			} else {
				d.paragraph(run("[图形未能转换]"))
			}
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          docxContentTypes,
		"_rels/.rels":                  docxRootRels,
		"word/document.xml":            d.documentXML(),
		"word/_rels/document.xml.rels": d.documentRels(),
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	for _, img := range d.images {
		w, err := zw.Create("word/" + img.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", img.name, err)
		}
		if _, err := w.Write(img.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", img.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}
