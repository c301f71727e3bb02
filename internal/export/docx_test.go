package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func readZipEntry(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("%s not in archive", name)
	return ""
}

func TestBuildDOCXPackageLayout(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	data, err := BuildDOCX(paper, pqs, qmap, Options{IncludeAnswer: true})
	if err != nil {
		t.Fatalf("BuildDOCX: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a zip archive: %v", err)
	}

	doc := readZipEntry(t, zr, "word/document.xml")
	if !strings.Contains(doc, "期中测试") {
		t.Fatalf("title missing from document.xml")
	}
	if !strings.Contains(doc, "【答案】") {
		t.Fatalf("answers missing")
	}
	readZipEntry(t, zr, "[Content_Types].xml")
	readZipEntry(t, zr, "_rels/.rels")
}

func TestBuildDOCXEscapesMarkup(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	for _, q := range qmap {
		q.QuestionText = "a < b & c > d"
	}
	data, err := BuildDOCX(paper, pqs, qmap, Options{})
	if err != nil {
		t.Fatalf("BuildDOCX: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	doc := readZipEntry(t, zr, "word/document.xml")
	if !strings.Contains(doc, "a &lt; b &amp; c &gt; d") {
		t.Fatalf("markup not escaped:\n%s", doc)
	}
}

func TestBuildDOCXEmbedsDiagram(t *testing.T) {
	paper, pqs, qmap := buildFixture(t)
	for _, q := range qmap {
		if q.QuestionType == "solve" {
			q.HasGeometry = true
			q.GeometrySVG = `<svg viewBox="0 0 100 100"><line x1="0" y1="0" x2="80" y2="80"/></svg>`
		}
	}
	data, err := BuildDOCX(paper, pqs, qmap, Options{})
	if err != nil {
		t.Fatalf("BuildDOCX: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	png := readZipEntry(t, zr, "word/media/image1.png")
	if !strings.HasPrefix(png, "\x89PNG") {
		t.Fatalf("embedded image is not a PNG")
	}
	rels := readZipEntry(t, zr, "word/_rels/document.xml.rels")
	if !strings.Contains(rels, "media/image1.png") {
		t.Fatalf("image relationship missing")
	}
}
