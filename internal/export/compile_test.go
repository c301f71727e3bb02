package export

import (
	"context"
	"os/exec"
	"testing"
)

func TestCompilePDFMissingEngine(t *testing.T) {
	if _, err := exec.LookPath("xelatex"); err == nil {
		t.Skip("xelatex installed; missing-engine path not reachable")
	}
	res, err := CompilePDF(context.Background(), AssembledDoc{LaTeX: `\documentclass{article}\begin{document}x\end{document}`})
	if err != nil {
		t.Fatalf("missing engine must not be an error: %v", err)
	}
	if res.OK {
		t.Fatalf("OK without an engine")
	}
	if res.Diagnostic == "" {
		t.Fatalf("diagnostic missing")
	}
}

func TestCompilePDFRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("xelatex"); err != nil {
		t.Skip("xelatex not installed")
	}
	doc := AssembledDoc{LaTeX: "\\documentclass{article}\n\\begin{document}\nhello\n\\end{document}\n"}
	res, err := CompilePDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("CompilePDF: %v", err)
	}
	if !res.OK {
		t.Fatalf("compile failed: %s\n%s", res.Diagnostic, res.Log)
	}
	if len(res.PDF) < 4 || string(res.PDF[:4]) != "%PDF" {
		t.Fatalf("output is not a PDF")
	}
}
