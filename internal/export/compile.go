package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CompileResult reports a xelatex run. OK follows one rule only: the PDF
// file exists afterwards. xelatex exits nonzero on warnings all the time,
// so the exit code is recorded in Log but never decides success.
type CompileResult struct {
	OK         bool
	PDF        []byte
	Log        string
	Diagnostic string
}

const texMainName = "paper.tex"

// CompilePDF writes the document and its attachments into a fresh temp
// directory, runs xelatex there, and reads back paper.pdf. The directory
// is removed on every path, success or failure.
func CompilePDF(ctx context.Context, doc AssembledDoc) (CompileResult, error) {
	engine, err := exec.LookPath("xelatex")
	if err != nil {
		return CompileResult{Diagnostic: "xelatex not found (please install texlive-xetex)"}, nil
	}

	dir, err := os.MkdirTemp("", "latex-export-*")
	if err != nil {
		return CompileResult{}, fmt.Errorf("create compile dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, texMainName), []byte(doc.LaTeX), 0o644); err != nil {
		return CompileResult{}, fmt.Errorf("write tex source: %w", err)
	}
	for _, att := range doc.Attachments {
		if err := os.WriteFile(filepath.Join(dir, att.Name), att.Data, 0o644); err != nil {
			return CompileResult{}, fmt.Errorf("write attachment %s: %w", att.Name, err)
		}
	}

	cmd := exec.CommandContext(ctx, engine, "-interaction=nonstopmode", "-halt-on-error", texMainName)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	log := stdout.String() + "\n" + stderr.String()

	pdf, readErr := os.ReadFile(filepath.Join(dir, "paper.pdf"))
	if readErr != nil {
		diag := "xelatex failed"
		if runErr != nil {
			diag = fmt.Sprintf("xelatex failed: %v", runErr)
		}
		if ctx.Err() != nil {
			diag = fmt.Sprintf("xelatex aborted: %v", ctx.Err())
		}
		return CompileResult{Log: log, Diagnostic: diag}, nil
	}

	return CompileResult{OK: true, PDF: pdf, Log: log}, nil
}
