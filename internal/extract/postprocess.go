package extract

import (
	"regexp"
	"strings"
)

// Markers that introduce an answer or worked solution inside the question
// body. The model sometimes transcribes the printed answer key into
// questionText instead of the answer field.
var answerMarkers = []string{
	"【答案】",
	"【解析】",
	"答案：",
	"答案:",
	"解答：",
	"解：",
	"Answer:",
	"Solution:",
}

var (
	markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	htmlImageRe     = regexp.MustCompile(`(?is)<img[^>]*>`)
	dataURIRe       = regexp.MustCompile(`data:image/[a-zA-Z+.-]+;base64,[A-Za-z0-9+/=]+`)
	blankLinesRe    = regexp.MustCompile(`\n{3,}`)
)

// postProcess repairs field placement after extraction. Answer text that
// leaked into the question body is moved to Answer, image references are
// dropped, and runs of blank lines are collapsed. Running it again on its
// own output changes nothing.
func postProcess(rec *QuestionRecord) {
	rec.QuestionText = cleanBody(rec.QuestionText)
	rec.Answer = cleanBody(rec.Answer)
	rec.Explanation = cleanBody(rec.Explanation)

	splitAnswerFromQuestion(rec)

	rec.QuestionText = strings.TrimSpace(rec.QuestionText)
	rec.Answer = strings.TrimSpace(rec.Answer)
	rec.Explanation = strings.TrimSpace(rec.Explanation)
	for i, opt := range rec.Options {
		rec.Options[i] = strings.TrimSpace(cleanBody(opt))
	}
}

func cleanBody(text string) string {
	if text == "" {
		return ""
	}
	t := markdownImageRe.ReplaceAllString(text, "")
	t = htmlImageRe.ReplaceAllString(t, "")
	t = dataURIRe.ReplaceAllString(t, "")
	t = blankLinesRe.ReplaceAllString(t, "\n\n")
	return t
}

// splitAnswerFromQuestion cuts the question body at the earliest answer
// marker and appends the tail to Answer. The tail keeps its marker; if
// Answer already contains the tail the move is a no-op, which makes the
// whole pass idempotent.
func splitAnswerFromQuestion(rec *QuestionRecord) {
	cut := -1
	for _, marker := range answerMarkers {
		if idx := strings.Index(rec.QuestionText, marker); idx > 0 {
			if cut == -1 || idx < cut {
				cut = idx
			}
		}
	}
	if cut == -1 {
		return
	}

	tail := strings.TrimSpace(rec.QuestionText[cut:])
	rec.QuestionText = strings.TrimSpace(rec.QuestionText[:cut])
	if tail == "" || strings.Contains(rec.Answer, tail) {
		return
	}
	if rec.Answer == "" {
		rec.Answer = tail
	} else {
		rec.Answer = rec.Answer + "\n" + tail
	}
}
