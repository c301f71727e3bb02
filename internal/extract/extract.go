package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extract recovers a QuestionRecord from raw model output. It never fails:
// when every stage is exhausted it returns a record carrying the raw text
// and a ParseError diagnostic. Post-processing (answer-marker split, image
// stripping, blank-line collapse) is applied to every successful result.
func Extract(raw string) QuestionRecord {
	rec := extractRecord(raw)
	postProcess(&rec)
	return rec
}

func extractRecord(raw string) QuestionRecord {
	text := stripFences(raw)
	text = sliceBraces(text)

	if m, err := parseStrict(text); err == nil {
		return recordFromMap(m)
	}

	if m, err := parseLenient(text); err == nil {
		return recordFromMap(m)
	}

	if m, err := parseLenient(escapeNewlinesInStrings(text)); err == nil {
		return recordFromMap(m)
	}

	if rec, ok := salvageFields(raw); ok {
		rec.ParseError = "recovered field-by-field from malformed response"
		return rec
	}

	fallback := strings.TrimSpace(text)
	if fallback == "" {
		fallback = strings.TrimSpace(raw)
	}
	return QuestionRecord{
		QuestionText:    fallback,
		Answer:          "",
		KnowledgePoints: []string{},
		ParseError:      "response is not parseable as a question record",
	}
}

// stripFences pulls the payload out of a fenced code block. A ```json fence
// wins; otherwise the first generic fence is used with its language tag
// dropped.
func stripFences(text string) string {
	if idx := strings.Index(text, "```json"); idx != -1 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx != -1 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		rest = strings.TrimSpace(rest)
		// A bare language tag may sit on the first line.
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			first := strings.TrimSpace(rest[:nl])
			if first != "" && !strings.ContainsAny(first, "{}\"") && len(first) <= 16 {
				rest = strings.TrimSpace(rest[nl+1:])
			}
		}
		return rest
	}
	return strings.TrimSpace(text)
}

// sliceBraces cuts out the first balanced {...} span, tracking string state
// so braces inside quoted values do not confuse the depth counter.
func sliceBraces(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		text = trimmed
	}
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return text
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}

func parseStrict(text string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// parseLenient strips a BOM and tolerates trailing commentary after the
// record by decoding only the first JSON value.
func parseLenient(text string) (map[string]any, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "\uFEFF")
	dec := json.NewDecoder(strings.NewReader(text))
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("null record")
	}
	return m, nil
}

// escapeNewlinesInStrings rewrites raw newline, carriage-return and tab
// bytes that occur inside string literals into their two-character escapes.
// Models emit these constantly when the question text spans lines.
func escapeNewlinesInStrings(text string) string {
	var out strings.Builder
	out.Grow(len(text) + 16)
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
			out.WriteByte(c)
		case inString && c == '\\':
			escaped = true
			out.WriteByte(c)
		case c == '"':
			inString = !inString
			out.WriteByte(c)
		case inString && c == '\n':
			out.WriteString(`\n`)
		case inString && c == '\r':
			out.WriteString(`\r`)
		case inString && c == '\t':
			out.WriteString(`\t`)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

var (
	salvageStringRes = map[string]*regexp.Regexp{
		"questionText": fieldStringRe("questionText"),
		"answer":       fieldStringRe("answer"),
		"explanation":  fieldStringRe("explanation"),
		"geometrySvg":  fieldStringRe("geometrySvg"),
		"difficulty":   fieldStringRe("difficulty"),
		"questionType": fieldStringRe("questionType"),
	}
	salvageBoolRe       = regexp.MustCompile(`"hasGeometry"\s*:\s*(true|false)`)
	salvageConfidenceRe = regexp.MustCompile(`"confidence"\s*:\s*(-?\d+(?:\.\d+)?)`)
	salvageArrayRes     = map[string]*regexp.Regexp{
		"options":         fieldArrayRe("options"),
		"knowledgePoints": fieldArrayRe("knowledgePoints"),
	}
	stringLiteralRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
)

func fieldStringRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`"` + name + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
}

func fieldArrayRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)"` + name + `"\s*:\s*\[(.*?)\]`)
}

// salvageFields hunts each expected field independently with name-anchored
// patterns. Enough is enough when either questionText or answer surfaced.
func salvageFields(raw string) (QuestionRecord, bool) {
	rec := QuestionRecord{KnowledgePoints: []string{}}
	found := false

	strVals := map[string]string{}
	for name, re := range salvageStringRes {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		strVals[name] = unquoteJSON(m[1])
	}
	rec.QuestionText = strVals["questionText"]
	rec.Answer = strVals["answer"]
	rec.Explanation = strVals["explanation"]
	rec.GeometrySVG = strVals["geometrySvg"]
	rec.Difficulty = strVals["difficulty"]
	rec.QuestionType = strVals["questionType"]
	if rec.QuestionText != "" || rec.Answer != "" {
		found = true
	}

	if m := salvageBoolRe.FindStringSubmatch(raw); m != nil {
		rec.HasGeometry = m[1] == "true"
	}
	if m := salvageConfidenceRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			rec.Confidence = &v
		}
	}
	for name, re := range salvageArrayRes {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		var items []string
		for _, lit := range stringLiteralRe.FindAllStringSubmatch(m[1], -1) {
			items = append(items, unquoteJSON(lit[1]))
		}
		if len(items) == 0 {
			continue
		}
		if name == "options" {
			rec.Options = items
		} else {
			rec.KnowledgePoints = items
		}
	}

	return rec, found
}

func unquoteJSON(inner string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+inner+`"`), &s); err != nil {
		return inner
	}
	return s
}
