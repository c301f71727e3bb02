// Package extract recovers a structured question record from raw vision
// model output. The model is asked for plain JSON but routinely wraps it in
// commentary, code fences, or emits literal newlines inside string values;
// Extract climbs down a fallback chain until something parses and never
// returns an error, only a record with ParseError set.
package extract

import "strings"

// Difficulty and question type enumerations as the analysis prompt defines
// them. Unknown values are kept verbatim; downstream treats anything
// unrecognized as "solve"/"medium".
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	TypeChoice    = "choice"
	TypeMulti     = "multi"
	TypeFillBlank = "fillblank"
	TypeSolve     = "solve"
	TypeProof     = "proof"
)

// QuestionRecord is the extractor's output. When ParseError is non-empty the
// other fields hold best-effort values; slices are never nil maps of absent
// keys, just empty.
type QuestionRecord struct {
	QuestionText    string   `json:"questionText"`
	Options         []string `json:"options,omitempty"`
	Answer          string   `json:"answer"`
	Explanation     string   `json:"explanation,omitempty"`
	HasGeometry     bool     `json:"hasGeometry"`
	GeometrySVG     string   `json:"geometrySvg,omitempty"`
	KnowledgePoints []string `json:"knowledgePoints"`
	Difficulty      string   `json:"difficulty,omitempty"`
	QuestionType    string   `json:"questionType,omitempty"`
	Confidence      *float64 `json:"confidence,omitempty"`
	ParseError      string   `json:"parseError,omitempty"`
}

func recordFromMap(m map[string]any) QuestionRecord {
	rec := QuestionRecord{
		QuestionText:    asString(m["questionText"]),
		Options:         asStringSlice(m["options"]),
		Answer:          asString(m["answer"]),
		Explanation:     asString(m["explanation"]),
		HasGeometry:     asBool(m["hasGeometry"]),
		GeometrySVG:     asString(m["geometrySvg"]),
		KnowledgePoints: asStringSlice(m["knowledgePoints"]),
		Difficulty:      asString(m["difficulty"]),
		QuestionType:    asString(m["questionType"]),
	}
	if rec.KnowledgePoints == nil {
		rec.KnowledgePoints = []string{}
	}
	if c, ok := asFloat(m["confidence"]); ok {
		rec.Confidence = &c
	}
	return rec
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	default:
		return false
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

func asStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
