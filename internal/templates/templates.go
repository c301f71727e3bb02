// Package templates defines the built-in paper layouts. A template is a
// fixed sequence of slots; assembling a paper walks the slots in order and
// pairs each with a question of the matching type.
package templates

import "fmt"

// Slot is one question position on a paper.
type Slot struct {
	Seq          int    `json:"seq"`
	QuestionType string `json:"question_type"`
	Score        int    `json:"score"`
}

// Section groups consecutive slots of one question type with the printed
// section instructions.
type Section struct {
	QuestionType string `json:"question_type"`
	Title        string `json:"title"`
	Count        int    `json:"count"`
	Slots        []Slot `json:"slots"`
}

type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalScore  int       `json:"total_score"`
	Sections    []Section `json:"sections"`
}

// Slots flattens the template's sections into the full slot sequence.
func (t *Template) Slots() []Slot {
	var out []Slot
	for _, s := range t.Sections {
		out = append(out, s.Slots...)
	}
	return out
}

func uniformSection(qtype, title string, startSeq, count, score int) Section {
	sec := Section{QuestionType: qtype, Title: title, Count: count}
	for i := 0; i < count; i++ {
		sec.Slots = append(sec.Slots, Slot{Seq: startSeq + i, QuestionType: qtype, Score: score})
	}
	return sec
}

func scoredSection(qtype, title string, startSeq int, scores []int) Section {
	sec := Section{QuestionType: qtype, Title: title, Count: len(scores)}
	for i, score := range scores {
		sec.Slots = append(sec.Slots, Slot{Seq: startSeq + i, QuestionType: qtype, Score: score})
	}
	return sec
}

// GaokaoNew1 is the post-2021 national college entrance exam layout:
// 8 single-choice at 5 points, 3 multi-choice at 6, 3 fill-in-the-blank at
// 5, and 5 solve questions scored 13/15/15/17/17, totalling 150.
var GaokaoNew1 = Template{
	ID:          "gaokao_new_1",
	Name:        "新高考一卷",
	Description: "8 single-choice, 3 multi-choice, 3 fill-in-the-blank, 5 solve; 150 points",
	TotalScore:  150,
	Sections: []Section{
		uniformSection("choice", "一、单选题：本题共8小题，每小题5分，共40分。在每小题给出的四个选项中，只有一项是符合题目要求的。", 1, 8, 5),
		uniformSection("multi", "二、多选题：本题共3小题，每小题6分，共18分。在每小题给出的选项中，有多项符合题目要求。全部选对的得6分，部分选对的得部分分，有选错的得0分。", 9, 3, 6),
		uniformSection("fillblank", "三、填空题：本题共3小题，每小题5分，共15分。", 12, 3, 5),
		scoredSection("solve", "四、解答题：本题共5小题，共77分。解答应写出文字说明、证明过程或演算步骤。", 15, []int{13, 15, 15, 17, 17}),
	},
}

var registry = map[string]*Template{
	GaokaoNew1.ID: &GaokaoNew1,
}

// Get returns the template with the given id.
func Get(id string) (*Template, error) {
	t, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", id)
	}
	return t, nil
}

// List returns all built-in templates in a stable order.
func List() []*Template {
	return []*Template{&GaokaoNew1}
}
