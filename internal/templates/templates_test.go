package templates

import "testing"

func TestGaokaoNew1Totals(t *testing.T) {
	tpl, err := Get("gaokao_new_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	slots := tpl.Slots()
	if len(slots) != 19 {
		t.Fatalf("want 19 slots, got %d", len(slots))
	}
	total := 0
	for _, s := range slots {
		total += s.Score
	}
	if total != tpl.TotalScore || total != 150 {
		t.Fatalf("score sum = %d, want %d", total, tpl.TotalScore)
	}
}

func TestGaokaoNew1SlotSequence(t *testing.T) {
	tpl, _ := Get("gaokao_new_1")
	slots := tpl.Slots()
	for i, s := range slots {
		if s.Seq != i+1 {
			t.Fatalf("slot %d has seq %d", i, s.Seq)
		}
	}
	if slots[0].QuestionType != "choice" || slots[18].QuestionType != "solve" {
		t.Fatalf("section order wrong: %v ... %v", slots[0], slots[18])
	}
	if slots[14].Score != 13 || slots[18].Score != 17 {
		t.Fatalf("solve scores wrong: %v %v", slots[14], slots[18])
	}
}

func TestGetUnknownTemplate(t *testing.T) {
	if _, err := Get("nope"); err == nil {
		t.Fatalf("want error for unknown template")
	}
}
