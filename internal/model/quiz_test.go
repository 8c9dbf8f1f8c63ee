package model

import (
	"testing"
	"time"
)

func TestQuizJoinableAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name string
		quiz Quiz
		want bool
	}{
		{"inactive", Quiz{Active: false}, false},
		{"active without window", Quiz{Active: true}, true},
		{"inside window", Quiz{Active: true, StartTime: &before, EndTime: &after}, true},
		{"before window opens", Quiz{Active: true, StartTime: &after}, false},
		{"after window closes", Quiz{Active: true, EndTime: &before}, false},
		{"inactive inside window", Quiz{Active: false, StartTime: &before, EndTime: &after}, false},
		{"only start, already passed", Quiz{Active: true, StartTime: &before}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.quiz.JoinableAt(now); got != tt.want {
				t.Errorf("JoinableAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestionOrderRoundTrip(t *testing.T) {
	ids := []uint{5, 3, 9, 1}
	attempt := QuizAttempt{QuestionOrder: EncodeQuestionOrder(ids)}

	got := attempt.OrderedQuestionIDs()
	if len(got) != len(ids) {
		t.Fatalf("len = %d, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], ids[i])
		}
	}
}

func TestOrderedQuestionIDsEmpty(t *testing.T) {
	attempt := QuizAttempt{}
	if got := attempt.OrderedQuestionIDs(); got != nil {
		t.Errorf("OrderedQuestionIDs() = %v, want nil", got)
	}
}

func TestOrderedQuestionIDsSkipsGarbage(t *testing.T) {
	attempt := QuizAttempt{QuestionOrder: "3,x,7"}
	got := attempt.OrderedQuestionIDs()
	if len(got) != 2 || got[0] != 3 || got[1] != 7 {
		t.Errorf("OrderedQuestionIDs() = %v, want [3 7]", got)
	}
}

func TestQuestionOptionText(t *testing.T) {
	q := Question{OptionA: "甲", OptionB: "乙", OptionC: "丙", OptionD: "丁"}

	tests := []struct {
		option Option
		want   string
		ok     bool
	}{
		{OptionA, "甲", true},
		{OptionB, "乙", true},
		{OptionC, "丙", true},
		{OptionD, "丁", true},
		{Option("e"), "", false},
	}
	for _, tt := range tests {
		got, ok := q.OptionText(tt.option)
		if got != tt.want || ok != tt.ok {
			t.Errorf("OptionText(%q) = %q,%v want %q,%v", tt.option, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOptionAndDifficultyValid(t *testing.T) {
	for _, o := range []Option{OptionA, OptionB, OptionC, OptionD} {
		if !o.Valid() {
			t.Errorf("Option %q should be valid", o)
		}
	}
	if Option("e").Valid() || Option("").Valid() || Option("A").Valid() {
		t.Error("invalid options accepted")
	}

	for _, d := range []Difficulty{Easy, Medium, Hard} {
		if !d.Valid() {
			t.Errorf("Difficulty %q should be valid", d)
		}
	}
	if Difficulty("extreme").Valid() || Difficulty("").Valid() {
		t.Error("invalid difficulties accepted")
	}
}
