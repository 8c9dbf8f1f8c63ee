package service

import (
	"errors"
	"mcq_quiz_backend/internal/util"
	"testing"
)

const validGenerated = `{
	"questions": [
		{
			"text": "地球绕太阳一周需要多久？",
			"optionA": "一天",
			"optionB": "一个月",
			"optionC": "一年",
			"optionD": "十年",
			"correctOption": "c",
			"points": 2,
			"difficulty": "easy"
		}
	]
}`

func TestParseGeneratedQuestions(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		questions, err := ParseGeneratedQuestions(validGenerated)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(questions) != 1 {
			t.Fatalf("len = %d, want 1", len(questions))
		}
		q := questions[0]
		if q.CorrectOption != "c" || q.Points != 2 || q.Difficulty != "easy" {
			t.Errorf("parsed question fields wrong: %+v", q)
		}
	})

	t.Run("fenced code block stripped", func(t *testing.T) {
		questions, err := ParseGeneratedQuestions("```json\n" + validGenerated + "\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(questions) != 1 {
			t.Errorf("len = %d, want 1", len(questions))
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		raw := `{"questions":[{"text":"t","optionA":"a","optionB":"b","optionC":"c","optionD":"d","correctOption":"a","points":0,"difficulty":"impossible"}]}`
		questions, err := ParseGeneratedQuestions(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if questions[0].Points != 1 {
			t.Errorf("Points = %d, want default 1", questions[0].Points)
		}
		if questions[0].Difficulty != "medium" {
			t.Errorf("Difficulty = %q, want medium", questions[0].Difficulty)
		}
	})

	badInputs := map[string]string{
		"not json":        "model refused to answer",
		"empty questions": `{"questions":[]}`,
		"missing text":    `{"questions":[{"optionA":"a","optionB":"b","optionC":"c","optionD":"d","correctOption":"a"}]}`,
		"missing option":  `{"questions":[{"text":"t","optionA":"a","optionB":"b","optionC":"c","correctOption":"a"}]}`,
		"invalid correct": `{"questions":[{"text":"t","optionA":"a","optionB":"b","optionC":"c","optionD":"d","correctOption":"e"}]}`,
	}
	for name, raw := range badInputs {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseGeneratedQuestions(raw); !errors.Is(err, util.ErrGenerationFailed) {
				t.Errorf("err = %v, want ErrGenerationFailed", err)
			}
		})
	}
}
