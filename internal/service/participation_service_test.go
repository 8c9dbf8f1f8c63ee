package service

import (
	"mcq_quiz_backend/internal/model"
	"testing"
	"time"
)

func snapshotFixture() []model.AttemptQuestion {
	return []model.AttemptQuestion{
		{BaseModel: model.BaseModel{ID: 11}, CorrectOption: model.OptionA, Points: 1},
		{BaseModel: model.BaseModel{ID: 12}, CorrectOption: model.OptionB, Points: 2},
		{BaseModel: model.BaseModel{ID: 13}, CorrectOption: model.OptionC, Points: 3},
		{BaseModel: model.BaseModel{ID: 14}, CorrectOption: model.OptionD, Points: 4},
	}
}

func TestScoreAttempt(t *testing.T) {
	tests := []struct {
		name     string
		selected map[uint]model.Option
		want     int
	}{
		{
			name:     "no responses",
			selected: map[uint]model.Option{},
			want:     0,
		},
		{
			name: "all correct",
			selected: map[uint]model.Option{
				11: model.OptionA, 12: model.OptionB, 13: model.OptionC, 14: model.OptionD,
			},
			want: 10,
		},
		{
			name: "all wrong",
			selected: map[uint]model.Option{
				11: model.OptionB, 12: model.OptionC, 13: model.OptionD, 14: model.OptionA,
			},
			want: 0,
		},
		{
			name: "partial with skipped question",
			selected: map[uint]model.Option{
				11: model.OptionA,
				13: model.OptionC,
				14: model.OptionA,
			},
			want: 4,
		},
		{
			name: "unknown question id ignored",
			selected: map[uint]model.Option{
				99: model.OptionA,
				12: model.OptionB,
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreAttempt(snapshotFixture(), tt.selected)
			if got != tt.want {
				t.Errorf("scoreAttempt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAttemptWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		minutes int
		wantEnd time.Time
	}{
		{"configured duration", 15, now.Add(15 * time.Minute)},
		{"unset falls back to an hour", 0, now.Add(60 * time.Minute)},
		{"negative falls back to an hour", -5, now.Add(60 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := &model.Quiz{DurationMinutes: tt.minutes}
			start, end := attemptWindow(quiz, now)
			if !start.Equal(now) {
				t.Errorf("start = %v, want %v", start, now)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestSnapshotQuestions(t *testing.T) {
	questions := []model.Question{
		{
			BaseModel:     model.BaseModel{ID: 7},
			Text:          "水的化学式是什么？",
			OptionA:       "H2O",
			OptionB:       "CO2",
			OptionC:       "NaCl",
			OptionD:       "O2",
			CorrectOption: model.OptionA,
			Points:        2,
		},
	}

	snapshot := snapshotQuestions(questions)
	if len(snapshot) != 1 {
		t.Fatalf("len(snapshot) = %d, want 1", len(snapshot))
	}

	got := snapshot[0]
	if got.QuestionID != 7 {
		t.Errorf("QuestionID = %d, want 7", got.QuestionID)
	}
	if got.Text != questions[0].Text || got.OptionA != "H2O" || got.OptionD != "O2" {
		t.Errorf("snapshot text/options do not match source question: %+v", got)
	}
	if got.CorrectOption != model.OptionA || got.Points != 2 {
		t.Errorf("snapshot scoring fields do not match: correct=%s points=%d", got.CorrectOption, got.Points)
	}
}

func TestQuizCodeCacheKey(t *testing.T) {
	if got := quizCodeCacheKey("ABCD2345"); got != "quiz:code:ABCD2345" {
		t.Errorf("quizCodeCacheKey() = %q", got)
	}
}

func intPtr(v int) *int { return &v }

// 快照行自增ID与源题目ID各自独立，刻意让源ID 42 撞上另一行的PK，
// 验证 questionId 定位走的是源ID换算而不是直接当快照ID用。
func bulkSnapshotFixture() []model.AttemptQuestion {
	return []model.AttemptQuestion{
		{BaseModel: model.BaseModel{ID: 41}, QuestionID: 7, CorrectOption: model.OptionA, Points: 1},
		{BaseModel: model.BaseModel{ID: 42}, QuestionID: 8, CorrectOption: model.OptionB, Points: 2},
		{BaseModel: model.BaseModel{ID: 43}, QuestionID: 42, CorrectOption: model.OptionC, Points: 4},
	}
}

func TestResolveBulkSelections(t *testing.T) {
	snapshot := bulkSnapshotFixture()

	tests := []struct {
		name   string
		inputs []BulkResponseInput
		want   map[uint]model.Option
	}{
		{
			name:   "by index",
			inputs: []BulkResponseInput{{QuestionIndex: intPtr(1), SelectedOption: "b"}},
			want:   map[uint]model.Option{42: model.OptionB},
		},
		{
			name:   "by question id resolves to snapshot row",
			inputs: []BulkResponseInput{{QuestionID: 7, SelectedOption: "a"}},
			want:   map[uint]model.Option{41: model.OptionA},
		},
		{
			name:   "question id colliding with a snapshot row id",
			inputs: []BulkResponseInput{{QuestionID: 42, SelectedOption: "c"}},
			want:   map[uint]model.Option{43: model.OptionC},
		},
		{
			name:   "unknown question id dropped",
			inputs: []BulkResponseInput{{QuestionID: 99, SelectedOption: "a"}},
			want:   map[uint]model.Option{},
		},
		{
			name:   "out of range index dropped",
			inputs: []BulkResponseInput{{QuestionIndex: intPtr(3), SelectedOption: "a"}, {QuestionIndex: intPtr(-1), SelectedOption: "a"}},
			want:   map[uint]model.Option{},
		},
		{
			name:   "neither locator dropped",
			inputs: []BulkResponseInput{{SelectedOption: "a"}},
			want:   map[uint]model.Option{},
		},
		{
			name:   "invalid option dropped",
			inputs: []BulkResponseInput{{QuestionID: 7, SelectedOption: "e"}},
			want:   map[uint]model.Option{},
		},
		{
			name: "index wins when both locators set",
			inputs: []BulkResponseInput{
				{QuestionIndex: intPtr(0), QuestionID: 8, SelectedOption: "a"},
			},
			want: map[uint]model.Option{41: model.OptionA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveBulkSelections(snapshot, tt.inputs)
			if len(got) != len(tt.want) {
				t.Fatalf("resolveBulkSelections() = %v, want %v", got, tt.want)
			}
			for qid, opt := range tt.want {
				if got[qid] != opt {
					t.Errorf("selected[%d] = %s, want %s", qid, got[qid], opt)
				}
			}
		})
	}
}

func TestResolveBulkSelectionsScoresByQuestionID(t *testing.T) {
	snapshot := bulkSnapshotFixture()
	inputs := []BulkResponseInput{
		{QuestionID: 7, SelectedOption: "a"},
		{QuestionID: 8, SelectedOption: "b"},
		{QuestionID: 42, SelectedOption: "d"},
	}

	selected := resolveBulkSelections(snapshot, inputs)
	if got := scoreAttempt(snapshot, selected); got != 3 {
		t.Errorf("score = %d, want 3", got)
	}
}

func TestCanAccessAttempt(t *testing.T) {
	owner := uint(5)
	studentAttempt := &model.QuizAttempt{StudentID: &owner, AccessToken: "tok-student"}
	guestAttempt := &model.QuizAttempt{AccessToken: "tok-guest"}

	tests := []struct {
		name      string
		attempt   *model.QuizAttempt
		studentID uint
		token     string
		want      bool
	}{
		{"owner", studentAttempt, 5, "", true},
		{"other student", studentAttempt, 6, "", false},
		{"anonymous cannot reach student attempt", studentAttempt, 0, "tok-student", false},
		{"guest with matching token", guestAttempt, 0, "tok-guest", true},
		{"guest with wrong token", guestAttempt, 0, "tok-other", false},
		{"guest without token", guestAttempt, 0, "", false},
		{"logged-in user without guest token", guestAttempt, 9, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canAccessAttempt(tt.attempt, tt.studentID, tt.token); got != tt.want {
				t.Errorf("canAccessAttempt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewAttemptOwnership(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := now.Add(time.Hour)

	student := newAttempt(3, 9, "小明", "1.2.3.4", now, end)
	if student.StudentID == nil || *student.StudentID != 9 {
		t.Errorf("StudentID = %v, want 9", student.StudentID)
	}
	if student.GuestKey != nil {
		t.Errorf("GuestKey = %q, want nil for logged-in student", *student.GuestKey)
	}

	guest := newAttempt(3, 0, "小明", "1.2.3.4", now, end)
	if guest.StudentID != nil {
		t.Errorf("StudentID = %v, want nil for guest", *guest.StudentID)
	}
	if guest.GuestKey == nil || *guest.GuestKey != "小明" {
		t.Errorf("GuestKey = %v, want nickname", guest.GuestKey)
	}

	if student.AccessToken == "" || guest.AccessToken == "" {
		t.Error("AccessToken must be set on every attempt")
	}
	if student.AccessToken == guest.AccessToken {
		t.Error("AccessToken must differ between attempts")
	}
}

func TestCodeCacheEntryJoinable(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name  string
		entry codeCacheEntry
		want  bool
	}{
		{"active without window", codeCacheEntry{Active: true}, true},
		{"inactive", codeCacheEntry{Active: false}, false},
		{"window lapsed since caching", codeCacheEntry{Active: true, EndTime: &past}, false},
		{"window not yet open", codeCacheEntry{Active: true, StartTime: &future}, false},
		{"inside window", codeCacheEntry{Active: true, StartTime: &past, EndTime: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.joinableAt(now); got != tt.want {
				t.Errorf("joinableAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
