package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"mcq_quiz_backend/pkg/logger"
	"mcq_quiz_backend/pkg/monitoring"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 时长未配置时的兜底作答窗口
	fallbackDurationMinutes = 60
	codeCacheTTL            = 30 * time.Second
)

func quizCodeCacheKey(code string) string {
	return "quiz:code:" + code
}

type ParticipationService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	Redis       *redis.Client
}

func NewParticipationService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
) *ParticipationService {
	return &ParticipationService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		Redis:       rdb,
	}
}

// QuestionView 学生端题目视图。正确答案绝不进入该结构，
// 因此不会被任何学生侧响应序列化带出。
type QuestionView struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
	OptionC string `json:"optionC"`
	OptionD string `json:"optionD"`
	Points  int    `json:"points"`
}

type QuizView struct {
	ID              uint           `json:"id"`
	Name            string         `json:"name"`
	DurationMinutes int            `json:"durationMinutes"`
	Questions       []QuestionView `json:"questions"`
}

func newQuestionView(q *model.Question) QuestionView {
	return QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		OptionA: q.OptionA,
		OptionB: q.OptionB,
		OptionC: q.OptionC,
		OptionD: q.OptionD,
		Points:  q.Points,
	}
}

// codeCacheEntry 加入码缓存条目。可加入性随时间变化（时间窗口可能
// 在 TTL 内关闭），因此窗口字段一并入缓存，命中时重新判定，
// 不直接信任缓存时刻的判定结果。
type codeCacheEntry struct {
	View      QuizView   `json:"view"`
	Active    bool       `json:"active"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

func (e *codeCacheEntry) joinableAt(now time.Time) bool {
	q := model.Quiz{Active: e.Active, StartTime: e.StartTime, EndTime: e.EndTime}
	return q.JoinableAt(now)
}

// ResolveByCode 加入码换测验。码非法、测验不存在、不在可加入状态
// 一律 NotFound，不返回部分数据。热路径走 Redis 缓存。
func (s *ParticipationService) ResolveByCode(code string) (*QuizView, error) {
	if len(code) != model.JoinCodeLength {
		return nil, util.ErrQuizNotFound
	}

	now := time.Now()
	if entry := s.cachedEntry(code); entry != nil {
		if !entry.joinableAt(now) {
			return nil, util.ErrQuizNotFound
		}
		return &entry.View, nil
	}

	quiz, err := s.QuizRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.JoinableAt(now) {
		return nil, util.ErrQuizNotFound
	}

	questions, err := s.QuizRepo.ListQuestions(quiz.ID)
	if err != nil {
		return nil, err
	}

	view := QuizView{
		ID:              quiz.ID,
		Name:            quiz.Name,
		DurationMinutes: quiz.DurationMinutes,
		Questions:       make([]QuestionView, 0, len(questions)),
	}
	for i := range questions {
		view.Questions = append(view.Questions, newQuestionView(&questions[i]))
	}

	s.cacheEntry(code, &codeCacheEntry{
		View:      view,
		Active:    quiz.Active,
		StartTime: quiz.StartTime,
		EndTime:   quiz.EndTime,
	})
	return &view, nil
}

func (s *ParticipationService) cachedEntry(code string) *codeCacheEntry {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(context.Background(), quizCodeCacheKey(code)).Bytes()
	if err != nil {
		return nil
	}
	var entry codeCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	return &entry
}

func (s *ParticipationService) cacheEntry(code string, entry *codeCacheEntry) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), quizCodeCacheKey(code), data, codeCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache quiz view", zap.String("code", code), zap.Error(err))
	}
}

func snapshotQuestions(questions []model.Question) []model.AttemptQuestion {
	snapshot := make([]model.AttemptQuestion, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		snapshot = append(snapshot, model.AttemptQuestion{
			QuestionID:    q.ID,
			Text:          q.Text,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectOption: q.CorrectOption,
			Points:        q.Points,
		})
	}
	return snapshot
}

func attemptWindow(quiz *model.Quiz, now time.Time) (time.Time, time.Time) {
	minutes := quiz.DurationMinutes
	if minutes <= 0 {
		minutes = fallbackDurationMinutes
	}
	return now, now.Add(time.Duration(minutes) * time.Minute)
}

// newAttempt 建档。登录学生挂 student_id；游客写 guest_key（昵称值），
// 各自的唯一索引互不干涉：不同学生重名不冲突，游客昵称每测验一次。
// access_token 是游客后续逐题作答与交卷的持有凭证。
func newAttempt(quizID, studentID uint, nickname, ip string, start, end time.Time) *model.QuizAttempt {
	attempt := &model.QuizAttempt{
		QuizID:      quizID,
		Nickname:    nickname,
		AccessToken: uuid.New().String(),
		StartTime:   start,
		EndTime:     end,
		Status:      model.AttemptInProgress,
		IPAddress:   ip,
	}
	if studentID > 0 {
		attempt.StudentID = &studentID
	} else {
		key := nickname
		attempt.GuestKey = &key
	}
	return attempt
}

// StartAttempt 开始一次作答：快照题目、打乱出题顺序、建档 in_progress。
// 同一 (quiz, student) 的并发开始以唯一索引裁决，输掉的一侧得到 Conflict。
func (s *ParticipationService) StartAttempt(quizID uint, studentID uint, nickname, ip string) (*model.QuizAttempt, []QuestionView, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}
	now := time.Now()
	if !quiz.JoinableAt(now) {
		return nil, nil, util.ErrQuizNotFound
	}

	questions, err := s.QuizRepo.ListQuestions(quiz.ID)
	if err != nil {
		return nil, nil, err
	}

	start, end := attemptWindow(quiz, now)
	attempt := newAttempt(quiz.ID, studentID, nickname, ip, start, end)

	snapshot := snapshotQuestions(questions)
	shuffle := func(ids []uint) []uint {
		rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		return ids
	}
	if err := s.AttemptRepo.CreateWithSnapshot(attempt, snapshot, shuffle); err != nil {
		if util.IsDuplicateEntry(err) {
			return nil, nil, util.ErrAttemptExists
		}
		return nil, nil, err
	}
	monitoring.AttemptsStarted.Inc()

	views, err := s.orderedViews(attempt)
	if err != nil {
		return nil, nil, err
	}
	return attempt, views, nil
}

// orderedViews 按出题顺序返回快照题目的学生端视图。
func (s *ParticipationService) orderedViews(attempt *model.QuizAttempt) ([]QuestionView, error) {
	snapshot, err := s.AttemptRepo.ListSnapshot(attempt.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.AttemptQuestion, len(snapshot))
	for i := range snapshot {
		byID[snapshot[i].ID] = &snapshot[i]
	}

	ids := attempt.OrderedQuestionIDs()
	views := make([]QuestionView, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			continue
		}
		views = append(views, QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			OptionA: q.OptionA,
			OptionB: q.OptionB,
			OptionC: q.OptionC,
			OptionD: q.OptionD,
			Points:  q.Points,
		})
	}
	return views, nil
}

// canAccessAttempt 作答归属判定。登录学生的作答只认本人；
// 游客作答没有账号可校验，改为核对开始作答时发放的持有凭证。
func canAccessAttempt(attempt *model.QuizAttempt, studentID uint, token string) bool {
	if attempt.StudentID != nil {
		return *attempt.StudentID == studentID
	}
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(attempt.AccessToken), []byte(token)) == 1
}

func (s *ParticipationService) loadOwnedAttempt(attemptID, studentID uint, token string) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if !canAccessAttempt(attempt, studentID, token) {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}

// RecordResponse 逐题作答。仅 in_progress 且未过期时可写；
// 同一题重复作答后写覆盖先写。
func (s *ParticipationService) RecordResponse(attemptID, studentID, questionID uint, token string, selected model.Option) error {
	if !selected.Valid() {
		return fmt.Errorf("invalid option %q", selected)
	}

	attempt, err := s.loadOwnedAttempt(attemptID, studentID, token)
	if err != nil {
		return err
	}
	if attempt.Status != model.AttemptInProgress {
		return util.ErrAttemptCompleted
	}
	if time.Now().After(attempt.EndTime) {
		return util.ErrAttemptExpired
	}

	// 只认本次作答快照内的题目
	snapshot, err := s.AttemptRepo.ListSnapshot(attemptID)
	if err != nil {
		return err
	}
	found := false
	for i := range snapshot {
		if snapshot[i].ID == questionID {
			found = true
			break
		}
	}
	if !found {
		return util.ErrQuestionNotFound
	}

	return s.AttemptRepo.UpsertResponse(attemptID, questionID, selected)
}

// scoreAttempt 判分：选项命中得该题分值，未答或答错计0，逐题求和。
// 批量提交和逐题提交最终都汇到这里。
func scoreAttempt(questions []model.AttemptQuestion, selected map[uint]model.Option) int {
	total := 0
	for i := range questions {
		q := &questions[i]
		if opt, ok := selected[q.ID]; ok && opt == q.CorrectOption {
			total += q.Points
		}
	}
	return total
}

// FinishAttempt 以已记录的作答收尾。terminal 只发生一次：
// 已完成的再提交得到 InvalidState，分数不会被改写。
// timeout=true 是超时强制收卷，允许在截止后执行。
func (s *ParticipationService) FinishAttempt(attemptID, studentID uint, token string, timeout bool) (*model.QuizAttempt, error) {
	attempt, err := s.loadOwnedAttempt(attemptID, studentID, token)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptCompleted
	}

	now := time.Now()
	if !timeout && now.After(attempt.EndTime) {
		return nil, util.ErrAttemptExpired
	}

	snapshot, err := s.AttemptRepo.ListSnapshot(attemptID)
	if err != nil {
		return nil, err
	}
	responses, err := s.AttemptRepo.ListResponses(attemptID)
	if err != nil {
		return nil, err
	}

	selected := make(map[uint]model.Option, len(responses))
	for i := range responses {
		selected[responses[i].QuestionID] = responses[i].SelectedOption
	}

	attempt.Score = scoreAttempt(snapshot, selected)
	attempt.Status = model.AttemptCompleted
	attempt.EndTime = now

	if err := s.AttemptRepo.Complete(attempt, nil); err != nil {
		return nil, err
	}
	monitoring.AttemptsCompleted.WithLabelValues(strconv.FormatBool(timeout)).Inc()
	return attempt, nil
}

// BulkResponseInput 批量提交的单题作答。题目以解析页返回的下标
// 或题目ID（即解析页视图里的 id）定位。
type BulkResponseInput struct {
	QuestionIndex  *int   `json:"questionIndex"`
	QuestionID     uint   `json:"questionId"`
	SelectedOption string `json:"selectedOption" binding:"required,oneof=a b c d"`
}

// resolveBulkSelections 把批量作答映射到快照行。
// questionIndex 按快照顺序定位；questionId 是解析页暴露的源题目ID，
// 必须经 snapshot.QuestionID 换算成快照行自身的ID后才能参与判分，
// 两个ID空间来自不同表的自增序列，直接混用会错配。
// 越界下标、快照外的题目ID、非法选项一律丢弃。
func resolveBulkSelections(snapshot []model.AttemptQuestion, inputs []BulkResponseInput) map[uint]model.Option {
	bySourceID := make(map[uint]uint, len(snapshot))
	for i := range snapshot {
		bySourceID[snapshot[i].QuestionID] = snapshot[i].ID
	}

	selected := make(map[uint]model.Option, len(inputs))
	for _, in := range inputs {
		opt := model.Option(in.SelectedOption)
		if !opt.Valid() {
			continue
		}
		var qid uint
		switch {
		case in.QuestionIndex != nil:
			idx := *in.QuestionIndex
			if idx < 0 || idx >= len(snapshot) {
				continue
			}
			qid = snapshot[idx].ID
		case in.QuestionID > 0:
			id, ok := bySourceID[in.QuestionID]
			if !ok {
				continue
			}
			qid = id
		default:
			continue
		}
		selected[qid] = opt
	}
	return selected
}

// SubmitBulk 游客加入流程的一次性提交：建档、快照、判分、收尾
// 全部发生在本次调用内。重复提交同样由唯一索引裁决为 Conflict。
func (s *ParticipationService) SubmitBulk(quizID uint, studentID uint, nickname, ip string, inputs []BulkResponseInput) (*model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	now := time.Now()
	if !quiz.JoinableAt(now) {
		return nil, util.ErrQuizNotFound
	}

	questions, err := s.QuizRepo.ListQuestions(quiz.ID)
	if err != nil {
		return nil, err
	}

	start, _ := attemptWindow(quiz, now)
	attempt := newAttempt(quiz.ID, studentID, nickname, ip, start, now)

	// 批量路径客户端按解析顺序作答，快照保持同一顺序，不打乱
	snapshot := snapshotQuestions(questions)
	if err := s.AttemptRepo.CreateWithSnapshot(attempt, snapshot, nil); err != nil {
		if util.IsDuplicateEntry(err) {
			return nil, util.ErrAttemptExists
		}
		return nil, err
	}
	monitoring.AttemptsStarted.Inc()

	selected := resolveBulkSelections(snapshot, inputs)
	responses := make([]model.Response, 0, len(selected))
	for qid, opt := range selected {
		responses = append(responses, model.Response{
			AttemptID:      attempt.ID,
			QuestionID:     qid,
			SelectedOption: opt,
		})
	}

	attempt.Score = scoreAttempt(snapshot, selected)
	attempt.Status = model.AttemptCompleted
	attempt.EndTime = time.Now()

	if err := s.AttemptRepo.Complete(attempt, responses); err != nil {
		return nil, err
	}
	monitoring.AttemptsCompleted.WithLabelValues("false").Inc()
	return attempt, nil
}

func (s *ParticipationService) GetAttemptHistory(studentID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByStudent(studentID)
}
