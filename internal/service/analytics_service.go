package service

import (
	"errors"
	"fmt"
	"math"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"sort"
	"time"

	"gorm.io/gorm"
)

type AnalyticsService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
}

func NewAnalyticsService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository) *AnalyticsService {
	return &AnalyticsService{QuizRepo: quizRepo, AttemptRepo: attemptRepo}
}

type ScoreStats struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	StdDeviation float64 `json:"stdDeviation"`
	AvgTimeTaken string  `json:"avgTimeTaken"`
}

type TimeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type AttemptSummary struct {
	Nickname  string    `json:"nickname"`
	Score     int       `json:"score"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type QuizAnalytics struct {
	QuizID   uint             `json:"quizId"`
	QuizName string           `json:"quizName"`
	Stats    ScoreStats       `json:"stats"`
	Buckets  []TimeBucket     `json:"timeDistribution"`
	Attempts []AttemptSummary `json:"attempts"`
}

// computeStats 聚合已完成作答的分数与用时。
// 标准差取总体口径，样本数不足2时为0。
func computeStats(attempts []model.QuizAttempt) ScoreStats {
	stats := ScoreStats{AvgTimeTaken: "0s"}
	n := len(attempts)
	if n == 0 {
		return stats
	}

	stats.Count = n
	stats.Min = attempts[0].Score
	stats.Max = attempts[0].Score
	sum := 0
	var totalTime time.Duration
	for i := range attempts {
		score := attempts[i].Score
		sum += score
		if score < stats.Min {
			stats.Min = score
		}
		if score > stats.Max {
			stats.Max = score
		}
		totalTime += attempts[i].EndTime.Sub(attempts[i].StartTime)
	}
	stats.Mean = float64(sum) / float64(n)

	if n >= 2 {
		var variance float64
		for i := range attempts {
			d := float64(attempts[i].Score) - stats.Mean
			variance += d * d
		}
		stats.StdDeviation = math.Sqrt(variance / float64(n))
	}

	avg := totalTime / time.Duration(n)
	stats.AvgTimeTaken = avg.Round(time.Second).String()
	return stats
}

// timeBuckets 按用时分桶，计数为0的桶不输出。
func timeBuckets(attempts []model.QuizAttempt) []TimeBucket {
	labels := []string{"<10 min", "10-20 min", "20-30 min", ">30 min"}
	counts := make([]int, len(labels))
	for i := range attempts {
		taken := attempts[i].EndTime.Sub(attempts[i].StartTime)
		switch {
		case taken < 10*time.Minute:
			counts[0]++
		case taken < 20*time.Minute:
			counts[1]++
		case taken < 30*time.Minute:
			counts[2]++
		default:
			counts[3]++
		}
	}
	buckets := make([]TimeBucket, 0, len(labels))
	for i, label := range labels {
		if counts[i] == 0 {
			continue
		}
		buckets = append(buckets, TimeBucket{Label: label, Count: counts[i]})
	}
	return buckets
}

// GetQuizAnalytics 测验所有者查看聚合报表。只统计已完成作答，
// 进行中的不计入任何指标。
func (s *AnalyticsService) GetQuizAnalytics(quizID, ownerID uint) (*QuizAnalytics, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}

	attempts, err := s.AttemptRepo.ListCompletedByQuiz(quizID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	result := &QuizAnalytics{
		QuizID:   quiz.ID,
		QuizName: quiz.Name,
		Stats:    computeStats(attempts),
		Buckets:  timeBuckets(attempts),
		Attempts: make([]AttemptSummary, 0, len(attempts)),
	}
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Score > attempts[j].Score
	})
	for i := range attempts {
		result.Attempts = append(result.Attempts, AttemptSummary{
			Nickname:  attempts[i].Nickname,
			Score:     attempts[i].Score,
			StartTime: attempts[i].StartTime,
			EndTime:   attempts[i].EndTime,
		})
	}
	return result, nil
}
