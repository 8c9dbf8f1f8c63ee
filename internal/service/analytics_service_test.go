package service

import (
	"math"
	"mcq_quiz_backend/internal/model"
	"testing"
	"time"
)

func completedAttempt(score int, taken time.Duration) model.QuizAttempt {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return model.QuizAttempt{
		Score:     score,
		Status:    model.AttemptCompleted,
		StartTime: start,
		EndTime:   start.Add(taken),
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		stats := computeStats(nil)
		if stats.Count != 0 || stats.Mean != 0 || stats.StdDeviation != 0 {
			t.Errorf("empty stats = %+v", stats)
		}
		if stats.AvgTimeTaken != "0s" {
			t.Errorf("AvgTimeTaken = %q, want 0s", stats.AvgTimeTaken)
		}
	})

	t.Run("single attempt has zero deviation", func(t *testing.T) {
		stats := computeStats([]model.QuizAttempt{completedAttempt(5, 10*time.Minute)})
		if stats.Count != 1 || stats.Mean != 5 || stats.Min != 5 || stats.Max != 5 {
			t.Errorf("stats = %+v", stats)
		}
		if stats.StdDeviation != 0 {
			t.Errorf("StdDeviation = %f, want 0 for a single attempt", stats.StdDeviation)
		}
	})

	t.Run("multiple attempts", func(t *testing.T) {
		attempts := []model.QuizAttempt{
			completedAttempt(2, 5*time.Minute),
			completedAttempt(4, 10*time.Minute),
			completedAttempt(6, 15*time.Minute),
			completedAttempt(8, 30*time.Minute),
		}
		stats := computeStats(attempts)

		if stats.Count != 4 {
			t.Errorf("Count = %d, want 4", stats.Count)
		}
		if stats.Mean != 5 {
			t.Errorf("Mean = %f, want 5", stats.Mean)
		}
		if stats.Min != 2 || stats.Max != 8 {
			t.Errorf("Min/Max = %d/%d, want 2/8", stats.Min, stats.Max)
		}
		// 总体标准差 sqrt(5) ≈ 2.2360
		if math.Abs(stats.StdDeviation-math.Sqrt(5)) > 1e-9 {
			t.Errorf("StdDeviation = %f, want %f", stats.StdDeviation, math.Sqrt(5))
		}
		if stats.AvgTimeTaken != "15m0s" {
			t.Errorf("AvgTimeTaken = %q, want 15m0s", stats.AvgTimeTaken)
		}
	})
}

func TestTimeBuckets(t *testing.T) {
	t.Run("zero count buckets omitted", func(t *testing.T) {
		attempts := []model.QuizAttempt{
			completedAttempt(1, 3*time.Minute),
			completedAttempt(2, 8*time.Minute),
			completedAttempt(3, 45*time.Minute),
		}
		buckets := timeBuckets(attempts)

		if len(buckets) != 2 {
			t.Fatalf("len(buckets) = %d, want 2: %+v", len(buckets), buckets)
		}
		if buckets[0].Label != "<10 min" || buckets[0].Count != 2 {
			t.Errorf("buckets[0] = %+v", buckets[0])
		}
		if buckets[1].Label != ">30 min" || buckets[1].Count != 1 {
			t.Errorf("buckets[1] = %+v", buckets[1])
		}
	})

	t.Run("boundaries", func(t *testing.T) {
		attempts := []model.QuizAttempt{
			completedAttempt(1, 10*time.Minute), // 落入 10-20
			completedAttempt(2, 20*time.Minute), // 落入 20-30
			completedAttempt(3, 30*time.Minute), // 落入 >30
		}
		buckets := timeBuckets(attempts)

		want := map[string]int{"10-20 min": 1, "20-30 min": 1, ">30 min": 1}
		if len(buckets) != len(want) {
			t.Fatalf("len(buckets) = %d, want %d: %+v", len(buckets), len(want), buckets)
		}
		for _, b := range buckets {
			if want[b.Label] != b.Count {
				t.Errorf("bucket %q = %d, want %d", b.Label, b.Count, want[b.Label])
			}
		}
	})

	t.Run("no attempts", func(t *testing.T) {
		if buckets := timeBuckets(nil); len(buckets) != 0 {
			t.Errorf("buckets = %+v, want empty", buckets)
		}
	})
}
