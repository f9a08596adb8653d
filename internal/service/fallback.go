package service

import (
	"time"

	"github.com/yourname/healthtrack/internal"
)

// FallbackRecord returns a fresh copy of the static fallback snapshot. Views
// always have usable numbers to render, even when every read fails.
func FallbackRecord() internal.HealthRecord {
	return internal.HealthRecord{
		ID:            "local-fallback",
		UserID:        "local-user",
		Steps:         8543,
		HeartRate:     72,
		ActiveMinutes: 45,
		SleepHours:    7.5,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
		ActivityHistory: []internal.ActivityPoint{
			{Name: "2023-01-01", Value: 35},
			{Name: "2023-01-02", Value: 42},
			{Name: "2023-01-03", Value: 28},
			{Name: "2023-01-04", Value: 55},
			{Name: "2023-01-05", Value: 65},
			{Name: "2023-01-06", Value: 38},
			{Name: "2023-01-07", Value: 45},
		},
	}
}

// SampleWorkouts seeds the ledger when nothing usable is persisted.
func SampleWorkouts() []internal.Workout {
	return []internal.Workout{
		{
			ID:             "workout-1",
			Name:           "Morning Run",
			Type:           "cardio",
			Duration:       30,
			CaloriesBurned: 320,
			Date:           "2023-01-05",
		},
		{
			ID:             "workout-2",
			Name:           "Weight Training",
			Type:           "strength",
			Duration:       45,
			CaloriesBurned: 280,
			Date:           "2023-01-06",
		},
	}
}

// DefaultMilestones is the fixed-size, fixed-order achievement list.
func DefaultMilestones() []internal.Milestone {
	return []internal.Milestone{
		{Title: "First Steps"},
		{Title: "Active Achiever"},
		{Title: "Sleep Master"},
		{Title: "Heart Health Hero"},
	}
}
