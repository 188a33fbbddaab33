package services

import (
	"testing"
	"time"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

func TestWeekScheduleSplits(t *testing.T) {
	profile := &models.UserProfile{
		ID:          "1",
		Email:       "user@test.com",
		WorkoutDays: []string{"Sexta-feira", "Segunda-feira", "Quarta-feira"},
	}
	// a Monday
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)

	schedule := WeekSchedule(profile, now)
	if len(schedule) != 7 {
		t.Fatalf("expected 7 days, got %d", len(schedule))
	}

	// splits follow week order regardless of selection order
	if schedule[1].Split != "Treino A" || schedule[3].Split != "Treino B" || schedule[5].Split != "Treino C" {
		t.Fatalf("unexpected splits: %+v", schedule)
	}
	if schedule[0].Workout || schedule[0].Split != "" {
		t.Fatalf("rest day should carry no split: %+v", schedule[0])
	}
	if !schedule[1].Today {
		t.Fatal("expected Monday flagged as today")
	}
	for i, day := range schedule {
		if day.Today && i != 1 {
			t.Fatalf("day %d wrongly flagged as today", i)
		}
	}
}

func TestWeekScheduleNoWorkoutDays(t *testing.T) {
	profile := &models.UserProfile{ID: "1", Email: "user@test.com"}
	schedule := WeekSchedule(profile, time.Now())
	for _, day := range schedule {
		if day.Workout || day.Split != "" {
			t.Fatalf("expected all rest days, got %+v", day)
		}
	}
}

func TestValidWeekDay(t *testing.T) {
	if !ValidWeekDay("Domingo") || !ValidWeekDay("Sábado") {
		t.Fatal("known days rejected")
	}
	if ValidWeekDay("Monday") || ValidWeekDay("") {
		t.Fatal("unknown day accepted")
	}
}
