package services

import (
	"fmt"
	"time"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

// WeekDays in calendar order, Sunday first, as stored on the profile.
var WeekDays = []string{
	"Domingo",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
}

// CalendarDay is one weekday of the training schedule. Training days carry a
// split label (Treino A, Treino B, ...) assigned in week order.
type CalendarDay struct {
	Day     string `json:"day"`
	Workout bool   `json:"workout"`
	Split   string `json:"split,omitempty"`
	Today   bool   `json:"today"`
}

// WeekSchedule derives the workout calendar from the profile's workout days.
func WeekSchedule(profile *models.UserProfile, now time.Time) []CalendarDay {
	active := make(map[string]bool, len(profile.WorkoutDays))
	for _, day := range profile.WorkoutDays {
		active[day] = true
	}

	todayIndex := int(now.Weekday())
	schedule := make([]CalendarDay, 0, len(WeekDays))
	split := 0
	for i, day := range WeekDays {
		entry := CalendarDay{
			Day:     day,
			Workout: active[day],
			Today:   i == todayIndex,
		}
		if entry.Workout {
			entry.Split = fmt.Sprintf("Treino %c", 'A'+split)
			split++
		}
		schedule = append(schedule, entry)
	}
	return schedule
}

func ValidWeekDay(day string) bool {
	for _, known := range WeekDays {
		if known == day {
			return true
		}
	}
	return false
}
