package handlers

import (
	"strings"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
)

var allowedLevels = map[string]struct{}{
	models.LevelBeginner: {},
	models.LevelAdvanced: {},
}

var allowedGoals = map[string]struct{}{
	models.GoalLoseFat:     {},
	models.GoalGainMuscle:  {},
	models.GoalMaintain:    {},
	models.GoalHypertrophy: {},
}

func validateOnboardingRequest(req onboardingRequest) string {
	if req.Age <= 0 {
		return "age must be greater than 0"
	}
	if req.HeightCM <= 0 {
		return "height must be greater than 0"
	}
	if req.WeightKG <= 0 {
		return "weight must be greater than 0"
	}
	if err := validateLevel(req.Level); err != "" {
		return err
	}
	if err := validateGoal(req.Goal); err != "" {
		return err
	}
	return ""
}

func validateProfileUpdateRequest(req updateProfileRequest) string {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return "name must not be empty"
	}
	if req.Age != nil && *req.Age <= 0 {
		return "age must be greater than 0"
	}
	if req.HeightCM != nil && *req.HeightCM <= 0 {
		return "height must be greater than 0"
	}
	if req.WeightKG != nil && *req.WeightKG <= 0 {
		return "weight must be greater than 0"
	}
	if req.Level != nil {
		if err := validateLevel(*req.Level); err != "" {
			return err
		}
	}
	if req.Goal != nil {
		if err := validateGoal(*req.Goal); err != "" {
			return err
		}
	}
	if req.WorkoutDays != nil {
		for _, day := range *req.WorkoutDays {
			if !services.ValidWeekDay(day) {
				return "workout_days must contain week day names"
			}
		}
	}
	return ""
}

func validateLevel(level string) string {
	if _, ok := allowedLevels[strings.TrimSpace(level)]; !ok {
		return "level must be one of: " + models.LevelBeginner + ", " + models.LevelAdvanced
	}
	return ""
}

func validateGoal(goal string) string {
	if _, ok := allowedGoals[strings.TrimSpace(goal)]; !ok {
		return "goal is not a known objective"
	}
	return ""
}
