package models

// Training level values as presented by the onboarding flow.
const (
	LevelBeginner = "Iniciante"
	LevelAdvanced = "Avançado"
)

// Goal values.
const (
	GoalLoseFat     = "Perder Gordura"
	GoalGainMuscle  = "Ganhar Massa"
	GoalMaintain    = "Manter o Físico"
	GoalHypertrophy = "Hipertrofia"
)

type UserProfile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Age         *int     `json:"age,omitempty"`
	HeightCM    *float64 `json:"height,omitempty"`
	WeightKG    *float64 `json:"weight,omitempty"`
	Level       *string  `json:"level,omitempty"`
	Goal        *string  `json:"goal,omitempty"`
	Onboarded   bool     `json:"onboarded"`
	IsAdmin     bool     `json:"isAdmin,omitempty"`
	WorkoutDays []string `json:"workoutDays,omitempty"`
}

// Valid reports whether a decoded profile document carries the fields every
// persisted profile must have. Documents failing this check are treated as
// absent by the storage layer.
func (p *UserProfile) Valid() bool {
	return p != nil && p.ID != "" && p.Email != ""
}
