package service

type ProfileRequest struct {
	DisplayName         string   `json:"display_name" validate:"omitempty,max=60"`
	DailyGoalHours      float64  `json:"daily_goal_hours" validate:"omitempty,gt=0,lte=24"`
	WeeklyGoalHours     float64  `json:"weekly_goal_hours" validate:"omitempty,gt=0,lte=168"`
	PreferredProtocolID string   `json:"preferred_protocol_id" validate:"omitempty,max=64"`
	WeightKg            *float64 `json:"weight_kg" validate:"omitempty,gt=0,lt=500"`
	GoalWeightKg        *float64 `json:"goal_weight_kg" validate:"omitempty,gt=0,lt=500"`
	OnboardingComplete  *bool    `json:"onboarding_complete"`
	ShareStats          *bool    `json:"share_stats"`
}

func ValidateProfileRequest(req *ProfileRequest) error {
	return validate.Struct(req)
}
