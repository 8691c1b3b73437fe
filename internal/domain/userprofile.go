package domain

import "time"

// UserProfile is the questionnaire a plan is generated from. LastUpdated is
// compared against the plan's LastUpdated to decide whether a stored plan
// is still fresh.
type UserProfile struct {
	Username        string    `json:"username"`
	InterestsValues string    `json:"interests_values"`
	WorkExperience  string    `json:"work_experience"`
	Circumstances   string    `json:"circumstances"`
	Skills          string    `json:"skills"`
	Goals           string    `json:"goals"`
	CreatedAt       time.Time `json:"created_at"`
	LastUpdated     time.Time `json:"last_updated"`
}
