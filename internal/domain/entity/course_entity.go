package entity

import "time"

// MinimumSkill is the entry requirement for a course.
type MinimumSkill string

const (
	SkillBeginner     MinimumSkill = "beginner"
	SkillIntermediate MinimumSkill = "intermediate"
	SkillAdvanced     MinimumSkill = "advanced"
)

// Course belongs to a bootcamp; UserID mirrors the owning bootcamp's owner so
// ownership checks do not need a join.
type Course struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Weeks                int          `json:"weeks"`
	Tuition              int          `json:"tuition"`
	MinimumSkill         MinimumSkill `json:"minimum_skill"`
	ScholarshipAvailable bool         `json:"scholarship_available"`
	BootcampID           string       `json:"bootcamp_id"`
	UserID               string       `json:"user_id"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}
