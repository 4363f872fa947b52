package models

import "time"

// QuestionAggregate is the statistics of one question in one round.
// ScaleMax is always the round's own scale, never the team's current one.
type QuestionAggregate struct {
	QuestionID     uint      `json:"question_id"`
	QuestionText   string    `json:"question_text"`
	RoundID        uint      `json:"round_id"`
	RoundCreatedAt time.Time `json:"round_created_at"`
	ScaleMax       int       `json:"scale_max"`
	Avg            float64   `json:"avg"`
	Spread         float64   `json:"spread"`
	Count          int       `json:"count"`
	Values         []int     `json:"values"`
}
