package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoundStatusOpen   = "open"
	RoundStatusClosed = "closed"
)

const (
	RoundQuestionKindFixed    = "fixed"
	RoundQuestionKindRotating = "rotating"
)

type Round struct {
	BaseModel

	TeamID        uint                        `json:"team_id" gorm:"index"`
	QuestionSetID *uint                       `json:"question_set_id"`
	Token         string                      `json:"token" gorm:"uniqueIndex"`
	Status        string                      `json:"status" gorm:"index"`
	ScaleMax      int                         `json:"scale_max"`
	ScaleLabels   datatypes.JSONSlice[string] `json:"scale_labels"`
	OpensAt       time.Time                   `json:"opens_at"`
	ClosesAt      *time.Time                  `json:"closes_at"`
	Questions     []RoundQuestion             `json:"questions,omitempty" gorm:"foreignKey:RoundID"`
}

func (v Round) IsOpen() bool {
	return v.Status == RoundStatusOpen
}

// PublicRound leaves out the respond token.
type PublicRound struct {
	ID        uint       `json:"id"`
	Status    string     `json:"status"`
	ScaleMax  int        `json:"scale_max"`
	OpensAt   time.Time  `json:"opens_at"`
	ClosesAt  *time.Time `json:"closes_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (v Round) Public() PublicRound {
	return PublicRound{
		ID:        v.ID,
		Status:    v.Status,
		ScaleMax:  v.ScaleMax,
		OpensAt:   v.OpensAt,
		ClosesAt:  v.ClosesAt,
		CreatedAt: v.CreatedAt,
	}
}

// RoundQuestion is the frozen composition of a round. QuestionText is copied
// from the bank when the round is composed and never follows later edits.
type RoundQuestion struct {
	BaseModel

	RoundID      uint   `json:"round_id" gorm:"index"`
	QuestionID   uint   `json:"question_id" gorm:"index"`
	QuestionText string `json:"question_text"`
	Kind         string `json:"kind"`
	Position     int    `json:"position"`
}
