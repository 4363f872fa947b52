package models

const (
	QuestionKindFixed        = "fixed"
	QuestionKindRotatingPool = "rotating_pool"
)

type Question struct {
	BaseModel

	TeamID   uint   `json:"team_id" gorm:"index"`
	Text     string `json:"text"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}

type QuestionSet struct {
	BaseModel

	TeamID    uint              `json:"team_id" gorm:"index"`
	IsDefault bool              `json:"is_default"`
	Items     []QuestionSetItem `json:"items" gorm:"foreignKey:QuestionSetID"`
}

type QuestionSetItem struct {
	BaseModel

	QuestionSetID uint      `json:"question_set_id" gorm:"index"`
	QuestionID    uint      `json:"question_id"`
	Question      *Question `json:"question,omitempty"`
	Position      int       `json:"position"`
	Kind          string    `json:"kind"`
}
