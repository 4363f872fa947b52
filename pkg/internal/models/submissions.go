package models

type Submission struct {
	BaseModel

	RoundID    uint       `json:"round_id" gorm:"index"`
	ClientHash *string    `json:"-"`
	Answers    []Answer   `json:"answers,omitempty" gorm:"foreignKey:SubmissionID"`
	FreeTexts  []FreeText `json:"free_texts,omitempty" gorm:"foreignKey:SubmissionID"`
}

type Answer struct {
	BaseModel

	SubmissionID    uint `json:"submission_id" gorm:"index"`
	RoundQuestionID uint `json:"round_question_id" gorm:"index"`
	Value           int  `json:"value"`
}

type FreeText struct {
	BaseModel

	SubmissionID uint   `json:"submission_id" gorm:"index"`
	Text         string `json:"text"`
	Language     string `json:"language"`
}
