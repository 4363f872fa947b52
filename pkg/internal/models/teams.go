package models

import "time"

const (
	CadenceWeekly   = "weekly"
	CadenceBiweekly = "biweekly"
	CadenceMonthly  = "monthly"
)

// SupportedScales lists the response scales a team may switch between.
var SupportedScales = []int{3, 4, 5}

const (
	DefaultScaleMax           = 3
	DefaultCadence            = CadenceBiweekly
	DefaultMinResponsesToShow = 4
)

type Team struct {
	BaseModel

	Name       string `json:"name"`
	Slug       string `json:"slug" gorm:"uniqueIndex"`
	AdminToken string `json:"-" gorm:"uniqueIndex"`
	AdminEmail string `json:"admin_email" gorm:"index"`
}

type TeamSettings struct {
	BaseModel

	TeamID             uint   `json:"team_id" gorm:"uniqueIndex"`
	Cadence            string `json:"cadence"`
	ScaleMax           int    `json:"scale_max"`
	MinResponsesToShow int    `json:"min_responses_to_show"`
	AllowFreeText      bool   `json:"allow_free_text"`
}

// PublicTeam is the part of a team shown on its public pages.
type PublicTeam struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (v Team) Public() PublicTeam {
	return PublicTeam{Name: v.Name, Slug: v.Slug}
}

// TeamSummary is the super admin listing entry of a team.
type TeamSummary struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	AdminEmail      string     `json:"admin_email"`
	AdminToken      string     `json:"admin_token"`
	CreatedAt       time.Time  `json:"created_at"`
	RoundCount      int        `json:"round_count"`
	SubmissionCount int64      `json:"submission_count"`
	LastRoundDate   *time.Time `json:"last_round_date"`
}
