package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
)

// RoundFilter narrows a team round listing. Rounds always come back most
// recent first. Zero values disable the matching condition.
type RoundFilter struct {
	Status string
	// Before keeps rounds created strictly earlier than the given round.
	Before *models.Round
	// OpenedBefore keeps rounds whose opens_at is earlier than the time.
	OpenedBefore *time.Time
	Limit        int
}

// Comment is a free text answer together with the round it was given in.
type Comment struct {
	RoundID        uint      `json:"round_id"`
	RoundCreatedAt time.Time `json:"round_date"`
	Text           string    `json:"text"`
	Language       string    `json:"language"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the persistence the pulse core depends on. Lookups that miss
// must return ErrNotFound.
type Store interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id uint) (models.Team, error)
	GetTeamBySlug(ctx context.Context, slug string) (models.Team, error)
	GetTeamByAdminToken(ctx context.Context, token string) (models.Team, error)
	GetTeamByEmail(ctx context.Context, email string) (models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	GetSettings(ctx context.Context, teamID uint) (models.TeamSettings, error)
	SaveSettings(ctx context.Context, settings *models.TeamSettings) error

	CreateQuestion(ctx context.Context, question *models.Question) error
	GetQuestion(ctx context.Context, id uint) (models.Question, error)
	SaveQuestion(ctx context.Context, question *models.Question) error
	CreateQuestionSet(ctx context.Context, set *models.QuestionSet) error
	// GetDefaultQuestionSet returns the set with its items ordered by
	// position and their questions loaded.
	GetDefaultQuestionSet(ctx context.Context, teamID uint) (models.QuestionSet, error)
	CreateQuestionSetItem(ctx context.Context, item *models.QuestionSetItem) error
	GetQuestionSetItem(ctx context.Context, id uint) (models.QuestionSetItem, error)
	SaveQuestionSetItem(ctx context.Context, item *models.QuestionSetItem) error
	DeleteQuestionSetItem(ctx context.Context, id uint) error

	// CreateRound writes the round and its questions as one unit.
	CreateRound(ctx context.Context, round *models.Round) error
	GetRound(ctx context.Context, id uint) (models.Round, error)
	GetRoundByToken(ctx context.Context, token string) (models.Round, error)
	ListRounds(ctx context.Context, teamID uint, filter RoundFilter) ([]models.Round, error)
	// ListRoundQuestions returns the questions of the rounds ordered by
	// round and position. An empty kind matches every kind.
	ListRoundQuestions(ctx context.Context, roundIDs []uint, kind string) ([]models.RoundQuestion, error)
	// MarkRoundClosed closes the round only if it is still open and reports
	// whether it did.
	MarkRoundClosed(ctx context.Context, id uint, at time.Time) (bool, error)

	// CreateSubmission writes the submission with its answers and free
	// texts as one unit.
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	CountSubmissions(ctx context.Context, roundIDs []uint) (map[uint]int64, error)
	ListAnswers(ctx context.Context, roundQuestionIDs []uint) ([]models.Answer, error)
	// ListComments returns the free texts of the rounds, latest first.
	ListComments(ctx context.Context, roundIDs []uint) ([]Comment, error)
}
