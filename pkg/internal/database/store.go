package database

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

// Store keeps the pulse data in a relational database through GORM.
type Store struct {
	db *gorm.DB
}

var _ services.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}

func (v *Store) tx(ctx context.Context) *gorm.DB {
	return v.db.WithContext(ctx)
}

func (v *Store) Ping(ctx context.Context) error {
	return Ping(ctx, v.db)
}

func (v *Store) CreateTeam(ctx context.Context, team *models.Team) error {
	return v.tx(ctx).Create(team).Error
}

func (v *Store) GetTeam(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	err := v.tx(ctx).First(&team, id).Error
	return team, translate(err)
}

func (v *Store) GetTeamBySlug(ctx context.Context, slug string) (models.Team, error) {
	var team models.Team
	err := v.tx(ctx).Where("slug = ?", slug).First(&team).Error
	return team, translate(err)
}

func (v *Store) GetTeamByAdminToken(ctx context.Context, token string) (models.Team, error) {
	var team models.Team
	err := v.tx(ctx).Where("admin_token = ?", token).First(&team).Error
	return team, translate(err)
}

func (v *Store) GetTeamByEmail(ctx context.Context, email string) (models.Team, error) {
	var team models.Team
	err := v.tx(ctx).
		Where("admin_email = ?", email).
		Order("created_at DESC, id DESC").
		First(&team).Error
	return team, translate(err)
}

func (v *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := v.tx(ctx).Order("created_at DESC, id DESC").Find(&teams).Error
	return teams, err
}

// SlugExists also looks at deleted teams, their slugs are still indexed.
func (v *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := v.tx(ctx).Unscoped().Model(&models.Team{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (v *Store) GetSettings(ctx context.Context, teamID uint) (models.TeamSettings, error) {
	var settings models.TeamSettings
	err := v.tx(ctx).Where("team_id = ?", teamID).First(&settings).Error
	return settings, translate(err)
}

func (v *Store) SaveSettings(ctx context.Context, settings *models.TeamSettings) error {
	return v.tx(ctx).Save(settings).Error
}

func (v *Store) CreateQuestion(ctx context.Context, question *models.Question) error {
	return v.tx(ctx).Create(question).Error
}

func (v *Store) GetQuestion(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	err := v.tx(ctx).First(&question, id).Error
	return question, translate(err)
}

func (v *Store) SaveQuestion(ctx context.Context, question *models.Question) error {
	return v.tx(ctx).Save(question).Error
}

func (v *Store) CreateQuestionSet(ctx context.Context, set *models.QuestionSet) error {
	return v.tx(ctx).Create(set).Error
}

func (v *Store) GetDefaultQuestionSet(ctx context.Context, teamID uint) (models.QuestionSet, error) {
	var set models.QuestionSet
	err := v.tx(ctx).
		Where("team_id = ? AND is_default = ?", teamID, true).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Items.Question").
		First(&set).Error
	return set, translate(err)
}

func (v *Store) CreateQuestionSetItem(ctx context.Context, item *models.QuestionSetItem) error {
	return v.tx(ctx).Omit(clause.Associations).Create(item).Error
}

func (v *Store) GetQuestionSetItem(ctx context.Context, id uint) (models.QuestionSetItem, error) {
	var item models.QuestionSetItem
	err := v.tx(ctx).First(&item, id).Error
	return item, translate(err)
}

func (v *Store) SaveQuestionSetItem(ctx context.Context, item *models.QuestionSetItem) error {
	return v.tx(ctx).Omit(clause.Associations).Save(item).Error
}

func (v *Store) DeleteQuestionSetItem(ctx context.Context, id uint) error {
	result := v.tx(ctx).Delete(&models.QuestionSetItem{}, id)
	if result.Error != nil {
		return result.Error
	} else if result.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (v *Store) CreateRound(ctx context.Context, round *models.Round) error {
	return v.tx(ctx).Create(round).Error
}

func (v *Store) GetRound(ctx context.Context, id uint) (models.Round, error) {
	var round models.Round
	err := v.tx(ctx).First(&round, id).Error
	return round, translate(err)
}

func (v *Store) GetRoundByToken(ctx context.Context, token string) (models.Round, error) {
	var round models.Round
	err := v.tx(ctx).Where("token = ?", token).First(&round).Error
	return round, translate(err)
}

func (v *Store) ListRounds(ctx context.Context, teamID uint, filter services.RoundFilter) ([]models.Round, error) {
	tx := v.tx(ctx).Where("team_id = ?", teamID)
	if len(filter.Status) > 0 {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Before != nil {
		tx = tx.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			filter.Before.CreatedAt, filter.Before.CreatedAt, filter.Before.ID,
		)
	}
	if filter.OpenedBefore != nil {
		tx = tx.Where("opens_at < ?", *filter.OpenedBefore)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var rounds []models.Round
	err := tx.Order("created_at DESC, id DESC").Find(&rounds).Error
	return rounds, err
}

func (v *Store) ListRoundQuestions(ctx context.Context, roundIDs []uint, kind string) ([]models.RoundQuestion, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}
	tx := v.tx(ctx).Where("round_id IN ?", roundIDs)
	if len(kind) > 0 {
		tx = tx.Where("kind = ?", kind)
	}

	var rqs []models.RoundQuestion
	err := tx.Order("round_id ASC, position ASC, id ASC").Find(&rqs).Error
	return rqs, err
}

func (v *Store) MarkRoundClosed(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := v.tx(ctx).
		Model(&models.Round{}).
		Where("id = ? AND status = ?", id, models.RoundStatusOpen).
		Updates(map[string]any{
			"status":    models.RoundStatusClosed,
			"closes_at": at,
		})
	return result.RowsAffected > 0, result.Error
}

func (v *Store) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	return v.tx(ctx).Create(submission).Error
}

func (v *Store) CountSubmissions(ctx context.Context, roundIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(roundIDs))
	if len(roundIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RoundID uint
		Count   int64
	}
	if err := v.tx(ctx).
		Model(&models.Submission{}).
		Select("round_id, COUNT(*) AS count").
		Where("round_id IN ?", roundIDs).
		Group("round_id").
		Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, row := range rows {
		out[row.RoundID] = row.Count
	}
	return out, nil
}

func (v *Store) ListAnswers(ctx context.Context, roundQuestionIDs []uint) ([]models.Answer, error) {
	if len(roundQuestionIDs) == 0 {
		return nil, nil
	}
	var answers []models.Answer
	err := v.tx(ctx).
		Where("round_question_id IN ?", roundQuestionIDs).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (v *Store) ListComments(ctx context.Context, roundIDs []uint) ([]services.Comment, error) {
	out := []services.Comment{}
	if len(roundIDs) == 0 {
		return out, nil
	}

	var rounds []models.Round
	if err := v.tx(ctx).Select("id", "created_at").Where("id IN ?", roundIDs).Find(&rounds).Error; err != nil {
		return out, err
	}
	var submissions []models.Submission
	if err := v.tx(ctx).Select("id", "round_id").Where("round_id IN ?", roundIDs).Find(&submissions).Error; err != nil {
		return out, err
	}
	if len(submissions) == 0 {
		return out, nil
	}

	var texts []models.FreeText
	if err := v.tx(ctx).
		Where("submission_id IN ?", lo.Map(submissions, func(item models.Submission, _ int) uint { return item.ID })).
		Order("created_at DESC, id DESC").
		Find(&texts).Error; err != nil {
		return out, err
	}

	roundOf := lo.SliceToMap(submissions, func(item models.Submission) (uint, uint) {
		return item.ID, item.RoundID
	})
	createdAt := lo.SliceToMap(rounds, func(item models.Round) (uint, time.Time) {
		return item.ID, item.CreatedAt
	})
	for _, text := range texts {
		roundID := roundOf[text.SubmissionID]
		out = append(out, services.Comment{
			RoundID:        roundID,
			RoundCreatedAt: createdAt[roundID],
			Text:           text.Text,
			Language:       text.Language,
			CreatedAt:      text.CreatedAt,
		})
	}
	return out, nil
}
