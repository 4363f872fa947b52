package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/insights"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/stats"
)

type DashboardQuestion struct {
	QuestionID   uint             `json:"question_id"`
	QuestionText string           `json:"question_text"`
	IsRotating   bool             `json:"is_rotating"`
	Points       []insights.Point `json:"points"`
	Delta        *insights.Delta  `json:"delta"`
	MixedSignals bool             `json:"mixed_signals"`
	ScaleMax     int              `json:"scale_max"`
	Distribution []int            `json:"distribution"`
	Labels       []string         `json:"labels"`
}

type Dashboard struct {
	Team               models.PublicTeam   `json:"team"`
	MinResponsesToShow int                 `json:"min_responses_to_show"`
	Questions          []DashboardQuestion `json:"questions"`
	Increases          []insights.Delta    `json:"increases"`
	Decreases          []insights.Delta    `json:"decreases"`
	HasEnoughData      bool                `json:"has_enough_data"`
	LastRoundID        *uint               `json:"last_round_id"`
}

// visibleRounds keeps the rounds that reached the anonymity floor.
func (p *Pulse) visibleRounds(ctx context.Context, rounds []models.Round, floor int) ([]models.Round, error) {
	counts, err := p.store.CountSubmissions(ctx, lo.Map(rounds, func(item models.Round, _ int) uint { return item.ID }))
	if err != nil {
		return nil, fmt.Errorf("unable to count submissions: %w", err)
	}
	return lo.Filter(rounds, func(item models.Round, _ int) bool {
		return counts[item.ID] >= int64(floor)
	}), nil
}

func (p *Pulse) rotatingQuestionIDs(ctx context.Context, teamID uint) ([]uint, error) {
	set, err := p.store.GetDefaultQuestionSet(ctx, teamID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to load question set: %w", err)
	}
	return lo.FilterMap(set.Items, func(item models.QuestionSetItem, _ int) (uint, bool) {
		return item.QuestionID, item.Kind == models.QuestionKindRotatingPool
	}), nil
}

// GetDashboard builds the public team dashboard out of the latest closed
// rounds. Rounds below the anonymity floor are left out entirely.
func (p *Pulse) GetDashboard(ctx context.Context, slug string) (Dashboard, error) {
	team, err := p.store.GetTeamBySlug(ctx, slug)
	if err != nil {
		return Dashboard{}, err
	}
	settings, err := p.GetSettings(ctx, team.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("unable to load team settings: %w", err)
	}

	closed, err := p.store.ListRounds(ctx, team.ID, RoundFilter{
		Status: models.RoundStatusClosed,
		Limit:  p.dashboardLimit,
	})
	if err != nil {
		return Dashboard{}, fmt.Errorf("unable to list closed rounds: %w", err)
	}
	visible, err := p.visibleRounds(ctx, closed, settings.MinResponsesToShow)
	if err != nil {
		return Dashboard{}, err
	}
	aggs, err := p.aggregateRounds(ctx, visible)
	if err != nil {
		return Dashboard{}, err
	}
	rotating, err := p.rotatingQuestionIDs(ctx, team.ID)
	if err != nil {
		return Dashboard{}, err
	}

	series := insights.BuildSeries(aggs)
	out := Dashboard{
		Team:               team.Public(),
		MinResponsesToShow: settings.MinResponsesToShow,
		Questions:          make([]DashboardQuestion, 0, len(series)),
		HasEnoughData:      len(visible) > 0,
	}
	if len(closed) > 0 {
		out.LastRoundID = &closed[0].ID
	}

	for _, item := range series {
		question := DashboardQuestion{
			QuestionID:   item.QuestionID,
			QuestionText: item.QuestionText,
			IsRotating:   lo.Contains(rotating, item.QuestionID),
			Points:       item.Points,
		}
		if latest, ok := item.Latest(); ok {
			question.MixedSignals = insights.IsMixedSignal(latest.NormSpread)
			question.ScaleMax = latest.ScaleMax
			question.Distribution = stats.Distribution(latest.Values, latest.ScaleMax)
			question.Labels = stats.ShortScaleLabels(latest.ScaleMax)
		}
		if delta, ok := insights.ConsecutiveDelta(item); ok {
			question.Delta = &delta
		}
		out.Questions = append(out.Questions, question)
	}
	out.Increases, out.Decreases = insights.TopMovers(series, DefaultTopMovers)

	return out, nil
}
