package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/insights"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/stats"
)

type RoundSummaryEntry struct {
	QuestionText string  `json:"question_text"`
	Avg          float64 `json:"avg"`
	Count        int     `json:"count"`
}

type AdminRound struct {
	models.Round
	ResponseCount int64               `json:"response_count"`
	Summary       []RoundSummaryEntry `json:"summary"`
}

type AdminOverview struct {
	Team          models.Team              `json:"team"`
	Settings      models.TeamSettings      `json:"settings"`
	FixedItems    []models.QuestionSetItem `json:"fixed_items"`
	RotatingItems []models.QuestionSetItem `json:"rotating_items"`
	Rounds        []AdminRound             `json:"rounds"`
}

// GetAdminOverview gathers everything the admin page shows in one go.
func (p *Pulse) GetAdminOverview(ctx context.Context, team models.Team) (AdminOverview, error) {
	out := AdminOverview{
		Team:          team,
		FixedItems:    []models.QuestionSetItem{},
		RotatingItems: []models.QuestionSetItem{},
		Rounds:        []AdminRound{},
	}

	var err error
	if out.Settings, err = p.GetSettings(ctx, team.ID); err != nil {
		return out, fmt.Errorf("unable to load team settings: %w", err)
	}

	set, err := p.GetQuestionSet(ctx, team.ID)
	if err == nil {
		for _, item := range set.Items {
			switch item.Kind {
			case models.QuestionKindFixed:
				out.FixedItems = append(out.FixedItems, item)
			case models.QuestionKindRotatingPool:
				out.RotatingItems = append(out.RotatingItems, item)
			}
		}
	} else if !errors.Is(err, ErrNoDefaultQuestionSet) {
		return out, err
	}

	rounds, err := p.store.ListRounds(ctx, team.ID, RoundFilter{})
	if err != nil {
		return out, fmt.Errorf("unable to list rounds: %w", err)
	}
	counts, err := p.store.CountSubmissions(ctx, lo.Map(rounds, func(item models.Round, _ int) uint { return item.ID }))
	if err != nil {
		return out, fmt.Errorf("unable to count submissions: %w", err)
	}

	closed := lo.Filter(rounds, func(item models.Round, _ int) bool { return !item.IsOpen() })
	aggs, err := p.aggregateRounds(ctx, closed)
	if err != nil {
		return out, err
	}
	byRound := lo.GroupBy(aggs, func(item models.QuestionAggregate) uint { return item.RoundID })

	for _, round := range rounds {
		out.Rounds = append(out.Rounds, AdminRound{
			Round:         round,
			ResponseCount: counts[round.ID],
			Summary: lo.Map(byRound[round.ID], func(item models.QuestionAggregate, _ int) RoundSummaryEntry {
				return RoundSummaryEntry{QuestionText: item.QuestionText, Avg: item.Avg, Count: item.Count}
			}),
		})
	}

	return out, nil
}

type AnalyticsRound struct {
	RoundID      uint      `json:"round_id"`
	RoundDate    time.Time `json:"round_date"`
	ScaleMax     int       `json:"scale_max"`
	Avg          float64   `json:"avg"`
	NormAvg      float64   `json:"norm_avg"`
	Spread       float64   `json:"spread"`
	NormSpread   float64   `json:"norm_spread"`
	Count        int       `json:"count"`
	Distribution []int     `json:"distribution"`
}

type AnalyticsQuestion struct {
	QuestionID   uint             `json:"question_id"`
	QuestionText string           `json:"question_text"`
	Rounds       []AnalyticsRound `json:"rounds"`
}

type Analytics struct {
	CurrentScaleMax int                 `json:"current_scale_max"`
	Questions       []AnalyticsQuestion `json:"questions"`
}

// GetAnalytics returns the distribution of every question in each of the
// latest closed rounds, bucketed on the scale that round was answered on.
func (p *Pulse) GetAnalytics(ctx context.Context, teamID uint) (Analytics, error) {
	settings, err := p.GetSettings(ctx, teamID)
	if err != nil {
		return Analytics{}, fmt.Errorf("unable to load team settings: %w", err)
	}
	aggs, err := p.GetTeamAggregates(ctx, teamID, p.analyticsLimit)
	if err != nil {
		return Analytics{}, err
	}

	series := insights.BuildSeries(aggs)
	return Analytics{
		CurrentScaleMax: settings.ScaleMax,
		Questions: lo.Map(series, func(item insights.Series, _ int) AnalyticsQuestion {
			return AnalyticsQuestion{
				QuestionID:   item.QuestionID,
				QuestionText: item.QuestionText,
				Rounds: lo.Map(item.Points, func(point insights.Point, _ int) AnalyticsRound {
					return AnalyticsRound{
						RoundID:      point.RoundID,
						RoundDate:    point.RoundCreatedAt,
						ScaleMax:     point.ScaleMax,
						Avg:          point.Avg,
						NormAvg:      point.NormAvg,
						Spread:       point.Spread,
						NormSpread:   point.NormSpread,
						Count:        point.Count,
						Distribution: stats.Distribution(point.Values, point.ScaleMax),
					}
				}),
			}
		}),
	}, nil
}

// ListComments returns every free text written in closed rounds of the
// team, latest first.
func (p *Pulse) ListComments(ctx context.Context, teamID uint) ([]Comment, error) {
	rounds, err := p.store.ListRounds(ctx, teamID, RoundFilter{Status: models.RoundStatusClosed})
	if err != nil {
		return nil, fmt.Errorf("unable to list closed rounds: %w", err)
	}
	if len(rounds) == 0 {
		return []Comment{}, nil
	}
	return p.store.ListComments(ctx, lo.Map(rounds, func(item models.Round, _ int) uint { return item.ID }))
}
