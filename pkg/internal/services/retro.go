package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/insights"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/stats"
)

const retroDropLimit = 3

type RetroScore struct {
	QuestionID   uint     `json:"question_id"`
	QuestionText string   `json:"question_text"`
	Avg          float64  `json:"avg"`
	NormAvg      float64  `json:"norm_avg"`
	ScaleMax     int      `json:"scale_max"`
	Count        int      `json:"count"`
	Delta        *float64 `json:"delta"`
}

type Retro struct {
	Team               models.PublicTeam  `json:"team"`
	Round              models.PublicRound `json:"round"`
	ResponseCount      int64              `json:"response_count"`
	MinResponsesToShow int                `json:"min_responses_to_show"`
	EnoughResponses    bool               `json:"enough_responses"`
	PreviousRoundID    *uint              `json:"previous_round_id,omitempty"`
	ScaleChanged       bool               `json:"scale_changed"`
	Scores             []RetroScore       `json:"scores,omitempty"`
	Celebration        *insights.Pick     `json:"celebration,omitempty"`
	Drops              []insights.Pick    `json:"drops,omitempty"`
	HighSpread         []insights.Pick    `json:"high_spread,omitempty"`
	Signals            []insights.Pick    `json:"signals,omitempty"`
	FreeTexts          []Comment          `json:"free_texts,omitempty"`
	CheckInQuestion    string             `json:"check_in_question,omitempty"`
	DiscussionPrompts  []string           `json:"discussion_prompts,omitempty"`
	Experiments        []string           `json:"experiments,omitempty"`
}

// GetRetro builds the retrospective of one round of the team. A round below
// the anonymity floor only reports its response count.
func (p *Pulse) GetRetro(ctx context.Context, slug string, roundID uint) (Retro, error) {
	team, err := p.store.GetTeamBySlug(ctx, slug)
	if err != nil {
		return Retro{}, err
	}
	round, err := p.store.GetRound(ctx, roundID)
	if err != nil {
		return Retro{}, err
	} else if round.TeamID != team.ID {
		return Retro{}, ErrNotFound
	}
	settings, err := p.GetSettings(ctx, team.ID)
	if err != nil {
		return Retro{}, fmt.Errorf("unable to load team settings: %w", err)
	}
	count, err := p.CountSubmissions(ctx, round.ID)
	if err != nil {
		return Retro{}, err
	}

	out := Retro{
		Team:               team.Public(),
		Round:              round.Public(),
		ResponseCount:      count,
		MinResponsesToShow: settings.MinResponsesToShow,
		EnoughResponses:    count >= int64(settings.MinResponsesToShow),
	}
	if !out.EnoughResponses {
		return out, nil
	}

	current, err := p.aggregateRounds(ctx, []models.Round{round})
	if err != nil {
		return out, err
	}
	series := current
	if len(current) > 0 {
		prevID, err := p.GetPreviousClosedRound(ctx, round.ID)
		if err != nil {
			return out, err
		}
		if prevID != nil {
			prev, err := p.GetRoundAggregates(ctx, *prevID)
			if err != nil {
				return out, err
			}
			series = append(prev, current...)
		}
	}

	trend := insights.DeriveTrend(series)
	deltas := lo.SliceToMap(trend.Deltas, func(item insights.Delta) (uint, float64) {
		return item.QuestionID, item.Delta
	})

	out.PreviousRoundID = trend.PreviousRoundID
	out.ScaleChanged = trend.ScaleChanged
	out.Celebration = trend.Celebration
	out.Drops = trend.Drops[:min(retroDropLimit, len(trend.Drops))]
	out.HighSpread = trend.HighSpread
	out.Signals = trend.Signals
	out.Scores = lo.Map(current, func(item models.QuestionAggregate, _ int) RetroScore {
		score := RetroScore{
			QuestionID:   item.QuestionID,
			QuestionText: item.QuestionText,
			Avg:          item.Avg,
			NormAvg:      stats.NormalizeAvg(item.Avg, item.ScaleMax),
			ScaleMax:     item.ScaleMax,
			Count:        item.Count,
		}
		if delta, ok := deltas[item.QuestionID]; ok {
			score.Delta = &delta
		}
		return score
	})

	if out.FreeTexts, err = p.store.ListComments(ctx, []uint{round.ID}); err != nil {
		return out, fmt.Errorf("unable to load free texts: %w", err)
	}
	out.CheckInQuestion = insights.CheckInQuestion(strconv.FormatUint(uint64(round.ID), 10))
	out.DiscussionPrompts = insights.DiscussionPrompts()
	out.Experiments = insights.Experiments()

	return out, nil
}
