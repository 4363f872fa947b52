package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/stats"
)

// aggregateRounds computes the question aggregates of the rounds in the
// order they are given, questions in position order within each round.
// Questions nobody answered are skipped.
func (p *Pulse) aggregateRounds(ctx context.Context, rounds []models.Round) ([]models.QuestionAggregate, error) {
	out := []models.QuestionAggregate{}
	if len(rounds) == 0 {
		return out, nil
	}

	ids := lo.Map(rounds, func(item models.Round, _ int) uint { return item.ID })
	rqs, err := p.store.ListRoundQuestions(ctx, ids, "")
	if err != nil {
		return nil, fmt.Errorf("unable to load round questions: %w", err)
	}
	if len(rqs) == 0 {
		return out, nil
	}

	answers, err := p.store.ListAnswers(ctx, lo.Map(rqs, func(item models.RoundQuestion, _ int) uint { return item.ID }))
	if err != nil {
		return nil, fmt.Errorf("unable to load answers: %w", err)
	}

	values := make(map[uint][]int)
	for _, answer := range answers {
		values[answer.RoundQuestionID] = append(values[answer.RoundQuestionID], answer.Value)
	}
	byRound := lo.GroupBy(rqs, func(item models.RoundQuestion) uint { return item.RoundID })

	for _, round := range rounds {
		for _, rq := range byRound[round.ID] {
			summary, ok := stats.Summarize(values[rq.ID])
			if !ok {
				continue
			}
			out = append(out, models.QuestionAggregate{
				QuestionID:     rq.QuestionID,
				QuestionText:   rq.QuestionText,
				RoundID:        round.ID,
				RoundCreatedAt: round.CreatedAt,
				ScaleMax:       round.ScaleMax,
				Avg:            summary.Avg,
				Spread:         summary.Spread,
				Count:          summary.Count,
				Values:         values[rq.ID],
			})
		}
	}

	return out, nil
}

// GetRoundAggregates returns the aggregates of one round on its own scale.
func (p *Pulse) GetRoundAggregates(ctx context.Context, roundID uint) ([]models.QuestionAggregate, error) {
	round, err := p.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return p.aggregateRounds(ctx, []models.Round{round})
}

// GetTeamAggregates returns the aggregates of the last limit closed rounds
// of the team, most recent round first.
func (p *Pulse) GetTeamAggregates(ctx context.Context, teamID uint, limit int) ([]models.QuestionAggregate, error) {
	rounds, err := p.store.ListRounds(ctx, teamID, RoundFilter{
		Status: models.RoundStatusClosed,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list closed rounds: %w", err)
	}
	return p.aggregateRounds(ctx, rounds)
}

// GetPreviousClosedRound returns the closest closed round of the same team
// created before the given one, or nil when there is none.
func (p *Pulse) GetPreviousClosedRound(ctx context.Context, roundID uint) (*uint, error) {
	round, err := p.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	rounds, err := p.store.ListRounds(ctx, round.TeamID, RoundFilter{
		Status: models.RoundStatusClosed,
		Before: &round,
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list previous rounds: %w", err)
	} else if len(rounds) == 0 {
		return nil, nil
	}
	return &rounds[0].ID, nil
}
