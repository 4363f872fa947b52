package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services/stats"
)

// PickRotating chooses the rotating question of the next round. The first
// pool item not used recently wins; when every item was used recently, or
// nothing was, the first item of the pool is taken again.
func PickRotating(pool []models.QuestionSetItem, recentlyUsed []uint) (models.QuestionSetItem, bool) {
	if len(pool) == 0 {
		return models.QuestionSetItem{}, false
	}
	for _, item := range pool {
		if !lo.Contains(recentlyUsed, item.QuestionID) {
			return item, true
		}
	}
	return pool[0], true
}

// ComposeRound opens a new round for the team. Fixed questions of the
// default set are copied in order, followed by one question picked from the
// rotating pool. The current scale of the team is frozen onto the round.
func (p *Pulse) ComposeRound(ctx context.Context, teamID uint) (models.Round, error) {
	set, err := p.store.GetDefaultQuestionSet(ctx, teamID)
	if errors.Is(err, ErrNotFound) {
		return models.Round{}, ErrNoDefaultQuestionSet
	} else if err != nil {
		return models.Round{}, fmt.Errorf("unable to load question set: %w", err)
	}

	scaleMax := models.DefaultScaleMax
	if settings, err := p.store.GetSettings(ctx, teamID); err == nil {
		scaleMax = settings.ScaleMax
	} else if !errors.Is(err, ErrNotFound) {
		return models.Round{}, fmt.Errorf("unable to load team settings: %w", err)
	}

	items := lo.Filter(set.Items, func(item models.QuestionSetItem, _ int) bool {
		return item.Question == nil || item.Question.IsActive
	})
	fixed := lo.Filter(items, func(item models.QuestionSetItem, _ int) bool {
		return item.Kind == models.QuestionKindFixed
	})
	pool := lo.Filter(items, func(item models.QuestionSetItem, _ int) bool {
		return item.Kind == models.QuestionKindRotatingPool
	})

	now := p.now()
	round := models.Round{
		TeamID:        teamID,
		QuestionSetID: &set.ID,
		Token:         p.newToken(),
		Status:        models.RoundStatusOpen,
		ScaleMax:      scaleMax,
		ScaleLabels:   stats.ScaleLabels(scaleMax),
		OpensAt:       now,
	}
	round.CreatedAt = now

	for _, item := range fixed {
		rq, err := p.snapshotQuestion(ctx, item, models.RoundQuestionKindFixed, len(round.Questions)+1)
		if err != nil {
			return models.Round{}, err
		}
		round.Questions = append(round.Questions, rq)
	}

	if len(pool) > 0 {
		used, err := p.recentlyRotated(ctx, teamID, len(pool))
		if err != nil {
			return models.Round{}, err
		}
		pick, _ := PickRotating(pool, used)
		rq, err := p.snapshotQuestion(ctx, pick, models.RoundQuestionKindRotating, len(round.Questions)+1)
		if err != nil {
			return models.Round{}, err
		}
		round.Questions = append(round.Questions, rq)
	}

	if err := p.store.CreateRound(ctx, &round); err != nil {
		return round, fmt.Errorf("unable to create round: %w", err)
	}

	log.Info().
		Uint("team", teamID).
		Uint("round", round.ID).
		Int("scale", scaleMax).
		Int("questions", len(round.Questions)).
		Msg("A new round has been opened")

	return round, nil
}

func (p *Pulse) recentlyRotated(ctx context.Context, teamID uint, window int) ([]uint, error) {
	recent, err := p.store.ListRounds(ctx, teamID, RoundFilter{Limit: window})
	if err != nil {
		return nil, fmt.Errorf("unable to list recent rounds: %w", err)
	}
	if len(recent) == 0 {
		return nil, nil
	}

	ids := lo.Map(recent, func(item models.Round, _ int) uint { return item.ID })
	rqs, err := p.store.ListRoundQuestions(ctx, ids, models.RoundQuestionKindRotating)
	if err != nil {
		return nil, fmt.Errorf("unable to list recent rotating questions: %w", err)
	}
	return lo.Uniq(lo.Map(rqs, func(item models.RoundQuestion, _ int) uint { return item.QuestionID })), nil
}

func (p *Pulse) snapshotQuestion(ctx context.Context, item models.QuestionSetItem, kind string, position int) (models.RoundQuestion, error) {
	text := ""
	if item.Question != nil {
		text = item.Question.Text
	} else {
		question, err := p.store.GetQuestion(ctx, item.QuestionID)
		if err != nil {
			return models.RoundQuestion{}, fmt.Errorf("unable to load question %d: %w", item.QuestionID, err)
		}
		text = question.Text
	}

	return models.RoundQuestion{
		QuestionID:   item.QuestionID,
		QuestionText: text,
		Kind:         kind,
		Position:     position,
	}, nil
}

// CloseRound moves an open round to closed. A closed round is never
// touched again.
func (p *Pulse) CloseRound(ctx context.Context, roundID uint) (models.Round, error) {
	round, err := p.store.GetRound(ctx, roundID)
	if err != nil {
		return round, err
	}
	if !round.IsOpen() {
		return round, ErrRoundAlreadyClosed
	}

	closed, err := p.store.MarkRoundClosed(ctx, round.ID, p.now())
	if err != nil {
		return round, fmt.Errorf("unable to close round: %w", err)
	} else if !closed {
		return round, ErrRoundAlreadyClosed
	}

	log.Info().Uint("team", round.TeamID).Uint("round", round.ID).Msg("A round has been closed")

	return p.store.GetRound(ctx, round.ID)
}

func (p *Pulse) GetRound(ctx context.Context, roundID uint) (models.Round, error) {
	return p.store.GetRound(ctx, roundID)
}

func (p *Pulse) GetRoundByToken(ctx context.Context, token string) (models.Round, error) {
	return p.store.GetRoundByToken(ctx, token)
}

// ListRounds returns every round of the team, most recent first.
func (p *Pulse) ListRounds(ctx context.Context, teamID uint) ([]models.Round, error) {
	return p.store.ListRounds(ctx, teamID, RoundFilter{})
}

// CloseStaleRounds closes every round that has stayed open longer than
// maxAge and returns how many it closed.
func (p *Pulse) CloseStaleRounds(ctx context.Context, maxAge time.Duration) (int, error) {
	teams, err := p.store.ListTeams(ctx)
	if err != nil {
		return 0, fmt.Errorf("unable to list teams: %w", err)
	}

	deadline := p.now().Add(-maxAge)
	var count int
	for _, team := range teams {
		rounds, err := p.store.ListRounds(ctx, team.ID, RoundFilter{
			Status:       models.RoundStatusOpen,
			OpenedBefore: &deadline,
		})
		if err != nil {
			return count, fmt.Errorf("unable to list open rounds: %w", err)
		}
		for _, round := range rounds {
			if _, err := p.CloseRound(ctx, round.ID); err != nil && !IsInvalidState(err) {
				return count, err
			} else if err == nil {
				count++
			}
		}
	}

	return count, nil
}
