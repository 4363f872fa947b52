package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
)

type AnswerInput struct {
	RoundQuestionID uint `json:"round_question_id" validate:"required"`
	Value           int  `json:"value" validate:"required"`
}

// RecordSubmission stores one anonymous response to an open round. Every
// answer must target a question of this round at most once, with a value
// on the round's own scale.
func (p *Pulse) RecordSubmission(ctx context.Context, roundID uint, answers []AnswerInput, freeText string) (models.Submission, error) {
	round, err := p.store.GetRound(ctx, roundID)
	if err != nil {
		return models.Submission{}, err
	}
	if !round.IsOpen() {
		return models.Submission{}, ErrRoundClosed
	}
	if len(answers) == 0 {
		return models.Submission{}, ErrEmptySubmission
	}

	rqs, err := p.store.ListRoundQuestions(ctx, []uint{round.ID}, "")
	if err != nil {
		return models.Submission{}, fmt.Errorf("unable to load round questions: %w", err)
	}
	known := lo.SliceToMap(rqs, func(item models.RoundQuestion) (uint, bool) {
		return item.ID, true
	})

	now := p.now()
	submission := models.Submission{RoundID: round.ID}
	submission.CreatedAt = now

	seen := make(map[uint]bool, len(answers))
	for _, answer := range answers {
		if !known[answer.RoundQuestionID] || seen[answer.RoundQuestionID] {
			return models.Submission{}, fmt.Errorf("%w: round question %d", ErrInvalidAnswer, answer.RoundQuestionID)
		}
		if answer.Value < 1 || answer.Value > round.ScaleMax {
			return models.Submission{}, fmt.Errorf("%w: %d not in 1..%d", ErrValueOutOfRange, answer.Value, round.ScaleMax)
		}
		seen[answer.RoundQuestionID] = true
		submission.Answers = append(submission.Answers, models.Answer{
			RoundQuestionID: answer.RoundQuestionID,
			Value:           answer.Value,
		})
	}

	if text := strings.TrimSpace(freeText); len(text) > 0 {
		allowed := true
		if settings, err := p.store.GetSettings(ctx, round.TeamID); err == nil {
			allowed = settings.AllowFreeText
		} else if !errors.Is(err, ErrNotFound) {
			return models.Submission{}, fmt.Errorf("unable to load team settings: %w", err)
		}
		if allowed {
			entry := models.FreeText{Text: text}
			entry.CreatedAt = now
			if p.detect != nil {
				entry.Language = p.detect(text)
			}
			submission.FreeTexts = append(submission.FreeTexts, entry)
		}
	}

	if err := p.store.CreateSubmission(ctx, &submission); err != nil {
		return submission, fmt.Errorf("unable to save submission: %w", err)
	}

	log.Debug().Uint("round", round.ID).Int("answers", len(submission.Answers)).Msg("A submission has been recorded")

	return submission, nil
}

func (p *Pulse) CountSubmissions(ctx context.Context, roundID uint) (int64, error) {
	counts, err := p.store.CountSubmissions(ctx, []uint{roundID})
	if err != nil {
		return 0, fmt.Errorf("unable to count submissions: %w", err)
	}
	return counts[roundID], nil
}
