package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
)

type RespondQuestion struct {
	ID           uint   `json:"id"`
	QuestionText string `json:"question_text"`
	Kind         string `json:"kind"`
	Position     int    `json:"position"`
}

// RespondPayload is what a respondent needs to fill in a round. Closed
// rounds only carry their status.
type RespondPayload struct {
	RoundID       uint              `json:"round_id,omitempty"`
	Status        string            `json:"status"`
	ScaleMax      int               `json:"scale_max,omitempty"`
	ScaleLabels   []string          `json:"scale_labels,omitempty"`
	AllowFreeText bool              `json:"allow_free_text"`
	Questions     []RespondQuestion `json:"questions,omitempty"`
}

func (p *Pulse) GetRespondPayload(ctx context.Context, token string) (RespondPayload, error) {
	round, err := p.store.GetRoundByToken(ctx, token)
	if err != nil {
		return RespondPayload{}, err
	}
	if !round.IsOpen() {
		return RespondPayload{Status: round.Status}, nil
	}

	settings, err := p.GetSettings(ctx, round.TeamID)
	if err != nil {
		return RespondPayload{}, fmt.Errorf("unable to load team settings: %w", err)
	}
	rqs, err := p.store.ListRoundQuestions(ctx, []uint{round.ID}, "")
	if err != nil {
		return RespondPayload{}, fmt.Errorf("unable to load round questions: %w", err)
	}

	return RespondPayload{
		RoundID:       round.ID,
		Status:        round.Status,
		ScaleMax:      round.ScaleMax,
		ScaleLabels:   round.ScaleLabels,
		AllowFreeText: settings.AllowFreeText,
		Questions: lo.Map(rqs, func(item models.RoundQuestion, _ int) RespondQuestion {
			return RespondQuestion{
				ID:           item.ID,
				QuestionText: item.QuestionText,
				Kind:         item.Kind,
				Position:     item.Position,
			}
		}),
	}, nil
}

// SubmitByToken records a submission for the round behind a respond link
// and returns how many submissions the round now has.
func (p *Pulse) SubmitByToken(ctx context.Context, token string, answers []AnswerInput, freeText string) (int64, error) {
	round, err := p.store.GetRoundByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if _, err := p.RecordSubmission(ctx, round.ID, answers, freeText); err != nil {
		return 0, err
	}
	return p.CountSubmissions(ctx, round.ID)
}
