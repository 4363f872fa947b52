package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
)

const defaultCategory = "general"

func validKind(kind string) bool {
	return kind == models.QuestionKindFixed || kind == models.QuestionKindRotatingPool
}

// AddQuestion puts a new question into the bank of the team and appends it
// to the default set.
func (p *Pulse) AddQuestion(ctx context.Context, teamID uint, text, category, kind string) (models.Question, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return models.Question{}, fmt.Errorf("%w: question text is required", ErrInvalidInput)
	}
	if !validKind(kind) {
		return models.Question{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if category = strings.TrimSpace(category); len(category) == 0 {
		category = defaultCategory
	}

	set, err := p.store.GetDefaultQuestionSet(ctx, teamID)
	if errors.Is(err, ErrNotFound) {
		return models.Question{}, ErrNoDefaultQuestionSet
	} else if err != nil {
		return models.Question{}, fmt.Errorf("unable to load question set: %w", err)
	}

	question := models.Question{
		TeamID:   teamID,
		Text:     text,
		Category: category,
		IsActive: true,
	}
	if err := p.store.CreateQuestion(ctx, &question); err != nil {
		return question, fmt.Errorf("unable to create question: %w", err)
	}

	position := lo.Max(lo.Map(set.Items, func(item models.QuestionSetItem, _ int) int { return item.Position })) + 1
	item := models.QuestionSetItem{
		QuestionSetID: set.ID,
		QuestionID:    question.ID,
		Position:      position,
		Kind:          kind,
	}
	if err := p.store.CreateQuestionSetItem(ctx, &item); err != nil {
		return question, fmt.Errorf("unable to add question to set: %w", err)
	}

	return question, nil
}

// GetQuestionSet returns the default set of the team with its questions.
func (p *Pulse) GetQuestionSet(ctx context.Context, teamID uint) (models.QuestionSet, error) {
	set, err := p.store.GetDefaultQuestionSet(ctx, teamID)
	if errors.Is(err, ErrNotFound) {
		return set, ErrNoDefaultQuestionSet
	}
	return set, err
}

func (p *Pulse) teamSetItem(ctx context.Context, teamID, itemID uint) (models.QuestionSetItem, error) {
	item, err := p.store.GetQuestionSetItem(ctx, itemID)
	if err != nil {
		return item, err
	}
	set, err := p.store.GetDefaultQuestionSet(ctx, teamID)
	if errors.Is(err, ErrNotFound) {
		return item, ErrNotFound
	} else if err != nil {
		return item, fmt.Errorf("unable to load question set: %w", err)
	}
	if item.QuestionSetID != set.ID {
		return item, ErrNotFound
	}
	return item, nil
}

// RemoveQuestionFromSet drops an item from the default set. Rounds already
// composed keep their copy of the question.
func (p *Pulse) RemoveQuestionFromSet(ctx context.Context, teamID, itemID uint) error {
	item, err := p.teamSetItem(ctx, teamID, itemID)
	if err != nil {
		return err
	}
	if err := p.store.DeleteQuestionSetItem(ctx, item.ID); err != nil {
		return fmt.Errorf("unable to remove question from set: %w", err)
	}
	return nil
}

// MoveQuestionInSet switches an item between fixed and the rotating pool.
func (p *Pulse) MoveQuestionInSet(ctx context.Context, teamID, itemID uint, kind string) (models.QuestionSetItem, error) {
	if !validKind(kind) {
		return models.QuestionSetItem{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	item, err := p.teamSetItem(ctx, teamID, itemID)
	if err != nil {
		return item, err
	}
	item.Kind = kind
	item.Question = nil
	if err := p.store.SaveQuestionSetItem(ctx, &item); err != nil {
		return item, fmt.Errorf("unable to move question: %w", err)
	}
	return item, nil
}

// DeactivateQuestion retires a question. It stays in the bank so past
// rounds still resolve it, but new rounds skip it.
func (p *Pulse) DeactivateQuestion(ctx context.Context, teamID, questionID uint) error {
	question, err := p.store.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if question.TeamID != teamID {
		return ErrNotFound
	}
	if !question.IsActive {
		return nil
	}
	question.IsActive = false
	if err := p.store.SaveQuestion(ctx, &question); err != nil {
		return fmt.Errorf("unable to deactivate question: %w", err)
	}
	return nil
}

// EditQuestion changes the wording of a bank question. Rounds composed
// before the edit keep showing the wording they were answered with.
func (p *Pulse) EditQuestion(ctx context.Context, teamID, questionID uint, text string) (models.Question, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return models.Question{}, fmt.Errorf("%w: question text is required", ErrInvalidInput)
	}
	question, err := p.store.GetQuestion(ctx, questionID)
	if err != nil {
		return question, err
	}
	if question.TeamID != teamID {
		return question, ErrNotFound
	}
	question.Text = text
	if err := p.store.SaveQuestion(ctx, &question); err != nil {
		return question, fmt.Errorf("unable to edit question: %w", err)
	}
	return question, nil
}
