package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	source, err := Open(DriverSQLite, ":memory:", "tt_", false)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := RunMigration(source); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() {
		if conn, err := source.DB(); err == nil {
			conn.Close()
		}
	})
	return NewStore(source)
}

func createTestTeam(t *testing.T, store *Store, slug string) models.Team {
	t.Helper()
	team := models.Team{Name: slug, Slug: slug, AdminToken: "token-" + slug, AdminEmail: slug + "@example.com"}
	if err := store.CreateTeam(context.Background(), &team); err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	return team
}

func createTestRound(t *testing.T, store *Store, teamID uint, status string, at time.Time) models.Round {
	t.Helper()
	round := models.Round{
		TeamID:      teamID,
		Token:       "round-" + at.Format("150405.000000000"),
		Status:      status,
		ScaleMax:    3,
		ScaleLabels: []string{"Disagree", "Partly", "Agree"},
		OpensAt:     at,
		Questions: []models.RoundQuestion{
			{QuestionID: 1, QuestionText: "First", Kind: models.RoundQuestionKindFixed, Position: 1},
			{QuestionID: 2, QuestionText: "Second", Kind: models.RoundQuestionKindRotating, Position: 2},
		},
	}
	round.CreatedAt = at
	if err := store.CreateRound(context.Background(), &round); err != nil {
		t.Fatalf("failed to create round: %v", err)
	}
	return round
}

func TestTeamLookups(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	team := createTestTeam(t, store, "platform")

	if got, err := store.GetTeamBySlug(ctx, "platform"); err != nil || got.ID != team.ID {
		t.Errorf("GetTeamBySlug = %+v, %v", got, err)
	}
	if got, err := store.GetTeamByAdminToken(ctx, "token-platform"); err != nil || got.ID != team.ID {
		t.Errorf("GetTeamByAdminToken = %+v, %v", got, err)
	}
	if got, err := store.GetTeamByEmail(ctx, "platform@example.com"); err != nil || got.ID != team.ID {
		t.Errorf("GetTeamByEmail = %+v, %v", got, err)
	}

	if _, err := store.GetTeamBySlug(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetRound(ctx, 42); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSlugExistsIncludesDeletedTeams(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	team := createTestTeam(t, store, "gone")

	if err := store.db.Delete(&team).Error; err != nil {
		t.Fatalf("failed to delete team: %v", err)
	}
	exists, err := store.SlugExists(ctx, "gone")
	if err != nil || !exists {
		t.Errorf("SlugExists = %v, %v; want true", exists, err)
	}
	if exists, _ := store.SlugExists(ctx, "fresh"); exists {
		t.Error("unexpected slug")
	}
}

func TestDefaultQuestionSetIsOrdered(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	team := createTestTeam(t, store, "ordered")

	set := models.QuestionSet{TeamID: team.ID, IsDefault: true}
	for _, position := range []int{3, 1, 2} {
		question := models.Question{TeamID: team.ID, Text: "Q", Category: "general", IsActive: true}
		if err := store.CreateQuestion(ctx, &question); err != nil {
			t.Fatalf("failed to create question: %v", err)
		}
		set.Items = append(set.Items, models.QuestionSetItem{
			QuestionID: question.ID,
			Position:   position,
			Kind:       models.QuestionKindFixed,
		})
	}
	if err := store.CreateQuestionSet(ctx, &set); err != nil {
		t.Fatalf("failed to create set: %v", err)
	}

	got, err := store.GetDefaultQuestionSet(ctx, team.ID)
	if err != nil {
		t.Fatalf("GetDefaultQuestionSet: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Items))
	}
	for idx, item := range got.Items {
		if item.Position != idx+1 {
			t.Errorf("item %d has position %d", idx, item.Position)
		}
		if item.Question == nil || item.Question.ID != item.QuestionID {
			t.Errorf("item %d question not loaded", idx)
		}
	}

	if _, err := store.GetDefaultQuestionSet(ctx, team.ID+1); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRoundsFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	team := createTestTeam(t, store, "rounds")
	other := createTestTeam(t, store, "other")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := createTestRound(t, store, team.ID, models.RoundStatusClosed, base)
	second := createTestRound(t, store, team.ID, models.RoundStatusOpen, base.Add(time.Hour))
	third := createTestRound(t, store, team.ID, models.RoundStatusClosed, base.Add(2*time.Hour))
	createTestRound(t, store, other.ID, models.RoundStatusClosed, base.Add(3*time.Hour))

	all, err := store.ListRounds(ctx, team.ID, services.RoundFilter{})
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[2].ID != first.ID {
		t.Errorf("expected most recent first, got %+v", all)
	}

	closed, _ := store.ListRounds(ctx, team.ID, services.RoundFilter{Status: models.RoundStatusClosed, Limit: 1})
	if len(closed) != 1 || closed[0].ID != third.ID {
		t.Errorf("unexpected closed rounds %+v", closed)
	}

	before, _ := store.ListRounds(ctx, team.ID, services.RoundFilter{Status: models.RoundStatusClosed, Before: &third})
	if len(before) != 1 || before[0].ID != first.ID {
		t.Errorf("unexpected rounds before %d: %+v", third.ID, before)
	}

	deadline := base.Add(90 * time.Minute)
	stale, _ := store.ListRounds(ctx, team.ID, services.RoundFilter{Status: models.RoundStatusOpen, OpenedBefore: &deadline})
	if len(stale) != 1 || stale[0].ID != second.ID {
		t.Errorf("unexpected stale rounds %+v", stale)
	}

	rqs, err := store.ListRoundQuestions(ctx, []uint{third.ID, first.ID}, models.RoundQuestionKindRotating)
	if err != nil {
		t.Fatalf("ListRoundQuestions: %v", err)
	}
	if len(rqs) != 2 || rqs[0].RoundID != first.ID || rqs[1].RoundID != third.ID {
		t.Errorf("unexpected rotating questions %+v", rqs)
	}
}

func TestMarkRoundClosedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	team := createTestTeam(t, store, "closing")
	round := createTestRound(t, store, team.ID, models.RoundStatusOpen, time.Now().UTC())

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	closed, err := store.MarkRoundClosed(ctx, round.ID, at)
	if err != nil || !closed {
		t.Fatalf("MarkRoundClosed = %v, %v", closed, err)
	}
	closed, err = store.MarkRoundClosed(ctx, round.ID, at.Add(time.Hour))
	if err != nil || closed {
		t.Errorf("second MarkRoundClosed = %v, %v; want false", closed, err)
	}

	got, _ := store.GetRound(ctx, round.ID)
	if got.Status != models.RoundStatusClosed || got.ClosesAt == nil || !got.ClosesAt.Equal(at) {
		t.Errorf("unexpected round after close %+v", got)
	}
}

func TestSubmissionsAndComments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	team := createTestTeam(t, store, "answers")
	round := createTestRound(t, store, team.ID, models.RoundStatusOpen, time.Now().UTC())

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for idx, text := range []string{"older", "newer"} {
		submission := models.Submission{
			RoundID: round.ID,
			Answers: []models.Answer{
				{RoundQuestionID: round.Questions[0].ID, Value: 1 + idx},
				{RoundQuestionID: round.Questions[1].ID, Value: 3},
			},
			FreeTexts: []models.FreeText{{Text: text, Language: "en"}},
		}
		submission.FreeTexts[0].CreatedAt = base.Add(time.Duration(idx) * time.Minute)
		if err := store.CreateSubmission(ctx, &submission); err != nil {
			t.Fatalf("CreateSubmission: %v", err)
		}
	}

	counts, err := store.CountSubmissions(ctx, []uint{round.ID, round.ID + 100})
	if err != nil {
		t.Fatalf("CountSubmissions: %v", err)
	}
	if counts[round.ID] != 2 || counts[round.ID+100] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
	if empty, err := store.CountSubmissions(ctx, nil); err != nil || len(empty) != 0 {
		t.Errorf("unexpected counts for no rounds %v, %v", empty, err)
	}

	answers, err := store.ListAnswers(ctx, []uint{round.Questions[0].ID})
	if err != nil || len(answers) != 2 || answers[0].Value != 1 || answers[1].Value != 2 {
		t.Errorf("unexpected answers %+v, %v", answers, err)
	}

	comments, err := store.ListComments(ctx, []uint{round.ID})
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "newer" || comments[1].Text != "older" {
		t.Errorf("expected latest first, got %+v", comments)
	}
	if comments[0].RoundID != round.ID || !comments[0].RoundCreatedAt.Equal(round.CreatedAt) {
		t.Errorf("comment not linked to round: %+v", comments[0])
	}
}
