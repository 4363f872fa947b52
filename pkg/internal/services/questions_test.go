package services_test

import (
	"errors"
	"testing"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

func TestAddQuestion(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Bank")

	question, err := env.pulse.AddQuestion(env.ctx, team.ID, "  We ship often.  ", "", models.QuestionKindFixed)
	if err != nil {
		t.Fatalf("failed to add question: %v", err)
	}
	if question.Text != "We ship often." || question.Category != "general" || !question.IsActive {
		t.Errorf("unexpected question %+v", question)
	}

	set, err := env.pulse.GetQuestionSet(env.ctx, team.ID)
	if err != nil {
		t.Fatalf("failed to load question set: %v", err)
	}
	last := set.Items[len(set.Items)-1]
	if last.QuestionID != question.ID || last.Position != 11 || last.Kind != models.QuestionKindFixed {
		t.Errorf("appended item = %+v", last)
	}

	round := env.composeRound(t, team.ID)
	if len(round.Questions) != 6 || round.Questions[4].QuestionID != question.ID {
		t.Errorf("new fixed question should come right after the other fixed ones")
	}
}

func TestAddQuestionValidation(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Checks")

	if _, err := env.pulse.AddQuestion(env.ctx, team.ID, " ", "", models.QuestionKindFixed); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := env.pulse.AddQuestion(env.ctx, team.ID, "Fine text", "", "sometimes"); !errors.Is(err, services.ErrInvalidKind) {
		t.Errorf("err = %v, want ErrInvalidKind", err)
	}
}

func TestEditQuestionKeepsRoundSnapshot(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Wording")

	round := env.composeRound(t, team.ID)
	before := round.Questions[0]
	env.submit(t, round, 2)
	env.closeRound(t, round.ID)

	edited, err := env.pulse.EditQuestion(env.ctx, team.ID, before.QuestionID, "Workload is fine.")
	if err != nil {
		t.Fatalf("failed to edit question: %v", err)
	}
	if edited.Text != "Workload is fine." {
		t.Errorf("text = %q", edited.Text)
	}

	aggs, err := env.pulse.GetRoundAggregates(env.ctx, round.ID)
	if err != nil {
		t.Fatalf("failed to aggregate: %v", err)
	}
	if len(aggs) != 1 || aggs[0].QuestionText != before.QuestionText {
		t.Errorf("closed round shows %+v, want the wording it was answered with", aggs)
	}

	next := env.composeRound(t, team.ID)
	if next.Questions[0].QuestionText != "Workload is fine." {
		t.Errorf("new round shows %q, want the edited wording", next.Questions[0].QuestionText)
	}
}

func TestQuestionOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createTeam(t, "Owner")
	intruder := env.createTeam(t, "Intruder")

	set, err := env.pulse.GetQuestionSet(env.ctx, owner.ID)
	if err != nil {
		t.Fatalf("failed to load question set: %v", err)
	}
	item := set.Items[0]

	if _, err := env.pulse.EditQuestion(env.ctx, intruder.ID, item.QuestionID, "Hijacked"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("edit err = %v, want ErrNotFound", err)
	}
	if err := env.pulse.DeactivateQuestion(env.ctx, intruder.ID, item.QuestionID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("deactivate err = %v, want ErrNotFound", err)
	}
	if err := env.pulse.RemoveQuestionFromSet(env.ctx, intruder.ID, item.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("remove err = %v, want ErrNotFound", err)
	}
	if _, err := env.pulse.MoveQuestionInSet(env.ctx, intruder.ID, item.ID, models.QuestionKindRotatingPool); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("move err = %v, want ErrNotFound", err)
	}
}

func TestRemoveQuestionKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "History")

	round := env.composeRound(t, team.ID)
	env.submit(t, round, 1, 2)
	env.closeRound(t, round.ID)

	set, err := env.pulse.GetQuestionSet(env.ctx, team.ID)
	if err != nil {
		t.Fatalf("failed to load question set: %v", err)
	}
	removed := set.Items[0]
	if err := env.pulse.RemoveQuestionFromSet(env.ctx, team.ID, removed.ID); err != nil {
		t.Fatalf("failed to remove question: %v", err)
	}
	if err := env.pulse.RemoveQuestionFromSet(env.ctx, team.ID, removed.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("second removal err = %v, want ErrNotFound", err)
	}

	aggs, err := env.pulse.GetRoundAggregates(env.ctx, round.ID)
	if err != nil {
		t.Fatalf("failed to aggregate: %v", err)
	}
	if len(aggs) != 2 || aggs[0].QuestionID != removed.QuestionID {
		t.Errorf("history lost the removed question: %+v", aggs)
	}

	next := env.composeRound(t, team.ID)
	for _, rq := range next.Questions {
		if rq.QuestionID == removed.QuestionID {
			t.Errorf("removed question was composed into a new round")
		}
	}
}

func TestMoveQuestionInSet(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Moves")

	set, err := env.pulse.GetQuestionSet(env.ctx, team.ID)
	if err != nil {
		t.Fatalf("failed to load question set: %v", err)
	}
	if _, err := env.pulse.MoveQuestionInSet(env.ctx, team.ID, set.Items[0].ID, "elsewhere"); !errors.Is(err, services.ErrInvalidKind) {
		t.Errorf("err = %v, want ErrInvalidKind", err)
	}

	// Every question becomes fixed, so rounds stop rotating.
	for _, item := range set.Items {
		if _, err := env.pulse.MoveQuestionInSet(env.ctx, team.ID, item.ID, models.QuestionKindFixed); err != nil {
			t.Fatalf("failed to move question: %v", err)
		}
	}
	round := env.composeRound(t, team.ID)
	if len(round.Questions) != 10 {
		t.Fatalf("got %d questions, want 10", len(round.Questions))
	}
	for _, rq := range round.Questions {
		if rq.Kind != models.RoundQuestionKindFixed {
			t.Errorf("question %d is %q, want fixed", rq.QuestionID, rq.Kind)
		}
	}
}
