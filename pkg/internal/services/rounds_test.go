package services_test

import (
	"errors"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

func rotatingOf(t *testing.T, round models.Round) uint {
	t.Helper()
	var found []uint
	for _, rq := range round.Questions {
		if rq.Kind == models.RoundQuestionKindRotating {
			found = append(found, rq.QuestionID)
		}
	}
	if len(found) != 1 {
		t.Fatalf("round %d has %d rotating questions, want 1", round.ID, len(found))
	}
	return found[0]
}

func TestPickRotating(t *testing.T) {
	pool := []models.QuestionSetItem{{QuestionID: 5}, {QuestionID: 6}, {QuestionID: 7}}

	tests := []struct {
		name   string
		pool   []models.QuestionSetItem
		used   []uint
		want   uint
		wantOk bool
	}{
		{"no history", pool, nil, 5, true},
		{"first unused wins", pool, []uint{5}, 6, true},
		{"skips every used one", pool, []uint{6, 5}, 7, true},
		{"all used falls back to first", pool, []uint{5, 6, 7}, 5, true},
		{"empty pool", nil, []uint{1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := services.PickRotating(tt.pool, tt.used)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if got.QuestionID != tt.want {
				t.Errorf("picked %d, want %d", got.QuestionID, tt.want)
			}
		})
	}
}

func TestComposeRoundLayout(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Layout")

	round := env.composeRound(t, team.ID)
	if round.Status != models.RoundStatusOpen {
		t.Errorf("status = %q, want open", round.Status)
	}
	if len(round.Token) != 32 {
		t.Errorf("token %q should be 32 characters", round.Token)
	}
	if len(round.Questions) != 5 {
		t.Fatalf("got %d questions, want 4 fixed and 1 rotating", len(round.Questions))
	}
	for idx, rq := range round.Questions {
		if rq.Position != idx+1 {
			t.Errorf("question %d has position %d", idx, rq.Position)
		}
		wantKind := models.RoundQuestionKindFixed
		if idx == 4 {
			wantKind = models.RoundQuestionKindRotating
		}
		if rq.Kind != wantKind {
			t.Errorf("question %d kind = %q, want %q", idx, rq.Kind, wantKind)
		}
		if len(rq.QuestionText) == 0 {
			t.Errorf("question %d has no text snapshot", idx)
		}
	}
	if round.Questions[0].QuestionText != "Workload feels sustainable." {
		t.Errorf("first question = %q", round.Questions[0].QuestionText)
	}
}

func TestComposeRoundRotatesThroughPool(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Rotation")

	set, err := env.pulse.GetQuestionSet(env.ctx, team.ID)
	if err != nil {
		t.Fatalf("failed to load question set: %v", err)
	}
	var pool []uint
	for _, item := range set.Items {
		if item.Kind == models.QuestionKindRotatingPool {
			pool = append(pool, item.QuestionID)
		}
	}

	seen := make(map[uint]int)
	for range pool {
		round := env.composeRound(t, team.ID)
		seen[rotatingOf(t, round)]++
		env.closeRound(t, round.ID)
	}

	for _, id := range pool {
		if seen[id] != 1 {
			t.Errorf("question %d was used %d times over %d rounds, want 1", id, seen[id], len(pool))
		}
	}
}

func TestComposeRoundRotatesRegardlessOfPoolOrder(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Reordered")

	set, err := env.pulse.GetQuestionSet(env.ctx, team.ID)
	if err != nil {
		t.Fatalf("failed to load question set: %v", err)
	}
	// Turning the first fixed question into a pool item puts it at the head
	// of the pool.
	moved, err := env.pulse.MoveQuestionInSet(env.ctx, team.ID, set.Items[0].ID, models.QuestionKindRotatingPool)
	if err != nil {
		t.Fatalf("failed to move question: %v", err)
	}
	added, err := env.pulse.AddQuestion(env.ctx, team.ID, "We celebrate wins.", "", models.QuestionKindRotatingPool)
	if err != nil {
		t.Fatalf("failed to add question: %v", err)
	}

	first := env.composeRound(t, team.ID)
	if got := rotatingOf(t, first); got != moved.QuestionID {
		t.Errorf("first rotating pick = %d, want %d", got, moved.QuestionID)
	}
	env.closeRound(t, first.ID)

	seen := map[uint]int{moved.QuestionID: 1}
	for i := 1; i < 8; i++ {
		round := env.composeRound(t, team.ID)
		seen[rotatingOf(t, round)]++
		env.closeRound(t, round.ID)
	}

	if len(seen) != 8 {
		t.Errorf("8 rounds used %d distinct pool questions, want 8", len(seen))
	}
	if seen[added.ID] != 1 {
		t.Errorf("added question used %d times, want 1", seen[added.ID])
	}
}

func TestComposeRoundFreezesScale(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Scales")

	before := env.composeRound(t, team.ID)
	if before.ScaleMax != 3 || len(before.ScaleLabels) != 3 {
		t.Fatalf("first round scale = %d with %d labels, want 3", before.ScaleMax, len(before.ScaleLabels))
	}

	if _, err := env.pulse.UpdateSettings(env.ctx, team.ID, services.SettingsPatch{ScaleMax: intPtr(5)}); err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}

	after := env.composeRound(t, team.ID)
	if after.ScaleMax != 5 || len(after.ScaleLabels) != 5 {
		t.Errorf("second round scale = %d with %d labels, want 5", after.ScaleMax, len(after.ScaleLabels))
	} else if after.ScaleLabels[0] != "Strongly disagree" {
		t.Errorf("second round labels = %v, want the full wording", after.ScaleLabels)
	}

	reloaded, err := env.pulse.GetRound(env.ctx, before.ID)
	if err != nil {
		t.Fatalf("failed to reload round: %v", err)
	}
	if reloaded.ScaleMax != 3 {
		t.Errorf("first round scale changed to %d after settings update", reloaded.ScaleMax)
	}
	if got := []string(reloaded.ScaleLabels); len(got) != 3 || got[0] != "Disagree" {
		t.Errorf("first round labels changed to %v", got)
	}
}

func TestComposeRoundWithoutQuestionSet(t *testing.T) {
	env := newTestEnv(t)

	team := models.Team{Name: "Bare", Slug: "bare", AdminToken: "bare-token"}
	if err := env.store.CreateTeam(env.ctx, &team); err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	_, err := env.pulse.ComposeRound(env.ctx, team.ID)
	if !errors.Is(err, services.ErrNoDefaultQuestionSet) {
		t.Errorf("err = %v, want ErrNoDefaultQuestionSet", err)
	}
}

func TestComposeRoundSkipsInactiveQuestions(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Inactive")

	set, err := env.pulse.GetQuestionSet(env.ctx, team.ID)
	if err != nil {
		t.Fatalf("failed to load question set: %v", err)
	}
	retired := set.Items[1].QuestionID
	if err := env.pulse.DeactivateQuestion(env.ctx, team.ID, retired); err != nil {
		t.Fatalf("failed to deactivate question: %v", err)
	}

	round := env.composeRound(t, team.ID)
	if len(round.Questions) != 4 {
		t.Fatalf("got %d questions, want 3 fixed and 1 rotating", len(round.Questions))
	}
	for _, rq := range round.Questions {
		if rq.QuestionID == retired {
			t.Errorf("inactive question %d was composed into the round", retired)
		}
	}

	// The question stays in the bank.
	if _, err := env.store.GetQuestion(env.ctx, retired); err != nil {
		t.Errorf("inactive question should still resolve: %v", err)
	}
}

func TestCloseRoundTwice(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Closing")
	round := env.composeRound(t, team.ID)
	env.submit(t, round, 2, 3)

	closed, err := env.pulse.CloseRound(env.ctx, round.ID)
	if err != nil {
		t.Fatalf("failed to close round: %v", err)
	}
	if closed.Status != models.RoundStatusClosed || closed.ClosesAt == nil {
		t.Fatalf("round not closed: status %q, closes_at %v", closed.Status, closed.ClosesAt)
	}

	_, err = env.pulse.CloseRound(env.ctx, round.ID)
	if !errors.Is(err, services.ErrRoundAlreadyClosed) || !services.IsInvalidState(err) {
		t.Fatalf("second close err = %v, want invalid state", err)
	}

	again, err := env.pulse.GetRound(env.ctx, round.ID)
	if err != nil {
		t.Fatalf("failed to reload round: %v", err)
	}
	if !again.ClosesAt.Equal(*closed.ClosesAt) {
		t.Errorf("closes_at moved from %v to %v", closed.ClosesAt, again.ClosesAt)
	}
	if count, _ := env.pulse.CountSubmissions(env.ctx, round.ID); count != 1 {
		t.Errorf("submission count = %d, want 1", count)
	}
	aggs, err := env.pulse.GetRoundAggregates(env.ctx, round.ID)
	if err != nil {
		t.Fatalf("failed to aggregate: %v", err)
	}
	if len(aggs) != 2 {
		t.Errorf("got %d aggregates, want 2", len(aggs))
	}
}

func TestCloseRoundNotFound(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.pulse.CloseRound(env.ctx, 404); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCloseStaleRounds(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Stale")

	stale := env.composeRound(t, team.ID)
	env.clock.next = env.clock.next.Add(48 * time.Hour)
	fresh := env.composeRound(t, team.ID)

	count, err := env.pulse.CloseStaleRounds(env.ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("failed to close stale rounds: %v", err)
	}
	if count != 1 {
		t.Errorf("closed %d rounds, want 1", count)
	}

	if round, _ := env.pulse.GetRound(env.ctx, stale.ID); round.IsOpen() {
		t.Error("stale round is still open")
	}
	if round, _ := env.pulse.GetRound(env.ctx, fresh.ID); !round.IsOpen() {
		t.Error("fresh round was closed")
	}
}

func TestListRoundsMostRecentFirst(t *testing.T) {
	env := newTestEnv(t)
	team := env.createTeam(t, "Listing")

	first := env.composeRound(t, team.ID)
	second := env.composeRound(t, team.ID)

	rounds, err := env.pulse.ListRounds(env.ctx, team.ID)
	if err != nil {
		t.Fatalf("failed to list rounds: %v", err)
	}
	if len(rounds) != 2 || rounds[0].ID != second.ID || rounds[1].ID != first.ID {
		t.Errorf("rounds listed in the wrong order: %+v", rounds)
	}
}
