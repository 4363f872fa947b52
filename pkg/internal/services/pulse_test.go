package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/database"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

type tickingClock struct {
	mu   sync.Mutex
	next time.Time
}

func (v *tickingClock) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.next
	v.next = v.next.Add(time.Minute)
	return now
}

type memoryCooldown struct {
	keys map[string]time.Duration
}

func (v *memoryCooldown) Seen(ctx context.Context, key string) bool {
	_, ok := v.keys[key]
	return ok
}

func (v *memoryCooldown) Mark(ctx context.Context, key string, ttl time.Duration) {
	v.keys[key] = ttl
}

type testEnv struct {
	ctx   context.Context
	store *database.Store
	pulse *services.Pulse
	clock *tickingClock
}

func newTestEnv(t *testing.T, opts ...services.Option) *testEnv {
	t.Helper()

	source, err := database.Open(database.DriverSQLite, ":memory:", "", false)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := database.RunMigration(source); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() {
		if conn, err := source.DB(); err == nil {
			conn.Close()
		}
	})

	clock := &tickingClock{next: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}
	store := database.NewStore(source)
	opts = append([]services.Option{
		services.WithClock(clock.Now),
		services.WithLanguageDetection(func(string) string { return "en" }),
	}, opts...)

	return &testEnv{
		ctx:   context.Background(),
		store: store,
		pulse: services.NewPulse(store, opts...),
		clock: clock,
	}
}

func (v *testEnv) createTeam(t *testing.T, name string) models.Team {
	t.Helper()
	team, err := v.pulse.CreateTeam(v.ctx, name, "lead@example.com")
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	return team
}

func (v *testEnv) composeRound(t *testing.T, teamID uint) models.Round {
	t.Helper()
	round, err := v.pulse.ComposeRound(v.ctx, teamID)
	if err != nil {
		t.Fatalf("failed to compose round: %v", err)
	}
	return round
}

func (v *testEnv) closeRound(t *testing.T, roundID uint) {
	t.Helper()
	if _, err := v.pulse.CloseRound(v.ctx, roundID); err != nil {
		t.Fatalf("failed to close round: %v", err)
	}
}

// submit records one submission answering the round questions with the
// values in order. A zero value skips the question.
func (v *testEnv) submit(t *testing.T, round models.Round, values ...int) {
	t.Helper()
	var answers []services.AnswerInput
	for idx, value := range values {
		if value == 0 {
			continue
		}
		answers = append(answers, services.AnswerInput{
			RoundQuestionID: round.Questions[idx].ID,
			Value:           value,
		})
	}
	if _, err := v.pulse.RecordSubmission(v.ctx, round.ID, answers, ""); err != nil {
		t.Fatalf("failed to record submission: %v", err)
	}
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
