package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Cooldown remembers keys for a while.
type Cooldown interface {
	Seen(ctx context.Context, key string) bool
	Mark(ctx context.Context, key string, ttl time.Duration)
}

// RecoverAdminLink handles an admin link recovery request. It never tells
// the caller whether the email belongs to a team, and repeated requests
// inside the cooldown are dropped silently.
func (p *Pulse) RecoverAdminLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) == 0 {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	key := "recovery#" + email
	if p.cooldown != nil {
		if p.cooldown.Seen(ctx, key) {
			log.Debug().Msg("Skipped admin link recovery, still in cooldown")
			return nil
		}
		defer p.cooldown.Mark(ctx, key, p.cooldownTTL)
	}

	team, err := p.store.GetTeamByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil
	} else if err != nil {
		log.Error().Err(err).Msg("An error occurred when looking up team for recovery")
		return nil
	}

	log.Info().Uint("team", team.ID).Msg("Admin link recovery requested")
	return nil
}
