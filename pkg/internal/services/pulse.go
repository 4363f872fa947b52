package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDashboardRoundLimit = 8
	DefaultAnalyticsRoundLimit = 20
	DefaultTopMovers           = 2
)

// Pulse runs round composition, aggregation and the views built on top of
// them. It keeps no state between calls besides its collaborators.
type Pulse struct {
	store    Store
	now      func() time.Time
	newToken func() string
	detect   func(string) string

	cooldown    Cooldown
	cooldownTTL time.Duration

	dashboardLimit int
	analyticsLimit int
}

type Option func(*Pulse)

// WithClock replaces the wall clock, mostly so tests get ordered rounds.
func WithClock(now func() time.Time) Option {
	return func(p *Pulse) { p.now = now }
}

func WithTokenGenerator(fn func() string) Option {
	return func(p *Pulse) { p.newToken = fn }
}

// WithLanguageDetection tags free text answers with the language code
// returned by fn.
func WithLanguageDetection(fn func(string) string) Option {
	return func(p *Pulse) { p.detect = fn }
}

// WithRecoveryCooldown suppresses repeated recovery requests for the same
// email within ttl.
func WithRecoveryCooldown(cooldown Cooldown, ttl time.Duration) Option {
	return func(p *Pulse) {
		p.cooldown = cooldown
		p.cooldownTTL = ttl
	}
}

// WithRoundLimits bounds how many closed rounds dashboards and analytics
// look back at. Non-positive values keep the defaults.
func WithRoundLimits(dashboard, analytics int) Option {
	return func(p *Pulse) {
		if dashboard > 0 {
			p.dashboardLimit = dashboard
		}
		if analytics > 0 {
			p.analyticsLimit = analytics
		}
	}
}

func NewPulse(store Store, opts ...Option) *Pulse {
	p := &Pulse{
		store:          store,
		now:            func() time.Time { return time.Now().UTC() },
		newToken:       NewToken,
		dashboardLimit: DefaultDashboardRoundLimit,
		analyticsLimit: DefaultAnalyticsRoundLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewToken returns an unguessable 32 character hex secret.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
