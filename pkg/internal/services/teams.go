package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
)

const (
	MaxTeamNameLength = 100
	MaxSlugLength     = 50
	fallbackSlug      = "team"
)

var (
	slugSpaces  = regexp.MustCompile(`[\s\p{Zs}]+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

type defaultQuestion struct {
	Text     string
	Category string
	Kind     string
}

var defaultQuestions = []defaultQuestion{
	{"Workload feels sustainable.", "workload", models.QuestionKindFixed},
	{"I get enough focus time to do good work.", "focus", models.QuestionKindFixed},
	{"It's clear what matters most right now.", "clarity", models.QuestionKindFixed},
	{"I understand why we're doing what we're doing.", "purpose", models.QuestionKindFixed},
	{"I feel comfortable raising concerns in this team.", "safety", models.QuestionKindRotatingPool},
	{"Decisions are made at a reasonable pace.", "pace", models.QuestionKindRotatingPool},
	{"I know who to ask when I'm stuck.", "collaboration", models.QuestionKindRotatingPool},
	{"Meetings feel worthwhile.", "meetings", models.QuestionKindRotatingPool},
	{"I get useful feedback on my work.", "feedback", models.QuestionKindRotatingPool},
	{"I have enough energy at the end of the week.", "energy", models.QuestionKindRotatingPool},
}

// Slugify turns a team name into its URL form.
func Slugify(name string) string {
	slug := strings.TrimSpace(strings.ToLower(name))
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	if len(slug) == 0 {
		return fallbackSlug
	}
	return slug
}

func (p *Pulse) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for counter := 2; ; counter++ {
		exists, err := p.store.SlugExists(ctx, slug)
		if err != nil {
			return slug, fmt.Errorf("unable to check slug: %w", err)
		} else if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// CreateTeam signs a team up with default settings and the default
// question bank, and returns it with its admin token filled.
func (p *Pulse) CreateTeam(ctx context.Context, name, email string) (models.Team, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return models.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	} else if utf8.RuneCountInString(name) > MaxTeamNameLength {
		return models.Team{}, fmt.Errorf("%w: team name is too long", ErrInvalidInput)
	}

	slug, err := p.uniqueSlug(ctx, Slugify(name))
	if err != nil {
		return models.Team{}, err
	}

	team := models.Team{
		Name:       name,
		Slug:       slug,
		AdminToken: p.newToken(),
		AdminEmail: strings.ToLower(strings.TrimSpace(email)),
	}
	team.CreatedAt = p.now()
	if err := p.store.CreateTeam(ctx, &team); err != nil {
		return team, fmt.Errorf("unable to create team: %w", err)
	}

	settings := DefaultSettings(team.ID)
	if err := p.store.SaveSettings(ctx, &settings); err != nil {
		return team, fmt.Errorf("unable to create team settings: %w", err)
	}

	set := models.QuestionSet{TeamID: team.ID, IsDefault: true}
	for idx, item := range defaultQuestions {
		question := models.Question{
			TeamID:   team.ID,
			Text:     item.Text,
			Category: item.Category,
			IsActive: true,
		}
		if err := p.store.CreateQuestion(ctx, &question); err != nil {
			return team, fmt.Errorf("unable to create default question: %w", err)
		}
		set.Items = append(set.Items, models.QuestionSetItem{
			QuestionID: question.ID,
			Position:   idx + 1,
			Kind:       item.Kind,
		})
	}
	if err := p.store.CreateQuestionSet(ctx, &set); err != nil {
		return team, fmt.Errorf("unable to create default question set: %w", err)
	}

	log.Info().Uint("team", team.ID).Str("slug", team.Slug).Msg("A new team has signed up")

	return team, nil
}

func DefaultSettings(teamID uint) models.TeamSettings {
	return models.TeamSettings{
		TeamID:             teamID,
		Cadence:            models.DefaultCadence,
		ScaleMax:           models.DefaultScaleMax,
		MinResponsesToShow: models.DefaultMinResponsesToShow,
		AllowFreeText:      true,
	}
}

func (p *Pulse) GetTeam(ctx context.Context, id uint) (models.Team, error) {
	return p.store.GetTeam(ctx, id)
}

func (p *Pulse) GetTeamBySlug(ctx context.Context, slug string) (models.Team, error) {
	return p.store.GetTeamBySlug(ctx, slug)
}

func (p *Pulse) GetTeamByAdminToken(ctx context.Context, token string) (models.Team, error) {
	if len(token) == 0 {
		return models.Team{}, ErrNotFound
	}
	return p.store.GetTeamByAdminToken(ctx, token)
}

// GetSettings returns the settings of the team, falling back to defaults
// for teams that have never stored any.
func (p *Pulse) GetSettings(ctx context.Context, teamID uint) (models.TeamSettings, error) {
	settings, err := p.store.GetSettings(ctx, teamID)
	if errors.Is(err, ErrNotFound) {
		return DefaultSettings(teamID), nil
	}
	return settings, err
}

// SettingsPatch holds the settings an admin changes. Nil fields are kept.
type SettingsPatch struct {
	Cadence            *string `json:"cadence"`
	ScaleMax           *int    `json:"scale_max"`
	MinResponsesToShow *int    `json:"min_responses_to_show"`
	AllowFreeText      *bool   `json:"allow_free_text"`
}

// UpdateSettings applies the patch. The scale only stamps rounds composed
// afterwards, existing rounds keep the one they were answered on.
func (p *Pulse) UpdateSettings(ctx context.Context, teamID uint, patch SettingsPatch) (models.TeamSettings, error) {
	settings, err := p.GetSettings(ctx, teamID)
	if err != nil {
		return settings, fmt.Errorf("unable to load team settings: %w", err)
	}

	if patch.Cadence != nil {
		if !lo.Contains([]string{models.CadenceWeekly, models.CadenceBiweekly, models.CadenceMonthly}, *patch.Cadence) {
			return settings, fmt.Errorf("%w: %q", ErrInvalidCadence, *patch.Cadence)
		}
		settings.Cadence = *patch.Cadence
	}
	if patch.ScaleMax != nil {
		if !lo.Contains(models.SupportedScales, *patch.ScaleMax) {
			return settings, fmt.Errorf("%w: %d", ErrInvalidScale, *patch.ScaleMax)
		}
		settings.ScaleMax = *patch.ScaleMax
	}
	if patch.MinResponsesToShow != nil {
		if *patch.MinResponsesToShow < 1 {
			return settings, fmt.Errorf("%w: min responses must be at least 1", ErrInvalidInput)
		}
		settings.MinResponsesToShow = *patch.MinResponsesToShow
	}
	if patch.AllowFreeText != nil {
		settings.AllowFreeText = *patch.AllowFreeText
	}

	if err := p.store.SaveSettings(ctx, &settings); err != nil {
		return settings, fmt.Errorf("unable to save team settings: %w", err)
	}
	return settings, nil
}

// ListTeamSummaries lists every team, newest first, with its activity.
func (p *Pulse) ListTeamSummaries(ctx context.Context) ([]models.TeamSummary, error) {
	teams, err := p.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to list teams: %w", err)
	}

	out := make([]models.TeamSummary, 0, len(teams))
	for _, team := range teams {
		rounds, err := p.store.ListRounds(ctx, team.ID, RoundFilter{})
		if err != nil {
			return nil, fmt.Errorf("unable to list rounds: %w", err)
		}
		counts, err := p.store.CountSubmissions(ctx, lo.Map(rounds, func(item models.Round, _ int) uint { return item.ID }))
		if err != nil {
			return nil, fmt.Errorf("unable to count submissions: %w", err)
		}

		summary := models.TeamSummary{
			ID:              team.ID,
			Name:            team.Name,
			Slug:            team.Slug,
			AdminEmail:      team.AdminEmail,
			AdminToken:      team.AdminToken,
			CreatedAt:       team.CreatedAt,
			RoundCount:      len(rounds),
			SubmissionCount: lo.Sum(lo.Values(counts)),
		}
		if last, ok := lo.Find(rounds, func(item models.Round) bool { return !item.IsOpen() }); ok {
			summary.LastRoundDate = &last.CreatedAt
		}
		out = append(out, summary)
	}

	return out, nil
}
