package api

import (
	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

func idParam(c *fiber.Ctx, key string) (uint, error) {
	id, err := c.ParamsInt(key, 0)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
	}
	return uint(id), nil
}

// teamRound loads a round and makes sure it belongs to the admin's team.
func (v *Handler) teamRound(c *fiber.Ctx, team models.Team) (models.Round, error) {
	roundId, err := idParam(c, "roundId")
	if err != nil {
		return models.Round{}, err
	}
	round, err := v.pulse.GetRound(c.UserContext(), roundId)
	if err != nil {
		return round, exts.ToHTTPError(err)
	} else if round.TeamID != team.ID {
		return round, exts.ToHTTPError(services.ErrNotFound)
	}
	return round, nil
}

func (v *Handler) getAdminOverview(c *fiber.Ctx) error {
	overview, err := v.pulse.GetAdminOverview(c.UserContext(), currentTeam(c))
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(overview)
}

func (v *Handler) composeRound(c *fiber.Ctx) error {
	team := currentTeam(c)

	round, err := v.pulse.ComposeRound(c.UserContext(), team.ID)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(round)
}

func (v *Handler) closeRound(c *fiber.Ctx) error {
	round, err := v.teamRound(c, currentTeam(c))
	if err != nil {
		return err
	}

	if round, err = v.pulse.CloseRound(c.UserContext(), round.ID); err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(round)
}

func (v *Handler) getRoundAggregates(c *fiber.Ctx) error {
	round, err := v.teamRound(c, currentTeam(c))
	if err != nil {
		return err
	}

	aggs, err := v.pulse.GetRoundAggregates(c.UserContext(), round.ID)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(aggs)
}

func (v *Handler) getSettings(c *fiber.Ctx) error {
	settings, err := v.pulse.GetSettings(c.UserContext(), currentTeam(c).ID)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(settings)
}

func (v *Handler) updateSettings(c *fiber.Ctx) error {
	var data services.SettingsPatch

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	settings, err := v.pulse.UpdateSettings(c.UserContext(), currentTeam(c).ID, data)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(settings)
}

func (v *Handler) addQuestion(c *fiber.Ctx) error {
	var data struct {
		Text     string `json:"text" validate:"required,max=256"`
		Category string `json:"category" validate:"max=64"`
		Kind     string `json:"kind" validate:"required,oneof=fixed rotating_pool"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	question, err := v.pulse.AddQuestion(c.UserContext(), currentTeam(c).ID, data.Text, data.Category, data.Kind)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(question)
}

func (v *Handler) editQuestion(c *fiber.Ctx) error {
	questionId, err := idParam(c, "questionId")
	if err != nil {
		return err
	}

	var data struct {
		Text string `json:"text" validate:"required,max=256"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	question, err := v.pulse.EditQuestion(c.UserContext(), currentTeam(c).ID, questionId, data.Text)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(question)
}

func (v *Handler) moveQuestion(c *fiber.Ctx) error {
	itemId, err := idParam(c, "itemId")
	if err != nil {
		return err
	}

	var data struct {
		Kind string `json:"kind" validate:"required,oneof=fixed rotating_pool"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := v.pulse.MoveQuestionInSet(c.UserContext(), currentTeam(c).ID, itemId, data.Kind)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(item)
}

func (v *Handler) removeQuestionItem(c *fiber.Ctx) error {
	itemId, err := idParam(c, "itemId")
	if err != nil {
		return err
	}

	if err := v.pulse.RemoveQuestionFromSet(c.UserContext(), currentTeam(c).ID, itemId); err != nil {
		return exts.ToHTTPError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (v *Handler) deactivateQuestion(c *fiber.Ctx) error {
	questionId, err := idParam(c, "questionId")
	if err != nil {
		return err
	}

	if err := v.pulse.DeactivateQuestion(c.UserContext(), currentTeam(c).ID, questionId); err != nil {
		return exts.ToHTTPError(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (v *Handler) listComments(c *fiber.Ctx) error {
	comments, err := v.pulse.ListComments(c.UserContext(), currentTeam(c).ID)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

func (v *Handler) getAnalytics(c *fiber.Ctx) error {
	analytics, err := v.pulse.GetAnalytics(c.UserContext(), currentTeam(c).ID)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(analytics)
}
