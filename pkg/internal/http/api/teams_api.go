package api

import (
	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/exts"
)

func (v *Handler) createTeam(c *fiber.Ctx) error {
	var data struct {
		Name  string `json:"name" validate:"required,max=100"`
		Email string `json:"email" validate:"omitempty,email"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	team, err := v.pulse.CreateTeam(c.UserContext(), data.Name, data.Email)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"team":        team,
		"admin_token": team.AdminToken,
	})
}

func (v *Handler) recoverAdminLink(c *fiber.Ctx) error {
	var data struct {
		Email string `json:"email" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := v.pulse.RecoverAdminLink(c.UserContext(), data.Email); err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (v *Handler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := v.pulse.GetDashboard(c.UserContext(), c.Params("slug"))
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(dashboard)
}

func (v *Handler) getRetro(c *fiber.Ctx) error {
	roundId, err := c.ParamsInt("roundId", 0)
	if err != nil || roundId <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid round id")
	}

	retro, err := v.pulse.GetRetro(c.UserContext(), c.Params("slug"), uint(roundId))
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(retro)
}
