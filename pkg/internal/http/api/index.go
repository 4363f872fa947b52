package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/models"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

type Handler struct {
	pulse *services.Pulse
}

func NewHandler(pulse *services.Pulse) *Handler {
	return &Handler{pulse: pulse}
}

func MapAPIs(app *fiber.App, baseURL string, v *Handler) {
	api := app.Group(baseURL)
	{
		teams := api.Group("/teams")
		{
			teams.Post("/", v.createTeam)
			teams.Post("/recover", v.recoverAdminLink)
			teams.Get("/:slug/dashboard", v.getDashboard)
			teams.Get("/:slug/rounds/:roundId/retro", v.getRetro)
		}

		rounds := api.Group("/rounds")
		{
			rounds.Get("/:token", v.getRespondPayload)
			rounds.Post("/:token/responses", v.submitResponses)
		}

		admin := api.Group("/admin", v.ensureAdmin)
		{
			admin.Get("/", v.getAdminOverview)
			admin.Post("/rounds", v.composeRound)
			admin.Post("/rounds/:roundId/close", v.closeRound)
			admin.Get("/rounds/:roundId/aggregates", v.getRoundAggregates)
			admin.Get("/settings", v.getSettings)
			admin.Put("/settings", v.updateSettings)
			admin.Post("/questions", v.addQuestion)
			admin.Patch("/questions/items/:itemId", v.moveQuestion)
			admin.Delete("/questions/items/:itemId", v.removeQuestionItem)
			admin.Patch("/questions/:questionId", v.editQuestion)
			admin.Delete("/questions/:questionId", v.deactivateQuestion)
			admin.Get("/comments", v.listComments)
			admin.Get("/analytics", v.getAnalytics)
		}
	}
}

func (v *Handler) ensureAdmin(c *fiber.Ctx) error {
	token := exts.BearerToken(c)
	if len(token) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "missing admin token")
	}

	team, err := v.pulse.GetTeamByAdminToken(c.UserContext(), token)
	if errors.Is(err, services.ErrNotFound) {
		return fiber.NewError(fiber.StatusForbidden, "invalid admin token")
	} else if err != nil {
		return exts.ToHTTPError(err)
	}

	c.Locals("team", team)
	return c.Next()
}

func currentTeam(c *fiber.Ctx) models.Team {
	return c.Locals("team").(models.Team)
}
