package admin

import (
	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/exts"
)

func (v *Controller) listTeams(c *fiber.Ctx) error {
	teams, err := v.pulse.ListTeamSummaries(c.UserContext())
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"count": len(teams),
		"data":  teams,
	})
}
