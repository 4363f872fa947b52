package admin

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

// Controller serves the operator endpoints guarded by the super admin token.
type Controller struct {
	pulse      *services.Pulse
	token      string
	staleAfter time.Duration
}

func NewController(pulse *services.Pulse, token string, staleAfter time.Duration) *Controller {
	return &Controller{pulse: pulse, token: token, staleAfter: staleAfter}
}

func MapControllers(app *fiber.App, baseURL string, v *Controller) {
	admin := app.Group(baseURL, v.ensureSuperAdmin)
	{
		admin.Get("/teams", v.listTeams)
		admin.Post("/rounds/close-stale", v.closeStaleRounds)
	}
}

func (v *Controller) ensureSuperAdmin(c *fiber.Ctx) error {
	token := exts.BearerToken(c)
	if len(v.token) == 0 || len(token) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "missing super admin token")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return fiber.NewError(fiber.StatusForbidden, "invalid super admin token")
	}
	return c.Next()
}
