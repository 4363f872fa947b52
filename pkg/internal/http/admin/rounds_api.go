package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/exts"
)

// closeStaleRounds runs the stale round sweep right away. The body may
// override the configured age with a duration string such as "72h".
func (v *Controller) closeStaleRounds(c *fiber.Ctx) error {
	var data struct {
		MaxAge string `json:"max_age"`
	}

	if len(c.Body()) > 0 {
		if err := exts.BindAndValidate(c, &data); err != nil {
			return err
		}
	}

	maxAge := v.staleAfter
	if len(data.MaxAge) > 0 {
		parsed, err := time.ParseDuration(data.MaxAge)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		maxAge = parsed
	}
	if maxAge <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no stale round age configured")
	}

	count, err := v.pulse.CloseStaleRounds(c.UserContext(), maxAge)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(fiber.Map{"count": count})
}
