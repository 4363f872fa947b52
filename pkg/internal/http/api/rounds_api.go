package api

import (
	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

func (v *Handler) getRespondPayload(c *fiber.Ctx) error {
	payload, err := v.pulse.GetRespondPayload(c.UserContext(), c.Params("token"))
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(payload)
}

func (v *Handler) submitResponses(c *fiber.Ctx) error {
	var data struct {
		Answers  []services.AnswerInput `json:"answers" validate:"required,min=1,dive"`
		FreeText string                 `json:"free_text" validate:"max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	count, err := v.pulse.SubmitByToken(c.UserContext(), c.Params("token"), data.Answers, data.FreeText)
	if err != nil {
		return exts.ToHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"ok":             true,
		"response_count": count,
	})
}
