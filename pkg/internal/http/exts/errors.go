package exts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"git.solsynth.dev/hypernet/teamtemp/pkg/internal/services"
)

// ToHTTPError maps service errors onto response statuses.
func ToHTTPError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoDefaultQuestionSet):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case services.IsInvalidState(err):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case services.IsInvalidInput(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("An error occurred when handling request")
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
