package handlers

import (
	"errors"
	"strconv"

	apperrors "advance/internal/errors"
	"advance/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errInvalidID = errors.New("invalid id")

var statusByCode = map[string]int{
	apperrors.CodeInvalidAmount:           fiber.StatusBadRequest,
	apperrors.CodeInvalidPaymentMethod:    fiber.StatusBadRequest,
	apperrors.CodeReasonRequired:          fiber.StatusBadRequest,
	apperrors.CodeInvalidPreference:       fiber.StatusBadRequest,
	apperrors.CodeDepositNotFound:         fiber.StatusNotFound,
	apperrors.CodeAccountNotFound:         fiber.StatusNotFound,
	apperrors.CodeNotificationNotFound:    fiber.StatusNotFound,
	apperrors.CodeUserNotFound:            fiber.StatusNotFound,
	apperrors.CodeDuplicateMonthlyDeposit: fiber.StatusConflict,
	apperrors.CodeInvalidTransition:       fiber.StatusConflict,
	apperrors.CodeNotificationUnread:      fiber.StatusConflict,
	apperrors.CodeForbidden:               fiber.StatusForbidden,
}

// respondError maps domain errors to HTTP responses. Anything without a
// known code is logged and reported as a 500 without details.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	code := apperrors.CodeOf(err)
	if status, ok := statusByCode[code]; ok {
		return utils.Error(c, status, code, err.Error())
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("code", code),
		zap.Error(err))
	if code == "" {
		code = "INTERNAL"
	}
	return utils.Error(c, fiber.StatusInternalServerError, code, "internal server error")
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}
