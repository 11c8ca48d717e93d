package handlers

import (
	"advance/internal/logger"
	"advance/internal/services/ledger"
	"advance/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AccountHandler struct {
	ledgerService ledger.Service
	log           *zap.Logger
}

func NewAccountHandler(ledgerService ledger.Service, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
		log:           logger.OrNop(log).Named("account_handler"),
	}
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	account, err := h.ledgerService.GetAccount(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return utils.Success(c, fiber.Map{
		"account": account,
		"balance": account.Balance(),
	})
}

func (h *AccountHandler) ListInterest(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	calculations, err := h.ledgerService.ListInterestCalculations(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"interest_calculations": calculations})
}
