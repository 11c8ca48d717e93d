package handlers

import (
	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/services/deposit"
	"advance/internal/utils"
	"advance/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DepositHandler struct {
	depositService deposit.Service
	log            *zap.Logger
}

func NewDepositHandler(depositService deposit.Service, log *zap.Logger) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
		log:            logger.OrNop(log).Named("deposit_handler"),
	}
}

// SubmitDeposit creates a pending deposit for the caller's current month.
func (h *DepositHandler) SubmitDeposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input deposit.SubmitRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	v := validation.New()
	v.Deposit(input.PaymentMethod, input.MpesaPhone, input.Notes)
	if !v.Valid() {
		return utils.ValidationFailed(c, v.Errors)
	}

	d, err := h.depositService.SubmitDeposit(c.UserContext(), claims.UserID, input)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Created(c, fiber.Map{"deposit": d})
}

func (h *DepositHandler) ListDeposits(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	status := models.DepositStatus(c.Query("status"))
	switch status {
	case "", models.DepositPending, models.DepositCompleted, models.DepositFailed, models.DepositCancelled:
	default:
		return utils.BadRequest(c, "unknown status filter")
	}

	p := utils.GetPagination(c, deposit.DefaultPageLimit, deposit.MaxPageLimit)
	deposits, total, err := h.depositService.ListDeposits(c.UserContext(), models.DepositFilter{
		UserID: claims.UserID,
		Status: status,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(deposits, p))
}

// GetDeposit returns one of the caller's deposits. Staff may read any.
func (h *DepositHandler) GetDeposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid deposit id")
	}

	d, err := h.depositService.GetDeposit(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !utils.CanAccess(claims, d.UserID) {
		return utils.NotFound(c, "deposit not found")
	}
	return utils.Success(c, fiber.Map{"deposit": d})
}

func (h *DepositHandler) CancelDeposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid deposit id")
	}

	d, err := h.depositService.CancelDeposit(c.UserContext(), id, claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"deposit": d})
}

func (h *DepositHandler) CanDeposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	eligibility, err := h.depositService.CanDeposit(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, eligibility)
}

func (h *DepositHandler) MonthlySummary(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	months, err := h.depositService.MonthlySummary(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"months": months})
}
