package handlers

import (
	"strconv"

	"advance/internal/logger"
	"advance/internal/services/deposit"
	"advance/internal/services/ledger"
	"advance/internal/services/notification"
	"advance/internal/utils"
	"advance/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler serves the staff review queue and audit endpoints.
type AdminHandler struct {
	depositService      deposit.Service
	ledgerService       ledger.Service
	notificationService *notification.Service
	log                 *zap.Logger
}

func NewAdminHandler(
	depositService deposit.Service,
	ledgerService ledger.Service,
	notificationService *notification.Service,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		depositService:      depositService,
		ledgerService:       ledgerService,
		notificationService: notificationService,
		log:                 logger.OrNop(log).Named("admin_handler"),
	}
}

func (h *AdminHandler) PendingDeposits(c *fiber.Ctx) error {
	deposits, err := h.depositService.PendingApprovals(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"deposits": deposits, "count": len(deposits)})
}

func (h *AdminHandler) ApproveDeposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid deposit id")
	}

	d, err := h.depositService.ApproveDeposit(c.UserContext(), id, claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"deposit": d})
}

func (h *AdminHandler) RejectDeposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid deposit id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	v := validation.New()
	v.Rejection(input.Reason)
	if !v.Valid() {
		return utils.ValidationFailed(c, v.Errors)
	}

	d, err := h.depositService.RejectDeposit(c.UserContext(), id, claims.UserID, input.Reason)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"deposit": d})
}

func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	report, err := h.ledgerService.Reconcile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, report)
}

// ListDeliveries requires ?user_id= and accepts an optional limit.
func (h *AdminHandler) ListDeliveries(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return utils.BadRequest(c, "user_id is required")
	}

	records, err := h.notificationService.ListDeliveries(c.UserContext(), uint(userID), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"deliveries": records})
}
