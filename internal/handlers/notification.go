package handlers

import (
	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/services/notification"
	"advance/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *notification.Service
	log                 *zap.Logger
}

func NewNotificationHandler(notificationService *notification.Service, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 logger.OrNop(log).Named("notification_handler"),
	}
}

// ListNotifications supports ?filter=unread|all with page and limit.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var unreadOnly bool
	switch c.Query("filter", "all") {
	case "all":
	case "unread":
		unreadOnly = true
	default:
		return utils.BadRequest(c, "filter must be unread or all")
	}

	p := utils.GetPagination(c, 20, 100)
	page, err := h.notificationService.ListNotifications(c.UserContext(), claims.UserID, unreadOnly, p.Page, p.Limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	p.SetTotal(page.Total)

	return utils.Success(c, utils.NewPaginatedResponse(page.Notifications, p))
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	count, err := h.notificationService.UnreadCount(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"unread_count": count})
}

func (h *NotificationHandler) Recent(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	recent, err := h.notificationService.Recent(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"notifications": recent})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid notification id")
	}

	n, err := h.notificationService.MarkRead(c.UserContext(), claims.UserID, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"notification": n})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	updated, err := h.notificationService.MarkAllRead(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"updated": updated})
}

func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid notification id")
	}

	if err := h.notificationService.DeleteNotification(c.UserContext(), claims.UserID, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) ClearRead(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	deleted, err := h.notificationService.ClearRead(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"deleted": deleted})
}

func (h *NotificationHandler) GetPreferences(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	pref, err := h.notificationService.GetPreferences(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"preferences": pref})
}

func (h *NotificationHandler) UpdatePreferences(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var update models.PreferenceUpdate
	if err := c.BodyParser(&update); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	pref, err := h.notificationService.SetPreferences(c.UserContext(), claims.UserID, update)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"preferences": pref})
}
