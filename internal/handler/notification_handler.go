package handler

import (
	"errors"
	"net/http"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NotificationHandler handles the authenticated user's notification feed.
type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "notification_handler").Logger(),
	}
}

// List godoc
// GET /api/notifications?page=0&size=10
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	p, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.notificationService.List(c.Request.Context(), claims.UserID, p)
	if err != nil {
		internalError(c, h.log, err, "list notifications failed")
		return
	}

	response.Success(c, http.StatusOK, "OK", page)
}

// UnreadCount godoc
// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	n, err := h.notificationService.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		internalError(c, h.log, err, "unread count failed")
		return
	}

	response.Success(c, http.StatusOK, "OK", gin.H{"count": n})
}

// MarkRead godoc
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		internalError(c, h.log, err, "mark notification read failed")
		return
	}

	response.Success(c, http.StatusOK, "Notification marked as read", n)
}

// MarkAllRead godoc
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), claims.UserID)
	if err != nil {
		internalError(c, h.log, err, "mark all notifications read failed")
		return
	}

	response.Success(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": updated})
}

// Delete godoc
// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		internalError(c, h.log, err, "delete notification failed")
		return
	}

	response.Success(c, http.StatusOK, "Notification deleted", gin.H{})
}
