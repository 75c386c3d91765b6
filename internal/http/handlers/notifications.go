package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NotificationsHandler is the notification service's placeholder surface.
type NotificationsHandler struct {
	now func() time.Time
}

func NewNotificationsHandler() *NotificationsHandler {
	return &NotificationsHandler{now: time.Now}
}

func (h *NotificationsHandler) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Notification service is running",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}
