package handlers

import (
	"net/http"

	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	notifier services.Notifier
}

func NewContactHandler(notifier services.Notifier) *ContactHandler {
	return &ContactHandler{notifier: notifier}
}

// Submit forwards a contact-form message to the org inbox. The send
// is best-effort; the caller always gets a 200 with the outcome.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, and message are required"})
		return
	}

	emailStatus := "failed"
	if h.notifier.SendContactForm(req.Name, req.Email, req.Message) {
		emailStatus = "sent"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Message received",
		"email_status": emailStatus,
	})
}
