package handlers

import (
	"net/http"

	"github.com/BseoY/120EastState3/internal/models"
	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler owns the moderation transitions. Only pending posts
// move; a decision on an already-decided post is rejected without
// touching its status.
type AdminHandler struct {
	db       *gorm.DB
	notifier services.Notifier
}

func NewAdminHandler(db *gorm.DB, notifier services.Notifier) *AdminHandler {
	return &AdminHandler{db: db, notifier: notifier}
}

func (h *AdminHandler) decide(c *gin.Context, status, feedback string) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var post models.Post
	err := h.db.Preload("Tag").Preload("User").Preload("Media").First(&post, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.Status != models.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Post is not pending review"})
		return
	}

	if err := h.db.Model(&post).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	post.Status = status

	// Notification is best-effort: a failed send is reported in the
	// response but never rolls back the decision.
	emailStatus := "skipped"
	if post.User != nil && post.User.Email != "" {
		if h.notifier.SendDecision(post.User.Email, status, post.Title, feedback) {
			emailStatus = "sent"
		} else {
			emailStatus = "failed"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Post " + status + " successfully",
		"email_status": emailStatus,
		"post":         postJSON(&post),
	})
}

// Approve transitions pending -> approved.
func (h *AdminHandler) Approve(c *gin.Context) {
	h.decide(c, models.StatusApproved, "")
}

// Deny transitions pending -> denied, forwarding optional feedback
// verbatim into the notification email.
func (h *AdminHandler) Deny(c *gin.Context) {
	var req struct {
		Feedback string `json:"feedback"`
	}
	// The body is optional; ignore bind errors for an empty payload.
	_ = c.ShouldBindJSON(&req)

	h.decide(c, models.StatusDenied, req.Feedback)
}

// ListPending returns posts awaiting review, oldest first so the
// queue drains in submission order.
func (h *AdminHandler) ListPending(c *gin.Context) {
	var posts []models.Post
	err := h.db.Preload("Tag").Preload("User").Preload("Media").
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(posts))
	for i := range posts {
		out = append(out, postJSON(&posts[i]))
	}
	c.JSON(http.StatusOK, out)
}
