package handlers

import (
	"net/http"
	"time"

	"github.com/BseoY/120EastState3/internal/middleware"
	"github.com/BseoY/120EastState3/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnnouncementHandler struct {
	db *gorm.DB
}

func NewAnnouncementHandler(db *gorm.DB) *AnnouncementHandler {
	return &AnnouncementHandler{db: db}
}

// List is public and only shows active announcements inside their
// date window.
func (h *AnnouncementHandler) List(c *gin.Context) {
	now := time.Now().UTC()

	var announcements []models.Announcement
	err := h.db.
		Where("is_active = ?", true).
		Where("date_start <= ?", now).
		Where(h.db.Where("date_end IS NULL").Or("date_end >= ?", now)).
		Order("date_start DESC").
		Find(&announcements).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, announcements)
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		Title     string     `json:"title" binding:"required"`
		Content   string     `json:"content" binding:"required"`
		DateStart *time.Time `json:"date_start"`
		DateEnd   *time.Time `json:"date_end"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	start := time.Now().UTC()
	if req.DateStart != nil {
		start = *req.DateStart
	}

	announcement := models.Announcement{
		UserID:    user.ID,
		Title:     req.Title,
		Content:   req.Content,
		DateStart: start,
		DateEnd:   req.DateEnd,
		IsActive:  true,
	}
	if err := h.db.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Announcement created successfully",
		"announcement": announcement,
	})
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	var announcement models.Announcement
	if err := h.db.First(&announcement, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	var req struct {
		Title     *string    `json:"title"`
		Content   *string    `json:"content"`
		DateStart *time.Time `json:"date_start"`
		DateEnd   *time.Time `json:"date_end"`
		IsActive  *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Content != nil {
		announcement.Content = *req.Content
	}
	if req.DateStart != nil {
		announcement.DateStart = *req.DateStart
	}
	if req.DateEnd != nil {
		announcement.DateEnd = req.DateEnd
	}
	if req.IsActive != nil {
		announcement.IsActive = *req.IsActive
	}

	if err := h.db.Save(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Announcement updated successfully",
		"announcement": announcement,
	})
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	var announcement models.Announcement
	if err := h.db.First(&announcement, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	if err := h.db.Delete(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}
