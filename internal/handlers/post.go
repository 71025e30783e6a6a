package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/BseoY/120EastState3/internal/middleware"
	"github.com/BseoY/120EastState3/internal/models"
	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxMediaPerPost caps attachments per submission; extra files in
// the form are ignored, not rejected.
const maxMediaPerPost = 5

type PostHandler struct {
	db      *gorm.DB
	storage services.Uploader
}

func NewPostHandler(db *gorm.DB, storage services.Uploader) *PostHandler {
	return &PostHandler{db: db, storage: storage}
}

func postJSON(p *models.Post) gin.H {
	author := "Anonymous"
	profilePic := ""
	if p.User != nil {
		author = p.User.Name
		profilePic = p.User.ProfilePic
	}
	var tag any
	if p.Tag != nil {
		tag = p.Tag.Name
	}
	media := p.Media
	if media == nil {
		media = []models.Media{}
	}
	return gin.H{
		"id":           p.ID,
		"title":        p.Title,
		"content":      p.Content,
		"tag":          tag,
		"status":       p.Status,
		"author":       author,
		"profile_pic":  profilePic,
		"media":        media,
		"date_created": p.CreatedAt,
	}
}

// parseID reads the :id path parameter. A malformed id reads the same
// as a missing record to callers.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *PostHandler) loadPost(id uint) (*models.Post, error) {
	var post models.Post
	err := h.db.Preload("Tag").Preload("User").Preload("Media").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func findOrCreateTag(tx *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{Name: name}
		if err := tx.Create(&tag).Error; err != nil {
			return nil, err
		}
		return &tag, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Create accepts a multipart submission with optional media_0..media_4
// files and media_N_caption fields. Uploads run before the database
// transaction; a failed or unsupported file is skipped with a log
// line and the submission carries on with whatever persisted.
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	var attachments []models.Media
	for i := 0; i < maxMediaPerPost; i++ {
		header, err := c.FormFile(fmt.Sprintf("media_%d", i))
		if err != nil {
			continue
		}
		file, err := header.Open()
		if err != nil {
			log.Printf("media_%d open failed: %v", i, err)
			continue
		}
		result, err := h.storage.Upload(c.Request.Context(), file, header.Filename)
		file.Close()
		if err != nil {
			log.Printf("media_%d upload skipped (%s): %v", i, header.Filename, err)
			continue
		}
		attachments = append(attachments, models.Media{
			URL:       result.URL,
			MediaType: result.MediaType,
			PublicID:  result.PublicID,
			Filename:  result.Filename,
			Caption:   c.PostForm(fmt.Sprintf("media_%d_caption", i)),
		})
	}

	post := models.Post{
		Title:   title,
		Content: content,
		UserID:  &user.ID,
		Status:  models.StatusPending,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if tagName := strings.TrimSpace(c.PostForm("tag")); tagName != "" {
			tag, err := findOrCreateTag(tx, tagName)
			if err != nil {
				return err
			}
			post.TagID = &tag.ID
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for i := range attachments {
			attachments[i].PostID = post.ID
		}
		if len(attachments) > 0 {
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	created, err := h.loadPost(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Post added successfully",
		"post":    postJSON(created),
	})
}

// List is the public feed: approved posts only, newest first.
func (h *PostHandler) List(c *gin.Context) {
	var posts []models.Post
	err := h.db.Preload("Tag").Preload("User").Preload("Media").
		Where("status = ?", models.StatusApproved).
		Order("created_at DESC").
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

// Get returns a single post. Approved posts are public; pending and
// denied ones resolve only for admins and the owner, and read as
// absent for everyone else.
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	post, err := h.loadPost(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.Status != models.StatusApproved {
		user := middleware.CurrentUser(c)
		owner := user != nil && post.UserID != nil && *post.UserID == user.ID
		if user == nil || (user.Role != models.RoleAdmin && !owner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
	}
	c.JSON(http.StatusOK, postJSON(post))
}

// ListMine returns the caller's own posts in every status.
func (h *PostHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var posts []models.Post
	err := h.db.Preload("Tag").Preload("User").Preload("Media").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
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

func (h *PostHandler) deletePost(c *gin.Context, post *models.Post) {
	// Stored assets go best-effort; the rows are what must be gone.
	for _, m := range post.Media {
		if err := h.storage.Destroy(c.Request.Context(), m.PublicID, m.MediaType); err != nil {
			log.Printf("asset destroy failed (%s): %v", m.PublicID, err)
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// DeleteOwn lets a user delete their own post regardless of status.
func (h *PostHandler) DeleteOwn(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	post, err := h.loadPost(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.UserID == nil || *post.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}
	h.deletePost(c, post)
}

// AdminDelete removes any post.
func (h *PostHandler) AdminDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	post, err := h.loadPost(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	h.deletePost(c, post)
}

// AdminUpdate is a partial edit of title/content/tag. Status is
// never touched here; that belongs to the moderation transitions.
func (h *PostHandler) AdminUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	post, err := h.loadPost(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Tag     string `json:"tag"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.Title != "" {
			post.Title = req.Title
		}
		if req.Content != "" {
			post.Content = req.Content
		}
		if req.Tag != "" {
			tag, err := findOrCreateTag(tx, req.Tag)
			if err != nil {
				return err
			}
			post.TagID = &tag.ID
			post.Tag = tag
		}
		return tx.Model(&models.Post{ID: post.ID}).Updates(map[string]any{
			"title":   post.Title,
			"content": post.Content,
			"tag_id":  post.TagID,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    postJSON(post),
	})
}
