package models

import "time"

// Role values assigned to users. Admins are derived from the
// configured email allowlist at login time.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Post moderation states. Every submission starts out pending and
// only an admin moves it from there.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// Media kinds, derived from the uploaded file's extension.
const (
	MediaImage    = "image"
	MediaVideo    = "video"
	MediaAudio    = "audio"
	MediaDocument = "document"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GoogleID   string    `gorm:"size:120;uniqueIndex;not null" json:"-"`
	Email      string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	ProfilePic string    `gorm:"size:500" json:"profile_pic"`
	Role       string    `gorm:"size:50;default:user" json:"role"`
	CreatedAt  time.Time `json:"date_created"`
}

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	TagID     *uint     `json:"tag_id"`
	Tag       *Tag      `gorm:"foreignKey:TagID" json:"tag,omitempty"`
	UserID    *uint     `json:"user_id"` // nullable for legacy rows
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    string    `gorm:"size:20;default:pending" json:"status"`
	Media     []Media   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"media"`
	CreatedAt time.Time `json:"date_created"`
}

type Media struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	URL        string    `gorm:"size:500;not null" json:"url"`
	MediaType  string    `gorm:"size:50;not null" json:"media_type"`
	PublicID   string    `gorm:"size:200" json:"public_id"`
	Filename   string    `gorm:"size:200" json:"filename"`
	Caption    string    `gorm:"size:100" json:"caption"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

type Tag struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	ImageURL     string    `gorm:"size:500" json:"image_url"`
	CreatedAt    time.Time `json:"date_created"`
	UpdatedAt    time.Time `json:"date_updated"`
}

type Announcement struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title     string     `gorm:"size:100;not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time  `json:"date_created"`
	DateStart time.Time  `gorm:"not null" json:"date_start"`
	DateEnd   *time.Time `json:"date_end"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
}
