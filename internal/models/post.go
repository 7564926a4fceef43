package models

import (
	"fmt"
	"time"
)

// Post represents a blog post. UserID is set at creation and never changes;
// only Title and Content are mutable, and only by the author.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Language  string    `gorm:"size:8;not null" json:"language"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String returns a human-readable debug representation.
func (p Post) String() string {
	return fmt.Sprintf("Post(%q, %s)", p.Title, p.CreatedAt.Format(time.RFC3339))
}

// PostPage is a single page of a newest-first post listing.
type PostPage struct {
	Items      []*Post `json:"items"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// TranslatedPost is an ad-hoc machine translation of one post, rendered at
// most once on the next view of that post.
type TranslatedPost struct {
	PostID  uint   `json:"post_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Target  string `json:"target"`
}
