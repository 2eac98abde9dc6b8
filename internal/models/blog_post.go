package models

import (
	"time"

	"github.com/PGMA10/rrak-website/internal/domain"
)

type BlogPost struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Slug          string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt       string     `gorm:"type:text;not null" json:"excerpt"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	CoverImageURL *string    `gorm:"size:512" json:"coverImageUrl"`
	CoverPublicID *string    `gorm:"size:255" json:"-"`
	Published     bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt   *time.Time `gorm:"index" json:"publishedAt"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (BlogPost) TableName() string { return "blog_posts" }

func (BlogPost) Kind() domain.Entity { return domain.EntityBlogPosts }

func (p BlogPost) Fields() []Field {
	return []Field{
		id(p.ID),
		text("title", p.Title),
		text("slug", p.Slug),
		text("excerpt", p.Excerpt),
		text("content", p.Content),
		optional("coverImageUrl", p.CoverImageURL),
		boolean("published", p.Published),
		optionalTimestamp("publishedAt", p.PublishedAt),
		timestamp("createdAt", p.CreatedAt),
		timestamp("updatedAt", p.UpdatedAt),
	}
}

// PublicBlogPost is the published read shape, with the rendered body.
type PublicBlogPost struct {
	BlogPost
	ContentHTML string `json:"contentHtml"`
}
