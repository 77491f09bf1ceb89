// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package models

import (
	"regexp"
	"strings"
	"time"
)

// BlogCategories lists the accepted blog categories.
var BlogCategories = []string{"Reviews", "Trends", "News", "Analysis", "Interviews", "Other"}

// DefaultBlogCategory is used when a post names none.
const DefaultBlogCategory = "Other"

// Blog is a long-form post addressed by its unique slug.
type Blog struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"authorId"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Tags        []string   `json:"tags"`
	Category    string     `json:"category"`
	Views       int64      `json:"views"`
	Likes       []string   `json:"likes"`
	Comments    []Comment  `json:"comments"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BlogView is a Blog with accounts resolved for display.
type BlogView struct {
	Blog
	Author    *AccountSummary `json:"author,omitempty"`
	Comments  []CommentView   `json:"comments"`
	LikeCount int             `json:"likeCount"`
}

// BlogUpdate is a partial blog update. The slug never changes after
// creation so links stay valid.
type BlogUpdate struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Content     *string   `json:"content,omitempty" validate:"omitempty,notblank"`
	Excerpt     *string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	CoverImage  *string   `json:"coverImage,omitempty" validate:"omitempty,max=2048"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,oneof=Reviews Trends News Analysis Interviews Other"`
	IsPublished *bool     `json:"isPublished,omitempty"`
}

// Apply copies the non-nil fields of u onto b. Publishing a draft for the
// first time stamps PublishedAt.
func (u *BlogUpdate) Apply(b *Blog, now time.Time) {
	if u.Title != nil {
		b.Title = strings.TrimSpace(*u.Title)
	}
	if u.Content != nil {
		b.Content = *u.Content
	}
	if u.Excerpt != nil {
		b.Excerpt = *u.Excerpt
	}
	if u.CoverImage != nil {
		b.CoverImage = *u.CoverImage
	}
	if u.Tags != nil {
		b.Tags = append([]string(nil), (*u.Tags)...)
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	if u.IsPublished != nil {
		b.IsPublished = *u.IsPublished
		if b.IsPublished && b.PublishedAt == nil {
			t := now
			b.PublishedAt = &t
		}
	}
	b.UpdatedAt = now
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title: lowercase, runs of other
// characters collapsed to one hyphen, no leading or trailing hyphen.
func Slugify(title string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "post"
	}
	return s
}
