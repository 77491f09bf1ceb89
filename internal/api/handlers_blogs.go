// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

const (
	defaultBlogPageSize = 10

	// slugAttempts bounds the numeric suffixes tried when a slug is taken.
	// Past it the slug gets a random suffix instead.
	slugAttempts = 5
)

func (h *Handler) blogViews(ctx context.Context, blogs []models.Blog) ([]models.BlogView, error) {
	ids := make([]string, 0, len(blogs))
	for i := range blogs {
		ids = append(ids, blogs[i].AuthorID)
		ids = append(ids, commentAuthors(blogs[i].Comments)...)
	}
	accounts, err := h.accountSummaries(ctx, ids...)
	if err != nil {
		return nil, err
	}

	views := make([]models.BlogView, 0, len(blogs))
	for i := range blogs {
		views = append(views, models.BlogView{
			Blog:      blogs[i],
			Author:    accounts[blogs[i].AuthorID],
			Comments:  commentViews(blogs[i].Comments, accounts),
			LikeCount: len(blogs[i].Likes),
		})
	}
	return views, nil
}

func (h *Handler) blogView(ctx context.Context, blog *models.Blog) (*models.BlogView, error) {
	views, err := h.blogViews(ctx, []models.Blog{*blog})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func blogSortTime(b *models.Blog) time.Time {
	if b.PublishedAt != nil {
		return *b.PublishedAt
	}
	return b.CreatedAt
}

// ListBlogs returns published posts, newest first.
//
// @Summary List published blog posts
// @Tags Blogs
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category"
// @Param tag query string false "Tag"
// @Param author query string false "Author account ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} APIResponse{data=map[string][]models.BlogView}
// @Router /blogs [get]
func (h *Handler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()
	q := r.URL.Query()

	category, tag, author := q.Get("category"), q.Get("tag"), q.Get("author")
	ref := store.PublishedRef
	if author != "" {
		ref = store.AuthorRef(author)
	}

	blogs, err := h.store.Blogs.FindWhere(ctx, ref, func(b *models.Blog) bool {
		if !b.IsPublished {
			return false
		}
		if category != "" && b.Category != category {
			return false
		}
		if tag != "" && !models.Contains(b.Tags, tag) {
			return false
		}
		return author == "" || b.AuthorID == author
	})
	if err != nil {
		rw.Fail(err)
		return
	}
	store.SortNewestFirst(blogs, blogSortTime, func(b *models.Blog) string { return b.ID })

	offset, limit := listWindow(r, defaultBlogPageSize, h.config.API.MaxPageSize)
	views, err := h.blogViews(ctx, store.Paginate(blogs, offset, limit))
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.SuccessWithPagination(map[string]interface{}{"blogs": views},
		NewPagination(len(blogs), len(views), offset, limit))
}

// GetBlog returns a post by slug and counts the view. Drafts are visible
// to their author only.
//
// @Summary Get a blog post by slug
// @Tags Blogs
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Post slug"
// @Success 200 {object} APIResponse{data=map[string]models.BlogView}
// @Failure 404 {object} APIResponse "Blog not found"
// @Router /blogs/{slug} [get]
func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	// The path segment shares the {id} parameter with PUT and DELETE.
	blog, err := h.store.Blogs.GetByUnique(ctx, store.SlugKey(chi.URLParam(r, "id")))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Blog not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}
	if !hctx.Can(blog, authz.ActionView) {
		rw.NotFound("Blog not found")
		return
	}

	updated, err := h.store.Blogs.Update(ctx, blog.ID, func(b *models.Blog) error {
		b.Views++
		return nil
	})
	if err != nil {
		rw.Fail(err)
		return
	}

	view, err := h.blogView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"blog": view})
}

// CreateBlog publishes a post, or saves a draft when isPublished is false.
//
// @Summary Create a blog post
// @Tags Blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BlogCreateRequest true "Post"
// @Success 201 {object} APIResponse{data=map[string]models.BlogView}
// @Failure 400 {object} APIResponse
// @Router /blogs [post]
func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req BlogCreateRequest
	if !bind(rw, r, &req) {
		return
	}

	now := h.clock()
	category := req.Category
	if category == "" {
		category = models.DefaultBlogCategory
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	blog := &models.Blog{
		ID:          uuid.NewString(),
		AuthorID:    hctx.AccountID,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CoverImage:  req.CoverImage,
		Tags:        tags,
		Category:    category,
		Likes:       []string{},
		Comments:    []models.Comment{},
		IsPublished: req.IsPublished == nil || *req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if blog.IsPublished {
		published := now
		blog.PublishedAt = &published
	}

	base := models.Slugify(blog.Title)
	var err error
	for attempt := 1; attempt <= slugAttempts+2; attempt++ {
		switch {
		case attempt == 1:
			blog.Slug = base
		case attempt <= slugAttempts:
			blog.Slug = fmt.Sprintf("%s-%d", base, attempt)
		default:
			blog.Slug = base + "-" + uuid.NewString()[:8]
		}
		err = h.store.Blogs.Insert(ctx, blog)
		if !errors.Is(err, store.ErrDuplicate) {
			break
		}
	}
	if errors.Is(err, store.ErrDuplicate) {
		rw.Duplicate("A blog with this title already exists")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	view, err := h.blogView(ctx, blog)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(map[string]interface{}{"blog": view})
}

func (h *Handler) loadBlog(rw *ResponseWriter, r *http.Request, action authz.Action) *models.Blog {
	blog, err := h.store.Blogs.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Blog not found")
		return nil
	}
	if err != nil {
		rw.Fail(err)
		return nil
	}
	if err := h.context(r).Authorize(blog, action); err != nil {
		if isForbidden(err) {
			rw.Forbidden(fmt.Sprintf("Not authorized to %s this blog", action))
			return nil
		}
		rw.Fail(err)
		return nil
	}
	return blog
}

// UpdateBlog applies a partial update. The slug is kept.
//
// @Summary Update a blog post
// @Tags Blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body models.BlogUpdate true "Fields to change"
// @Success 200 {object} APIResponse{data=map[string]models.BlogView}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /blogs/{id} [put]
func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	var req models.BlogUpdate
	if !bind(rw, r, &req) {
		return
	}
	blog := h.loadBlog(rw, r, authz.ActionUpdate)
	if blog == nil {
		return
	}

	now := h.clock()
	updated, err := h.store.Blogs.Update(ctx, blog.ID, func(b *models.Blog) error {
		req.Apply(b, now)
		return nil
	})
	if err != nil {
		rw.Fail(err)
		return
	}

	view, err := h.blogView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"blog": view})
}

// DeleteBlog deletes a post.
//
// @Summary Delete a blog post
// @Tags Blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /blogs/{id} [delete]
func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	blog := h.loadBlog(rw, r, authz.ActionDelete)
	if blog == nil {
		return
	}
	if err := h.store.Blogs.Delete(r.Context(), blog.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		rw.Fail(err)
		return
	}

	rw.Message("Blog deleted successfully")
}

// LikeBlog toggles the caller's like.
//
// @Summary Like or unlike a blog post
// @Tags Blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} APIResponse{data=LikeResponse}
// @Failure 404 {object} APIResponse
// @Router /blogs/{id}/like [post]
func (h *Handler) LikeBlog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	blog := h.loadBlog(rw, r, authz.ActionLike)
	if blog == nil {
		return
	}

	var liked bool
	updated, err := h.store.Blogs.Update(r.Context(), blog.ID, func(b *models.Blog) error {
		b.Likes, liked = models.ToggleMember(b.Likes, hctx.AccountID)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Blog not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.Success(LikeResponse{Likes: len(updated.Likes), IsLiked: liked})
}

// CommentOnBlog appends a comment.
//
// @Summary Comment on a blog post
// @Tags Blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body CommentRequest true "Comment"
// @Success 200 {object} APIResponse{data=map[string]models.BlogView}
// @Failure 404 {object} APIResponse
// @Router /blogs/{id}/comment [post]
func (h *Handler) CommentOnBlog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req CommentRequest
	if !bind(rw, r, &req) {
		return
	}
	blog := h.loadBlog(rw, r, authz.ActionComment)
	if blog == nil {
		return
	}

	now := h.clock()
	comment := models.Comment{ID: uuid.NewString(), UserID: hctx.AccountID, Content: req.Content, CreatedAt: now}
	updated, err := h.store.Blogs.Update(ctx, blog.ID, func(b *models.Blog) error {
		b.Comments = append(b.Comments, comment)
		b.UpdatedAt = now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Blog not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	view, err := h.blogView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"blog": view})
}
