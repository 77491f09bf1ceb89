// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/cinescope/internal/models"
)

type blogBody struct {
	Blog models.BlogView `json:"blog"`
}

func createBlog(t *testing.T, srv *testServer, token, title string, published bool) models.BlogView {
	t.Helper()
	resp := srv.do(http.MethodPost, "/api/blogs", token, BlogCreateRequest{
		Title:       title,
		Content:     "Some thoughts on cinema.",
		Tags:        []string{"classics"},
		IsPublished: &published,
	})
	srv.expect(resp, http.StatusCreated)
	var body blogBody
	resp.decode(t, &body)
	return body.Blog
}

func TestCreateBlog_SlugAndSuffix(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	first := createBlog(t, srv, a.Token, "Why Fight Club Still Matters!", true)
	if first.Slug != "why-fight-club-still-matters" {
		t.Errorf("slug = %q", first.Slug)
	}
	if first.Category != models.DefaultBlogCategory {
		t.Errorf("category = %q, want %q", first.Category, models.DefaultBlogCategory)
	}
	if first.PublishedAt == nil {
		t.Error("published post has no publishedAt")
	}
	if first.Author == nil || first.Author.ID != a.ID {
		t.Errorf("author = %+v", first.Author)
	}

	second := createBlog(t, srv, a.Token, "Why Fight Club still matters", true)
	if second.Slug != "why-fight-club-still-matters-2" {
		t.Errorf("colliding slug = %q", second.Slug)
	}

	// Renaming keeps the slug.
	resp := srv.do(http.MethodPut, "/api/blogs/"+first.ID, a.Token, map[string]string{"title": "A New Title"})
	srv.expect(resp, http.StatusOK)
	var updated blogBody
	resp.decode(t, &updated)
	if updated.Blog.Slug != first.Slug || updated.Blog.Title != "A New Title" {
		t.Errorf("after rename slug=%q title=%q", updated.Blog.Slug, updated.Blog.Title)
	}
}

func TestCreateBlog_ManyCollidingTitles(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	tests := []struct {
		title string
		base  string
	}{
		{"Same Title", "same-title"},
		{"Кино и жизнь", "post"},
	}
	for _, tt := range tests {
		seen := make(map[string]bool)
		for i := 0; i < 8; i++ {
			blog := createBlog(t, srv, a.Token, tt.title, true)
			if !strings.HasPrefix(blog.Slug, tt.base) {
				t.Errorf("%q post %d: slug = %q, want prefix %q", tt.title, i+1, blog.Slug, tt.base)
			}
			if seen[blog.Slug] {
				t.Errorf("%q post %d: slug %q reused", tt.title, i+1, blog.Slug)
			}
			seen[blog.Slug] = true
		}
	}

	resp := srv.do(http.MethodGet, "/api/blogs?limit=50", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	if resp.Body.Meta == nil || resp.Body.Meta.Pagination == nil || resp.Body.Meta.Pagination.Total != 16 {
		t.Errorf("pagination = %+v", resp.Body.Meta)
	}
}

func TestGetBlog_CountsViewsAndHidesDrafts(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	post := createBlog(t, srv, a.Token, "Top Ten Heist Films", true)
	draft := createBlog(t, srv, a.Token, "Unfinished Thoughts", false)

	var got blogBody
	for want := int64(1); want <= 2; want++ {
		resp := srv.do(http.MethodGet, "/api/blogs/"+post.Slug, b.Token, nil)
		srv.expect(resp, http.StatusOK)
		resp.decode(t, &got)
		if got.Blog.Views != want {
			t.Errorf("views = %d, want %d", got.Blog.Views, want)
		}
	}

	srv.expect(srv.do(http.MethodGet, "/api/blogs/"+draft.Slug, b.Token, nil), http.StatusNotFound)
	srv.expect(srv.do(http.MethodGet, "/api/blogs/"+draft.Slug, a.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodGet, "/api/blogs/no-such-post", a.Token, nil), http.StatusNotFound)

	list := srv.do(http.MethodGet, "/api/blogs", b.Token, nil)
	srv.expect(list, http.StatusOK)
	var listed struct {
		Blogs []models.BlogView `json:"blogs"`
	}
	list.decode(t, &listed)
	if len(listed.Blogs) != 1 || listed.Blogs[0].ID != post.ID {
		t.Errorf("listed = %+v, want only the published post", listed.Blogs)
	}
}

func TestListBlogs_Filters(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	createBlog(t, srv, a.Token, "Post by A", true)
	published := true
	srv.expect(srv.do(http.MethodPost, "/api/blogs", b.Token, BlogCreateRequest{
		Title: "News from B", Content: "Box office.", Category: "News", Tags: []string{"boxoffice"}, IsPublished: &published,
	}), http.StatusCreated)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?author=" + a.ID, 1},
		{"?category=News", 1},
		{"?tag=classics", 1},
		{"?tag=missing", 0},
		{"?limit=1", 1},
	}
	for _, tt := range tests {
		resp := srv.do(http.MethodGet, "/api/blogs"+tt.query, a.Token, nil)
		srv.expect(resp, http.StatusOK)
		var listed struct {
			Blogs []models.BlogView `json:"blogs"`
		}
		resp.decode(t, &listed)
		if len(listed.Blogs) != tt.want {
			t.Errorf("%q: got %d blogs, want %d", tt.query, len(listed.Blogs), tt.want)
		}
	}
}

func TestBlog_AuthorOnlyMutations(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	post := createBlog(t, srv, a.Token, "Mine", true)
	path := "/api/blogs/" + post.ID

	srv.expect(srv.do(http.MethodPut, path, b.Token, map[string]string{"title": "Theirs"}), http.StatusForbidden)
	srv.expect(srv.do(http.MethodDelete, path, b.Token, nil), http.StatusForbidden)

	var like LikeResponse
	resp := srv.do(http.MethodPost, path+"/like", b.Token, nil)
	srv.expect(resp, http.StatusOK)
	resp.decode(t, &like)
	if like.Likes != 1 || !like.IsLiked {
		t.Errorf("like = %+v", like)
	}

	comment := srv.do(http.MethodPost, path+"/comment", b.Token, CommentRequest{Content: "Nice read"})
	srv.expect(comment, http.StatusOK)
	var got blogBody
	comment.decode(t, &got)
	if len(got.Blog.Comments) != 1 || got.Blog.LikeCount != 1 {
		t.Errorf("comments=%d likes=%d", len(got.Blog.Comments), got.Blog.LikeCount)
	}

	srv.expect(srv.do(http.MethodDelete, path, a.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodDelete, path, a.Token, nil), http.StatusNotFound)
}
