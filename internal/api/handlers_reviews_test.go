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

type reviewBody struct {
	Review models.ReviewView `json:"review"`
}

func createReview(t *testing.T, srv *testServer, token string, movieID int, title string) *testResponse {
	t.Helper()
	return srv.do(http.MethodPost, "/api/reviews", token, ReviewCreateRequest{
		MovieID:    movieID,
		MovieTitle: title,
		Rating:     5,
		Title:      "Great",
		Content:    "Loved it",
	})
}

func TestCreateReview_OnePerAccountAndMovie(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	first := createReview(t, srv, a.Token, 550, "Fight Club")
	srv.expect(first, http.StatusCreated)

	again := createReview(t, srv, a.Token, 550, "Fight Club")
	srv.expect(again, http.StatusBadRequest)
	if again.errorCode() != ErrCodeDuplicate {
		t.Errorf("code = %q, want %q", again.errorCode(), ErrCodeDuplicate)
	}
	if again.errorMessage() != "You have already reviewed this movie" {
		t.Errorf("message = %q", again.errorMessage())
	}

	other := createReview(t, srv, b.Token, 550, "Fight Club")
	srv.expect(other, http.StatusCreated)

	var created reviewBody
	first.decode(t, &created)
	if created.Review.User == nil || created.Review.User.ID != a.ID {
		t.Errorf("review author = %+v, want %s", created.Review.User, a.ID)
	}
	if !created.Review.IsPublic {
		t.Error("isPublic should default to true")
	}

	list := srv.do(http.MethodGet, "/api/reviews?movieId=550", a.Token, nil)
	srv.expect(list, http.StatusOK)
	var listed struct {
		Reviews []models.ReviewView `json:"reviews"`
	}
	list.decode(t, &listed)
	if len(listed.Reviews) != 2 {
		t.Errorf("listed %d reviews for 550, want 2", len(listed.Reviews))
	}
	if list.Body.Meta == nil || list.Body.Meta.Pagination == nil || list.Body.Meta.Pagination.Total != 2 {
		t.Errorf("pagination = %+v", list.Body.Meta)
	}
}

func TestListReviews_HugePage(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	srv.expect(createReview(t, srv, a.Token, 550, "Fight Club"), http.StatusCreated)

	tests := []string{
		"/api/reviews?page=9223372036854775807&limit=10",
		"/api/reviews?page=4611686018427387904&limit=2",
		"/api/reviews?offset=9223372036854775807&limit=10",
	}
	for _, path := range tests {
		resp := srv.do(http.MethodGet, path, a.Token, nil)
		srv.expect(resp, http.StatusOK)
		var listed struct {
			Reviews []models.ReviewView `json:"reviews"`
		}
		resp.decode(t, &listed)
		if len(listed.Reviews) != 0 {
			t.Errorf("%s: listed %d reviews, want 0", path, len(listed.Reviews))
		}
		if resp.Body.Meta == nil || resp.Body.Meta.Pagination == nil {
			t.Fatalf("%s: missing pagination", path)
		}
		p := resp.Body.Meta.Pagination
		if p.Offset < 0 || p.Page < 1 || p.HasMore || p.Total != 1 {
			t.Errorf("%s: pagination = %+v", path, *p)
		}
	}
}

func TestUpdateReview_OwnerOnlyAndPartial(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	var created reviewBody
	resp := createReview(t, srv, a.Token, 13, "Forrest Gump")
	srv.expect(resp, http.StatusCreated)
	resp.decode(t, &created)
	path := "/api/reviews/" + created.Review.ID

	denied := srv.do(http.MethodPut, path, b.Token, map[string]interface{}{"rating": 1})
	srv.expect(denied, http.StatusForbidden)
	if denied.errorMessage() != "Not authorized to update this review" {
		t.Errorf("message = %q", denied.errorMessage())
	}

	updated := srv.do(http.MethodPut, path, a.Token, map[string]interface{}{"rating": 3})
	srv.expect(updated, http.StatusOK)
	var got reviewBody
	updated.decode(t, &got)
	if got.Review.Rating != 3 {
		t.Errorf("rating = %d, want 3", got.Review.Rating)
	}
	if got.Review.Content != "Loved it" || got.Review.Title != "Great" {
		t.Errorf("unsubmitted fields changed: %+v", got.Review.Review)
	}

	srv.expect(srv.do(http.MethodDelete, path, b.Token, nil), http.StatusForbidden)
	srv.expect(srv.do(http.MethodDelete, path, a.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodGet, path, a.Token, nil), http.StatusNotFound)
}

func TestLikeReview_TogglesBack(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	var created reviewBody
	resp := createReview(t, srv, a.Token, 238, "The Godfather")
	srv.expect(resp, http.StatusCreated)
	resp.decode(t, &created)
	path := "/api/reviews/" + created.Review.ID + "/like"

	var like LikeResponse
	first := srv.do(http.MethodPost, path, b.Token, nil)
	srv.expect(first, http.StatusOK)
	first.decode(t, &like)
	if like.Likes != 1 || !like.IsLiked {
		t.Errorf("after first like = %+v, want 1 liked", like)
	}

	second := srv.do(http.MethodPost, path, b.Token, nil)
	srv.expect(second, http.StatusOK)
	second.decode(t, &like)
	if like.Likes != 0 || like.IsLiked {
		t.Errorf("after second like = %+v, want 0 not liked", like)
	}

	// Only a like by someone else notifies the author.
	notifications, err := srv.store.Notifications.FindWhere(t.Context(), "", func(n *models.Notification) bool {
		return n.UserID == a.ID && n.Type == models.NotificationReviewLiked
	})
	if err != nil {
		t.Fatalf("FindWhere() error = %v", err)
	}
	if len(notifications) == 0 {
		t.Error("review author was not notified of the like")
	}
}

func TestCommentOnReview(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	var created reviewBody
	resp := createReview(t, srv, a.Token, 680, "Pulp Fiction")
	srv.expect(resp, http.StatusCreated)
	resp.decode(t, &created)

	blank := srv.do(http.MethodPost, "/api/reviews/"+created.Review.ID+"/comment", b.Token, CommentRequest{Content: "  "})
	srv.expect(blank, http.StatusBadRequest)

	ok := srv.do(http.MethodPost, "/api/reviews/"+created.Review.ID+"/comment", b.Token, CommentRequest{Content: "Agreed"})
	srv.expect(ok, http.StatusOK)
	var got reviewBody
	ok.decode(t, &got)
	if len(got.Review.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(got.Review.Comments))
	}
	c := got.Review.Comments[0]
	if c.Content != "Agreed" || c.User == nil || c.User.ID != b.ID {
		t.Errorf("comment = %+v", c)
	}
}

func TestCommentOnReview_LengthLimit(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	var created reviewBody
	resp := createReview(t, srv, a.Token, 680, "Pulp Fiction")
	srv.expect(resp, http.StatusCreated)
	resp.decode(t, &created)
	path := "/api/reviews/" + created.Review.ID + "/comment"

	tests := []struct {
		name       string
		length     int
		wantStatus int
	}{
		{"at limit", 1000, http.StatusOK},
		{"one over", 1001, http.StatusBadRequest},
		{"far over", 1500, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := srv.do(http.MethodPost, path, b.Token, CommentRequest{Content: strings.Repeat("a", tt.length)})
		if resp.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.Code, tt.wantStatus)
			continue
		}
		if tt.wantStatus == http.StatusBadRequest && resp.errorCode() != ErrCodeValidation {
			t.Errorf("%s: code = %q, want %q", tt.name, resp.errorCode(), ErrCodeValidation)
		}
	}

	var got reviewBody
	srv.do(http.MethodGet, "/api/reviews/"+created.Review.ID, b.Token, nil).decode(t, &got)
	if len(got.Review.Comments) != 1 {
		t.Errorf("comments = %d, want 1", len(got.Review.Comments))
	}
}

func TestGetReview_PrivateHiddenFromOthers(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	private := false
	resp := srv.do(http.MethodPost, "/api/reviews", a.Token, ReviewCreateRequest{
		MovieID: 129, MovieTitle: "Spirited Away", Rating: 4, Content: "Just for me", IsPublic: &private,
	})
	srv.expect(resp, http.StatusCreated)
	var created reviewBody
	resp.decode(t, &created)

	srv.expect(srv.do(http.MethodGet, "/api/reviews/"+created.Review.ID, a.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodGet, "/api/reviews/"+created.Review.ID, b.Token, nil), http.StatusForbidden)

	list := srv.do(http.MethodGet, "/api/reviews?movieId=129", b.Token, nil)
	srv.expect(list, http.StatusOK)
	var listed struct {
		Reviews []models.ReviewView `json:"reviews"`
	}
	list.decode(t, &listed)
	if len(listed.Reviews) != 0 {
		t.Errorf("private review listed: %+v", listed.Reviews)
	}
}
