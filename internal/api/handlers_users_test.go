// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/cinescope/internal/models"
)

type userBody struct {
	User models.AccountProfile `json:"user"`
}

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func uploadPhoto(t *testing.T, srv *testServer, token, filename string, content []byte) *testResponse {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/users/profile/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return srv.serve(req)
}

func TestProfile_StatsAndUpdate(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	b := srv.register("Account B", "b@example.com")

	srv.expect(createReview(t, srv, a.Token, 550, "Fight Club"), http.StatusCreated)
	srv.expect(srv.do(http.MethodPost, "/api/users/watch-history", a.Token,
		WatchHistoryRequest{MovieID: 550, MovieTitle: "Fight Club"}), http.StatusOK)
	resp := sendFriendRequest(t, srv, a, b.ID)
	var sent friendRequestBody
	resp.decode(t, &sent)
	srv.expect(srv.do(http.MethodPut, "/api/social/friends/accept/"+sent.FriendRequest.ID, b.Token, nil), http.StatusOK)

	profile := srv.do(http.MethodGet, "/api/users/profile", a.Token, nil)
	srv.expect(profile, http.StatusOK)
	var got ProfileResponse
	profile.decode(t, &got)
	want := ProfileStats{MoviesWatched: 1, ReviewsWritten: 1, Friends: 1}
	if got.Stats != want {
		t.Errorf("stats = %+v, want %+v", got.Stats, want)
	}
	if got.User.Email != "a@example.com" {
		t.Errorf("own profile email = %q", got.User.Email)
	}

	updated := srv.do(http.MethodPut, "/api/users/profile", a.Token, map[string]interface{}{
		"bio":            "Film nerd",
		"favoriteGenres": []string{"Drama"},
	})
	srv.expect(updated, http.StatusOK)
	var body userBody
	updated.decode(t, &body)
	if body.User.Bio != "Film nerd" || body.User.FullName != "Account A" {
		t.Errorf("update = %+v", body.User)
	}

	taken := srv.do(http.MethodPut, "/api/users/profile", a.Token, map[string]string{"email": "b@example.com"})
	srv.expect(taken, http.StatusBadRequest)
	if taken.errorCode() != ErrCodeDuplicate {
		t.Errorf("code = %q, want %q", taken.errorCode(), ErrCodeDuplicate)
	}
}

func TestGetUser_Privacy(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("Owner", "owner@example.com")
	friend := srv.register("Friend", "friend@example.com")
	stranger := srv.register("Stranger", "stranger@example.com")

	resp := sendFriendRequest(t, srv, owner, friend.ID)
	var sent friendRequestBody
	resp.decode(t, &sent)
	srv.expect(srv.do(http.MethodPut, "/api/social/friends/accept/"+sent.FriendRequest.ID, friend.Token, nil), http.StatusOK)

	srv.expect(srv.do(http.MethodPost, "/api/users/rating", owner.Token, RatingRequest{MovieID: 13, Rating: 4}), http.StatusOK)

	path := "/api/users/" + owner.ID
	setPrivacy := func(privacy map[string]interface{}) {
		t.Helper()
		srv.expect(srv.do(http.MethodPut, "/api/users/profile", owner.Token, map[string]interface{}{"privacy": privacy}), http.StatusOK)
	}

	public := srv.do(http.MethodGet, path, stranger.Token, nil)
	srv.expect(public, http.StatusOK)
	var body userBody
	public.decode(t, &body)
	if body.User.Email != "" {
		t.Error("public profile exposes the email")
	}
	if len(body.User.Ratings) != 1 {
		t.Errorf("ratings = %+v, want visible", body.User.Ratings)
	}

	setPrivacy(map[string]interface{}{"showRatings": false})
	hidden := srv.do(http.MethodGet, path, stranger.Token, nil)
	body = userBody{}
	hidden.decode(t, &body)
	if len(body.User.Ratings) != 0 {
		t.Errorf("ratings shown despite showRatings=false: %+v", body.User.Ratings)
	}

	setPrivacy(map[string]interface{}{"profileVisibility": models.VisibilityFriends})
	srv.expect(srv.do(http.MethodGet, path, stranger.Token, nil), http.StatusForbidden)
	srv.expect(srv.do(http.MethodGet, path, friend.Token, nil), http.StatusOK)

	setPrivacy(map[string]interface{}{"profileVisibility": models.VisibilityPrivate})
	srv.expect(srv.do(http.MethodGet, path, friend.Token, nil), http.StatusForbidden)
	srv.expect(srv.do(http.MethodGet, path, owner.Token, nil), http.StatusOK)

	srv.expect(srv.do(http.MethodGet, "/api/users/nobody", owner.Token, nil), http.StatusNotFound)
}

func TestWatchHistoryAndRating_Upsert(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	half := 50
	srv.expect(srv.do(http.MethodPost, "/api/users/watch-history", a.Token,
		WatchHistoryRequest{MovieID: 680, MovieTitle: "Pulp Fiction", Progress: &half}), http.StatusOK)
	resp := srv.do(http.MethodPost, "/api/users/watch-history", a.Token,
		WatchHistoryRequest{MovieID: 680, MovieTitle: "Pulp Fiction"})
	srv.expect(resp, http.StatusOK)
	var history struct {
		WatchHistory []models.WatchEntry `json:"watchHistory"`
	}
	resp.decode(t, &history)
	if len(history.WatchHistory) != 1 || history.WatchHistory[0].Progress != 100 {
		t.Errorf("history = %+v, want one finished entry", history.WatchHistory)
	}

	for _, rating := range []int{2, 5} {
		srv.expect(srv.do(http.MethodPost, "/api/users/rating", a.Token, RatingRequest{MovieID: 680, Rating: rating}), http.StatusOK)
	}
	resp = srv.do(http.MethodPost, "/api/users/rating", a.Token, RatingRequest{MovieID: 680, Rating: 6})
	srv.expect(resp, http.StatusBadRequest)

	profile := srv.do(http.MethodGet, "/api/users/profile", a.Token, nil)
	var got ProfileResponse
	profile.decode(t, &got)
	if len(got.User.Ratings) != 1 || got.User.Ratings[0].Rating != 5 {
		t.Errorf("ratings = %+v, want a single 5", got.User.Ratings)
	}
}

func TestUploadPhoto(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	tests := []struct {
		name     string
		filename string
		content  []byte
		wantMsg  string
	}{
		{"wrong extension", "avatar.txt", pngHeader, "Only image files are allowed"},
		{"content is not an image", "avatar.png", []byte("just some text, not an image"), "Only image files are allowed"},
		{"too large", "avatar.png", append(append([]byte{}, pngHeader...), make([]byte, 2<<20)...), "File too large"},
	}
	for _, tt := range tests {
		resp := uploadPhoto(t, srv, a.Token, tt.filename, tt.content)
		if resp.Code != http.StatusBadRequest || resp.errorMessage() != tt.wantMsg {
			t.Errorf("%s: %d %q, want 400 %q", tt.name, resp.Code, resp.errorMessage(), tt.wantMsg)
		}
	}

	resp := uploadPhoto(t, srv, a.Token, "avatar.png", pngHeader)
	srv.expect(resp, http.StatusOK)
	var body userBody
	resp.decode(t, &body)
	if !strings.HasPrefix(body.User.Photo, "/uploads/profiles/profile-"+a.ID) {
		t.Fatalf("photo = %q", body.User.Photo)
	}

	served := httptest.NewRecorder()
	srv.handler.ServeHTTP(served, httptest.NewRequest(http.MethodGet, body.User.Photo, nil))
	if served.Code != http.StatusOK || !bytes.Equal(served.Body.Bytes(), pngHeader) {
		t.Errorf("serving %s: status %d, %d bytes", body.User.Photo, served.Code, served.Body.Len())
	}
}
