// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/cinescope/internal/models"
)

type sharedWatchlistBody struct {
	SharedWatchlist models.SharedWatchlistView `json:"sharedWatchlist"`
}

func shareWatchlist(t *testing.T, srv *testServer, owner testAccount, public bool, members ...string) models.SharedWatchlistView {
	t.Helper()
	resp := srv.do(http.MethodPost, "/api/social/watchlist/share", owner.Token, SharedWatchlistCreateRequest{
		Name:     "Movie Night",
		Members:  members,
		IsPublic: public,
	})
	srv.expect(resp, http.StatusCreated)
	var body sharedWatchlistBody
	resp.decode(t, &body)
	return body.SharedWatchlist
}

func addSharedMovie(srv *testServer, caller testAccount, listID string, movieID int) *testResponse {
	return srv.do(http.MethodPost, "/api/social/watchlist/shared/"+listID+"/movies", caller.Token, SharedMovieRequest{
		MovieID:    movieID,
		MovieTitle: "Fight Club",
	})
}

func TestShareWatchlist_MembersAndNotifications(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("Owner", "owner@example.com")
	viewer := srv.register("Viewer", "viewer@example.com")

	list := shareWatchlist(t, srv, owner, false, viewer.ID, owner.ID, viewer.ID)

	if len(list.Members) != 2 {
		t.Fatalf("members = %+v, want owner and viewer", list.Members)
	}
	roles := map[string]string{}
	for _, m := range list.Members {
		roles[m.UserID] = m.Role
		if m.User == nil {
			t.Errorf("member %s not resolved", m.UserID)
		}
	}
	if roles[owner.ID] != models.RoleOwner || roles[viewer.ID] != models.RoleViewer {
		t.Errorf("roles = %v", roles)
	}
	if list.Owner == nil || list.Owner.ID != owner.ID {
		t.Errorf("owner = %+v", list.Owner)
	}

	resp := srv.do(http.MethodGet, "/api/social/notifications", viewer.Token, nil)
	srv.expect(resp, http.StatusOK)
	var body NotificationsResponse
	resp.decode(t, &body)
	if len(body.Notifications) != 1 || body.Notifications[0].Type != models.NotificationWatchlistShared {
		t.Errorf("viewer notifications = %+v", body.Notifications)
	}
}

func TestSharedWatchlist_AddMoviePermissions(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("Owner", "owner@example.com")
	viewer := srv.register("Viewer", "viewer@example.com")
	stranger := srv.register("Stranger", "stranger@example.com")

	private := shareWatchlist(t, srv, owner, false, viewer.ID)
	public := shareWatchlist(t, srv, owner, true)

	tests := []struct {
		name   string
		caller testAccount
		listID string
		want   int
	}{
		{"stranger on private list", stranger, private.ID, http.StatusForbidden},
		{"viewer on private list", viewer, private.ID, http.StatusCreated},
		{"stranger on public list", stranger, public.ID, http.StatusCreated},
		{"owner duplicate on public list", owner, public.ID, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := addSharedMovie(srv, tt.caller, tt.listID, 550)
		if resp.Code != tt.want {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, resp.Code, tt.want, resp.errorMessage())
		}
	}

	detail := srv.do(http.MethodGet, "/api/social/watchlist/shared/"+public.ID, stranger.Token, nil)
	srv.expect(detail, http.StatusOK)
	var body sharedWatchlistBody
	detail.decode(t, &body)
	if body.SharedWatchlist.MovieCount != 1 {
		t.Fatalf("movieCount = %d, want 1", body.SharedWatchlist.MovieCount)
	}
	movie := body.SharedWatchlist.Movies[0]
	if movie.AddedBy != stranger.ID || movie.AddedByUser == nil {
		t.Errorf("attribution = %+v", movie)
	}
	if movie.MoviePoster == "" {
		t.Error("catalog snapshot not stored")
	}

	hidden := srv.do(http.MethodGet, "/api/social/watchlist/shared/"+private.ID, stranger.Token, nil)
	srv.expect(hidden, http.StatusForbidden)
}

func TestSharedWatchlist_RemoveMovieNeedsEditor(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("Owner", "owner@example.com")
	viewer := srv.register("Viewer", "viewer@example.com")
	editor := srv.register("Editor", "editor@example.com")

	list := shareWatchlist(t, srv, owner, false, viewer.ID)
	srv.expect(srv.do(http.MethodPost, "/api/social/watchlist/shared/"+list.ID+"/members", owner.Token,
		MemberRequest{UserID: editor.ID, Role: models.RoleEditor}), http.StatusOK)
	srv.expect(addSharedMovie(srv, viewer, list.ID, 550), http.StatusCreated)

	path := "/api/social/watchlist/shared/" + list.ID + "/movies/550"
	denied := srv.do(http.MethodDelete, path, viewer.Token, nil)
	srv.expect(denied, http.StatusForbidden)
	if denied.errorMessage() != "Not authorized to remove movies from this watchlist" {
		t.Errorf("message = %q", denied.errorMessage())
	}

	srv.expect(srv.do(http.MethodDelete, path, editor.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodDelete, path, editor.Token, nil), http.StatusNotFound)
}

func TestSharedWatchlist_Membership(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("Owner", "owner@example.com")
	viewer := srv.register("Viewer", "viewer@example.com")
	other := srv.register("Other", "other@example.com")

	list := shareWatchlist(t, srv, owner, false, viewer.ID, other.ID)
	base := "/api/social/watchlist/shared/" + list.ID

	// Only the owner manages members or edits the list.
	srv.expect(srv.do(http.MethodPost, base+"/members", viewer.Token, MemberRequest{UserID: other.ID}), http.StatusForbidden)
	srv.expect(srv.do(http.MethodDelete, base+"/members/"+other.ID, viewer.Token, nil), http.StatusForbidden)
	srv.expect(srv.do(http.MethodPut, base, viewer.Token, map[string]interface{}{"name": "Mine now"}), http.StatusForbidden)

	// Members may leave; the owner may not.
	srv.expect(srv.do(http.MethodDelete, base+"/members/"+viewer.ID, viewer.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodGet, base, viewer.Token, nil), http.StatusForbidden)
	srv.expect(srv.do(http.MethodDelete, base+"/members/"+owner.ID, owner.Token, nil), http.StatusBadRequest)

	srv.expect(srv.do(http.MethodDelete, base+"/members/"+other.ID, owner.Token, nil), http.StatusOK)

	renamed := srv.do(http.MethodPut, base, owner.Token, map[string]interface{}{"name": "Renamed", "isPublic": true})
	srv.expect(renamed, http.StatusOK)
	var body sharedWatchlistBody
	renamed.decode(t, &body)
	if body.SharedWatchlist.Name != "Renamed" || !body.SharedWatchlist.IsPublic {
		t.Errorf("update = %+v", body.SharedWatchlist.SharedWatchlist)
	}

	// Public now, so the former viewer can see it again.
	srv.expect(srv.do(http.MethodGet, base, viewer.Token, nil), http.StatusOK)

	srv.expect(srv.do(http.MethodDelete, base, viewer.Token, nil), http.StatusForbidden)
	srv.expect(srv.do(http.MethodDelete, base, owner.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodGet, base, owner.Token, nil), http.StatusNotFound)
}

func TestGetSharedWatchlists_MemberAndPublic(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("Owner", "owner@example.com")
	viewer := srv.register("Viewer", "viewer@example.com")
	stranger := srv.register("Stranger", "stranger@example.com")

	shareWatchlist(t, srv, owner, false, viewer.ID)
	shareWatchlist(t, srv, owner, true, viewer.ID)
	shareWatchlist(t, srv, owner, false)

	tests := []struct {
		caller testAccount
		want   int
	}{
		{owner, 3},
		{viewer, 2},
		{stranger, 1},
	}
	for _, tt := range tests {
		resp := srv.do(http.MethodGet, "/api/social/watchlist/shared", tt.caller.Token, nil)
		srv.expect(resp, http.StatusOK)
		var body struct {
			SharedWatchlists []models.SharedWatchlistView `json:"sharedWatchlists"`
		}
		resp.decode(t, &body)
		if len(body.SharedWatchlists) != tt.want {
			t.Errorf("%s sees %d lists, want %d", tt.caller.FullName, len(body.SharedWatchlists), tt.want)
		}
	}
}
