// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package authz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/casbin/casbin/v2"

	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/metrics"
	"github.com/tomtom215/cinescope/internal/models"
)

// ErrForbidden is returned when the caller's role does not grant the action.
var ErrForbidden = errors.New("authz: forbidden")

// Action is something a caller wants to do to a resource.
type Action string

const (
	ActionView          Action = "view"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionLike          Action = "like"
	ActionComment       Action = "comment"
	ActionAddMovie      Action = "add_movie"
	ActionRemoveMovie   Action = "remove_movie"
	ActionManageMembers Action = "manage_members"
	ActionLeave         Action = "leave"
	ActionRespond       Action = "respond"
)

// Resource types as they appear in the policy.
const (
	ResourceSharedWatchlist = "shared_watchlist"
	ResourceReview          = "review"
	ResourceBlog            = "blog"
	ResourceWatchlistItem   = "watchlist_item"
	ResourceNotification    = "notification"
	ResourceFriendRequest   = "friend_request"
	ResourceProfile         = "profile"
)

// Derived roles.
const (
	RoleOwner     = models.RoleOwner
	RoleEditor    = models.RoleEditor
	RoleViewer    = models.RoleViewer
	RolePublic    = "public"
	RoleRecipient = "recipient"
	RoleRequester = "requester"
	RoleNone      = "none"
)

// Profile is an account as seen by another account. Friend reports
// whether the two have an accepted friendship.
type Profile struct {
	Account *models.Account
	Friend  bool
}

// Authorizer evaluates the policy.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
}

// New builds an Authorizer whose decisions are cached for cacheTTL.
func New(cacheTTL time.Duration) (*Authorizer, error) {
	enforcer, err := newEnforcer()
	if err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: enforcer, cache: newDecisionCache(cacheTTL)}, nil
}

// Serve evicts expired cached decisions until ctx is done. It satisfies
// suture.Service.
func (a *Authorizer) Serve(ctx context.Context) error {
	return a.cache.Serve(ctx)
}

func (a *Authorizer) String() string { return a.cache.String() }

// Authorize returns nil if callerID may perform action on resource and
// ErrForbidden otherwise. resource is one of the record types handled by
// Role.
func (a *Authorizer) Authorize(ctx context.Context, callerID string, resource any, action Action) error {
	kind, role := Role(callerID, resource)
	if kind == "" {
		return fmt.Errorf("authz: unsupported resource %T", resource)
	}

	allowed, err := a.Allowed(role, kind, action)
	if err != nil {
		return err
	}
	if !allowed {
		logging.Ctx(ctx).Debug().
			Str("role", role).
			Str("resource", kind).
			Str("action", string(action)).
			Msg("Authorization denied")
		return fmt.Errorf("%w: %s may not %s %s", ErrForbidden, role, action, kind)
	}
	return nil
}

// Allowed checks one (role, resource, action) triple against the policy.
func (a *Authorizer) Allowed(role, resource string, action Action) (bool, error) {
	if allowed, ok := a.cache.get(role, resource, string(action)); ok {
		metrics.AuthzCacheHits.Inc()
		metrics.RecordAuthzDecision(resource, string(action), allowed)
		return allowed, nil
	}
	metrics.AuthzCacheMisses.Inc()

	allowed, err := a.enforcer.Enforce(role, resource, string(action))
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	a.cache.set(role, resource, string(action), allowed)
	metrics.RecordAuthzDecision(resource, string(action), allowed)
	return allowed, nil
}

// Role derives the policy resource type and the role callerID holds
// toward resource. An unsupported resource yields an empty kind.
func Role(callerID string, resource any) (kind, role string) {
	switch r := resource.(type) {
	case *models.SharedWatchlist:
		role = r.RoleOf(callerID)
		if role == "" {
			role = RoleNone
			if r.IsPublic {
				role = RolePublic
			}
		}
		return ResourceSharedWatchlist, role

	case *models.Review:
		return ResourceReview, ownerOrPublic(callerID, r.UserID, r.IsPublic)

	case *models.Blog:
		return ResourceBlog, ownerOrPublic(callerID, r.AuthorID, r.IsPublished)

	case *models.WatchlistItem:
		return ResourceWatchlistItem, ownerOrPublic(callerID, r.UserID, false)

	case *models.Notification:
		return ResourceNotification, ownerOrPublic(callerID, r.UserID, false)

	case *models.Friendship:
		switch callerID {
		case r.RecipientID:
			return ResourceFriendRequest, RoleRecipient
		case r.RequesterID:
			return ResourceFriendRequest, RoleRequester
		}
		return ResourceFriendRequest, RoleNone

	case Profile:
		if r.Account == nil {
			return ResourceProfile, RoleNone
		}
		visible := false
		switch r.Account.Privacy.ProfileVisibility {
		case models.VisibilityPrivate:
		case models.VisibilityFriends:
			visible = r.Friend
		default:
			visible = true
		}
		return ResourceProfile, ownerOrPublic(callerID, r.Account.ID, visible)
	}
	return "", ""
}

func ownerOrPublic(callerID, ownerID string, visible bool) string {
	switch {
	case callerID != "" && callerID == ownerID:
		return RoleOwner
	case visible:
		return RolePublic
	default:
		return RoleNone
	}
}
