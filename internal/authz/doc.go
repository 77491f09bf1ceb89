// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package authz makes every ownership and membership decision in CineScope.
//
// Handlers never compare account ids themselves. They load the record and
// call Authorizer.Authorize with the caller, the record and an action. The
// caller's role toward the record is derived here (owner, editor, viewer,
// public, recipient, requester or none) and the (role, resource, action)
// triple is checked against a Casbin policy compiled into the binary:
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[matchers]
//	m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
//
// Roles form the hierarchy owner > editor > viewer > public, so a
// permission granted to public is held by every member. The role "none"
// holds no permission at all.
//
// Decisions for a (role, resource, action) triple are memoized in a TTL
// cache. The policy is static, so the cache only saves the matcher
// evaluation.
package authz
