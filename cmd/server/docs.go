// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// CineScope API general information for swag.
//
// @title CineScope API
// @version 1.0
// @description Movie cataloging and social watchlists backed by TMDB.
// @description
// @description ## Authentication
// @description
// @description Protected endpoints expect `Authorization: Bearer <token>`. The token
// @description is returned by `/auth/register` and `/auth/login` and is also set as
// @description the `token` cookie.
// @description
// @description ## Error Responses
// @description
// @description All responses share one envelope:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "NOT_FOUND",
// @description     "message": "Movie not found"
// @description   },
// @description   "meta": {
// @description     "timestamp": "2026-01-18T12:34:56Z",
// @description     "request_id": "b7c1..."
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/cinescope/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from /auth/login or /auth/register, or the token cookie.
//
// @tag.name Core
// @tag.description Health checks
//
// @tag.name Auth
// @tag.description Registration, login and the current account
//
// @tag.name Users
// @tag.description Profiles, privacy, ratings and watch history
//
// @tag.name Movies
// @tag.description TMDB catalog search and browsing
//
// @tag.name Watchlist
// @tag.description Personal watchlists
//
// @tag.name Reviews
// @tag.description Movie reviews with likes and comments
//
// @tag.name Blogs
// @tag.description Blog posts with likes and comments
//
// @tag.name Social
// @tag.description Friends, user search and notifications
//
// @tag.name Shared Watchlists
// @tag.description Collaborative watchlists with owner, editor and viewer roles
//
// @tag.name Recommendations
// @tag.description Personalized, content-based and mood recommendations
//
// @tag.name Analytics
// @tag.description Viewing analytics and PDF export
package main
