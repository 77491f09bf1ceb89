// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/cinescope/internal/auth"
	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/middleware"
	"github.com/tomtom215/cinescope/internal/telemetry"
)

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	config        *config.Config
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. Authentication failures are answered with
// the standard error envelope.
func NewRouter(handler *Handler, tokens *auth.JWTManager, cfg *config.Config) *Router {
	return &Router{
		handler:    handler,
		config:     cfg,
		middleware: auth.NewMiddleware(tokens, handler.store.Accounts, writeAuthError),
		chiMiddleware: NewChiMiddlewareFromSecurity(
			cfg.Security.CORSOrigins,
			cfg.Security.RateLimitReqs,
			cfg.Security.RateLimitWindow,
			cfg.Security.RateLimitDisabled,
		),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.RealIP)
	r.Use(Recoverer)
	r.Use(telemetry.Middleware)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5, "application/json"))
	r.Use(DebugErrors(!router.config.IsProduction()))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if photos := router.handler.photos; photos != nil {
		prefix := strings.TrimSuffix(photos.URLPrefix(), "/")
		r.Handle(prefix+"/*", photos.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", router.handler.Health)

		// ========================
		// Authentication Endpoints
		// ========================
		r.Route("/auth", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitAuth()).Post("/register", router.handler.Register)
			// the auth service also limits attempts per email
			r.With(router.chiMiddleware.RateLimitAuth()).Post("/login", router.handler.Login)
			r.With(router.chiMiddleware.RateLimitAuth()).Post("/forgot-password", router.handler.ForgotPassword)
			r.With(router.middleware.Authenticate).Get("/me", router.handler.Me)
		})

		// The notification stream authenticates from the query string as
		// browsers cannot set headers on websocket upgrades.
		r.With(
			router.chiMiddleware.RateLimitStream(),
			router.middleware.AuthenticateStream,
		).Get("/social/notifications/stream", router.handler.NotificationStream)

		// ========================
		// Authenticated Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.middleware.Authenticate)

			router.registerUserRoutes(r)
			router.registerMovieRoutes(r)
			router.registerWatchlistRoutes(r)
			router.registerReviewRoutes(r)
			router.registerBlogRoutes(r)
			router.registerSocialRoutes(r)
			router.registerRecommendationRoutes(r)
			router.registerAnalyticsRoutes(r)
		})
	})

	return r
}

func (router *Router) registerUserRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/profile", router.handler.GetProfile)
		r.Put("/profile", router.handler.UpdateProfile)
		r.Post("/profile/photo", router.handler.UploadPhoto)
		r.Post("/watch-history", router.handler.AddWatchHistory)
		r.Post("/rating", router.handler.RateMovie)
		r.Get("/{id}", router.handler.GetUser)
	})
}

func (router *Router) registerMovieRoutes(r chi.Router) {
	r.Route("/movies", func(r chi.Router) {
		r.Get("/search", router.handler.SearchMovies)
		r.Get("/popular", router.handler.PopularMovies)
		r.Get("/popular-tv", router.handler.PopularTV)
		r.Get("/popular-anime", router.handler.PopularAnime)
		r.Get("/top-rated", router.handler.TopRatedMovies)
		r.Get("/upcoming", router.handler.UpcomingMovies)
		r.Get("/genres", router.handler.Genres)
		r.Get("/genre/{genreId}", router.handler.MoviesByGenre)
		r.Get("/{id}", router.handler.MovieDetails)
	})
}

func (router *Router) registerWatchlistRoutes(r chi.Router) {
	r.Route("/watchlist", func(r chi.Router) {
		r.Get("/", router.handler.GetWatchlist)
		r.Post("/", router.handler.AddToWatchlist)
		r.Delete("/movie/{movieId}", router.handler.RemoveMovieFromWatchlist)
		r.Put("/{id}", router.handler.UpdateWatchlistItem)
		r.Delete("/{id}", router.handler.DeleteWatchlistItem)
	})
}

func (router *Router) registerReviewRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", router.handler.ListReviews)
		r.Post("/", router.handler.CreateReview)
		r.Get("/{id}", router.handler.GetReview)
		r.Put("/{id}", router.handler.UpdateReview)
		r.Delete("/{id}", router.handler.DeleteReview)
		r.Post("/{id}/like", router.handler.LikeReview)
		r.Post("/{id}/comment", router.handler.CommentOnReview)
	})
}

func (router *Router) registerBlogRoutes(r chi.Router) {
	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", router.handler.ListBlogs)
		r.Post("/", router.handler.CreateBlog)
		// GET takes a slug, the other verbs take the post ID
		r.Get("/{id}", router.handler.GetBlog)
		r.Put("/{id}", router.handler.UpdateBlog)
		r.Delete("/{id}", router.handler.DeleteBlog)
		r.Post("/{id}/like", router.handler.LikeBlog)
		r.Post("/{id}/comment", router.handler.CommentOnBlog)
	})
}

func (router *Router) registerSocialRoutes(r chi.Router) {
	r.Route("/social", func(r chi.Router) {
		r.Get("/friends", router.handler.GetFriends)
		r.Post("/friends/request", router.handler.SendFriendRequest)
		r.Put("/friends/accept/{requestId}", router.handler.AcceptFriendRequest)
		r.Put("/friends/reject/{requestId}", router.handler.RejectFriendRequest)
		r.Get("/friends/requests", router.handler.GetFriendRequests)
		r.Get("/users/search", router.handler.SearchUsers)

		r.Get("/notifications", router.handler.GetNotifications)
		r.Put("/notifications/read-all", router.handler.MarkAllNotificationsRead)
		r.Put("/notifications/{id}/read", router.handler.MarkNotificationRead)

		r.Post("/watchlist/share", router.handler.ShareWatchlist)
		r.Route("/watchlist/shared", func(r chi.Router) {
			r.Get("/", router.handler.GetSharedWatchlists)
			r.Get("/{id}", router.handler.GetSharedWatchlist)
			r.Put("/{id}", router.handler.UpdateSharedWatchlist)
			r.Delete("/{id}", router.handler.DeleteSharedWatchlist)
			r.Post("/{id}/members", router.handler.AddSharedWatchlistMember)
			r.Delete("/{id}/members/{userId}", router.handler.RemoveSharedWatchlistMember)
			r.Post("/{id}/movies", router.handler.AddSharedWatchlistMovie)
			r.Delete("/{id}/movies/{movieId}", router.handler.RemoveSharedWatchlistMovie)
		})
	})
}

func (router *Router) registerRecommendationRoutes(r chi.Router) {
	r.Route("/recommendations", func(r chi.Router) {
		r.Get("/", router.handler.GetRecommendations)
		r.Get("/content-based/{movieId}", router.handler.ContentBasedRecommendations)
		r.Get("/mood", router.handler.MoodRecommendations)
	})
}

func (router *Router) registerAnalyticsRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/", router.handler.GetAnalytics)
		r.With(router.chiMiddleware.RateLimitExport()).Get("/pdf", router.handler.ExportAnalyticsPDF)
	})
}
