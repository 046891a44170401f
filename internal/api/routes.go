package api

import "net/http"

// route is one entry in the static route table: method, chi pattern, handler
// and the middleware applied to it, in order.
type route struct {
	method      string
	pattern     string
	handler     http.HandlerFunc
	middlewares []func(http.Handler) http.Handler
}

// routes declares every API route as data. The table is registered once at
// construction; nothing is discovered at runtime.
func (s *Server) routes() []route {
	authed := []func(http.Handler) http.Handler{s.requireAuth}

	return []route{
		// Public catalog reads, served straight from the mirror.
		{method: http.MethodGet, pattern: "/api/v1/content", handler: s.handleListContent},
		{method: http.MethodGet, pattern: "/api/v1/content/random", handler: s.handleRandomContent},
		{method: http.MethodGet, pattern: "/api/v1/content/search", handler: s.handleSearchContent},
		{method: http.MethodGet, pattern: "/api/v1/content/{id}", handler: s.handleGetContent},
		{method: http.MethodGet, pattern: "/api/v1/tags", handler: s.handleListTags},
		{method: http.MethodGet, pattern: "/api/v1/tags/{id}", handler: s.handleGetTag},

		// Login and session lifecycle.
		{method: http.MethodGet, pattern: "/api/v1/auth/callback", handler: s.handleOAuthCallback},
		{method: http.MethodPost, pattern: "/api/v1/auth/logout", handler: s.handleLogout, middlewares: authed},
		{method: http.MethodPost, pattern: "/api/v1/auth/logout-all", handler: s.handleLogoutAll, middlewares: authed},

		// Per-user state.
		{method: http.MethodGet, pattern: "/api/v1/user/me", handler: s.handleGetCurrentUser, middlewares: authed},
		{method: http.MethodPost, pattern: "/api/v1/user/bookmarks", handler: s.handleToggleBookmark, middlewares: authed},
		{method: http.MethodPost, pattern: "/api/v1/user/views", handler: s.handleTrackView, middlewares: authed},

		// Curation endpoints.
		{method: http.MethodPost, pattern: "/api/v1/admin/content", handler: s.handleCreateContent, middlewares: authed},
		{method: http.MethodPatch, pattern: "/api/v1/admin/content/{id}", handler: s.handleUpdateContent, middlewares: authed},
		{method: http.MethodDelete, pattern: "/api/v1/admin/content/{id}", handler: s.handleDeleteContent, middlewares: authed},
		{method: http.MethodPost, pattern: "/api/v1/admin/tags", handler: s.handleCreateTag, middlewares: authed},
		{method: http.MethodDelete, pattern: "/api/v1/admin/tags/{id}", handler: s.handleDeleteTag, middlewares: authed},
	}
}
