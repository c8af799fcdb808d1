package rest

import (
	"log/slog"
	"net/http"

	"github.com/wanderlog/traveldiary-backend/internal/config"
	"github.com/wanderlog/traveldiary-backend/internal/transport/middleware"
)

// submissionsPerMinute rate-limits the media-carrying mutation routes
// per client IP.
const submissionsPerMinute = 30

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Diaries     *DiaryHandler
	Admin       *AdminHandler
	Health      *HealthHandler
	Auth        middleware.Middleware
	RateLimiter *middleware.RateLimiter
	UploadsRoot string
	CORS        config.CORSConfig
	Log         *slog.Logger
}

// NewRouter builds the full route table. Reads are open to anonymous
// callers; mutations require authentication; moderation routes sit
// behind the moderator gate.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /health/live", deps.Health.Live)
	mux.HandleFunc("GET /health/ready", deps.Health.Ready)

	limit := deps.RateLimiter.Limit(submissionsPerMinute)

	// Public feed and single-diary reads. Hidden diaries 404 inside
	// the service, so no auth gate here.
	mux.HandleFunc("GET /api/diaries", deps.Diaries.List)
	mux.Handle("GET /api/diaries/my", middleware.RequireAuth(http.HandlerFunc(deps.Diaries.ListMine)))
	mux.HandleFunc("GET /api/diaries/{id}", deps.Diaries.Get)

	mux.Handle("POST /api/diaries", limit(middleware.RequireAuth(http.HandlerFunc(deps.Diaries.Create))))
	mux.Handle("PUT /api/diaries/{id}", limit(middleware.RequireAuth(http.HandlerFunc(deps.Diaries.Update))))
	mux.Handle("DELETE /api/diaries/{id}", middleware.RequireAuth(http.HandlerFunc(deps.Diaries.Delete)))

	mux.Handle("GET /api/admin/diaries", middleware.RequireModerator(http.HandlerFunc(deps.Admin.List)))
	mux.Handle("PUT /api/admin/diaries/{id}/approve", middleware.RequireModerator(http.HandlerFunc(deps.Admin.Approve)))
	mux.Handle("PUT /api/admin/diaries/{id}/reject", middleware.RequireModerator(http.HandlerFunc(deps.Admin.Reject)))
	mux.Handle("DELETE /api/admin/diaries/{id}", middleware.RequireModerator(http.HandlerFunc(deps.Admin.Delete)))

	// Stored media. Only the published namespaces are mounted; the
	// staging area stays private.
	files := http.FileServer(http.Dir(deps.UploadsRoot))
	mux.Handle("GET /uploads/images/", http.StripPrefix("/uploads/", files))
	mux.Handle("GET /uploads/videos/", http.StripPrefix("/uploads/", files))

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(deps.Log),
		middleware.Recovery(deps.Log),
		middleware.CORS(deps.CORS),
		deps.Auth,
	)(mux)
}
