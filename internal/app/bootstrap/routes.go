// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	blogfeature "github.com/peakformhq/peakform/internal/app/features/blog"
	blogadminfeature "github.com/peakformhq/peakform/internal/app/features/blogadmin"
	contactfeature "github.com/peakformhq/peakform/internal/app/features/contact"
	healthfeature "github.com/peakformhq/peakform/internal/app/features/health"
	"github.com/peakformhq/peakform/internal/app/blog"
	contactstore "github.com/peakformhq/peakform/internal/app/store/contact"
	poststore "github.com/peakformhq/peakform/internal/app/store/posts"
	"github.com/peakformhq/peakform/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Route map:
//   - /api/blog        public, published content only
//   - /api/contact     public contact form submission
//   - /api/admin/*     API key protected management endpoints
//   - /health, /readyz, /livez   probes for load balancers
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	postsStore := poststore.New(deps.MongoDatabase)
	contactStore := contactstore.New(deps.MongoDatabase)

	blogService := blog.NewService(postsStore, deps.Media, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Public Routes
	// ─────────────────────────────────────────────────────────────────────────────

	blogHandler := blogfeature.NewHandler(blogService, logger)
	r.Mount("/api/blog", blogfeature.Routes(blogHandler))

	contactHandler := contactfeature.NewHandler(contactStore, deps.Mailer, appCfg.ContactNotifyEmail, logger)
	r.Mount("/api/contact", contactfeature.PublicRoutes(contactHandler))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// ─────────────────────────────────────────────────────────────────────────────
	// Admin Routes (API key protected)
	// ─────────────────────────────────────────────────────────────────────────────

	blogAdminHandler := blogadminfeature.NewHandler(blogService, logger)

	r.Group(func(gr chi.Router) {
		gr.Use(auth.APIKeyAuth(appCfg.APIKey, logger))
		gr.Mount("/api/admin/posts", blogadminfeature.Routes(blogAdminHandler))
		gr.Mount("/api/admin/contact", contactfeature.AdminRoutes(contactHandler))
	})

	return r, nil
}
