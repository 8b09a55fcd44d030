package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pulse-hr/pulse/internal/access"
	"github.com/pulse-hr/pulse/internal/auth"
	"github.com/pulse-hr/pulse/internal/catalog"
	"github.com/pulse-hr/pulse/internal/directory"
	"github.com/pulse-hr/pulse/internal/platform/httpx"
	"github.com/pulse-hr/pulse/internal/reports"
	"github.com/pulse-hr/pulse/internal/shared"
	"github.com/pulse-hr/pulse/internal/survey"
	"github.com/pulse-hr/pulse/internal/view"
	"github.com/pulse-hr/pulse/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Templates        *view.Engine
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	Guard            access.Guard
	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	SurveyHandler    *survey.Handler
	DirectoryHandler *directory.Handler
	ReportsHandler   *reports.Handler
}

// NewRouter constructs the chi.Router with Pulse defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		principal := shared.PrincipalFromContext(r.Context())
		if principal == nil {
			http.Redirect(w, r, access.RouteLogin, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, access.LandingRoute(principal), http.StatusSeeOther)
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Every section below is gated by the route policy.
	r.Group(func(r chi.Router) {
		r.Use(params.Guard.Protect)

		r.Get(access.RouteDashboard, dashboardHandler(params))
		r.Route(access.RouteSurvey, params.SurveyHandler.MountRoutes)
		r.Route(access.RouteQuestions, params.CatalogHandler.MountRoutes)
		r.Route(access.RouteCustomers, params.DirectoryHandler.MountRoutes)
		r.Route(access.RouteReports, params.ReportsHandler.MountRoutes)
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

type dashboardData struct {
	Email       string
	Role        string
	Kind        string
	Permissions permissionsView
	Restricted  bool
}

type permissionsView struct {
	ViewDashboard   bool
	ManageQuestions bool
	ViewReports     bool
	ManageCustomers bool
	AnswerSurvey    bool
}

func dashboardHandler(params RouterParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := shared.PrincipalFromContext(r.Context())
		if principal == nil {
			http.Redirect(w, r, access.RouteLogin, http.StatusSeeOther)
			return
		}
		sess := shared.SessionFromContext(r.Context())
		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		var flash *shared.FlashMessage
		if sess != nil {
			flash = sess.PopFlash()
		}
		data := view.TemplateData{
			Title:       "Dashboard",
			CSRFToken:   csrfToken,
			Flash:       flash,
			CurrentPath: r.URL.Path,
			Data: dashboardData{
				Email: principal.Email,
				Role:  string(principal.Role),
				Kind:  string(principal.Kind),
				Permissions: permissionsView{
					ViewDashboard:   principal.Permissions.ViewDashboard,
					ManageQuestions: principal.Permissions.ManageQuestions,
					ViewReports:     principal.Permissions.ViewReports,
					ManageCustomers: principal.Permissions.ManageCustomers,
					AnswerSurvey:    principal.Permissions.AnswerSurvey,
				},
				Restricted: access.RestrictedNotice(principal, r.URL.Path),
			},
		}
		if err := params.Templates.Render(w, "pages/dashboard.html", data); err != nil {
			params.Logger.Error("render dashboard", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
