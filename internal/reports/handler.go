package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulse-hr/pulse/internal/access"
	"github.com/pulse-hr/pulse/internal/platform/httpx"
	"github.com/pulse-hr/pulse/internal/shared"
	"github.com/pulse-hr/pulse/internal/view"
)

// Handler serves the aggregated report page.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showOverview)
	r.Get("/summary.json", h.summaryJSON)
}

type reportsPageData struct {
	Overview   Overview
	CanView    bool
	Restricted bool
}

func (h *Handler) showOverview(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Redirect(w, r, access.RouteLogin, http.StatusSeeOther)
		return
	}
	data := reportsPageData{CanView: principal.Permissions.ViewReports}
	if data.CanView {
		overview, err := h.service.Summary(r.Context(), principal.OrgID)
		if err != nil {
			h.logger.Error("report summary", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		data.Overview = overview
	}
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Reports",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/reports.html", viewData); err != nil {
		h.logger.Error("render reports", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// summaryJSON serves the aggregated overview as JSON for export tooling.
func (h *Handler) summaryJSON(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil || !principal.Permissions.ViewReports {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	overview, err := h.service.Summary(r.Context(), principal.OrgID)
	if err != nil {
		h.logger.Error("report summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}
