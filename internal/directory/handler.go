package directory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pulse-hr/pulse/internal/access"
	"github.com/pulse-hr/pulse/internal/identity"
	"github.com/pulse-hr/pulse/internal/shared"
	"github.com/pulse-hr/pulse/internal/view"
)

// Handler serves the customer directory pages. Reachability of the section
// is already governed by the route policy (master only); mutations are
// additionally gated on the ManageCustomers capability.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     access.Guard
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, guard access.Guard) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, guard: guard}
}

// MountRoutes registers customer directory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCustomers)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(func(p identity.PermissionSet) bool { return p.ManageCustomers }))
		r.Post("/", h.createCustomer)
		r.Post("/{id}/delete", h.deleteCustomer)
	})
}

type customersPageData struct {
	Customers  []Customer
	CanManage  bool
	Pagination shared.Pagination
}

const customersPerPage = 25

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Redirect(w, r, access.RouteLogin, http.StatusSeeOther)
		return
	}
	customers, err := h.service.ListCustomers(r.Context(), principal.OrgID)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pagination := shared.NewPagination(page, customersPerPage, len(customers))
	start := (pagination.Page - 1) * pagination.PerPage
	if start > len(customers) {
		start = len(customers)
	}
	end := start + pagination.PerPage
	if end > len(customers) {
		end = len(customers)
	}
	customers = customers[start:end]
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Customers",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data: customersPageData{
			Customers:  customers,
			CanManage:  principal.Permissions.ManageCustomers,
			Pagination: pagination,
		},
	}
	if err := h.templates.Render(w, "pages/customers.html", viewData); err != nil {
		h.logger.Error("render customers", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.service.CreateCustomer(r.Context(), principal.OrgID, r.PostFormValue("name"), r.PostFormValue("contact")); err != nil {
		h.logger.Error("create customer", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	h.flashAndBack(w, r, "Customer added")
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if err := h.service.DeleteCustomer(r.Context(), principal.OrgID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("delete customer", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.flashAndBack(w, r, "Customer removed")
}

func (h *Handler) flashAndBack(w http.ResponseWriter, r *http.Request, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: message})
	}
	http.Redirect(w, r, access.RouteCustomers, http.StatusSeeOther)
}
