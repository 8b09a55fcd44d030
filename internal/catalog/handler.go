package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pulse-hr/pulse/internal/access"
	"github.com/pulse-hr/pulse/internal/identity"
	"github.com/pulse-hr/pulse/internal/shared"
	"github.com/pulse-hr/pulse/internal/view"
)

// Handler serves the staff question-management pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     access.Guard
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, guard access.Guard) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers question management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listQuestions)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(func(p identity.PermissionSet) bool { return p.ManageQuestions }))
		r.Post("/", h.createQuestion)
		r.Post("/{id}/edit", h.updateQuestion)
		r.Post("/{id}/delete", h.deleteQuestion)
		r.Post("/{id}/annotation", h.setAnnotation)
	})
}

type questionForm struct {
	Text         string `validate:"required"`
	Type         string `validate:"required,oneof=rating freeText"`
	Category     string `validate:"required"`
	DisplayOrder int    `validate:"gte=0"`
}

type questionsPageData struct {
	Questions         []Question
	AnnotationNumbers map[int64]int
	CanManage         bool
	Errors            map[string]string
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Redirect(w, r, access.RouteLogin, http.StatusSeeOther)
		return
	}
	questions, err := h.service.ListQuestions(r.Context(), principal.OrgID)
	if err != nil {
		h.logger.Error("list questions", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.renderList(w, r, questionsPageData{
		Questions:         questions,
		AnnotationNumbers: AnnotationNumbers(questions),
		CanManage:         principal.Permissions.ManageQuestions,
	})
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	order, _ := strconv.Atoi(r.PostFormValue("display_order"))
	form := questionForm{
		Text:         r.PostFormValue("text"),
		Type:         r.PostFormValue("type"),
		Category:     r.PostFormValue("category"),
		DisplayOrder: order,
	}
	if err := h.validator.Struct(form); err != nil {
		formErrors := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			formErrors[fieldErr.Field()] = fieldErr.Error()
		}
		questions, listErr := h.service.ListQuestions(r.Context(), principal.OrgID)
		if listErr != nil {
			h.logger.Error("list questions", slog.Any("error", listErr))
		}
		w.WriteHeader(http.StatusBadRequest)
		h.renderList(w, r, questionsPageData{
			Questions:         questions,
			AnnotationNumbers: AnnotationNumbers(questions),
			CanManage:         true,
			Errors:            formErrors,
		})
		return
	}
	input := QuestionInput{
		Text:         form.Text,
		Type:         QuestionType(form.Type),
		Category:     form.Category,
		DisplayOrder: form.DisplayOrder,
	}
	if _, err := h.service.CreateQuestion(r.Context(), principal.OrgID, input); err != nil {
		h.logger.Error("create question", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.flashAndBack(w, r, "Question added")
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	order, _ := strconv.Atoi(r.PostFormValue("display_order"))
	input := QuestionInput{
		Text:         r.PostFormValue("text"),
		Type:         QuestionType(r.PostFormValue("type")),
		Category:     r.PostFormValue("category"),
		DisplayOrder: order,
	}
	if _, err := h.service.UpdateQuestion(r.Context(), principal.OrgID, id, input); err != nil {
		h.respondServiceError(w, err, "update question")
		return
	}
	h.flashAndBack(w, r, "Question updated")
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteQuestion(r.Context(), principal.OrgID, id); err != nil {
		h.respondServiceError(w, err, "delete question")
		return
	}
	h.flashAndBack(w, r, "Question removed")
}

func (h *Handler) setAnnotation(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	customerID := r.PostFormValue("customer_id")
	if customerID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := h.service.SetAnnotation(r.Context(), principal.OrgID, id, customerID, r.PostFormValue("text")); err != nil {
		h.respondServiceError(w, err, "set annotation")
		return
	}
	h.flashAndBack(w, r, "Annotation saved")
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, shared.ErrNotFound) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) flashAndBack(w http.ResponseWriter, r *http.Request, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: message})
	}
	http.Redirect(w, r, access.RouteQuestions, http.StatusSeeOther)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, data questionsPageData) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Questions",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/questions.html", viewData); err != nil {
		h.logger.Error("render questions", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
