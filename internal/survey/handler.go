package survey

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pulse-hr/pulse/internal/access"
	"github.com/pulse-hr/pulse/internal/catalog"
	"github.com/pulse-hr/pulse/internal/shared"
	"github.com/pulse-hr/pulse/internal/view"
)

// Handler drives the response engine from the survey pages. Each request
// restores the session's attempt, applies exactly one user action and
// persists the attempt back before redirecting, so the engine never sees
// two actions at once.
type Handler struct {
	logger     *slog.Logger
	engine     *Engine
	questions  QuestionSource
	templates  *view.Engine
	csrf       *shared.CSRFManager
	catalogOrg string
}

// NewHandler builds a Handler instance. catalogOrg names the organization
// owning the question catalog; the respondent's own org selects the
// annotation overlay.
func NewHandler(logger *slog.Logger, engine *Engine, questions QuestionSource, templates *view.Engine, csrf *shared.CSRFManager, catalogOrg string) *Handler {
	return &Handler{
		logger:     logger,
		engine:     engine,
		questions:  questions,
		templates:  templates,
		csrf:       csrf,
		catalogOrg: catalogOrg,
	}
}

// MountRoutes registers the survey routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showSurvey)
	r.Post("/answers", h.actionThen((*Attempt).Stay))
	r.Post("/next", h.actionThen((*Attempt).Next))
	r.Post("/previous", h.actionThen((*Attempt).Previous))
	r.Post("/submit", h.handleSubmit)
	r.Post("/restart", h.handleRestart)
}

type questionView struct {
	Question         catalog.Question
	Draft            Draft
	AnnotationNumber int
}

type surveyPageData struct {
	Status     Status
	Page       int
	TotalPages int
	Questions  []questionView
	PageValid  bool
	LastError  string
}

func (h *Handler) showSurvey(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	sess := shared.SessionFromContext(r.Context())
	if principal == nil || sess == nil {
		http.Redirect(w, r, access.RouteLogin, http.StatusSeeOther)
		return
	}

	attempt := AttemptFromSession(sess)
	if attempt == nil || attempt.Status == StatusSubmitted {
		if attempt != nil && attempt.Status == StatusSubmitted {
			h.render(w, r, surveyPageData{Status: StatusSubmitted})
			return
		}
		attempt = NewAttempt(uuid.NewString(), principal.ID, principal.OrgID)
	}

	questions, err := h.questions.QuestionsForCustomer(r.Context(), h.catalogOrg, attempt.CustomerID)
	if err != nil {
		token, berr := attempt.BeginLoad()
		if berr == nil {
			attempt.FinishLoad(token, nil, err)
		}
		h.persist(sess, attempt)
		h.logger.Error("load questions", slog.Any("error", err))
		h.render(w, r, surveyPageData{Status: StatusLoadError, LastError: attempt.LastError})
		return
	}

	// A changed catalog restarts the attempt from a fresh draft set.
	if attempt.Status != StatusInProgress || !attempt.Aligned(questions) {
		token, berr := attempt.BeginLoad()
		if berr != nil {
			h.logger.Error("reload attempt", slog.Any("error", berr))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		attempt.FinishLoad(token, questions, nil)
	}
	h.persist(sess, attempt)

	numbers := catalog.AnnotationNumbers(questions)
	start, end := attempt.PageBounds(attempt.Page)
	var views []questionView
	if start >= 0 {
		views = make([]questionView, 0, end-start)
		for i := start; i < end; i++ {
			views = append(views, questionView{
				Question:         questions[i],
				Draft:            attempt.Drafts[i],
				AnnotationNumber: numbers[questions[i].ID],
			})
		}
	}
	h.render(w, r, surveyPageData{
		Status:     attempt.Status,
		Page:       attempt.Page,
		TotalPages: attempt.TotalPages,
		Questions:  views,
		PageValid:  attempt.PageValid(attempt.Page),
		LastError:  attempt.LastError,
	})
}

// actionThen applies the posted answers for the current page, then the given
// transition, then redirects back to the survey page.
func (h *Handler) actionThen(transition func(*Attempt) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		attempt := AttemptFromSession(sess)
		if attempt == nil {
			http.Redirect(w, r, access.RouteSurvey, http.StatusSeeOther)
			return
		}
		if err := h.applyAnswers(r, attempt); err != nil {
			h.rejectAction(w, r, sess, attempt, err)
			return
		}
		if err := transition(attempt); err != nil {
			h.rejectAction(w, r, sess, attempt, err)
			return
		}
		h.persist(sess, attempt)
		http.Redirect(w, r, access.RouteSurvey, http.StatusSeeOther)
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	attempt := AttemptFromSession(sess)
	if attempt == nil {
		http.Redirect(w, r, access.RouteSurvey, http.StatusSeeOther)
		return
	}
	if err := h.applyAnswers(r, attempt); err != nil {
		h.rejectAction(w, r, sess, attempt, err)
		return
	}
	if err := h.engine.Submit(r.Context(), attempt); err != nil {
		h.persist(sess, attempt)
		h.rejectAction(w, r, sess, attempt, err)
		return
	}
	h.persist(sess, attempt)
	if sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Thank you, your answers were submitted"})
	}
	http.Redirect(w, r, access.RouteSurvey, http.StatusSeeOther)
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	DiscardAttempt(sess)
	http.Redirect(w, r, access.RouteSurvey, http.StatusSeeOther)
}

// applyAnswers walks the posted form and records answers for the current
// page. Field names carry the question id: rating_<id> and text_<id>.
func (h *Handler) applyAnswers(r *http.Request, attempt *Attempt) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	start, end := attempt.PageBounds(attempt.Page)
	if start < 0 {
		return nil
	}
	for _, draft := range attempt.Drafts[start:end] {
		id := strconv.FormatInt(draft.QuestionID, 10)
		switch draft.Type {
		case catalog.QuestionRating:
			raw := r.PostFormValue("rating_" + id)
			if raw == "" {
				continue
			}
			value, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			if err := attempt.SetRating(draft.QuestionID, value); err != nil {
				return err
			}
		case catalog.QuestionFreeText:
			if _, ok := r.PostForm["text_"+id]; !ok {
				continue
			}
			if err := attempt.SetText(draft.QuestionID, r.PostFormValue("text_"+id)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handler) rejectAction(w http.ResponseWriter, r *http.Request, sess *shared.Session, attempt *Attempt, err error) {
	h.persist(sess, attempt)
	message := "That action is not available right now"
	switch {
	case errors.Is(err, ErrPageIncomplete):
		message = "Please answer every question on this page first"
	case errors.Is(err, ErrSubmitted):
		message = "This survey was already submitted"
	case errors.Is(err, ErrBusy):
		message = "Still working on the previous step"
	case errors.Is(err, ErrInvalidTransition):
		// keep the generic message
	default:
		h.logger.Error("survey action", slog.Any("error", err))
		message = "Something went wrong, your answers are kept, please retry"
	}
	if sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: message})
	}
	http.Redirect(w, r, access.RouteSurvey, http.StatusSeeOther)
}

func (h *Handler) persist(sess *shared.Session, attempt *Attempt) {
	if err := SaveAttempt(sess, attempt); err != nil {
		h.logger.Error("persist attempt", slog.Any("error", err))
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data surveyPageData) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Survey",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/survey.html", viewData); err != nil {
		h.logger.Error("render survey", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
