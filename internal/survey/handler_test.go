package survey

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pulse-hr/pulse/internal/access"
	"github.com/pulse-hr/pulse/internal/catalog"
	"github.com/pulse-hr/pulse/internal/identity"
	"github.com/pulse-hr/pulse/internal/shared"
	"github.com/pulse-hr/pulse/internal/view"
)

type surveyFixture struct {
	router    chi.Router
	session   *shared.Session
	source    *stubSource
	sink      *stubSink
	principal *identity.Principal
}

func newSurveyFixture(t *testing.T, source *stubSource, sink *stubSink) *surveyFixture {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	engine := NewEngine(source, sink)
	handler := NewHandler(logger, engine, source, templates, shared.NewCSRFManager("csrf-secret"), "pulse")

	emp := identity.NewPrincipal("u-emp", "emp@pulse.local", "acme", identity.RoleMember, identity.KindEmployee)
	f := &surveyFixture{
		session:   shared.NewDetachedSession(),
		source:    source,
		sink:      sink,
		principal: &emp,
	}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.ContextWithSession(r.Context(), f.session)
			ctx = shared.ContextWithPrincipal(ctx, f.principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Route("/survey", handler.MountRoutes)
	f.router = router
	return f
}

func (f *surveyFixture) get(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/survey", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *surveyFixture) post(t *testing.T, action string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/survey/"+action, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, access.RouteSurvey, rec.Header().Get("Location"))
	return rec
}

func (f *surveyFixture) attempt(t *testing.T) *Attempt {
	t.Helper()
	a := AttemptFromSession(f.session)
	require.NotNil(t, a)
	return a
}

func (f *surveyFixture) fillPage(form url.Values, a *Attempt) {
	start, end := a.PageBounds(a.Page)
	for i := start; i < end; i++ {
		d := a.Drafts[i]
		id := strconv.FormatInt(d.QuestionID, 10)
		if d.Type == catalog.QuestionRating {
			form.Set("rating_"+id, "5")
		} else {
			form.Set("text_"+id, "works for me")
		}
	}
}

func TestShowSurveyCreatesAttempt(t *testing.T) {
	f := newSurveyFixture(t, &stubSource{questions: ratingCatalog(12, 2)}, &stubSink{})

	rec := f.get(t)
	require.Equal(t, http.StatusOK, rec.Code)

	a := f.attempt(t)
	require.Equal(t, StatusInProgress, a.Status)
	require.Equal(t, "u-emp", a.RespondentID)
	require.Equal(t, "acme", a.CustomerID)
	require.Equal(t, 1, a.Page)
	require.Equal(t, 2, a.TotalPages)
	require.Contains(t, rec.Body.String(), "Page 1 of 2")
}

func TestShowSurveyRendersLoadError(t *testing.T) {
	source := &stubSource{err: errTest("catalog offline")}
	f := newSurveyFixture(t, source, &stubSink{})

	rec := f.get(t)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "could not be loaded")

	a := f.attempt(t)
	require.Equal(t, StatusLoadError, a.Status)
}

func TestFullFlowThroughHandlers(t *testing.T) {
	sink := &stubSink{}
	f := newSurveyFixture(t, &stubSource{questions: ratingCatalog(12, 2)}, sink)

	f.get(t)
	a := f.attempt(t)

	// Next without answers is rejected and the page does not move.
	f.post(t, "next", url.Values{})
	a = f.attempt(t)
	require.Equal(t, 1, a.Page)

	form := url.Values{}
	f.fillPage(form, a)
	f.post(t, "next", form)
	a = f.attempt(t)
	require.Equal(t, 2, a.Page)

	// Back is always allowed, answers survive.
	f.post(t, "previous", url.Values{})
	a = f.attempt(t)
	require.Equal(t, 1, a.Page)
	require.True(t, a.PageValid(1))

	f.post(t, "next", url.Values{})
	a = f.attempt(t)
	require.Equal(t, 2, a.Page)

	form = url.Values{}
	f.fillPage(form, a)
	f.post(t, "submit", form)

	a = f.attempt(t)
	require.Equal(t, StatusSubmitted, a.Status)
	require.Equal(t, 1, sink.calls)
	require.Len(t, sink.answers, 14)

	rec := f.get(t)
	require.Contains(t, rec.Body.String(), "Thank you")
}

func TestSubmitFailureKeepsDrafts(t *testing.T) {
	sink := &stubSink{err: errTest("queue down")}
	f := newSurveyFixture(t, &stubSource{questions: ratingCatalog(3, 0)}, sink)

	f.get(t)
	a := f.attempt(t)
	form := url.Values{}
	f.fillPage(form, a)
	f.post(t, "submit", form)

	a = f.attempt(t)
	require.Equal(t, StatusInProgress, a.Status)
	require.True(t, a.AllAnswered())

	// Retry after the sink recovers.
	sink.err = nil
	f.post(t, "submit", url.Values{})
	a = f.attempt(t)
	require.Equal(t, StatusSubmitted, a.Status)
	require.Equal(t, 2, sink.calls)
}

func TestAnswersPostSavesWithoutTransition(t *testing.T) {
	f := newSurveyFixture(t, &stubSource{questions: ratingCatalog(3, 0)}, &stubSink{})
	f.get(t)

	f.post(t, "answers", url.Values{"rating_1": {"4"}})
	a := f.attempt(t)
	require.Equal(t, 1, a.Page)
	require.Equal(t, 4, a.Drafts[0].Rating)
	require.False(t, a.Drafts[1].Answered())
}

func TestRatingFormValuesAreClamped(t *testing.T) {
	f := newSurveyFixture(t, &stubSource{questions: ratingCatalog(3, 0)}, &stubSink{})
	f.get(t)

	f.post(t, "answers", url.Values{"rating_1": {"42"}, "rating_2": {"-3"}, "rating_3": {"junk"}})
	a := f.attempt(t)
	require.Equal(t, RatingMax, a.Drafts[0].Rating)
	require.Equal(t, RatingMin, a.Drafts[1].Rating)
	require.Equal(t, RatingUnanswered, a.Drafts[2].Rating)
}

func TestRestartDiscardsAttempt(t *testing.T) {
	f := newSurveyFixture(t, &stubSource{questions: ratingCatalog(3, 0)}, &stubSink{})
	f.get(t)
	require.NotNil(t, AttemptFromSession(f.session))

	f.post(t, "restart", url.Values{})
	require.Nil(t, AttemptFromSession(f.session))
}

func TestCatalogChangeRestartsAttempt(t *testing.T) {
	source := &stubSource{questions: ratingCatalog(3, 0)}
	f := newSurveyFixture(t, source, &stubSink{})

	f.get(t)
	f.post(t, "answers", url.Values{"rating_1": {"4"}})

	// Staff edits the catalog between requests.
	source.questions = ratingCatalog(4, 0)
	f.get(t)

	a := f.attempt(t)
	require.Len(t, a.Drafts, 4)
	require.Equal(t, RatingUnanswered, a.Drafts[0].Rating)
}

type errTest string

func (e errTest) Error() string { return string(e) }
