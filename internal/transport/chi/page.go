package chi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/domain/search/request"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
	"github.com/kailas-cloud/kereso/internal/logger"
)

//go:embed templates/search.html
var templateFS embed.FS

var searchPage = template.Must(template.ParseFS(templateFS, "templates/search.html"))

const pageUnavailable = "A keresés most nem érhető el, kérjük, próbáld újra később."

var scopeLabels = []struct {
	scope scope.Scope
	label string
}{
	{scope.All, "Minden"},
	{scope.Posts, "Cikkek"},
	{scope.Products, "Termékek"},
}

type scopeOption struct {
	Value    string
	Label    string
	Selected bool
}

type card struct {
	Title   string
	URL     string
	Excerpt string
}

type pageView struct {
	Query     string
	UsedQuery string
	Fallback  bool
	Total     int
	Error     string
	Scopes    []scopeOption
	Articles  []card
	Products  []card
}

// SearchPage handles GET /kereses and renders the result cards as HTML.
func (s *Server) SearchPage(w http.ResponseWriter, r *http.Request) {
	sc := scope.Parse(trimmedQuery(r, "type"))
	view := pageView{Scopes: scopeOptions(sc)}

	req, err := request.New(trimmedQuery(r, "q"), sc, s.pageLimit)
	if err != nil {
		view.Error = safeDomainMessage(err)
		s.renderPage(w, r, http.StatusBadRequest, &view)
		return
	}
	view.Query = req.Query()
	if view.Query == "" {
		s.renderPage(w, r, http.StatusOK, &view)
		return
	}

	ctx := logger.WithFields(r.Context(), zap.String("query", req.Query()), zap.String("scope", string(req.Scope())))
	resp, err := s.search.Search(ctx, &req)
	if err != nil {
		logger.FromContext(ctx).Error("page search failed", zap.Error(err))
		view.Error = pageUnavailable
		s.renderPage(w, r, http.StatusInternalServerError, &view)
		return
	}

	view.UsedQuery = resp.UsedQuery
	view.Fallback = resp.IsFallback()
	view.Total = resp.Total()
	view.Articles = cards(resp.Articles)
	view.Products = cards(resp.Products)
	s.renderPage(w, r, http.StatusOK, &view)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, view *pageView) {
	var buf bytes.Buffer
	if err := searchPage.Execute(&buf, view); err != nil {
		logger.FromContext(r.Context()).Error("render search page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func scopeOptions(selected scope.Scope) []scopeOption {
	out := make([]scopeOption, len(scopeLabels))
	for i, l := range scopeLabels {
		out[i] = scopeOption{Value: string(l.scope), Label: l.label, Selected: l.scope == selected}
	}
	return out
}

func cards(hits []result.Hit) []card {
	out := make([]card, len(hits))
	for i := range hits {
		out[i] = card{Title: hits[i].Title(), URL: hits[i].URL(), Excerpt: hits[i].Excerpt()}
	}
	return out
}
