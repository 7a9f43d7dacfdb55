package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"instafeed/internal/form"
	"instafeed/internal/middleware"
	"instafeed/internal/routes"
	"instafeed/internal/web"

	"github.com/rs/zerolog/log"
)

// Messages shown for backend failures
const (
	msgSomethingWrong = "Something went wrong. Please try again."
	msgUploadFailed   = "Failed to upload photo. Please try again."
	msgProfileFailed  = "Failed to update profile. Please try again."
	msgInFlight       = "Your previous submission is still in progress."
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// Pages renders HTML pages and serves the pages that need no backend
type Pages struct {
	renderer *web.Renderer
}

// NewPages creates the page renderer used by every handler
func NewPages(renderer *web.Renderer) *Pages {
	return &Pages{renderer: renderer}
}

// render writes page name for the request's visitor
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name, title string, state form.State, data any) {
	p.renderPage(w, r, status, name, web.Page{
		Title: title,
		Form:  state,
		Data:  data,
	})
}

func (p *Pages) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, page web.Page) {
	page.Header = web.HeaderFor(r)
	if err := p.renderer.Render(w, status, name, page); err != nil {
		log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, msgSomethingWrong, http.StatusInternalServerError)
	}
}

// NotFound handles /not-found and every unmatched route
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, web.PageNotFound, "Not Found", form.Idle(), nil)
}

// Unavailable is shown when the visitor's session could not be resolved
func (p *Pages) Unavailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "5")
	p.render(w, r, http.StatusServiceUnavailable, web.PageUnavailable, "Try again", form.Idle(), nil)
}

// Health handles GET /health
func (p *Pages) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ToggleTheme handles POST /theme
func (p *Pages) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	next := "dark"
	if middleware.IsDarkMode(r.Context()) {
		next = "light"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ThemeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath is the local page the request came from, or the dashboard
func returnPath(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return routes.Dashboard
	}
	// "//host" and "/\host" are read by browsers as another origin
	if !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") || strings.HasPrefix(ref.Path, "/\\") {
		return routes.Dashboard
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
