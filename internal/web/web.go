package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"instafeed/internal/form"
	"instafeed/internal/middleware"
	"instafeed/internal/models"
	"instafeed/internal/routes"
	"instafeed/internal/session"
)

//go:embed templates
var templateFS embed.FS

// Page names
const (
	PageLogin       = "login"
	PageSignUp      = "signup"
	PageDashboard   = "dashboard"
	PageSearch      = "search"
	PageUpload      = "upload"
	PageEditProfile = "edit_profile"
	PageProfile     = "profile"
	PageNotFound    = "not_found"
	PageUnavailable = "unavailable"
)

var pageNames = []string{
	PageLogin,
	PageSignUp,
	PageDashboard,
	PageSearch,
	PageUpload,
	PageEditProfile,
	PageProfile,
	PageNotFound,
	PageUnavailable,
}

// HeaderView is what the page header needs to know about the visitor
type HeaderView struct {
	Authenticated bool
	Username      string
	AvatarSrc     string
	DarkMode      bool
}

// HeaderFor builds the header of the request's session and theme
func HeaderFor(r *http.Request) HeaderView {
	h := HeaderView{DarkMode: middleware.IsDarkMode(r.Context())}
	sess := session.FromContext(r.Context())
	if sess.IsAuthenticated() {
		h.Authenticated = true
		h.Username = sess.User.Username
		h.AvatarSrc = routes.AvatarPath(sess.User.Username, sess.User.AvatarURL)
	}
	return h
}

// Refresh sends the browser to URL after Delay
type Refresh struct {
	Delay time.Duration
	URL   string
}

// Content is the value of the meta refresh tag
func (r Refresh) Content() string {
	return strconv.Itoa(int(r.Delay/time.Second)) + ";url=" + r.URL
}

// Page is the data every template receives
type Page struct {
	Title   string
	Header  HeaderView
	Form    form.State
	Refresh *Refresh
	Data    any
}

// LoginView pre-fills the login form
type LoginView struct {
	Email string
}

// SignUpView pre-fills the sign-up form
type SignUpView struct {
	Username string
	FullName string
	Email    string
}

// DashboardView lists the feed
type DashboardView struct {
	Items []*models.FeedItem
}

// SearchView is the search box and its results. Searched is false until a
// non-blank query was looked up.
type SearchView struct {
	Query    string
	Searched bool
	Users    []*models.User
}

// UploadView pre-fills the upload form
type UploadView struct {
	Caption string
}

// EditProfileView pre-fills the edit-profile form
type EditProfileView struct {
	Username  string
	FullName  string
	Bio       string
	AvatarSrc string
}

// ProfileView is a user's public page
type ProfileView struct {
	User    *models.User
	Photos  []*models.Photo
	IsOwner bool
}

var funcs = template.FuncMap{
	"profilePath": routes.ProfilePath,
	"avatarPath":  routes.AvatarPath,
	"defaultImage": func() string {
		return routes.DefaultImagePath
	},
	"maxBio": func() int {
		return models.MaxBioLength
	},
	"maxFullName": func() int {
		return models.MaxFullNameLength
	},
	"charCount": utf8.RuneCountInString,
	"formatDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"paths": func() map[string]string {
		return map[string]string{
			"Dashboard":     routes.Dashboard,
			"Login":         routes.Login,
			"SignUp":        routes.SignUp,
			"Logout":        routes.Logout,
			"Search":        routes.Search,
			"Upload":        routes.Upload,
			"EditProfile":   routes.EditProfile,
			"Theme":         routes.Theme,
			"SessionEvents": routes.SessionEvents,
		}
	},
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the layout and partials
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/pages/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes page name with the given status. Nothing is written if the
// template fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return fmt.Errorf("failed to render page %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
