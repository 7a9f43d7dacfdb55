package router

import (
	"net/http"

	"instafeed/internal/handlers"
	"instafeed/internal/middleware"
	"instafeed/internal/routes"
	"instafeed/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the handlers and settings the router wires together
type Deps struct {
	Auth     *handlers.AuthHandler
	Photos   *handlers.PhotoHandler
	Users    *handlers.UserHandler
	Sessions *handlers.WebSocketHandler
	Pages    *handlers.Pages

	Resolver       middleware.SessionResolver
	CookieName     string
	AllowedOrigins []string
	// StaticDir holds /images; empty disables static files
	StaticDir string
	// Media serves stored objects when the storage driver keeps them in process
	Media http.Handler
}

// New builds the application router
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get(routes.Health, d.Pages.Health)

	if d.StaticDir != "" {
		r.Handle("/images/*", http.FileServer(http.Dir(d.StaticDir)))
	}
	if d.Media != nil {
		r.Handle(storage.MemoryBasePath+"/*", d.Media)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Theme)
		r.Use(middleware.LoadSession(d.Resolver, d.CookieName))

		// Public pages
		r.Get(routes.Profile, d.Users.Profile)
		r.Get(routes.NotFound, d.Pages.NotFound)
		r.Post(routes.Theme, d.Pages.ToggleTheme)
		r.Post(routes.Logout, d.Auth.Logout)
		r.Get(routes.SessionEvents, d.Sessions.SessionEvents)

		// Only for visitors who are not signed in
		r.Group(func(r chi.Router) {
			r.Use(middleware.IsUserLoggedIn(routes.Dashboard))
			r.Get(routes.Login, d.Auth.LoginPage)
			r.Post(routes.Login, d.Auth.Login)
			r.Get(routes.SignUp, d.Auth.SignUpPage)
			r.Post(routes.SignUp, d.Auth.SignUp)
		})

		// Signed-in pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.ProtectedRoute(routes.Login, http.HandlerFunc(d.Pages.Unavailable)))
			r.Get(routes.Dashboard, d.Photos.Dashboard)
			r.Get(routes.Search, d.Users.Search)
			r.Get(routes.Upload, d.Photos.UploadPage)
			r.Post(routes.Upload, d.Photos.Upload)
			r.Get(routes.EditProfile, d.Users.EditProfilePage)
			r.Post(routes.EditProfile, d.Users.EditProfile)
		})

		r.NotFound(d.Pages.NotFound)
	})

	return r
}
