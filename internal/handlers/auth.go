package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"instafeed/internal/form"
	"instafeed/internal/models"
	"instafeed/internal/routes"
	"instafeed/internal/services"
	"instafeed/internal/session"
	"instafeed/internal/web"

	"github.com/rs/zerolog/log"
)

// Authenticator signs visitors up, in and out
type Authenticator interface {
	SignUp(ctx context.Context, in services.SignUpInput) (*models.User, string, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	SignOut(ctx context.Context, sess session.Session) error
}

// SignOutNotifier tells a user's open tabs that the session ended
type SignOutNotifier interface {
	NotifySignedOut(userID string) error
}

// SessionCookie describes the cookie carrying the session token
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func (c SessionCookie) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthHandler handles login, sign-up and logout
type AuthHandler struct {
	auth   Authenticator
	hub    SignOutNotifier
	pages  *Pages
	cookie SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, hub SignOutNotifier, pages *Pages, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		hub:    hub,
		pages:  pages,
		cookie: cookie,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, web.PageLogin, "Login", form.Idle(), web.LoginView{})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	view := web.LoginView{Email: email}

	user, token, err := h.auth.SignIn(r.Context(), email, r.FormValue("password"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.pages.render(w, r, http.StatusUnauthorized, web.PageLogin, "Login",
				form.Failed("The email address or password is incorrect."), view)
			return
		}
		log.Error().Err(err).Msg("Failed to sign in")
		h.pages.render(w, r, http.StatusInternalServerError, web.PageLogin, "Login", form.Failed(msgSomethingWrong), view)
		return
	}

	h.cookie.set(w, token)
	log.Info().Str("user_id", user.ID).Msg("User signed in")
	http.Redirect(w, r, routes.Dashboard, http.StatusSeeOther)
}

// SignUpPage handles GET /sign-up
func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, web.PageSignUp, "Sign Up", form.Idle(), web.SignUpView{})
}

// SignUp handles POST /sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	in := services.SignUpInput{
		Username: r.FormValue("username"),
		FullName: r.FormValue("full_name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	view := web.SignUpView{Username: in.Username, FullName: in.FullName, Email: in.Email}

	user, token, err := h.auth.SignUp(r.Context(), in)
	if err != nil {
		status, message := signUpFailure(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to sign up")
		}
		h.pages.render(w, r, status, web.PageSignUp, "Sign Up", form.Failed(message), view)
		return
	}

	h.cookie.set(w, token)
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User signed up")
	http.Redirect(w, r, routes.Dashboard, http.StatusSeeOther)
}

func signUpFailure(err error) (int, string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Message
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict, "That username is already taken, please try another."
	case errors.Is(err, services.ErrAccountExists):
		return http.StatusConflict, "An account with that username or email already exists."
	default:
		return http.StatusInternalServerError, msgSomethingWrong
	}
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if sess.IsAuthenticated() {
		userID := sess.UserID()
		if err := h.auth.SignOut(r.Context(), sess); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to revoke session")
		}
		if err := h.hub.NotifySignedOut(userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to notify sign out")
		}
		log.Info().Str("user_id", userID).Msg("User signed out")
	}

	h.cookie.clear(w)
	http.Redirect(w, r, routes.Login, http.StatusSeeOther)
}
