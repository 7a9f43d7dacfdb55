package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"instafeed/internal/form"
	"instafeed/internal/middleware"
	"instafeed/internal/models"
	"instafeed/internal/repository"
	"instafeed/internal/routes"
	"instafeed/internal/services"
	"instafeed/internal/session"
	"instafeed/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ProfileRefreshDelay is how long the edit-profile confirmation stays up
const ProfileRefreshDelay = 2 * time.Second

const profilePhotos = 100

// ProfileService reads, searches and edits profiles
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByUsername(ctx context.Context, text string) ([]*models.User, error)
	EditProfile(ctx context.Context, userID string, in services.EditProfileInput) error
}

// PhotoLister lists a user's photos
type PhotoLister interface {
	PhotosByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Photo, error)
}

// ProfileNotifier tells a user's open tabs that the profile changed
type ProfileNotifier interface {
	NotifyProfileUpdated(userID, username string) error
}

// UserHandler handles search, profile pages and profile edits
type UserHandler struct {
	users          ProfileService
	photos         PhotoLister
	hub            ProfileNotifier
	pages          *Pages
	inflight       *form.InFlight
	maxAvatarBytes int64
}

// NewUserHandler creates a new user handler
func NewUserHandler(users ProfileService, photos PhotoLister, hub ProfileNotifier, pages *Pages, inflight *form.InFlight, maxAvatarBytes int64) *UserHandler {
	return &UserHandler{
		users:          users,
		photos:         photos,
		hub:            hub,
		pages:          pages,
		inflight:       inflight,
		maxAvatarBytes: maxAvatarBytes,
	}
}

// Search handles GET /search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	view := web.SearchView{Query: query}

	if strings.TrimSpace(query) == "" {
		h.pages.render(w, r, http.StatusOK, web.PageSearch, "Search", form.Idle(), view)
		return
	}

	users, err := h.users.GetUsersByUsername(r.Context(), query)
	if err != nil {
		log.Error().
			Err(err).
			Str("query", query).
			Msg("Failed to search users")
		h.pages.render(w, r, http.StatusInternalServerError, web.PageSearch, "Search", form.Failed(msgSomethingWrong), view)
		return
	}

	view.Searched = true
	view.Users = users
	h.pages.render(w, r, http.StatusOK, web.PageSearch, "Search", form.Idle(), view)
}

// Profile handles GET /p/{username}
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	user, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.pages.NotFound(w, r)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to get profile")
		h.pages.render(w, r, http.StatusInternalServerError, web.PageUnavailable, "", form.Idle(), nil)
		return
	}

	photos, err := h.photos.PhotosByUser(ctx, user.ID, profilePhotos, 0)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to get photos")
		photos = nil
	}

	h.pages.render(w, r, http.StatusOK, web.PageProfile, user.Username, form.Idle(), web.ProfileView{
		User:    user,
		Photos:  photos,
		IsOwner: middleware.GetUserID(ctx) == user.ID,
	})
}

func editView(user *models.User) web.EditProfileView {
	return web.EditProfileView{
		Username:  user.Username,
		FullName:  user.FullName,
		Bio:       user.Bio,
		AvatarSrc: routes.AvatarPath(user.Username, user.AvatarURL),
	}
}

// EditProfilePage handles GET /edit-profile
func (h *UserHandler) EditProfilePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile")
		fallback := session.FromContext(ctx).User
		h.pages.render(w, r, http.StatusInternalServerError, web.PageEditProfile, "Edit profile", form.Failed(msgSomethingWrong), editView(fallback))
		return
	}

	h.pages.render(w, r, http.StatusOK, web.PageEditProfile, "Edit profile", form.Idle(), editView(user))
}

// EditProfile handles POST /edit-profile
func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)
	userID := sess.UserID()

	view := editView(sess.User)

	done, err := h.inflight.Begin(form.Key("edit-profile", userID))
	if err != nil {
		h.pages.render(w, r, http.StatusConflict, web.PageEditProfile, "Edit profile", form.Failed(msgInFlight), view)
		return
	}
	defer done()

	avatar, closeFile, err := parseUpload(w, r, "avatar", h.maxAvatarBytes)
	if err != nil {
		status, message := uploadFailure(err, "That picture is too large.")
		h.pages.render(w, r, status, web.PageEditProfile, "Edit profile", form.Failed(message), view)
		return
	}
	defer closeFile()

	in := services.EditProfileInput{
		FullName: r.FormValue("full_name"),
		Bio:      r.FormValue("bio"),
		Avatar:   avatar,
	}
	view.FullName = in.FullName
	view.Bio = models.ClampBio(in.Bio)

	if err := h.users.EditProfile(ctx, userID, in); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.pages.render(w, r, http.StatusUnprocessableEntity, web.PageEditProfile, "Edit profile", form.Failed(verr.Message), view)
			return
		}

		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to update profile")
		h.pages.render(w, r, http.StatusInternalServerError, web.PageEditProfile, "Edit profile", form.Failed(msgProfileFailed), view)
		return
	}

	if user, err := h.users.GetProfile(ctx, userID); err == nil {
		view = editView(user)
	}

	if err := h.hub.NotifyProfileUpdated(userID, sess.User.Username); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to notify profile update")
	}
	log.Info().Str("user_id", userID).Msg("Profile updated")

	h.pages.renderPage(w, r, http.StatusOK, web.PageEditProfile, web.Page{
		Title:   "Edit profile",
		Form:    form.Succeeded("Profile updated successfully!"),
		Refresh: &web.Refresh{Delay: ProfileRefreshDelay, URL: routes.ProfilePath(sess.User.Username)},
		Data:    view,
	})
}
