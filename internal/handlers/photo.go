package handlers

import (
	"context"
	"errors"
	"net/http"

	"instafeed/internal/form"
	"instafeed/internal/middleware"
	"instafeed/internal/models"
	"instafeed/internal/routes"
	"instafeed/internal/services"
	"instafeed/internal/web"

	"github.com/rs/zerolog/log"
)

const feedSize = 50

// PhotoPoster creates posts and reads the feed
type PhotoPoster interface {
	CreatePost(ctx context.Context, userID string, file *services.Upload, caption string) (*models.Photo, error)
	Feed(ctx context.Context, limit, offset int) ([]*models.FeedItem, error)
}

// PhotoHandler handles the dashboard and photo uploads
type PhotoHandler struct {
	photos   PhotoPoster
	pages    *Pages
	inflight *form.InFlight
	maxBytes int64
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photos PhotoPoster, pages *Pages, inflight *form.InFlight, maxBytes int64) *PhotoHandler {
	return &PhotoHandler{
		photos:   photos,
		pages:    pages,
		inflight: inflight,
		maxBytes: maxBytes,
	}
}

// Dashboard handles GET /
func (h *PhotoHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.photos.Feed(ctx, feedSize, 0)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", middleware.GetUserID(ctx)).
			Msg("Failed to get feed")
		h.pages.render(w, r, http.StatusInternalServerError, web.PageDashboard, "", form.Failed(msgSomethingWrong), web.DashboardView{})
		return
	}

	h.pages.render(w, r, http.StatusOK, web.PageDashboard, "", form.Idle(), web.DashboardView{Items: items})
}

// UploadPage handles GET /upload
func (h *PhotoHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, web.PageUpload, "Upload", form.Idle(), web.UploadView{})
}

// Upload handles POST /upload
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	done, err := h.inflight.Begin(form.Key("upload", userID))
	if err != nil {
		h.pages.render(w, r, http.StatusConflict, web.PageUpload, "Upload", form.Failed(msgInFlight), web.UploadView{})
		return
	}
	defer done()

	file, closeFile, err := parseUpload(w, r, "photo", h.maxBytes)
	if err != nil {
		status, message := uploadFailure(err, "That photo is too large.")
		h.pages.render(w, r, status, web.PageUpload, "Upload", form.Failed(message), web.UploadView{})
		return
	}
	defer closeFile()

	caption := r.FormValue("caption")
	view := web.UploadView{Caption: caption}

	photo, err := h.photos.CreatePost(ctx, userID, file, caption)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.pages.render(w, r, http.StatusUnprocessableEntity, web.PageUpload, "Upload", form.Failed(verr.Message), view)
			return
		}

		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to upload photo")
		h.pages.render(w, r, http.StatusInternalServerError, web.PageUpload, "Upload", form.Failed(msgUploadFailed), view)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", photo.ID).
		Str("key", photo.StorageKey).
		Msg("Photo uploaded")

	http.Redirect(w, r, routes.Dashboard, http.StatusSeeOther)
}
