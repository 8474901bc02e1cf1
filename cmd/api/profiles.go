package main

import (
	"craftsite/internal/store"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type profilePayload struct {
	BusinessName string  `json:"business_name" validate:"required,max=100"`
	Tagline      *string `json:"tagline" validate:"omitempty,max=200"`
	About        *string `json:"about" validate:"omitempty,max=5000"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
}

// createProfileHandler godoc
//
//	@Summary		Create the caller's business profile
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		profilePayload				true	"Profile fields"
//	@Success		201		{object}	store.Profile				"Profile created"
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/profile [post]
func (app *application) createProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload profilePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	profile := &store.Profile{
		OwnerUserID:  user.ID,
		BusinessName: payload.BusinessName,
		Tagline:      payload.Tagline,
		About:        payload.About,
		Phone:        payload.Phone,
	}

	ctx := r.Context()

	if err := app.store.Profiles.Create(ctx, profile); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateProfile):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Derive the public slug from the new row id. The profile is usable
	// without it, so a failure here is logged rather than failing the whole
	// request.
	slug, err := app.slugs.Encode(profile.ID)
	if err != nil {
		app.logger.Errorw("error encoding profile slug", "profile_id", profile.ID, "error", err)
	} else if err := app.store.Profiles.SetSlug(ctx, profile.ID, slug); err != nil {
		app.logger.Errorw("error saving profile slug", "profile_id", profile.ID, "error", err)
	} else {
		profile.Slug = &slug
	}

	if err := app.jsonResponse(w, http.StatusCreated, profile); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOwnProfileHandler godoc
//
//	@Summary		Get the caller's business profile
//	@Tags			profile
//	@Produce		json
//	@Success		200	{object}	store.Profile
//	@Failure		404	{object}	error	"No profile yet"
//	@Security		ApiKeyAuth
//	@Router			/profile [get]
func (app *application) getOwnProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	profile, err := app.store.Profiles.GetByOwner(r.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, profile); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateProfileHandler godoc
//
//	@Summary		Update the caller's business profile
//	@Tags			profile
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		profilePayload	true	"Profile fields"
//	@Success		200		{object}	store.Profile
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		404		{object}	error					"No profile yet"
//	@Security		ApiKeyAuth
//	@Router			/profile [put]
func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload profilePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	profile, err := app.store.Profiles.GetByOwner(ctx, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	profile.BusinessName = payload.BusinessName
	profile.Tagline = payload.Tagline
	profile.About = payload.About
	profile.Phone = payload.Phone

	if err := app.store.Profiles.Update(ctx, profile); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, profile); err != nil {
		app.internalServerError(w, r, err)
	}
}

// PublicProfile is the reviewer/visitor-facing view of a tenant: the profile
// plus its published testimonials, nothing unpublished and no account data.
type PublicProfile struct {
	BusinessName string              `json:"business_name"`
	Tagline      *string             `json:"tagline,omitempty"`
	About        *string             `json:"about,omitempty"`
	Phone        *string             `json:"phone,omitempty"`
	Testimonials []store.Testimonial `json:"testimonials"`
}

// getPublicProfileHandler godoc
//
//	@Summary		Get a public business page
//	@Tags			profile
//	@Produce		json
//	@Param			slug	path		string	true	"Profile slug"
//	@Success		200		{object}	PublicProfile
//	@Failure		404		{object}	error	"Unknown slug"
//	@Router			/profiles/{slug} [get]
func (app *application) getPublicProfileHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	profile, err := app.store.Profiles.GetBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	testimonials, err := app.store.Testimonials.ListPublishedByProfile(r.Context(), profile.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if testimonials == nil {
		testimonials = []store.Testimonial{}
	}

	public := PublicProfile{
		BusinessName: profile.BusinessName,
		Tagline:      profile.Tagline,
		About:        profile.About,
		Phone:        profile.Phone,
		Testimonials: testimonials,
	}

	if err := app.jsonResponse(w, http.StatusOK, public); err != nil {
		app.internalServerError(w, r, err)
	}
}
