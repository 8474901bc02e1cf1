package main

import (
	"craftsite/internal/store"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// listTestimonialsHandler godoc
//
//	@Summary		List the caller's testimonials
//	@Description	Lists testimonials for moderation. Optional ?published=true|false filter.
//	@Tags			testimonials
//	@Produce		json
//	@Param			published	query		bool	false	"Filter by publication state"
//	@Success		200			{array}		store.Testimonial
//	@Failure		500			{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/testimonials [get]
func (app *application) listTestimonialsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var published *bool
	if val := r.URL.Query().Get("published"); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid published filter"))
			return
		}
		published = &parsed
	}

	testimonials, err := app.store.Testimonials.ListByOwner(r.Context(), user.ID, published)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, testimonials); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) setTestimonialPublished(w http.ResponseWriter, r *http.Request, published bool) {
	user := getUserFromContext(r)

	testimonialID, err := strconv.ParseInt(chi.URLParam(r, "testimonialID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid testimonial ID"))
		return
	}

	if err := app.store.Testimonials.SetPublished(r.Context(), testimonialID, user.ID, published); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	message := "testimonial unpublished"
	if published {
		message = "testimonial published"
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": message}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// publishTestimonialHandler godoc
//
//	@Summary		Publish a testimonial
//	@Tags			testimonials
//	@Produce		json
//	@Param			testimonialID	path		int	true	"Testimonial ID"
//	@Success		200				{object}	map[string]string
//	@Failure		404				{object}	error	"Testimonial not found"
//	@Security		ApiKeyAuth
//	@Router			/testimonials/{testimonialID}/publish [patch]
func (app *application) publishTestimonialHandler(w http.ResponseWriter, r *http.Request) {
	app.setTestimonialPublished(w, r, true)
}

// unpublishTestimonialHandler godoc
//
//	@Summary		Unpublish a testimonial
//	@Tags			testimonials
//	@Produce		json
//	@Param			testimonialID	path		int	true	"Testimonial ID"
//	@Success		200				{object}	map[string]string
//	@Failure		404				{object}	error	"Testimonial not found"
//	@Security		ApiKeyAuth
//	@Router			/testimonials/{testimonialID}/unpublish [patch]
func (app *application) unpublishTestimonialHandler(w http.ResponseWriter, r *http.Request) {
	app.setTestimonialPublished(w, r, false)
}

// deleteTestimonialHandler godoc
//
//	@Summary		Delete a testimonial
//	@Tags			testimonials
//	@Produce		json
//	@Param			testimonialID	path		int	true	"Testimonial ID"
//	@Success		200				{object}	map[string]string
//	@Failure		404				{object}	error	"Testimonial not found"
//	@Security		ApiKeyAuth
//	@Router			/testimonials/{testimonialID} [delete]
func (app *application) deleteTestimonialHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	testimonialID, err := strconv.ParseInt(chi.URLParam(r, "testimonialID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid testimonial ID"))
		return
	}

	if err := app.store.Testimonials.Delete(r.Context(), testimonialID, user.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "testimonial deleted"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
