package main

import (
	"craftsite/internal/store"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// hashReviewToken maps the plaintext token from the mailed link to the
// hashed form the store keeps. Tokens are never stored or logged in plain.
func hashReviewToken(plain string) string {
	hash := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(hash[:])
}

// ReviewContext is what a reviewer gets to see before submitting: the
// project they are reviewing and the business it belongs to, nothing else.
type ReviewContext struct {
	ProjectTitle string `json:"projectTitle"`
	BusinessName string `json:"businessName"`
}

// verifyReviewTokenHandler godoc
//
//	@Summary		Verify a review link
//	@Description	Resolves a one-time review token to the project title and business name so the review form can be rendered. Read-only and safe to call repeatedly.
//	@Tags			reviews
//	@Produce		json
//	@Param			token	path		string					true	"Review token"
//	@Success		200		{object}	ReviewContext			"Review context"
//	@Failure		400		{object}	ErrorBadRequestResponse	"Missing token"
//	@Failure		404		{object}	error					"Unknown token"
//	@Failure		410		{object}	error					"Link already used"
//	@Router			/reviews/{token} [get]
func (app *application) verifyReviewTokenHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		app.badRequestResponse(w, r, errors.New("missing review token"))
		return
	}

	disclosure, err := app.store.ReviewRequests.GetDisclosureByToken(r.Context(), hashReviewToken(token))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrAlreadyCompleted):
			app.goneResponse(w, r)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// A pending request whose project or profile no longer exists means the
	// data is corrupt. Report it instead of rendering a half-empty form.
	if disclosure.ProjectTitle == nil || disclosure.BusinessName == nil {
		app.internalServerError(w, r, fmt.Errorf("review request references missing project or profile"))
		return
	}

	ctx := ReviewContext{
		ProjectTitle: *disclosure.ProjectTitle,
		BusinessName: *disclosure.BusinessName,
	}

	if err := writeJSON(w, http.StatusOK, ctx); err != nil {
		app.internalServerError(w, r, err)
	}
}

type submitReviewPayload struct {
	AuthorName   string  `json:"author_name" validate:"required,max=100"`
	AuthorHandle *string `json:"author_handle" validate:"omitempty,max=100"`
	Body         string  `json:"body" validate:"required,max=2000"`
}

// submitReviewHandler godoc
//
//	@Summary		Submit a review
//	@Description	Consumes a one-time review token and stores the review as an unpublished testimonial. Exactly one submission can ever succeed per token.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string					true	"Review token"
//	@Param			payload	body		submitReviewPayload		true	"Review content"
//	@Success		201		{object}	map[string]any			"Review accepted"
//	@Failure		400		{object}	ErrorBadRequestResponse	"Missing or invalid fields"
//	@Failure		404		{object}	error					"Unknown token"
//	@Failure		410		{object}	error					"Link already used"
//	@Router			/reviews/{token} [post]
func (app *application) submitReviewHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		app.badRequestResponse(w, r, errors.New("missing review token"))
		return
	}

	var payload submitReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// user_id and project_id are filled in by the store from the request row
	// itself; reviewer input never chooses where the testimonial lands.
	testimonial := &store.Testimonial{
		AuthorName:   payload.AuthorName,
		AuthorHandle: payload.AuthorHandle,
		Body:         payload.Body,
	}

	err := app.store.ReviewRequests.Consume(r.Context(), hashReviewToken(token), testimonial)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrAlreadyCompleted):
			app.goneResponse(w, r)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("review submitted", "project_id", testimonial.ProjectID)

	response := map[string]any{
		"success": true,
		"message": "thanks, your review has been received",
	}

	if err := writeJSON(w, http.StatusCreated, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
