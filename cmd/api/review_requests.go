package main

import (
	"craftsite/internal/mailer"
	"craftsite/internal/store"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type createReviewRequestPayload struct {
	ProjectID     int64  `json:"project_id" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=255"`
}

// createReviewRequestHandler godoc
//
//	@Summary		Invite a customer to leave a review
//	@Description	Creates a single-use review request for one of the caller's projects and emails the customer a review link.
//	@Tags			review-requests
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		createReviewRequestPayload	true	"Invitation details"
//	@Success		201		{object}	store.ReviewRequest			"Review request created"
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/review-requests [post]
func (app *application) createReviewRequestHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload createReviewRequestPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	// The project must belong to the caller; requests can never be attached
	// to another tenant's work.
	project, err := app.store.Projects.GetByID(ctx, payload.ProjectID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if project.OwnerUserID != user.ID {
		app.notFoundResponse(w, r, errors.New("project not found for this account"))
		return
	}

	profile, err := app.store.Profiles.GetByOwner(ctx, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.badRequestResponse(w, r, errors.New("create a profile before requesting reviews"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	plainToken := uuid.New().String()

	rr := &store.ReviewRequest{
		TokenHash:     hashReviewToken(plainToken),
		OwnerUserID:   user.ID,
		ProjectID:     project.ID,
		ProfileID:     profile.ID,
		CustomerName:  payload.CustomerName,
		CustomerEmail: payload.CustomerEmail,
	}

	reviewURL := fmt.Sprintf("%s/review/%s", app.config.frontendURL, plainToken)

	vars := struct {
		CustomerName string
		BusinessName string
		ProjectTitle string
		ReviewURL    string
	}{
		CustomerName: payload.CustomerName,
		BusinessName: profile.BusinessName,
		ProjectTitle: project.Title,
		ReviewURL:    reviewURL,
	}

	// The insert and the email stand or fall together: if the invitation
	// mail cannot go out, the transaction rolls the request back so no
	// orphaned token ever exists.
	err = app.store.ReviewRequests.CreateWithFn(ctx, rr, func() error {
		status, err := app.mailer.Send(mailer.ReviewInvitationTemplate, payload.CustomerName, payload.CustomerEmail, vars)
		if err != nil {
			app.logger.Errorw("error sending review invitation", "error", err)
			return err
		}
		app.logger.Infow("review invitation sent", "status code", status, "project_id", project.ID)
		return nil
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, rr); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listReviewRequestsHandler godoc
//
//	@Summary		List the caller's review requests
//	@Tags			review-requests
//	@Produce		json
//	@Success		200	{array}		store.ReviewRequest
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/review-requests [get]
func (app *application) listReviewRequestsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	requests, err := app.store.ReviewRequests.ListByOwner(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, requests); err != nil {
		app.internalServerError(w, r, err)
	}
}
