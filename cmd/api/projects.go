package main

import (
	"craftsite/internal/store"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type projectPayload struct {
	Title   string  `json:"title" validate:"required,max=150"`
	Summary *string `json:"summary" validate:"omitempty,max=5000"`
}

// createProjectHandler godoc
//
//	@Summary		Add a portfolio project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		projectPayload				true	"Project fields"
//	@Success		201		{object}	store.Project				"Project created"
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/projects [post]
func (app *application) createProjectHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload projectPayload
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
			app.badRequestResponse(w, r, errors.New("create a profile before adding projects"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	project := &store.Project{
		OwnerUserID: user.ID,
		ProfileID:   profile.ID,
		Title:       payload.Title,
		Summary:     payload.Summary,
	}

	if err := app.store.Projects.Create(ctx, project); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, project); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listProjectsHandler godoc
//
//	@Summary		List the caller's projects
//	@Tags			projects
//	@Produce		json
//	@Success		200	{array}		store.Project
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/projects [get]
func (app *application) listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	projects, err := app.store.Projects.ListByOwner(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, projects); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateProjectHandler godoc
//
//	@Summary		Update a project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			projectID	path		int				true	"Project ID"
//	@Param			payload		body		projectPayload	true	"Project fields"
//	@Success		200			{object}	store.Project
//	@Failure		400			{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		404			{object}	error					"Project not found"
//	@Security		ApiKeyAuth
//	@Router			/projects/{projectID} [put]
func (app *application) updateProjectHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid project ID"))
		return
	}

	var payload projectPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	project, err := app.store.Projects.GetByID(ctx, projectID)
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

	project.Title = payload.Title
	project.Summary = payload.Summary

	if err := app.store.Projects.Update(ctx, project); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, project); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProjectHandler godoc
//
//	@Summary		Delete a project
//	@Description	Deletes a project. Fails with 409 if review requests still reference it.
//	@Tags			projects
//	@Produce		json
//	@Param			projectID	path		int		true	"Project ID"
//	@Success		200			{object}	map[string]string
//	@Failure		404			{object}	error	"Project not found"
//	@Failure		409			{object}	error	"Project has review requests"
//	@Security		ApiKeyAuth
//	@Router			/projects/{projectID} [delete]
func (app *application) deleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid project ID"))
		return
	}

	if err := app.store.Projects.Delete(r.Context(), projectID, user.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrProjectInUse):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "project deleted"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
