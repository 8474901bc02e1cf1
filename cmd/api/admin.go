package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// ---------- REQUEST TYPES ----------

type assignRoleRequest struct {
	RoleID int64 `json:"role_id"` // ID from roles table
}

// adminListUsersHandler godoc
//
//	@Summary		List all accounts with their roles
//	@Description	Cross-tenant listing for operators. Requires the admin role.
//	@Tags			admin
//	@Produce		json
//	@Param			limit	query		int					false	"Page size (default 50)"
//	@Param			offset	query		int					false	"Offset"
//	@Success		200		{array}		store.UserWithRoles	"Users"
//	@Failure		403		{object}	error				"Forbidden"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/admin/users [get]
func (app *application) adminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit := 50
	if val := r.URL.Query().Get("limit"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if val := r.URL.Query().Get("offset"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	users, err := app.store.Users.ListWithRoles(ctx, limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, users); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminAssignRoleHandler godoc
//
//	@Summary		Assign a role to a user
//	@Description	Assigns a role (by role_id) to the specified user.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int					true	"User ID"
//	@Param			body	body		assignRoleRequest	true	"Role assignment payload"
//	@Success		200		{object}	map[string]string	"Role assigned successfully"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/admin/users/{userID}/roles [post]
func (app *application) adminAssignRoleHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	var in assignRoleRequest
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if in.RoleID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid role_id"))
		return
	}

	if err := app.store.Roles.AssignRole(ctx, userID, in.RoleID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "role assigned"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminRemoveRoleHandler godoc
//
//	@Summary		Remove a role from a user
//	@Tags			admin
//	@Produce		json
//	@Param			userID	path		int					true	"User ID"
//	@Param			roleID	path		int					true	"Role ID"
//	@Success		200		{object}	map[string]string	"Role removed successfully"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/admin/users/{userID}/roles/{roleID} [delete]
func (app *application) adminRemoveRoleHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid userID"))
		return
	}

	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil || roleID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid roleID"))
		return
	}

	if err := app.store.Roles.RemoveRole(ctx, userID, roleID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "role removed"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
