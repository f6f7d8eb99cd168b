package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"activitysignup/internal/delivery/http/helpers"
	"activitysignup/internal/domain"
)

// ConfirmationRequest is the request body for
// POST /api/activities/{name}/participants/confirmations.
type ConfirmationRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (c ConfirmationRequest) Validate() []string {
	if strings.TrimSpace(c.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// UnregisterRequest is the request body for DELETE /api/activities/{name}/participants.
type UnregisterRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Validate implements Validator. A missing token is left to the service so
// the response carries the confirmation notice.
func (u UnregisterRequest) Validate() []string {
	if strings.TrimSpace(u.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// ActionResponse is the data returned by a successful mutation.
type ActionResponse struct {
	Notice domain.Notice `json:"notice"`
	View   domain.View   `json:"view"`
}

// APIController serves the JSON rendition of the activity view.
type APIController struct {
	Logger  *slog.Logger
	Service domain.ActivityViewService
}

func NewAPIController(logger *slog.Logger, svc domain.ActivityViewService) *APIController {
	return &APIController{
		Logger:  logger,
		Service: svc,
	}
}

// ListActivities returns a freshly fetched view. A failed fetch is still a
// 200: the view state says "failed" and carries the fallback text.
func (c *APIController) ListActivities(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Refresh(r.Context()))
}

// Signup signs the email query parameter up for the named activity.
func (c *APIController) Signup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	email := r.URL.Query().Get("email")
	if name == "" || strings.TrimSpace(email) == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "activity and email are required")
		return
	}
	c.respond(w, r, c.Service.Signup(r.Context(), email, name))
}

// RequestConfirmation issues the token required to remove a participant.
func (c *APIController) RequestConfirmation(w http.ResponseWriter, r *http.Request) {
	var req ConfirmationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conf, err := c.Service.RequestUnregister(r.Context(), req.Email, r.PathValue("name"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not issue confirmation")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conf)
}

// Unregister removes a participant given a valid confirmation token.
func (c *APIController) Unregister(w http.ResponseWriter, r *http.Request) {
	var req UnregisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	c.respond(w, r, c.Service.Unregister(r.Context(), req.Email, r.PathValue("name"), req.Token))
}

// respond writes the refreshed view with a success notice, or the notice
// message as an action_failed error.
func (c *APIController) respond(w http.ResponseWriter, r *http.Request, n domain.Notice) {
	if !n.IsSuccess() {
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeActionFailed, n.Message)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ActionResponse{Notice: n, View: c.Service.Refresh(r.Context())})
}
