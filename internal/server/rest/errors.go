package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/go-chi/render"
)

const (
	msgUnauthorized = "Unauthorized"
	msgNotFound     = "Not found"
	msgServerError  = "Server error"
)

// validationMessages holds the client-facing text of each validation error.
var validationMessages = []struct {
	err error
	msg string
}{
	{common.ErrMissingEmail, "Missing email"},
	{common.ErrMissingPassword, "Missing password"},
	{common.ErrMissingName, "Missing name"},
	{common.ErrMissingType, "Missing type"},
	{common.ErrMissingData, "Missing data"},
	{common.ErrParentNotFound, "Parent not found"},
	{common.ErrParentNotAFolder, "Parent is not a folder"},
	{common.ErrNotAFile, "A folder doesn't have content"},
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// statusFor maps a service error to its status code and message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, "Already exist"
	}
	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			return http.StatusBadRequest, v.msg
		}
	}
	return http.StatusInternalServerError, msgServerError
}

// fail writes the response for err; unexpected errors are logged and hidden.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, r, status, msg)
}
