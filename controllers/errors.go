package controllers

import (
	"errors"
	"net/http"

	"voice-be/services"

	"github.com/gin-gonic/gin"
)

// respondError translates the service error taxonomy into a response with a
// stable machine-readable code. Anything outside the taxonomy surfaces as an
// opaque 500; internal details never reach the client.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	message := "Something went wrong"

	switch {
	case errors.Is(err, services.ErrInvalidID):
		status, code, message = http.StatusBadRequest, "invalid_id", "Invalid identifier format"
	case errors.Is(err, services.ErrInvalidStatus):
		status, code, message = http.StatusBadRequest, "invalid_request", "Invalid value in request"
	case errors.Is(err, services.ErrIssueNotFound):
		status, code, message = http.StatusNotFound, "issue_not_found", "Issue not found"
	case errors.Is(err, services.ErrUserNotFound):
		status, code, message = http.StatusNotFound, "user_not_found", "User not found"
	case errors.Is(err, services.ErrAlreadyUpvoted):
		status, code, message = http.StatusBadRequest, "already_upvoted", "You have already upvoted this issue"
	case errors.Is(err, services.ErrNotUpvoted):
		status, code, message = http.StatusBadRequest, "not_upvoted", "You have not upvoted this issue"
	case errors.Is(err, services.ErrUndoWindowExpired):
		status, code, message = http.StatusBadRequest, "undo_window_expired", "The undo window for this upvote has expired"
	case errors.Is(err, services.ErrAdminInactive):
		status, code, message = http.StatusForbidden, "admin_inactive", "Admin account is inactive"
	case errors.Is(err, services.ErrAdminNotFound):
		status, code, message = http.StatusForbidden, "permission_denied", "Admin account not found"
	case errors.Is(err, services.ErrPermissionDenied):
		status, code, message = http.StatusForbidden, "permission_denied", "You do not have permission to perform this action"
	case errors.Is(err, services.ErrOutOfRegion):
		status, code, message = http.StatusForbidden, "out_of_region", "You can only manage issues in your region"
	case errors.Is(err, services.ErrStorageUnavailable):
		status, code, message = http.StatusServiceUnavailable, "storage_unavailable", "Service temporarily unavailable"
	}

	c.JSON(status, gin.H{"success": false, "code": code, "message": message})
}
