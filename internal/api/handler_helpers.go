package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yourname/fasttrack/internal"
	"github.com/yourname/fasttrack/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 409:
		resp = response.Conflict(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(200, response.Success(data, meta))
}

// statusForDomainError maps lifecycle sentinel errors onto HTTP codes.
// Precondition violations are conflicts, absences are 404s.
func statusForDomainError(err error) int {
	switch {
	case errors.Is(err, internal.ErrFastNotFound),
		errors.Is(err, internal.ErrProfileNotFound),
		errors.Is(err, internal.ErrProtocolNotFound):
		return 404
	case errors.Is(err, internal.ErrFastAlreadyActive),
		errors.Is(err, internal.ErrFastNotActive),
		errors.Is(err, internal.ErrFastNotCompleted):
		return 409
	default:
		return 500
	}
}

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet("user").(*internal.User)
}
