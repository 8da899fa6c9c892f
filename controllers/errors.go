package controllers

import (
	"errors"
	"net/http"

	"guildhall/auth"
	"guildhall/services"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
)

// MessageResponse is the body of every error and of bodiless successes.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeMessage(response *restful.Response, status int, message string) {
	_ = response.WriteHeaderAndJson(status, MessageResponse{Message: message}, restful.MIME_JSON)
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrGameFull):
		return http.StatusConflict
	case errors.Is(err, services.ErrSelfReference), errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError translates service errors to HTTP responses. Internal
// errors are logged and hidden from the client.
func handleServiceError(request *restful.Request, response *restful.Response, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("Unhandled service error",
			zap.String("method", request.Request.Method),
			zap.String("path", request.Request.URL.Path),
			zap.Error(err))
		writeMessage(response, status, "An internal error occurred")
		return
	}
	writeMessage(response, status, err.Error())
}

func readEntity(request *restful.Request, response *restful.Response, entity interface{}) bool {
	if err := request.ReadEntity(entity); err != nil {
		writeMessage(response, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// requestingUserID extracts the user ID set by the auth filter.
func requestingUserID(request *restful.Request, response *restful.Response) (uint, bool) {
	userID, ok := auth.RequestUserID(request)
	if !ok {
		writeMessage(response, http.StatusUnauthorized, "Unauthorized: Cannot identify requesting user")
	}
	return userID, ok
}
