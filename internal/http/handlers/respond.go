package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/purechef/purechef/internal/http/middlewares"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

// RespondNotFound covers both the genuinely-missing and the
// belongs-to-someone-else case; callers must not be able to tell them apart.
func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondPersistence(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "persistence_error", message, nil)
}

func RespondMisconfigured(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, "server_misconfigured", "Server misconfiguration. Please try again later.", nil)
}

// RespondUpstreamFormat maps a reachable model producing unparseable output.
func RespondUpstreamFormat(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadGateway, "upstream_format_error", message, nil)
}

func RespondUnavailable(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusServiceUnavailable, code, message, nil)
}
