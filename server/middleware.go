package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nazonexus/identity/auth"
	"github.com/nazonexus/identity/authctx"
	"github.com/nazonexus/identity/errors"
	"github.com/nazonexus/identity/logger"
)

// RequestID injects a unique X-Request-Id header into every request/response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// RequestLogger logs every request with method, path, status, and latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.DurationFields("http.request", time.Since(start))
		fields["method"] = c.Request.Method
		fields["status"] = status
		fields[logger.FieldPath] = c.Request.URL.Path
		fields[logger.FieldRequestID] = c.GetString("request_id")

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request failed", fields)
		case status >= http.StatusBadRequest:
			log.Warn("Request rejected", fields)
		default:
			log.Info("Request completed", fields)
		}
	}
}

// Recovery recovers from handler panics, logs the stack, and answers 500.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered", map[string]interface{}{
					logger.FieldError: fmt.Sprintf("%v", err),
					"stack":           string(debug.Stack()),
					logger.FieldPath:  c.Request.URL.Path,
					"method":          c.Request.Method,
				})
				RespondWithError(c, errors.Internal(fmt.Errorf("panic: %v", err)))
			}
		}()
		c.Next()
	}
}

// Identity resolves the Authorization header once per request and stores the
// result in the request context. Requests with no credentials or a rejected
// token proceed as anonymous; protected routes answer with a uniform 401 via
// RequireAuth. Only a valid token for a missing or deactivated account is
// rejected here.
func Identity(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := svc.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), ident))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run behind Identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := authctx.Get(c.Request.Context())
		if !ok || ident.IsAnonymous() {
			c.Header("WWW-Authenticate", `Bearer realm="nazonexus"`)
			RespondWithError(c, errors.Unauthorized("authentication required"))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin flag. It must run behind
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := authctx.Get(c.Request.Context())
		if !ok || !ident.Admin {
			RespondWithError(c, errors.Forbidden("admin access required"))
			return
		}
		c.Next()
	}
}
