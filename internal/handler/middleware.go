package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/community-watch/backend/internal/model"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	msgParse   = "The analysis service returned invalid data. Please try again."
	msgNetwork = "Unable to connect to the analysis service. Please check your connection and try again."
	msgUnknown = "An unexpected error occurred while analyzing the incident. Please try again later."
)

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			zap.L().Error("http request", fields...)
		case status >= http.StatusBadRequest:
			zap.L().Warn("http request", fields...)
		default:
			zap.L().Info("http request", fields...)
		}
	}
}

// CORSMiddleware allows the configured origins. "*" allows any origin;
// entries without an http(s) scheme are ignored.
func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", requestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "*":
			cfg.AllowAllOrigins = true
			cfg.AllowOrigins = nil
		case strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://"):
			if !cfg.AllowAllOrigins {
				cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
			}
		default:
			zap.L().Warn("cors: ignoring origin without scheme", zap.String("origin", origin))
		}
	}

	if !cfg.AllowAllOrigins && len(cfg.AllowOrigins) == 0 {
		// 허용 origin 이 없으면 CORS 헤더를 붙이지 않는다
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cfg)
}

// Recovery turns a panic into the analysis error envelope without echoing
// the panic value.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		status, message, errorType := classifyPanic(recovered)
		zap.L().Error("panic recovered",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(status, model.AnalyzeErrorResponse{
			Error:     message,
			ErrorType: errorType,
		})
	})
}

func classifyPanic(recovered any) (int, string, string) {
	err, ok := recovered.(error)
	if !ok {
		return http.StatusInternalServerError, msgUnknown, model.ErrorTypeUnknown
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return http.StatusInternalServerError, msgParse, model.ErrorTypeParse
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return http.StatusServiceUnavailable, msgNetwork, model.ErrorTypeNetwork
	}
	return http.StatusInternalServerError, msgUnknown, model.ErrorTypeUnknown
}
