package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const loggerKey = "_log"

// GetLogger returns the request scoped logger, or the global one outside a request
func GetLogger(c *gin.Context) zerolog.Logger {
	if logger, ok := c.Get(loggerKey); ok {
		return logger.(zerolog.Logger)
	}
	return log.Logger
}

// SetLogger tags each request with an id and logs the ones that failed.
// Paths in skip are never logged.
func SetLogger(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		id := xid.New().String()
		c.Writer.Header().Set("X-Request-Id", id)
		reqlogger := log.With().Str("request_id", id).Logger()
		c.Set(loggerKey, reqlogger)

		c.Next()

		if _, ok := skipped[path]; ok {
			return
		}

		status := c.Writer.Status()
		dumplogger := reqlogger.With().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Str("user-agent", c.Request.UserAgent()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Logger()

		msg := "Request"
		if len(c.Errors) > 0 {
			msg = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			dumplogger.Error().Msg(msg)
		case status >= http.StatusBadRequest:
			dumplogger.Warn().Msg(msg)
		default:
			dumplogger.Debug().Msg(msg)
		}
	}
}
