package ui

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"raidash/domain/core"
	"raidash/internal/localization"
)

const stringsKey = "raidash.strings"

// requestID accepts a caller supplied X-Request-ID or assigns a new one and
// echoes it on the response
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseRequestID(c.GetHeader(core.RequestIDHeader))
		if err != nil {
			id = core.NewRequestID()
		}
		c.Header(core.RequestIDHeader, id.String())
		c.Request = c.Request.WithContext(core.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// accessLog logs every request through zap and records the HTTP metrics
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		s.metrics.ObserveHTTP(c.FullPath(), c.Request.Method, status, elapsed)

		id, _ := core.RequestIDFromContext(c.Request.Context())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("request_id", id.String()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		s.logger.Zap().Info("request", fields...)
	}
}

// languageMiddleware resolves the string table once per request. An explicit ?lang=
// wins over Accept-Language, which wins over the configured default.
func (s *Server) languageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		pref := c.Query("lang")
		if pref == "" {
			pref = c.GetHeader("Accept-Language")
		}
		if pref == "" {
			pref = s.defaultLanguage
		}
		c.Set(stringsKey, s.catalog.Lookup(pref))
		c.Next()
	}
}

func (s *Server) strings(c *gin.Context) *localization.Strings {
	if v, ok := c.Get(stringsKey); ok {
		if table, ok := v.(*localization.Strings); ok {
			return table
		}
	}
	return s.catalog.Lookup(s.defaultLanguage)
}
