package ui

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"raidash/adapters/inference"
	"raidash/domain/core"
	"raidash/internal/errors"
)

// classify maps an error onto an HTTP status and an application error code
func classify(err error) (int, string) {
	switch {
	case inference.IsServiceError(err), inference.IsTransportError(err):
		return http.StatusBadGateway, errors.CodeExternalService
	case stderrors.Is(err, core.ErrUnavailable):
		return http.StatusConflict, errors.CodeUnavailable
	case core.IsNotFoundError(err):
		return http.StatusNotFound, errors.CodeNotFound
	case core.IsValidationError(err):
		return http.StatusBadRequest, errors.CodeValidationError
	}

	if !errors.IsAppError(err) {
		return http.StatusInternalServerError, errors.CodeInternalError
	}
	switch code := errors.GetCode(err); code {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		return http.StatusBadRequest, code
	case errors.CodeNotFound:
		return http.StatusNotFound, code
	case errors.CodeUnavailable:
		return http.StatusConflict, code
	case errors.CodeExternalService:
		return http.StatusBadGateway, code
	}
	return http.StatusInternalServerError, errors.CodeInternalError
}

// reported names the backend when an inference call failed
func reported(err error) error {
	if inference.IsServiceError(err) || inference.IsTransportError(err) {
		return errors.ExternalServiceError("inference backend", err)
	}
	return err
}

// abortJSON ends an API request with {error, code}
func (s *Server) abortJSON(c *gin.Context, err error) {
	err = reported(err)
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

// abortPage ends a page request with the error page
func (s *Server) abortPage(c *gin.Context, err error) {
	err = reported(err)
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	_ = c.Error(err)
	s.renderTemplate(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Strings": s.strings(c),
		"Code":    code,
		"Message": err.Error(),
	})
	c.Abort()
}
