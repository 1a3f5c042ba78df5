package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ConfigInvalid("BACKEND_URL is required")
	wrapped := Wrap(base, "failed to load backend configuration")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.Equal(t, "failed to load backend configuration: BACKEND_URL is required", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("disk full"), "write %s", "snapshot")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "write snapshot: disk full", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", ExternalServiceError("inference", fmt.Errorf("boom")))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeExternalService, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad orientation"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad orientation: bad orientation", err.Error())
}
