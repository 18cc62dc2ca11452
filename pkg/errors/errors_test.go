package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	wrapped := Wrap(errors.New("dial tcp: refused"), ErrUpstreamUnavailable.Code, ErrUpstreamUnavailable.Status, "HRMS backend unreachable")

	got := FromError(wrapped)

	assert.Same(t, wrapped, got)
	assert.Equal(t, http.StatusBadGateway, got.Status)
	assert.Contains(t, got.Error(), "dial tcp")
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
}

func TestCloneOverridesMessageOnly(t *testing.T) {
	clone := Clone(ErrBusy, "sync already running")

	assert.Equal(t, "sync already running", clone.Message)
	assert.Equal(t, ErrBusy.Code, clone.Code)
	assert.Equal(t, "operation already in progress", ErrBusy.Message)
}
