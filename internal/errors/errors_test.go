package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"chartsense/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ConfigInvalid("PORT is required")
	wrapped := Wrapf(base, "loading %s", "server")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.Equal(t, "loading server: PORT is required", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))

	plain := Wrap(fmt.Errorf("disk"), "read failed")
	assert.Equal(t, CodeInternalError, GetCode(plain))
	assert.True(t, IsAppError(fmt.Errorf("outer: %w", plain)))
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no columns", core.NewInsufficientColumnsError(0, 1), CodeInvalidInput, http.StatusBadRequest},
		{"bad method", core.NewInvalidDetectionConfigError("unknown method x"), CodeInvalidInput, http.StatusBadRequest},
		{"no numbers", core.NewNoNumericDataError("region"), CodeUnprocessable, http.StatusUnprocessableEntity},
		{"empty", core.NewEmptyInputError("mean"), CodeUnprocessable, http.StatusUnprocessableEntity},
		{"cancelled", fmt.Errorf("stage: %w", context.Canceled), CodeCancelled, http.StatusRequestTimeout},
		{"other", stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
		{"app error", NotFound("column"), CodeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := FromDomain(tt.err)
			assert.Equal(t, tt.code, GetCode(mapped))
			assert.Equal(t, tt.status, HTTPStatus(GetCode(mapped)))
			assert.ErrorIs(t, mapped, tt.err)
		})
	}

	assert.Nil(t, FromDomain(nil))
}
