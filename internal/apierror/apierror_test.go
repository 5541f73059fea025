package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{ClosingPrecondition("x"), http.StatusConflict},
		{InvalidTransition("x"), http.StatusUnprocessableEntity},
		{MissingRider("x"), http.StatusUnprocessableEntity},
		{InvalidAmount("x"), http.StatusBadRequest},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err))
	}
}

func TestStatusOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("saving order: %w", Conflict("lost the race"))
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.True(t, IsCode(err, CodeConflict))
}

func TestFromError_KeepsCode(t *testing.T) {
	resp := FromError(MissingRider("no rider on board"))
	assert.Equal(t, "no rider on board", resp.Detail)
	assert.Equal(t, CodeMissingRider, resp.Code)

	plain := FromError(errors.New("boom"))
	assert.Empty(t, plain.Code)
}
