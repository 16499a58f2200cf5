package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := map[Kind]int{
		KindBadRequest:          http.StatusBadRequest,
		KindUnauthorized:        http.StatusUnauthorized,
		KindConflict:            http.StatusConflict,
		KindNotFound:            http.StatusNotFound,
		KindUnprocessableEntity: http.StatusUnprocessableEntity,
		KindUpstream:            http.StatusBadGateway,
		KindInternal:            http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, New(kind, "boom").StatusCode(), string(kind))
	}
}

func TestFrom(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, From(nil))
	})

	t.Run("app errors pass through", func(t *testing.T) {
		appErr := NotFound("missing")
		assert.Same(t, appErr, From(appErr))
	})

	t.Run("wrapped app errors are unwrapped", func(t *testing.T) {
		appErr := Conflict("busy")
		wrapped := fmt.Errorf("handler: %w", appErr)
		assert.Same(t, appErr, From(wrapped))
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		err := From(errors.New("boom"))
		assert.Equal(t, KindInternal, err.Kind())
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	})
}

func TestOptions(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := BadRequest("invalid payload",
		WithCause(cause),
		WithDetail("field", "store_id"),
		WithDetails(map[string]any{"hint": "numeric"}),
	)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "store_id", err.Details()["field"])
	assert.Equal(t, "numeric", err.Details()["hint"])
	assert.Contains(t, err.Error(), "invalid payload")
	assert.Contains(t, err.Error(), "bad connection")
}
