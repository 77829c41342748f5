package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		require.Equal(t, KindConflict, KindOf(Conflict("seat is already assigned in this shift")))
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("assign: %w", NotFound("seat not found"))
		require.Equal(t, KindNotFound, KindOf(err))
		require.True(t, Is(err, KindNotFound))
		require.False(t, Is(err, KindForbidden))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		require.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
	})
}

func TestErrorMessage(t *testing.T) {
	err := Internal(fmt.Errorf("connection reset"), "could not assign seat")
	require.Equal(t, "could not assign seat: connection reset", err.Error())
	require.EqualError(t, err.Unwrap(), "connection reset")

	require.Equal(t, `shift with name "Morning" already exists in this branch`,
		Conflict("shift with name %q already exists in this branch", "Morning").Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidArgument: http.StatusBadRequest,
		KindInvalidState:    http.StatusBadRequest,
		KindUnauthorized:    http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindInternal:        http.StatusInternalServerError,
		Kind("unknown"):     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		require.Equal(t, want, HTTPStatus(kind), "kind %s", kind)
	}
}
