package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:          http.StatusNotFound,
		KindValidation:        http.StatusBadRequest,
		KindInvalidTransition: http.StatusBadRequest,
		KindInvalidSession:    http.StatusForbidden,
		KindUnauthorized:      http.StatusUnauthorized,
		KindConflict:          http.StatusConflict,
		KindNetwork:           http.StatusBadGateway,
		KindUnknown:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		err := &Error{Kind: kind, Message: "x"}
		assert.Equal(t, want, err.HTTPStatus())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := NotFound("table %d not found", 7)
	wrapped := fmt.Errorf("loading bill: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestNetworkErrorKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network("order submission failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "order submission failed")
	assert.Contains(t, err.Error(), "connection refused")
}
