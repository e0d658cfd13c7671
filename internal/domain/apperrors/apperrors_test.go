package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKindThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("submitting answer: %w", Transport("reasoning service unreachable", cause))

	assert.True(t, IsKind(err, KindTransport))
	assert.False(t, IsKind(err, KindProtocol))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsKind(errors.New("plain"), KindTransport))
}

func TestErrorStringIncludesRemoteCode(t *testing.T) {
	err := Remote("rate limited", "429")
	assert.Equal(t, "remote: rate limited (429)", err.Error())
	assert.Equal(t, "empty_answer: answer requires text or a recording",
		EmptyAnswer("answer requires text or a recording").Error())
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{EmptyAnswer("no content"), http.StatusUnprocessableEntity},
		{Protocol("malformed payload", nil), http.StatusBadGateway},
		{Remote("upstream failure", "500"), http.StatusBadGateway},
		{Transport("timeout", nil), http.StatusGatewayTimeout},
		{Conflict("turn in flight"), http.StatusConflict},
		{NotFound("no such session"), http.StatusNotFound},
		{Storage("record store down", nil), http.StatusServiceUnavailable},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "for %v", tc.err)
	}
}
