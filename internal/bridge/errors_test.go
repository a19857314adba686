package bridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/quickscript/internal/backend"
)

func TestRemoteCallErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want Kind
		msg  string
	}{
		{"status", &backend.StatusError{StatusCode: 404, Detail: "Job not found"}, KindRemote, "failed to cancel job: 404 Not Found (Job not found)"},
		{"decode", &backend.DecodeError{Err: errors.New("decode response: EOF")}, KindDecode, "failed to parse response: decode response: EOF"},
		{"transport", &backend.TransportError{Err: errors.New("execute request: refused")}, KindTransport, "backend request failed: execute request: refused"},
		{"wrapped status", fmt.Errorf("outer: %w", &backend.StatusError{StatusCode: 502}), KindRemote, "failed to cancel job: 502 Bad Gateway"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := remoteCallError(OpCancelJob, "failed to cancel job", tc.in)
			assert.Equal(t, tc.want, KindOf(err))
			assert.Equal(t, tc.msg, Message(err))
			assert.Equal(t, OpCancelJob, err.Op)
		})
	}
}

func TestKindHelpers(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "plain", Message(errors.New("plain")))

	assert.Equal(t, "local_io", KindLocalIO.String())
	assert.Equal(t, "remote", KindRemote.String())
	assert.Equal(t, "unknown", Kind(42).String())

	inner := errors.New("permission denied")
	err := localIOError(OpReadLocalFile, "/x", "failed to read file", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "failed to read file: permission denied", err.Error())
}
