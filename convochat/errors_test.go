package convochat

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsComparesCodes(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewError(ErrorNotConnected, "socket is not open"))
	require.True(t, errors.Is(err, NewError(ErrorNotConnected, "")))
	require.False(t, errors.Is(err, NewError(ErrorDisconnected, "")))
	require.Equal(t, ErrorNotConnected, CodeOf(err))
	require.Equal(t, ErrorUnknown, CodeOf(io.EOF))
}

func TestWrapErrorUnwraps(t *testing.T) {
	err := WrapError(ErrorDisconnected, "read failed", io.EOF)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "disconnected: read failed (wrapped: EOF)", err.Error())
	require.True(t, IsConnectionError(err))
	require.False(t, IsFrameError(err))
}

func TestErrorCodeString(t *testing.T) {
	require.Equal(t, "already_connected", ErrorAlreadyConnected.String())
	require.Equal(t, "unknown_code_99", ErrorCode(99).String())
}
