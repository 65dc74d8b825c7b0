package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenTCP binds an OS-assigned port and returns it. The listener is
// closed when the test ends.
func listenTCP(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "failed to start test listener")
	t.Cleanup(func() { _ = listener.Close() })

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)
	return tcpAddr.Port
}

func TestIsPortAvailable_FreePort(t *testing.T) {
	scanner := NewScanner()

	freePort, err := scanner.FindAvailablePort(50000, 50100)
	require.NoError(t, err, "should find at least one free port in 50000-50100")

	assert.True(t, scanner.IsPortAvailable(freePort), "port %d should be available", freePort)
}

// TestIsPortAvailable_UsedPort holds a listener open and checks the same port.
func TestIsPortAvailable_UsedPort(t *testing.T) {
	port := listenTCP(t)
	assert.False(t, NewScanner().IsPortAvailable(port), "port %d should be in use", port)
}

func TestIsPortAvailable_OutOfRange(t *testing.T) {
	scanner := NewScanner()
	assert.False(t, scanner.IsPortAvailable(0))
	assert.False(t, scanner.IsPortAvailable(70000))
}

func TestFindAvailablePort_EmptyRange(t *testing.T) {
	_, err := NewScanner().FindAvailablePort(100, 99)
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	scanner := NewScanner()

	t.Run("free port is kept", func(t *testing.T) {
		free, err := scanner.FindAvailablePort(51000, 51100)
		require.NoError(t, err)

		got, busy, err := scanner.Suggest(free)
		require.NoError(t, err)
		assert.False(t, busy)
		assert.Equal(t, free, got)
	})

	t.Run("busy port suggests a higher one", func(t *testing.T) {
		used := listenTCP(t)

		got, busy, err := scanner.Suggest(used)
		require.NoError(t, err)
		assert.True(t, busy)
		assert.Greater(t, got, used)
	})
}
