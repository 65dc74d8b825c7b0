package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseImageRef verifies normalization of image references,
// including the implicit "latest" tag and rejected inputs.
func TestParseImageRef(t *testing.T) {
	tests := []struct {
		input    string
		expected ImageRef
		hasError bool
	}{
		{"tarkov-weapon-optimizer:latest", ImageRef{"tarkov-weapon-optimizer", "latest"}, false},
		{"tarkov-weapon-optimizer", ImageRef{"tarkov-weapon-optimizer", "latest"}, false},
		{"tarkov-weapon-optimizer:v1.2", ImageRef{"tarkov-weapon-optimizer", "v1.2"}, false},
		{"docker.io/library/tarkov-weapon-optimizer:dev", ImageRef{"tarkov-weapon-optimizer", "dev"}, false},
		{"localhost:5000/team/optimizer:1", ImageRef{"localhost:5000/team/optimizer", "1"}, false},
		{"Tarkov:latest", ImageRef{}, true}, // uppercase repository
		{"", ImageRef{}, true},
		{"   ", ImageRef{}, true},
		{"optimizer@sha256:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", ImageRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseImageRef(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

// TestImageRef_String checks rendering, including a zero tag.
func TestImageRef_String(t *testing.T) {
	assert.Equal(t, DefaultImage, ImageRef{Repository: "tarkov-weapon-optimizer", Tag: "latest"}.String())
	assert.Equal(t, "foo:latest", ImageRef{Repository: "foo"}.String())
}

// TestRunHint_Command verifies the default hint renders the exact command
// users are told to copy.
func TestRunHint_Command(t *testing.T) {
	ref, err := ParseImageRef(DefaultImage)
	require.NoError(t, err)

	hint := RunHint{
		HostPort:      8501,
		ContainerPort: 8501,
		ContainerName: "tarkov-optimizer",
		Image:         ref,
	}
	assert.Equal(t,
		"docker run -d -p 8501:8501 --name tarkov-optimizer tarkov-weapon-optimizer:latest",
		hint.Command())

	hint.HostPort = 18501
	assert.Equal(t,
		"docker run -d -p 18501:8501 --name tarkov-optimizer tarkov-weapon-optimizer:latest",
		hint.Command())
}

func TestImageInfo_ShortID(t *testing.T) {
	info := ImageInfo{ID: "sha256:4f2a9c0d1e3b5a6c7d8e9f00112233445566778899aabbccddeeff0011223344"}
	assert.Equal(t, "4f2a9c0d1e3b", info.ShortID())
	assert.Equal(t, "abc", ImageInfo{ID: "abc"}.ShortID())
}

func TestBuildResult_Succeeded(t *testing.T) {
	assert.True(t, (&BuildResult{}).Succeeded())
	assert.False(t, (&BuildResult{Err: errors.New("exit status 1")}).Succeeded())
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitDockerNotRunning, "Docker daemon is not running")
		assert.Equal(t, ExitDockerNotRunning, err.Code)
		assert.Equal(t, "Docker daemon is not running", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("exit status 1")
		err := WrapCLIError(ExitBuildFailed, "image build failed", inner)
		assert.Equal(t, ExitBuildFailed, err.Code)
		assert.Contains(t, err.Error(), "exit status 1")
		assert.Equal(t, inner, err.Unwrap())
	})

	t.Run("errors.Is chain", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := WrapCLIError(ExitDockerNotRunning, "Docker daemon is not running", inner)
		assert.True(t, errors.Is(err, inner))
	})
}
