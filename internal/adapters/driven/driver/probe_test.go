package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // registers the embedded driver

	"github.com/xuie0000/wordbook/internal/core/domain"
)

func TestEmbeddedCompatible(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         bool
	}{
		{"linux", "amd64", true},
		{"linux", "arm64", true},
		{"darwin", "arm64", true},
		{"windows", "amd64", true},
		{"windows", "arm64", false},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			assert.Equal(t, tt.want, EmbeddedCompatible(tt.goos, tt.goarch))
		})
	}
}

func TestEmbeddedProbe_Usable(t *testing.T) {
	assert.True(t, NewEmbeddedProbeFor("linux", "amd64").Usable())
	assert.False(t, NewEmbeddedProbeFor("windows", "arm64").Usable())
}

func TestEmbeddedProbe_Open(t *testing.T) {
	handle, err := NewEmbeddedProbeFor("linux", "amd64").Open()
	require.NoError(t, err)
	assert.Equal(t, EmbeddedDriverName, handle.Name)

	_, err = NewEmbeddedProbeFor("windows", "arm64").Open()
	assert.ErrorIs(t, err, domain.ErrNoDriver)
}

func TestArtifactProbe_Usable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wordbook-driver-1.4.0.so", "hello")

	assert.True(t, NewArtifactProbe(path, helloSHA1).Usable())
	assert.False(t, NewArtifactProbe(path, "0000000000000000000000000000000000000000").Usable())
	assert.False(t, NewArtifactProbe(filepath.Join(dir, "absent.so"), helloSHA1).Usable())
}

func TestArtifactProbe_OpenDisposesOfBrokenArtifact(t *testing.T) {
	// Verifies but is not a loadable shared object.
	path := writeFile(t, t.TempDir(), "wordbook-driver-1.4.0.so", "hello")

	_, err := NewArtifactProbe(path, helloSHA1).Open()
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
