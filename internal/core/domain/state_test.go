package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleState_String(t *testing.T) {
	assert.Equal(t, "UNINITIALIZED", Uninitialized.String())
	assert.Equal(t, "INITIALIZING", Initializing.String())
	assert.Equal(t, "RUNNING", Running.String())
	assert.Equal(t, "NO_DRIVER", NoDriver.String())
	assert.Equal(t, "DOWNLOADING_DRIVER", DownloadingDriver.String())
	assert.Equal(t, "INITIALIZATION_ERROR", InitializationError.String())
	assert.Equal(t, "UNKNOWN", LifecycleState(99).String())
}
