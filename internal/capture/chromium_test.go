package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsNormalize(t *testing.T) {
	o := Options{URL: "http://127.0.0.1:8080/", OutputPath: "out.png"}
	require.NoError(t, o.normalize())
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, DefaultTimeoutSec*time.Second, o.Timeout)

	o = Options{URL: "http://x/", OutputPath: "out.png", Width: 800, Height: 600, Timeout: time.Second}
	require.NoError(t, o.normalize())
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, time.Second, o.Timeout)
}

func TestTimelineRequiresURLAndOutput(t *testing.T) {
	assert.ErrorContains(t, Timeline(context.Background(), Options{OutputPath: "x.png"}), "URL")
	assert.ErrorContains(t, Timeline(context.Background(), Options{URL: "http://x/"}), "OutputPath")
}

func TestTasksScreenshotMode(t *testing.T) {
	var buf []byte
	full := Options{URL: "http://x/"}.tasks(&buf)
	elem := Options{URL: "http://x/", Selector: "#timeline"}.tasks(&buf)
	assert.Len(t, full, 5)
	assert.Len(t, elem, 5)
}
