// Package sourcetest writes small real video files for tests.
package sourcetest

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

const (
	ClipWidth  = 320
	ClipHeight = 240
)

// WriteClip encodes frames BGR frames at fps into an MJPG .avi under t.TempDir
// and returns its path. Each frame has a moving block so frames differ.
func WriteClip(t *testing.T, frames int, fps float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.avi")
	writer, err := gocv.VideoWriterFile(path, "MJPG", fps, ClipWidth, ClipHeight, true)
	require.NoError(t, err)
	require.True(t, writer.IsOpened(), "video writer not opened")

	frame := gocv.NewMatWithSize(ClipHeight, ClipWidth, gocv.MatTypeCV8UC3)
	defer frame.Close()
	for i := 0; i < frames; i++ {
		frame.SetTo(gocv.NewScalar(40, 80, 120, 0))
		x := (i * 3) % (ClipWidth - 40)
		gocv.Rectangle(&frame, image.Rect(x, 100, x+40, 140), color.RGBA{R: 230, G: 230, B: 230}, -1)
		require.NoError(t, writer.Write(frame))
	}
	require.NoError(t, writer.Close())
	return path
}
