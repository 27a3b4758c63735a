package cpu

import (
	"math/rand"
	"testing"

	"github.com/born-ml/graybench/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a color image filled with deterministic noise.
func noiseImage(t testing.TB, width, height int, seed int64) *pixel.ColorImage {
	t.Helper()
	img, err := pixel.NewColorImage(width, height)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	rng.Read(img.Pix)
	return img
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
}

func TestGrayscale_SinglePixel(t *testing.T) {
	src, err := pixel.NewColorImage(1, 1)
	require.NoError(t, err)
	src.Set(0, 0, 0, 0, 255)

	dst, err := pixel.NewGrayFor(src)
	require.NoError(t, err)
	require.NoError(t, New().Grayscale(dst, src))
	assert.Equal(t, []byte{76}, dst.Pix)

	h := New().Histogram(dst)
	assert.Equal(t, uint32(1), h[76])
	assert.Equal(t, 1, h.NonZero())
}

func TestGrayscale_MatchesLuma(t *testing.T) {
	src := noiseImage(t, 31, 17, 1)
	dst, err := pixel.NewGrayFor(src)
	require.NoError(t, err)
	require.NoError(t, New().Grayscale(dst, src))

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			b, g, r := src.At(x, y)
			require.Equal(t, pixel.Luma(b, g, r), dst.Pix[y*src.Width+x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestGrayscale_Idempotent(t *testing.T) {
	src := noiseImage(t, 64, 48, 2)
	backend := New()

	first, err := pixel.NewGrayFor(src)
	require.NoError(t, err)
	second, err := pixel.NewGrayFor(src)
	require.NoError(t, err)

	require.NoError(t, backend.Grayscale(first, src))
	require.NoError(t, backend.Grayscale(second, src))
	assert.Equal(t, first.Pix, second.Pix)
}

func TestGrayscale_SizeMismatch(t *testing.T) {
	src := noiseImage(t, 4, 4, 3)
	dst, err := pixel.NewGrayImage(4, 5)
	require.NoError(t, err)

	err = New().Grayscale(dst, src)
	require.ErrorIs(t, err, pixel.ErrSizeMismatch)
}

func TestGrayscale_InvalidSource(t *testing.T) {
	src := &pixel.ColorImage{Width: 2, Height: 2, Pix: make([]byte, 5)}
	dst, err := pixel.NewGrayImage(2, 2)
	require.NoError(t, err)

	err = New().Grayscale(dst, src)
	require.ErrorIs(t, err, pixel.ErrSizeMismatch)
}

func TestHistogram_UniformImage(t *testing.T) {
	src, err := pixel.NewColorImage(4, 4)
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, 10, 20, 30)
		}
	}

	dst, err := pixel.NewGrayFor(src)
	require.NoError(t, err)
	backend := New()
	require.NoError(t, backend.Grayscale(dst, src))

	h := backend.Histogram(dst)
	assert.Equal(t, 1, h.NonZero())
	assert.Equal(t, uint32(16), h[pixel.Luma(10, 20, 30)])
}

func TestHistogram_SumEqualsPixelCount(t *testing.T) {
	src := noiseImage(t, 257, 129, 4)
	dst, err := pixel.NewGrayFor(src)
	require.NoError(t, err)
	backend := New()
	require.NoError(t, backend.Grayscale(dst, src))

	h := backend.Histogram(dst)
	assert.Equal(t, uint64(257*129), h.Sum())
}

func BenchmarkGrayscale(b *testing.B) {
	src := noiseImage(b, 1920, 1080, 5)
	dst, err := pixel.NewGrayFor(src)
	require.NoError(b, err)
	backend := New()

	b.SetBytes(int64(len(src.Pix)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = backend.Grayscale(dst, src)
	}
}
