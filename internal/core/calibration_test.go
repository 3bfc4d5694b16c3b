package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsv-tracker/internal/algorithms"
)

func TestCalibrationStore_RangeRoundTrip(t *testing.T) {
	r := algorithms.ThresholdRange{
		Low:  algorithms.HSV{H: 10, S: 20, V: 30},
		High: algorithms.HSV{H: 40, S: 50, V: 60},
	}
	s := NewCalibrationStore(r, 3, true)

	assert.Equal(t, r, s.Range())
	assert.Equal(t, 3, s.KernelSize())
	assert.True(t, s.CleanupEnabled())

	s.SetCleanupEnabled(false)
	assert.False(t, s.CleanupEnabled())
}

func TestCalibrationStore_SetByParam(t *testing.T) {
	s := NewCalibrationStore(algorithms.FullRange(), 3, true)

	require.NoError(t, s.Set(LowH, 100))
	require.NoError(t, s.Set(HighH, 50))
	require.NoError(t, s.Set(LowS, 1))
	require.NoError(t, s.Set(HighS, 2))
	require.NoError(t, s.Set(LowV, 3))
	require.NoError(t, s.Set(HighV, 4))

	// Inverted ranges are stored untouched.
	r := s.Range()
	assert.Equal(t, algorithms.HSV{H: 100, S: 1, V: 3}, r.Low)
	assert.Equal(t, algorithms.HSV{H: 50, S: 2, V: 4}, r.High)
	assert.True(t, r.Empty())

	v, err := s.Get(LowH)
	require.NoError(t, err)
	assert.Equal(t, 100, v)

	assert.Error(t, s.Set(Param("Gamma"), 1))
	_, err = s.Get(Param("Gamma"))
	assert.Error(t, err)
}

func TestCalibrationStore_KernelSizeClamped(t *testing.T) {
	s := NewCalibrationStore(algorithms.FullRange(), 3, true)

	require.NoError(t, s.Set(MorphSize, 0))
	assert.Equal(t, 1, s.KernelSize())

	raw, err := s.Get(MorphSize)
	require.NoError(t, err)
	assert.Equal(t, 0, raw)

	require.NoError(t, s.Set(MorphSize, 7))
	assert.Equal(t, 7, s.KernelSize())
}

func TestCalibrationStore_ConcurrentAccess(t *testing.T) {
	s := NewCalibrationStore(algorithms.FullRange(), 3, true)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = s.Set(LowH, i%180)
			_ = s.Set(MorphSize, i%11)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			r := s.Range()
			assert.GreaterOrEqual(t, r.Low.H, 0)
			assert.GreaterOrEqual(t, s.KernelSize(), 1)
		}
	}()
	wg.Wait()
}

func TestParameters_Bounds(t *testing.T) {
	params := Parameters()
	require.Len(t, params, 7)

	bounds := map[Param]int{}
	for _, p := range params {
		bounds[p.Name] = p.Max
	}
	assert.Equal(t, 179, bounds[LowH])
	assert.Equal(t, 179, bounds[HighH])
	assert.Equal(t, 255, bounds[HighS])
	assert.Equal(t, 255, bounds[LowV])
	assert.Equal(t, 10, bounds[MorphSize])
}
