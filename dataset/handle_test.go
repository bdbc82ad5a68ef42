package dataset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/addrnl/postcode/errs"
	"github.com/addrnl/postcode/format"
)

func TestHandle_Dataset_NoRegistration(t *testing.T) {
	var h Handle

	_, err := h.Dataset()
	require.ErrorIs(t, err, errs.ErrNoDataset)

	// The miss is latched; a late Register does not revive the handle.
	blob := buildBlob(t, sampleRows, WithCompression(format.CompressionNone))
	require.ErrorIs(t, h.Register(blob), errs.ErrAlreadyInitialized)

	_, err = h.Dataset()
	require.ErrorIs(t, err, errs.ErrNoDataset)
}

func TestHandle_Register_Twice(t *testing.T) {
	var h Handle

	blob := buildBlob(t, sampleRows, WithCompression(format.CompressionNone))
	require.NoError(t, h.Register(blob))
	require.ErrorIs(t, h.Register(blob), errs.ErrAlreadyInitialized)
}

func TestHandle_Init(t *testing.T) {
	var h Handle

	blob := buildBlob(t, sampleRows, WithCompression(format.CompressionNone))
	require.NoError(t, h.Register(blob))
	require.NoError(t, h.Init())

	ds, err := h.Dataset()
	require.NoError(t, err)
	require.NotNil(t, ds)

	_, ok := ds.Lookup("1011VX", 2)
	require.True(t, ok)
}

func TestHandle_Dataset_LatchesParseError(t *testing.T) {
	var h Handle

	require.NoError(t, h.Register([]byte("not a dataset blob")))

	_, err := h.Dataset()
	require.ErrorIs(t, err, errs.ErrCorruptData)

	// Same latched error on every subsequent call.
	_, again := h.Dataset()
	require.Equal(t, err, again)
}

func TestHandle_Dataset_ConcurrentFirstUse(t *testing.T) {
	var h Handle

	blob := buildBlob(t, sampleRows, WithCompression(format.CompressionBrotli))
	require.NoError(t, h.Register(blob))

	const goroutines = 16

	datasets := make([]*Dataset, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := h.Dataset()
			if err != nil {
				t.Error(err)
				return
			}
			datasets[i] = ds
		}()
	}
	wg.Wait()

	// Every racer observed the same materialized dataset.
	for i := 1; i < goroutines; i++ {
		require.Same(t, datasets[0], datasets[i])
	}
}
