package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(BufferDefaultSize)

	n, err := bb.Write([]byte("1011VX"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []byte("1011VX"), bb.Bytes())

	bb.MustWrite([]byte("1012AB"))
	assert.Equal(t, 12, bb.Len())

	bb.Reset()
	assert.Equal(t, 0, bb.Len(), "reset clears length")
	assert.GreaterOrEqual(t, bb.Cap(), BufferDefaultSize, "reset retains capacity")
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(64)
	bb.MustWrite([]byte("record payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(14), n)
	assert.Equal(t, "record payload", out.String())
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity is a no-op", func(t *testing.T) {
		bb := NewByteBuffer(1024)
		before := bb.Cap()
		bb.Grow(512)
		assert.Equal(t, before, bb.Cap())
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.MustWrite([]byte("abc"))
		bb.Grow(1 << 20)
		assert.Equal(t, []byte("abc"), bb.Bytes())
		assert.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1<<20)
	})
}

func TestByteBufferPool_GetPut(t *testing.T) {
	pool := NewByteBufferPool(256, 1024)

	bb := pool.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("stale content"))
	pool.Put(bb)

	// A reused buffer must come back empty.
	again := pool.Get()
	assert.Equal(t, 0, again.Len())

	// Nil put is a no-op.
	pool.Put(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	pool := NewByteBufferPool(64, 128)

	bb := pool.Get()
	bb.Grow(4096)
	grownCap := bb.Cap()
	pool.Put(bb)

	// The oversized buffer was discarded, not retained.
	again := pool.Get()
	assert.Less(t, again.Cap(), grownCap)
}

func TestDefaultPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				bb := GetBuffer()
				bb.MustWrite([]byte{byte(i)})
				if bb.Len() != 1 {
					t.Errorf("buffer reused dirty: len=%d", bb.Len())
				}
				PutBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
