package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestQueueKeepsNewestValue(t *testing.T) {
	q := NewLatestQueue[int, string]()

	assert.True(t, q.Put(1, "a"))
	assert.True(t, q.Put(2, "b"))
	assert.False(t, q.Put(1, "c"))

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, Entry[int, string]{Key: 1, Value: "c"}, got[0])
	assert.Equal(t, Entry[int, string]{Key: 2, Value: "b"}, got[1])

	assert.Nil(t, q.Drain())
	assert.True(t, q.Put(1, "d"), "depois de drenada a chave volta a ser nova")
}

func TestLatestQueueConcurrentProducers(t *testing.T) {
	q := NewLatestQueue[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				q.Put(id, n)
			}
		}(i)
	}
	wg.Wait()

	got := q.Drain()
	require.Len(t, got, 8)
	for _, e := range got {
		assert.Equal(t, 99, e.Value)
	}
}

func TestLatestQueueReset(t *testing.T) {
	q := NewLatestQueue[int, int]()
	q.Put(1, 1)
	q.Reset()
	assert.Nil(t, q.Drain())
}

func TestClampAndLerp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.v, tt.lo, tt.hi))
	}
	assert.InDelta(t, 2.5, Lerp(0, 10, 0.25), 1e-6)
}
