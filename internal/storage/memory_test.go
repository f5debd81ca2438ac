package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"solagire-dashboard/internal/data"
)

func snap(id int) *data.Snapshot { return &data.Snapshot{ID: fmt.Sprint(id)} }

func ids(snaps []*data.Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.ID
	}
	return out
}

func TestSnapshotStoreEmpty(t *testing.T) {
	s := NewSnapshotStore(3)
	_, ok := s.Current()
	require.False(t, ok)
	require.Empty(t, s.Recent(0))
}

func TestSnapshotStoreSwap(t *testing.T) {
	s := NewSnapshotStore(3)
	require.Nil(t, s.Swap(snap(1)))
	prev := s.Swap(snap(2))
	require.Equal(t, "1", prev.ID)

	cur, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "2", cur.ID)
}

func TestSnapshotStoreBoundedHistory(t *testing.T) {
	s := NewSnapshotStore(3)
	for i := 1; i <= 5; i++ {
		s.Swap(snap(i))
	}
	require.Equal(t, 3, s.Len())
	require.Equal(t, []string{"5", "4", "3"}, ids(s.Recent(0)))
	require.Equal(t, []string{"5", "4"}, ids(s.Recent(2)))
	require.Equal(t, []string{"5", "4", "3"}, ids(s.Recent(10)))
}

func TestSnapshotStoreDefaultCapacity(t *testing.T) {
	s := NewSnapshotStore(0)
	for i := 0; i < defaultHistory+4; i++ {
		s.Swap(snap(i))
	}
	require.Equal(t, defaultHistory, s.Len())
}

func TestSnapshotStoreConcurrentReaders(t *testing.T) {
	s := NewSnapshotStore(4)
	s.Swap(snap(0))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if cur, ok := s.Current(); !ok || cur == nil {
					t.Errorf("Current() = %v, %v during swaps", cur, ok)
					return
				}
				_ = s.Recent(2)
			}
		}()
	}
	for i := 1; i <= 200; i++ {
		s.Swap(snap(i))
	}
	wg.Wait()
}
