package series

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pipeplot/internal/extract"
)

func mustUnit(t *testing.T, token string) extract.Unit {
	t.Helper()
	u, err := extract.ParseUnit(token)
	require.NoError(t, err)
	return u
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"default capacity", 0, DefaultCapacity},
		{"negative capacity", -1, DefaultCapacity},
		{"custom capacity", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.capacity)
			assert.Equal(t, tt.expected, s.Capacity())
		})
	}
}

func TestRecordCreatesSeriesLazily(t *testing.T) {
	s := NewStore(10)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Record(0, 1.0, extract.None))
	require.NoError(t, s.Record(3, 2.0, extract.None))
	assert.Equal(t, 2, s.Len())
}

func TestRecordRejectsNegativeIndex(t *testing.T) {
	s := NewStore(10)
	assert.Error(t, s.Record(-1, 1.0, extract.None))
}

func TestCapacityEviction(t *testing.T) {
	const capacity = 5
	s := NewStore(capacity)

	// capacity+1 samples: the oldest is evicted first.
	for i := 0; i <= capacity; i++ {
		require.NoError(t, s.Record(0, float64(i), extract.None))
	}

	views := s.Snapshot()
	require.Len(t, views, 1)
	require.Len(t, views[0].Samples, capacity)

	assert.Equal(t, 1.0, views[0].Samples[0].Value, "oldest sample evicted")
	assert.Equal(t, 5.0, views[0].Samples[capacity-1].Value)
	assert.Equal(t, uint64(capacity+1), views[0].Total)
}

func TestSequenceNumbersStrictlyIncrease(t *testing.T) {
	s := NewStore(4)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Record(0, float64(i), extract.None))
	}

	views := s.Snapshot()
	require.Len(t, views, 1)
	samples := views[0].Samples
	for i := 1; i < len(samples); i++ {
		assert.Equal(t, samples[i-1].Seq+1, samples[i].Seq)
	}
}

func TestUnitCategoryLockIn(t *testing.T) {
	s := NewStore(10)
	ms := mustUnit(t, "ms")
	mb := mustUnit(t, "mb")

	require.NoError(t, s.Record(0, 100, ms))

	// A dimensionally different unit is a per-sample error, not fatal.
	err := s.Record(0, 5e6, mb)
	assert.Error(t, err)

	// Same category and unitless samples are still accepted.
	assert.NoError(t, s.Record(0, 200, ms))
	assert.NoError(t, s.Record(0, 300, extract.None))

	views := s.Snapshot()
	require.Len(t, views, 1)
	assert.Len(t, views[0].Samples, 3)
	assert.Equal(t, extract.CategoryTime, views[0].Unit.Category)
}

func TestUnitLockUpgradesFromUnitless(t *testing.T) {
	s := NewStore(10)

	// Unitless samples leave the series unlocked; the first unit-bearing
	// sample fixes the category.
	require.NoError(t, s.Record(0, 1, extract.None))
	require.NoError(t, s.Record(0, 2, mustUnit(t, "kb")))
	assert.Error(t, s.Record(0, 3, mustUnit(t, "s")))

	views := s.Snapshot()
	assert.Equal(t, extract.CategorySize, views[0].Unit.Category)
}

func TestSnapshotStats(t *testing.T) {
	s := NewStore(10)
	for _, v := range []float64{10, 20, 30} {
		require.NoError(t, s.Record(0, v, extract.None))
	}

	views := s.Snapshot()
	require.Len(t, views, 1)
	assert.Equal(t, 10.0, views[0].Min)
	assert.Equal(t, 30.0, views[0].Max)
	assert.Equal(t, 20.0, views[0].Avg)
}

func TestSnapshotOrderedByIndex(t *testing.T) {
	s := NewStore(10)
	require.NoError(t, s.Record(2, 1, extract.None))
	require.NoError(t, s.Record(0, 1, extract.None))
	require.NoError(t, s.Record(1, 1, extract.None))

	views := s.Snapshot()
	require.Len(t, views, 3)
	for i, v := range views {
		assert.Equal(t, i, v.Index)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(10)
	require.NoError(t, s.Record(0, 1, extract.None))

	views := s.Snapshot()
	views[0].Samples[0].Value = 999

	fresh := s.Snapshot()
	assert.Equal(t, 1.0, fresh[0].Samples[0].Value, "mutating a snapshot must not affect the store")
}

// TestSnapshotPrefixConsistency stress-inserts known sequential values
// while snapshotting concurrently and asserts every snapshot is a
// contiguous run of committed samples: no torn reads, no gaps.
func TestSnapshotPrefixConsistency(t *testing.T) {
	const total = 5000
	s := NewStore(64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			_ = s.Record(0, float64(i), extract.None)
		}
	}()

	for snap := 0; snap < 500; snap++ {
		views := s.Snapshot()
		if len(views) == 0 {
			continue
		}
		samples := views[0].Samples
		for i, smp := range samples {
			// Value was recorded equal to its sequence number, so a
			// consistent window is strictly consecutive.
			assert.Equal(t, float64(smp.Seq), smp.Value)
			if i > 0 {
				require.Equal(t, samples[i-1].Seq+1, smp.Seq,
					"snapshot window must be contiguous")
			}
		}
	}

	wg.Wait()

	views := s.Snapshot()
	require.Len(t, views, 1)
	assert.Equal(t, uint64(total), views[0].Total)
}

func TestTotalSamples(t *testing.T) {
	s := NewStore(2)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(0, float64(i), extract.None))
		require.NoError(t, s.Record(1, float64(i), extract.None))
	}
	assert.Equal(t, uint64(10), s.TotalSamples())
}
