// Package series holds the bounded per-series sample history shared by the
// ingestion and render paths. The store is the only shared mutable state in
// the process: a single writer appends under the write lock, readers take
// deep-copy snapshots under the read lock, so a snapshot never observes a
// partially appended sample.
package series

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/pipeplot/internal/extract"
)

// DefaultCapacity is the default number of samples retained per series.
const DefaultCapacity = 200

// Sample is a single observation. Immutable once recorded.
type Sample struct {
	Value float64
	Seq   uint64
	At    time.Time
}

// View is an immutable copy of one series taken at snapshot time.
type View struct {
	Index   int
	Unit    extract.Unit
	Samples []Sample
	Min     float64
	Max     float64
	Avg     float64
	Total   uint64 // samples recorded over the series' lifetime
}

// seriesState holds the ring buffer and unit lock for a single series.
type seriesState struct {
	buf      *ringBuffer
	unit     extract.Unit
	locked   bool // a unit-bearing sample has fixed the category
	nextSeq  uint64
	recorded uint64
}

// Store manages sample history for all series, keyed by display slot index.
// Series are created lazily on first observed sample and live for the
// process lifetime.
type Store struct {
	mu       sync.RWMutex
	capacity int
	series   map[int]*seriesState
}

// NewStore creates a store with the given per-series capacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		series:   make(map[int]*seriesState),
	}
}

// Record appends a sample to the series at the given index, evicting the
// oldest sample when the buffer is full. The first unit-bearing sample
// locks the series' unit category; a later sample in a different category
// is rejected and should be dropped by the caller. Unitless samples are
// accepted into any series as already-canonical magnitudes.
func (s *Store) Record(index int, value float64, u extract.Unit) error {
	if index < 0 {
		return fmt.Errorf("negative series index %d", index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.series[index]
	if !ok {
		st = &seriesState{buf: newRingBuffer(s.capacity)}
		s.series[index] = st
	}

	if u.Category != extract.CategoryNone {
		if st.locked && u.Category != st.unit.Category {
			return fmt.Errorf("series %d is %s, got %s value %q",
				index, st.unit.Category, u.Category, u.Token)
		}
		if !st.locked {
			st.unit = u
			st.locked = true
		}
	}

	st.buf.push(Sample{Value: value, Seq: st.nextSeq, At: time.Now()})
	st.nextSeq++
	st.recorded++
	return nil
}

// Snapshot returns a deep copy of every series in ascending index order,
// with window statistics computed over the retained samples. Safe for
// concurrent use while recording continues.
func (s *Store) Snapshot() []View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indices := make([]int, 0, len(s.series))
	for idx := range s.series {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	views := make([]View, 0, len(indices))
	for _, idx := range indices {
		st := s.series[idx]
		samples := st.buf.all()

		v := View{
			Index:   idx,
			Unit:    st.unit,
			Samples: samples,
			Total:   st.recorded,
		}
		if len(samples) > 0 {
			v.Min = samples[0].Value
			v.Max = samples[0].Value
			sum := 0.0
			for _, smp := range samples {
				if smp.Value < v.Min {
					v.Min = smp.Value
				}
				if smp.Value > v.Max {
					v.Max = smp.Value
				}
				sum += smp.Value
			}
			v.Avg = sum / float64(len(samples))
		}
		views = append(views, v)
	}
	return views
}

// Len returns the number of series observed so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// TotalSamples returns the lifetime sample count across all series.
func (s *Store) TotalSamples() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total uint64
	for _, st := range s.series {
		total += st.recorded
	}
	return total
}

// Capacity returns the per-series buffer capacity.
func (s *Store) Capacity() int {
	return s.capacity
}

// newRingBuffer creates a fixed-size circular buffer for samples.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]Sample, size),
		size: size,
	}
}

// ringBuffer is a fixed-size circular buffer. head points at the next
// write position; the most recent sample is at head-1.
type ringBuffer struct {
	data  []Sample
	head  int
	count int
	size  int
}

// push adds a sample, overwriting the oldest when full.
func (r *ringBuffer) push(s Sample) {
	r.data[r.head] = s
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// all returns the stored samples in chronological order (oldest first).
func (r *ringBuffer) all() []Sample {
	if r.count == 0 {
		return nil
	}
	result := make([]Sample, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
