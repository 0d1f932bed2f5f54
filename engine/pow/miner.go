// Package pow builds events whose id has a chosen number of leading zero bits.
package pow

import (
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"

	"nostrevents/engine/events"
	"nostrevents/engine/library"
	"nostrevents/engine/tags"
)

// Miner searches for a nonce with Workers goroutines. Zero means one per CPU.
type Miner struct {
	Workers int
}

// Mine is Miner{}.Mine.
func Mine(pre events.PreEvent, key *library.PrivateKey, zeroBits uint8, progress chan<- uint8) (*events.Event, error) {
	return Miner{}.Mine(pre, key, zeroBits, progress)
}

// search is shared by all workers of one Mine call.
type search struct {
	quit     atomic.Bool
	nonce    atomic.Uint64
	bestWork atomic.Uint32
}

// Mine strips any nonce tags from pre, appends a nonce tag targeting zeroBits
// and searches until some nonce gives an id with at least zeroBits leading
// zero bits. It then signs the event. created_at is not changed while mining.
//
// progress, if not nil, receives the best work seen so far and finally the
// work of the winning id. Sends never block, so a slow reader misses updates.
// There is no way to stop a search early.
func (m Miner) Mine(pre events.PreEvent, key *library.PrivateKey, zeroBits uint8, progress chan<- uint8) (*events.Event, error) {
	workers := m.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	target := strconv.Itoa(int(zeroBits))

	stripped := make([]tags.Tag, 0, len(pre.Tags)+1)
	for _, t := range pre.Tags {
		if _, ok := t.(tags.Nonce); !ok {
			stripped = append(stripped, t)
		}
	}
	pre.Tags = append(stripped, tags.Nonce{Value: "0", Target: &target})
	index := len(pre.Tags) - 1

	// Hashing only fails on malformed strings; find out before starting workers.
	if _, err := events.Hash(&pre); err != nil {
		return nil, err
	}

	library.LogCLI(fmt.Sprintf("mining %d bits with %d workers", zeroBits, workers), 3)

	s := new(search)
	var wg sync.WaitGroup
	stride := math.MaxUint64 / uint64(workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(attempt uint64) {
			defer wg.Done()
			s.work(pre, index, target, attempt, zeroBits, progress)
		}(uint64(i) * stride)
	}
	wg.Wait()

	pre.Tags[index] = tags.Nonce{Value: strconv.FormatUint(s.nonce.Load(), 10), Target: &target}
	id, err := events.Hash(&pre)
	if err != nil {
		return nil, err
	}
	library.LogCLI(fmt.Sprintf("mined %s with nonce %d", id, s.nonce.Load()), 3)
	return events.NewWithID(pre, id, key)
}

func (s *search) work(pre events.PreEvent, index int, target string, attempt uint64, zeroBits uint8, progress chan<- uint8) {
	pre.Tags = slices.Clone(pre.Tags)
	for !s.quit.Load() {
		pre.Tags[index] = tags.Nonce{Value: strconv.FormatUint(attempt, 10), Target: &target}
		id, err := events.Hash(&pre)
		if err != nil {
			return
		}
		work := library.LeadingZeroBits(id[:])
		if work >= zeroBits {
			if s.quit.CompareAndSwap(false, true) {
				s.nonce.Store(attempt)
				report(progress, work)
			}
			return
		}
		if best := s.bestWork.Load(); uint32(work) > best && s.bestWork.CompareAndSwap(best, uint32(work)) {
			report(progress, work)
		}
		attempt++
	}
}

func report(progress chan<- uint8, work uint8) {
	if progress == nil {
		return
	}
	select {
	case progress <- work:
	default:
	}
}
