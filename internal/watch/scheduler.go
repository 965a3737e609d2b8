package watch

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/iconsite/internal/metrics"
)

// scheduler turns bursts of change notifications into rebuild requests on a
// channel with a single slot.
type scheduler struct {
	delay    time.Duration
	requests chan struct{}
	recorder metrics.Recorder

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newScheduler(delay time.Duration, recorder metrics.Recorder) *scheduler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &scheduler{
		delay:    delay,
		requests: make(chan struct{}, 1),
		recorder: recorder,
	}
}

// trigger (re)starts the debounce timer; the request is queued once no
// further trigger arrives for the configured delay.
func (s *scheduler) trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.request)
}

// request queues a rebuild unless one is already pending.
func (s *scheduler) request() {
	select {
	case s.requests <- struct{}{}:
	default:
		s.recorder.IncRebuildCoalesced()
	}
}

func (s *scheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}
