package debate

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pocketmind/relay/internal/common"
)

// Runner drives debates from inside the process instead of relying on a
// client-side polling timer: one goroutine per launched session advances it
// with a fixed delay between turns until the debate finishes, is stopped, or
// a turn fails. Cancelling a loop also cancels its in-flight model call.
type Runner struct {
	svc   *Service
	delay time.Duration

	mu    sync.Mutex
	loops map[string]context.CancelFunc
	wg    sync.WaitGroup
}

func NewRunner(svc *Service, delay time.Duration) *Runner {
	if delay <= 0 {
		delay = 3 * time.Second
	}
	return &Runner{
		svc:   svc,
		delay: delay,
		loops: make(map[string]context.CancelFunc),
	}
}

// Launch starts the turn loop for a session. Launching an already-running
// session is a no-op success.
func (r *Runner) Launch(id string) error {
	status, err := r.svc.Inspect(id)
	if err != nil {
		return err
	}
	if !status.Active {
		return common.E(common.ErrInactive, "debate is not active: %s", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, running := r.loops[id]; running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.loops[id] = cancel
	r.wg.Add(1)
	go r.loop(ctx, id)
	return nil
}

// Cancel stops the loop for a session, if one is running.
func (r *Runner) Cancel(id string) {
	r.mu.Lock()
	cancel, ok := r.loops[id]
	delete(r.loops, id)
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

// Shutdown cancels every loop and waits for them to drain.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	for id, cancel := range r.loops {
		cancel()
		delete(r.loops, id)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, id string) {
	defer r.wg.Done()
	defer r.Cancel(id)

	for {
		res, err := r.svc.Advance(ctx, id)
		if err != nil {
			switch common.KindOf(err) {
			case common.ErrInactive, common.ErrNotFound:
				// stopped or evicted underneath us
			default:
				log.Printf("[runner] debate %s: turn failed, abandoning: %v", id, err)
			}
			return
		}
		if res.Finished {
			return
		}
		if res.LastRound {
			// one more advance observes the limit and deactivates the session
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.delay):
		}
	}
}
