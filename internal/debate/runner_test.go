package debate

import (
	"testing"
	"time"

	"github.com/pocketmind/relay/internal/common"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestRunner_RunsToCompletion(t *testing.T) {
	svc, _ := newTestService(6)
	sess := mustStart(t, svc, "T", RoundLimit{Rounds: 2})

	r := NewRunner(svc, time.Millisecond)
	defer r.Shutdown()

	if err := r.Launch(sess.ID); err != nil {
		t.Fatalf("launch: %v", err)
	}

	waitFor(t, func() bool {
		status, err := svc.Inspect(sess.ID)
		return err == nil && !status.Active
	})

	status, err := svc.Inspect(sess.ID)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if status.Rounds != 2 {
		t.Fatalf("expected the runner to play exactly 2 rounds, got %d", status.Rounds)
	}
}

func TestRunner_LaunchRequiresActiveSession(t *testing.T) {
	svc, _ := newTestService(6)
	sess := mustStart(t, svc, "T", RoundLimit{Rounds: 2})
	if _, err := svc.Stop(sess.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	r := NewRunner(svc, time.Millisecond)
	defer r.Shutdown()

	if err := r.Launch(sess.ID); common.KindOf(err) != common.ErrInactive {
		t.Fatalf("expected inactive, got %v", err)
	}
	if err := r.Launch("missing"); common.KindOf(err) != common.ErrNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRunner_CancelStopsDriving(t *testing.T) {
	svc, _ := newTestService(6)
	sess := mustStart(t, svc, "T", RoundLimit{Infinite: true})

	r := NewRunner(svc, 2*time.Millisecond)
	defer r.Shutdown()

	if err := r.Launch(sess.ID); err != nil {
		t.Fatalf("launch: %v", err)
	}
	waitFor(t, func() bool {
		status, _ := svc.Inspect(sess.ID)
		return status.Rounds >= 1
	})

	r.Cancel(sess.ID)

	// let any in-flight turn settle, then verify the loop is gone
	time.Sleep(20 * time.Millisecond)
	before, _ := svc.Inspect(sess.ID)
	time.Sleep(20 * time.Millisecond)
	after, _ := svc.Inspect(sess.ID)

	if before.Rounds != after.Rounds {
		t.Fatalf("runner kept advancing after cancel: %d -> %d", before.Rounds, after.Rounds)
	}
	if !after.Active {
		t.Fatalf("cancel must not stop the session itself")
	}
}
