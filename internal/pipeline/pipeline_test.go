package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/t4euyoon/keygate/internal/device"
	"github.com/t4euyoon/keygate/internal/inputstate"
	"github.com/t4euyoon/keygate/internal/mux"
	"github.com/t4euyoon/keygate/internal/stroke"
)

type fixture struct {
	kbd   *device.SimChannel
	mouse *device.SimChannel
	mux   *mux.Multiplexer
	pipe  *Pipeline
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cluster := device.NewSimCluster()
	kbd := cluster.AddKeyboard("kbd")
	mouse := cluster.AddMouse("mouse")

	m := mux.New(cluster.Open)
	if err := m.Open(); err != nil {
		t.Fatalf("mux.Open() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })

	return &fixture{
		kbd:   kbd,
		mouse: mouse,
		mux:   m,
		pipe:  New(m, inputstate.NewTracker(), opts...),
	}
}

// processOne spins Receive until a stroke is actually processed,
// riding out timeouts and spurious wakes.
func (f *fixture) processOne(t *testing.T) *Result {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		res, err := f.pipe.Receive(50 * time.Millisecond)
		if err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
		if res != nil {
			return res
		}
	}
	t.Fatal("no stroke processed before deadline")
	return nil
}

func TestPassThroughKeyPressAndRelease(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	res := f.processOne(t)
	if res.Suppressed || !res.Passed {
		t.Fatalf("press result = %+v, want passed and unsuppressed", res)
	}
	if !tr.IsKeyPressed(stroke.KeyA, true) || !tr.IsKeyPressed(stroke.KeyA, false) {
		t.Error("both pressed sets should hold A after a passed press")
	}
	if sent := f.kbd.Sent(); len(sent) != 1 {
		t.Fatalf("device saw %d sent strokes, want the echoed press", len(sent))
	}

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateUp))
	res = f.processOne(t)
	if !res.Passed {
		t.Fatalf("release result = %+v, want passed", res)
	}
	if tr.IsKeyPressed(stroke.KeyA, true) || tr.IsKeyPressed(stroke.KeyA, false) {
		t.Error("both pressed sets should drop A after a passed release")
	}
	if sent := f.kbd.Sent(); len(sent) != 2 {
		t.Errorf("device saw %d sent strokes, want press and release", len(sent))
	}
}

func TestSuppressedPressSwallowsRelease(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	suppressing := true
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		return suppressing
	})

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	res := f.processOne(t)
	if !res.Suppressed || res.Passed {
		t.Fatalf("press result = %+v, want suppressed and not passed", res)
	}
	if !tr.IsKeyPressed(stroke.KeyA, true) {
		t.Error("hardware set must hold A even for a suppressed press")
	}
	if tr.IsKeyPressed(stroke.KeyA, false) {
		t.Error("software set must not see a suppressed press")
	}
	if len(f.kbd.Sent()) != 0 {
		t.Error("suppressed press must not be sent back out")
	}

	// Listener stops suppressing, but the release is orphaned: its
	// press never reached the software side.
	suppressing = false
	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateUp))
	res = f.processOne(t)
	if res.Suppressed {
		t.Fatalf("release result = %+v, want unsuppressed", res)
	}
	if res.Passed {
		t.Error("orphan release should be swallowed, not passed")
	}
	if len(f.kbd.Sent()) != 0 {
		t.Error("orphan release must not be sent back out")
	}
	if tr.IsKeyPressed(stroke.KeyA, true) {
		t.Error("hardware set should drop A on the release regardless")
	}

	stats := f.pipe.Stats()
	if stats.Dropped != 2 {
		t.Errorf("Stats.Dropped = %d, want 2", stats.Dropped)
	}
	if stats.Suppressed != 1 {
		t.Errorf("Stats.Suppressed = %d, want 1", stats.Suppressed)
	}
}

func TestSuppressedReleaseKeepsSoftwareState(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	suppressing := false
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		return suppressing
	})

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	f.processOne(t)

	suppressing = true
	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateUp))
	f.processOne(t)

	if tr.IsKeyPressed(stroke.KeyA, true) {
		t.Error("hardware set should drop A on the suppressed release")
	}
	if !tr.IsKeyPressed(stroke.KeyA, false) {
		t.Error("software set should keep A while its release is suppressed")
	}

	// A later unsuppressed release drains the software side.
	suppressing = false
	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateUp))
	res := f.processOne(t)
	if !res.Passed {
		t.Error("release should pass while the software set holds A")
	}
	if tr.IsKeyPressed(stroke.KeyA, false) {
		t.Error("software set should drop A after the passed release")
	}
}

func TestListenerOrderAndORAggregation(t *testing.T) {
	f := newFixture(t)

	var order []string
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		order = append(order, "first")
		return true
	})
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		order = append(order, "second")
		return false
	})

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	res := f.processOne(t)

	if !res.Suppressed {
		t.Error("one suppress vote should suppress the stroke")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("listener order = %v, want both in registration order", order)
	}
}

func TestListenerPanicVotesFalse(t *testing.T) {
	f := newFixture(t)

	invoked := false
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		panic("listener exploded")
	})
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		invoked = true
		return false
	})

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	res := f.processOne(t)

	if !invoked {
		t.Error("listener after the panicking one should still run")
	}
	if res.Suppressed {
		t.Error("a panicking listener must vote false")
	}
	if !res.Passed {
		t.Error("stroke should pass when the only vote came from a panic")
	}
	if got := f.pipe.Stats().ListenerPanics; got != 1 {
		t.Errorf("Stats.ListenerPanics = %d, want 1", got)
	}
}

func TestHardwareStateVisibleToListeners(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	var sawHardware, sawSoftware bool
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		sawHardware = tr.IsKeyPressed(stroke.KeyA, true)
		sawSoftware = tr.IsKeyPressed(stroke.KeyA, false)
		return false
	})

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	f.processOne(t)

	if !sawHardware {
		t.Error("hardware set must be updated before listeners run")
	}
	if sawSoftware {
		t.Error("software set must not be updated until after the fan-out")
	}
}

func TestWheelAndMotionPassUnlessSuppressed(t *testing.T) {
	f := newFixture(t)

	f.mouse.Inject(stroke.NewWheelStroke(120))
	res := f.processOne(t)
	if !res.Passed {
		t.Error("wheel stroke should pass through")
	}

	f.mouse.Inject(stroke.NewMoveStroke(3, 4))
	res = f.processOne(t)
	if !res.Passed {
		t.Error("motion stroke should pass through")
	}
	if len(f.pipe.Tracker().PressedButtons()) != 0 {
		t.Error("wheel and motion must not touch the button sets")
	}

	detach := f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool { return true })
	f.mouse.Inject(stroke.NewWheelStroke(-120))
	res = f.processOne(t)
	if res.Passed {
		t.Error("suppressed wheel stroke should be dropped")
	}
	detach()

	if got := len(f.mouse.Sent()); got != 2 {
		t.Errorf("mouse saw %d sent strokes, want only the unsuppressed two", got)
	}
}

func TestButtonSuppressionSwallowsRelease(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	suppressing := true
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		return suppressing
	})

	f.mouse.Inject(stroke.NewButtonStroke(stroke.ButtonLeft, true))
	f.processOne(t)
	if !tr.IsButtonPressed(stroke.ButtonLeft, true) {
		t.Error("hardware button set must hold the suppressed press")
	}
	if tr.IsButtonPressed(stroke.ButtonLeft, false) {
		t.Error("software button set must not see the suppressed press")
	}

	suppressing = false
	f.mouse.Inject(stroke.NewButtonStroke(stroke.ButtonLeft, false))
	res := f.processOne(t)
	if res.Passed {
		t.Error("orphan button release should be swallowed")
	}
	if len(f.mouse.Sent()) != 0 {
		t.Error("nothing should have been sent back to the mouse")
	}
}

func TestButtonSoftwareHeldReleaseForwarded(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	suppressing := false
	f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		return suppressing
	})

	f.mouse.Inject(stroke.NewButtonStroke(stroke.ButtonLeft, true))
	f.processOne(t)

	suppressing = true
	f.mouse.Inject(stroke.NewButtonStroke(stroke.ButtonLeft, false))
	f.processOne(t)
	if tr.IsButtonPressed(stroke.ButtonLeft, true) {
		t.Error("hardware button set should drop the button on the suppressed release")
	}
	if !tr.IsButtonPressed(stroke.ButtonLeft, false) {
		t.Error("software button set should keep the button while its release is suppressed")
	}

	// Buttons follow the key rule: a software-held button's unsuppressed
	// up-stroke is forwarded and drains the software side.
	suppressing = false
	f.mouse.Inject(stroke.NewButtonStroke(stroke.ButtonLeft, false))
	res := f.processOne(t)
	if !res.Passed {
		t.Error("release should pass while the software set holds the button")
	}
	if tr.IsButtonPressed(stroke.ButtonLeft, false) {
		t.Error("software button set should drop the button after the passed release")
	}
	if got := len(f.mouse.Sent()); got != 2 {
		t.Errorf("mouse saw %d sent strokes, want the press and the final release", got)
	}
}

func TestDetachListener(t *testing.T) {
	f := newFixture(t)

	calls := 0
	detach := f.pipe.AddListenerFunc(func(_ *device.Device, _ stroke.Stroke) bool {
		calls++
		return false
	})

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	f.processOne(t)
	detach()
	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateUp))
	f.processOne(t)

	if calls != 1 {
		t.Errorf("listener ran %d times, want 1 after detach", calls)
	}
}

func TestReceiveTimeout(t *testing.T) {
	f := newFixture(t)
	res, err := f.pipe.Receive(10 * time.Millisecond)
	if res != nil || err != nil {
		t.Errorf("Receive() on idle devices = (%v, %v), want (nil, nil)", res, err)
	}
}

func TestReceiveFault(t *testing.T) {
	f := newFixture(t)

	fault := errors.New("bus reset")
	f.kbd.FailNextReceive(fault)

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := f.pipe.Receive(50 * time.Millisecond)
		if err != nil {
			if !errors.Is(err, fault) {
				t.Fatalf("Receive() error = %v, want the injected fault", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("fault never surfaced")
		}
	}
	if got := f.pipe.Stats().ReceiveFailures; got != 1 {
		t.Errorf("Stats.ReceiveFailures = %d, want 1", got)
	}

	// The pipeline keeps working after the fault.
	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	res := f.processOne(t)
	if !res.Passed {
		t.Error("stroke after a fault should still pass")
	}
}

func TestEchoWriteFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	fault := errors.New("device write stalled")
	f.kbd.FailNextSend(fault)
	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))

	var res *Result
	var err error
	deadline := time.Now().Add(2 * time.Second)
	for res == nil && err == nil {
		if time.Now().After(deadline) {
			t.Fatal("stroke never processed")
		}
		res, err = f.pipe.Receive(50 * time.Millisecond)
	}

	if !errors.Is(err, fault) {
		t.Fatalf("Receive() error = %v, want the injected write fault", err)
	}
	if res == nil || !res.Passed || res.Suppressed {
		t.Fatalf("Receive() result = %+v, want the pass decision alongside the error", res)
	}
	if !tr.IsKeyPressed(stroke.KeyA, false) {
		t.Error("software set should reflect the pass decision even when the write fails")
	}
	if got := f.pipe.Stats().SendFailures; got != 1 {
		t.Errorf("Stats.SendFailures = %d, want 1", got)
	}
}

func TestResultHandler(t *testing.T) {
	var results []Result
	f := newFixture(t, WithResultHandler(func(r Result) {
		results = append(results, r)
	}))

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))
	f.processOne(t)

	if len(results) != 1 {
		t.Fatalf("result handler saw %d results, want 1", len(results))
	}
	if !results[0].Passed {
		t.Errorf("result handler saw %+v, want a passed stroke", results[0])
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	f := newFixture(t, WithWaitSlice(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- f.pipe.Run(ctx) }()

	f.kbd.Inject(stroke.NewKeyStroke(stroke.KeyA, stroke.KeyStateDown))

	deadline := time.Now().Add(2 * time.Second)
	for f.pipe.Stats().Received == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Run never processed the injected stroke")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunStopsWhenMuxCloses(t *testing.T) {
	f := newFixture(t, WithWaitSlice(10*time.Millisecond))

	errCh := make(chan error, 1)
	go func() { errCh <- f.pipe.Run(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	f.mux.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, mux.ErrNotOpen) {
			t.Errorf("Run() = %v, want mux.ErrNotOpen", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after the mux closed")
	}
}

func TestSendBypassesState(t *testing.T) {
	f := newFixture(t)
	tr := f.pipe.Tracker()

	if err := f.pipe.Send(0, stroke.NewKeyStroke(stroke.KeyB, stroke.KeyStateDown)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if sent := f.kbd.Sent(); len(sent) != 1 {
		t.Fatalf("device saw %d sent strokes, want 1", len(sent))
	}
	if tr.IsKeyPressed(stroke.KeyB, true) || tr.IsKeyPressed(stroke.KeyB, false) {
		t.Error("injected stroke must not touch either pressed set")
	}
}
