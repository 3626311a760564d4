package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// LoopState is the state of a Loop.
type LoopState int

const (
	// LoopStopped means no goroutine is running.
	LoopStopped LoopState = iota
	// LoopRunning means the controller is ticking.
	LoopRunning
	// LoopStopping means stop is requested and the current tick is finishing.
	LoopStopping
)

// Loop runs a Controller on a fixed period in a single owned goroutine.
// A Loop never runs two goroutines at the same time: Start on a running
// Loop fails with ErrAlreadyRunning, and Start on a stopping Loop takes over
// the goroutine which is still alive. A takeover switches to the new context
// and counts iterations from 0 again, the same as a fresh start.
type Loop struct {
	Name       string
	Interval   time.Duration
	Controller Controller

	lock    sync.Mutex
	running bool
	active  bool
	done    chan struct{}
	ctx     context.Context
	epoch   uint64
}

type loopIteration struct {
	ctx       context.Context
	time      time.Time
	iteration uint64
	epoch     uint64
}

// NewLoop creates a Loop.
func NewLoop(name string, interval time.Duration, ctl Controller) *Loop {
	return &Loop{Name: name, Interval: interval, Controller: ctl}
}

// String implements fmt.Stringer.
func (l *Loop) String() string {
	return l.Name
}

// State gets the current state.
func (l *Loop) State() LoopState {
	l.lock.Lock()
	defer l.lock.Unlock()
	switch {
	case l.running:
		return LoopRunning
	case l.active:
		return LoopStopping
	}
	return LoopStopped
}

// Running indicates the loop is requested to run.
func (l *Loop) Running() bool {
	return l.State() == LoopRunning
}

// Start starts the loop with a background context.
func (l *Loop) Start() error {
	return l.StartWith(context.Background())
}

// StartWith starts the loop, ctx is passed to the controller and cancelling
// it has the same effect as Stop.
func (l *Loop) StartWith(ctx context.Context) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.running {
		return ErrAlreadyRunning
	}
	l.running, l.ctx = true, ctx
	l.epoch++
	if !l.active {
		l.active, l.done = true, make(chan struct{})
		glog.V(4).Infof("start Loop[%s]", l.Name)
		go l.run(l.done)
	} else {
		glog.V(4).Infof("Loop[%s] restarted before exit", l.Name)
	}
	return nil
}

// Stop requests the loop to exit at the next tick boundary.
// It doesn't wait, use Wait for that.
func (l *Loop) Stop() {
	l.lock.Lock()
	l.running = false
	l.lock.Unlock()
}

// Wait blocks until the goroutine exits.
func (l *Loop) Wait() {
	l.lock.Lock()
	done := l.done
	l.lock.Unlock()
	if done != nil {
		<-done
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.StartWith(ctx); err != nil {
		return err
	}
	l.lock.Lock()
	done := l.done
	l.lock.Unlock()
	select {
	case <-ctx.Done():
		l.Stop()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (l *Loop) proceed(iter *loopIteration) bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.running && l.ctx.Err() == nil {
		if iter.epoch != l.epoch {
			iter.epoch, iter.ctx, iter.iteration = l.epoch, l.ctx, 0
		}
		return true
	}
	l.running, l.active = false, false
	return false
}

func (l *Loop) run(done chan struct{}) {
	defer close(done)
	glog.V(4).Infof("Loop[%s] started", l.Name)
	defer glog.V(4).Infof("Loop[%s] stopped", l.Name)

	var tick <-chan time.Time
	if l.Interval > 0 {
		ticker := time.NewTicker(l.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	iter := &loopIteration{}
	for ; l.proceed(iter); iter.iteration++ {
		iter.time = time.Now()
		if err := l.Controller.Control(iter); err != nil {
			glog.Errorf("Loop[%s] controller error: %v", l.Name, err)
		}
		if tick != nil {
			select {
			case <-tick:
			case <-iter.ctx.Done():
			}
		}
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) Iteration() uint64 {
	return t.iteration
}
