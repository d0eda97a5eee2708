package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSimulator struct{ v float64 }

func (f *fakeSimulator) NextValue() float64 { f.v++; return f.v }

type countingSink struct {
	persistTicks int
	publishTicks int
	failPersist  int // fail this many times before succeeding
}

func (s *countingSink) PersistTick(ctx context.Context, ev TickEvent) error {
	if s.failPersist > 0 {
		s.failPersist--
		return errors.New("transient persist failure")
	}
	s.persistTicks++
	return nil
}

func (s *countingSink) PublishTick(ctx context.Context, ev TickEvent) error {
	s.publishTicks++
	return nil
}

func TestSchedulerRespectsIntervals(t *testing.T) {
	fastSink := &countingSink{}
	slowSink := &countingSink{}

	fast := &Feed{
		InstrumentID:   "FAST",
		TickSize:       0.01,
		UpdateInterval: 1 * time.Second,
		Simulator:      &fakeSimulator{v: 100},
		TickSink:       fastSink,
		Retry:          RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond},
	}
	slow := &Feed{
		InstrumentID:   "SLOW",
		TickSize:       0.01,
		UpdateInterval: 2 * time.Second,
		Simulator:      &fakeSimulator{v: 50},
		TickSink:       slowSink,
		Retry:          RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond},
	}

	p := &Pipeline{Feeds: []*Feed{fast, slow}}

	base := time.Unix(0, 0)
	p.Pump(context.Background(), base)
	p.Pump(context.Background(), base.Add(1*time.Second))
	p.Pump(context.Background(), base.Add(2*time.Second))

	if fastSink.publishTicks != 3 {
		t.Fatalf("expected fast feed 3 emissions, got %d", fastSink.publishTicks)
	}
	if slowSink.publishTicks != 2 {
		t.Fatalf("expected slow feed 2 emissions, got %d", slowSink.publishTicks)
	}
}

func TestEmitOncePersistsBeforePublish(t *testing.T) {
	sink := &countingSink{}
	f := &Feed{
		InstrumentID:   "AAPL",
		TickSize:       0.02,
		UpdateInterval: time.Second,
		Simulator:      &fakeSimulator{v: 100},
		TickSink:       sink,
		Retry:          RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond},
	}

	if err := f.EmitOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.persistTicks != 1 || sink.publishTicks != 1 {
		t.Fatalf("expected one persist and one publish, got persist=%d publish=%d", sink.persistTicks, sink.publishTicks)
	}
}

func TestRetryExhaustionAdvancesScheduleAnyway(t *testing.T) {
	sink := &countingSink{failPersist: 10} // always fails within attempt budget
	f := &Feed{
		InstrumentID:   "FAIL",
		TickSize:       0.01,
		UpdateInterval: time.Second,
		Simulator:      &fakeSimulator{v: 1},
		TickSink:       sink,
		Retry:          RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond},
	}
	p := &Pipeline{Feeds: []*Feed{f}}

	t0 := time.Unix(100, 0)
	p.Pump(context.Background(), t0)

	if !f.scheduler.set {
		t.Fatal("expected next_due to be set even though emission failed")
	}
	if f.Due(t0) {
		t.Fatal("feed should not be due immediately after a failed-but-advanced pump")
	}
}

func TestRetryPolicyPanicsOnNonPositiveAttempts(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for attempts <= 0")
		}
	}()
	p := RetryPolicy{Attempts: 0, BaseDelay: time.Millisecond}
	_ = p.Do(context.Background(), func(ctx context.Context) error { return nil })
}
