package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Rorical/FolioChat/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SubmitEvent - UI asks core to send the raw input text
type SubmitEvent struct {
	Text string
}

func (e SubmitEvent) UIEvent() {}

// ClearEvent - UI asks core to empty the transcript
type ClearEvent struct{}

func (e ClearEvent) UIEvent() {}

// TranscriptEvent - Core pushes the full transcript after every change
type TranscriptEvent struct {
	Messages []models.Message
}

func (e TranscriptEvent) CoreEvent() {}

// ControlsEvent - Core enables or disables the input controls
type ControlsEvent struct {
	Enabled bool
}

func (e ControlsEvent) CoreEvent() {}

// NoticeEvent - Core shows a transient notice (validation errors)
type NoticeEvent struct {
	Text string
}

func (e NoticeEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrChannelFull = errors.New("channel is full")
	ErrClosed      = errors.New("event bus is closed")
)

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker stops sends after maxFailures consecutive failures until
// resetTimeout has passed.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker.
// Typing frames bypass the channels: only the latest one is kept.
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	done           chan struct{}
	closeOnce      sync.Once
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker

	frameMu    sync.Mutex
	frame      *TranscriptEvent
	frameReady chan struct{}
}

func NewEventBus() *EventBus {
	return &EventBus{
		done:           make(chan struct{}),
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
		frameReady:     make(chan struct{}, 1),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	eb.circuitBreaker.RecordFailure()

	if eb.errorCallback != nil {
		eb.errorCallback(EventBusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}
	if eb.circuitBreaker.IsOpen() {
		eb.reportError("SendToCore", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.uiToCore <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportError("SendToCore", ErrChannelFull)
		return ErrChannelFull
	}
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}
	if eb.circuitBreaker.IsOpen() {
		eb.reportError("SendToUI", ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case eb.coreToUI <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.reportError("SendToUI", ErrChannelFull)
		return ErrChannelFull
	}
}

// DeliverToUI blocks until event is queued, ctx is done or the bus closes.
// It does not consult the circuit breaker, so events that must reach the UI
// (input re-enable, final transcript) are never dropped while it is live.
func (eb *EventBus) DeliverToUI(ctx context.Context, event CoreEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}

	select {
	case eb.coreToUI <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-eb.done:
		return ErrClosed
	}
}

// PublishFrame replaces the pending typing frame. It never blocks.
func (eb *EventBus) PublishFrame(event TranscriptEvent) {
	eb.frameMu.Lock()
	eb.frame = &event
	eb.frameMu.Unlock()

	select {
	case eb.frameReady <- struct{}{}:
	default:
	}
}

// DiscardFrame drops a pending frame so it cannot overtake a later transcript.
func (eb *EventBus) DiscardFrame() {
	eb.frameMu.Lock()
	eb.frame = nil
	eb.frameMu.Unlock()
}

// TakeFrame returns the pending frame, if any, and clears it.
func (eb *EventBus) TakeFrame() (TranscriptEvent, bool) {
	eb.frameMu.Lock()
	defer eb.frameMu.Unlock()
	if eb.frame == nil {
		return TranscriptEvent{}, false
	}
	ev := *eb.frame
	eb.frame = nil
	return ev, true
}

// FrameReady signals that a frame may be waiting in TakeFrame.
func (eb *EventBus) FrameReady() <-chan struct{} {
	return eb.frameReady
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close is safe to call more than once.
func (eb *EventBus) Close() {
	// Release blocked DeliverToUI calls before taking the write lock
	eb.closeOnce.Do(func() { close(eb.done) })

	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
