package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Zachkp/portfolio-terminal/internal/catalog"
)

const (
	DefaultInterval    = 4 * time.Second
	DefaultMaxAttempts = 60
)

// Recorder persists the tracked session so it survives a redirect round trip.
type Recorder interface {
	SaveCheckout(ctx context.Context, s Session) error
}

type Option func(*Tracker)

func WithClock(c Clock) Option { return func(t *Tracker) { t.clock = c } }

func WithOpener(o Opener) Option { return func(t *Tracker) { t.opener = o } }

func WithRecorder(r Recorder) Option { return func(t *Tracker) { t.recorder = r } }

func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxAttempts = n
		}
	}
}

// Tracker owns the current checkout session and its single poll task.
//
// Every background result carries the generation it was started under and
// the checkout id it polled; results from an older generation or another
// checkout are dropped, so a late response never regresses a newer attempt.
type Tracker struct {
	backend     Backend
	clock       Clock
	opener      Opener
	recorder    Recorder
	interval    time.Duration
	maxAttempts int

	mu       sync.Mutex
	session  Session
	gen      uint64
	poll     *pollTask
	onChange func(Session)

	wg sync.WaitGroup
}

type pollTask struct {
	stop chan struct{}
	once sync.Once
}

func (p *pollTask) cancel() {
	p.once.Do(func() { close(p.stop) })
}

func (p *pollTask) stopped() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

func NewTracker(backend Backend, opts ...Option) *Tracker {
	t := &Tracker{
		backend:     backend,
		clock:       realClock{},
		opener:      NopOpener,
		interval:    DefaultInterval,
		maxAttempts: DefaultMaxAttempts,
		session: Session{
			Status:  StatusIdle,
			Message: "Choose a skateboard to start a checkout.",
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnChange registers fn to be called after every state transition. fn runs
// outside the tracker lock and must not block for long.
func (t *Tracker) OnChange(fn func(Session)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Session returns a snapshot of the tracked session.
func (t *Tracker) Session() Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.clone()
}

// Polling reports whether a poll task is outstanding.
func (t *Tracker) Polling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.poll != nil
}

// StartPurchase begins a new purchase attempt for p and returns the state it
// entered synchronously. Creation and polling continue in the background.
func (t *Tracker) StartPurchase(ctx context.Context, p catalog.Product) Session {
	t.mu.Lock()
	t.cancelPollLocked()
	t.gen++
	gen := t.gen

	if !p.Configured() {
		t.session = Session{
			Status:  StatusError,
			Product: p.Name,
			Message: fmt.Sprintf("Product %q is not configured. Set %s in the environment.", p.Name, p.EnvVar),
		}
		snap := t.session.clone()
		t.mu.Unlock()
		t.notify(snap)
		return snap
	}

	t.session = Session{
		Status:  StatusCreating,
		Product: p.Name,
		Message: fmt.Sprintf("Creating checkout for %s...", p.Name),
	}
	snap := t.session.clone()
	t.wg.Add(1)
	t.mu.Unlock()

	t.notify(snap)
	go func() {
		defer t.wg.Done()
		t.create(ctx, gen, p)
	}()
	return snap
}

func (t *Tracker) create(ctx context.Context, gen uint64, p catalog.Product) {
	res, err := t.backend.CreateCheckout(ctx, CreateRequest{
		ProductID: p.ExternalID,
		Quantity:  1,
		Metadata:  map[string]any{"productName": p.Name},
	})
	if err == nil && res.CheckoutID == "" {
		err = errors.New("checkout api returned no checkout id")
	}

	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		log.Printf("checkout: dropping create result for %s from a superseded attempt", p.Name)
		return
	}

	if err != nil {
		t.session.Status = StatusError
		t.session.Message = createErrorMessage(err)
		snap := t.session.clone()
		t.mu.Unlock()
		log.Printf("checkout: create for %s failed: %v", p.Name, err)
		t.notify(snap)
		return
	}

	status := res.Status
	if status == "" {
		status = "created"
	}
	t.session.Status = StatusPending
	t.session.CheckoutID = res.CheckoutID
	t.session.CheckoutURL = res.CheckoutURL
	t.session.Message = fmt.Sprintf("Checkout created for %s. Opening checkout...", p.Name)
	t.session.Log = append(t.session.Log, StatusEntry{Status: status, At: t.clock.Now()})
	task := t.newPollLocked()
	snap := t.session.clone()
	t.mu.Unlock()

	log.Printf("checkout: created %s for %s", res.CheckoutID, p.Name)
	t.notify(snap)
	t.record(ctx, snap)
	t.launchPoll(ctx, task, gen, res.CheckoutID)

	if res.CheckoutURL != "" {
		if err := t.opener.Open(res.CheckoutURL); err != nil {
			log.Printf("checkout: could not open %s: %v", res.CheckoutURL, err)
		}
	}
}

// newPollLocked installs a fresh poll task, replacing any previous one. The
// loop itself is started by launchPoll once the transition has been announced.
func (t *Tracker) newPollLocked() *pollTask {
	t.cancelPollLocked()
	task := &pollTask{stop: make(chan struct{})}
	t.poll = task
	return task
}

func (t *Tracker) launchPoll(ctx context.Context, task *pollTask, gen uint64, checkoutID string) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.runPoll(ctx, task, gen, checkoutID)
	}()
}

func (t *Tracker) runPoll(ctx context.Context, task *pollTask, gen uint64, checkoutID string) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-task.stop:
			return
		case <-ctx.Done():
			t.finishPoll(task)
			return
		case <-ticker.C():
		}
		if task.stopped() {
			return
		}

		attempts++
		t.refresh(ctx, gen, checkoutID)

		if attempts > t.maxAttempts {
			log.Printf("checkout: stopped polling %s after %d attempts", checkoutID, attempts)
			t.finishPoll(task)
			return
		}
	}
}

func (t *Tracker) finishPoll(task *pollTask) {
	t.mu.Lock()
	if t.poll == task {
		t.poll = nil
	}
	t.mu.Unlock()
	task.cancel()
}

// refresh polls checkoutID once and applies the result if the session is
// still the pending attempt it was issued for.
func (t *Tracker) refresh(ctx context.Context, gen uint64, checkoutID string) {
	res, err := t.backend.CheckoutStatus(ctx, checkoutID)

	t.mu.Lock()
	if gen != t.gen || t.session.CheckoutID != checkoutID || t.session.Status != StatusPending {
		t.mu.Unlock()
		return
	}

	if err != nil {
		t.session.Status = StatusError
		t.session.Message = refreshErrorMessage(err)
		t.cancelPollLocked()
		log.Printf("checkout: status for %s failed: %v", checkoutID, err)
	} else {
		t.session.Log = append(t.session.Log, StatusEntry{Status: res.Status, At: t.clock.Now()})
		t.session.Message = "Checkout status: " + res.Status
		if IsDone(res.Status) {
			t.session.Status = StatusCompleted
			t.cancelPollLocked()
		}
	}
	snap := t.session.clone()
	t.mu.Unlock()

	t.notify(snap)
	t.record(ctx, snap)
}

// RefreshNow polls the tracked checkout once, outside the poll cadence, and
// returns the resulting session. It is a no-op without a checkout id.
func (t *Tracker) RefreshNow(ctx context.Context) Session {
	t.mu.Lock()
	id, gen := t.session.CheckoutID, t.gen
	t.mu.Unlock()

	if id != "" {
		t.refresh(ctx, gen, id)
	}
	return t.Session()
}

// Refresh runs RefreshNow in the background.
func (t *Tracker) Refresh(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.RefreshNow(ctx)
	}()
}

// CancelPolling stops the poll task, if any. It is safe to call repeatedly.
func (t *Tracker) CancelPolling() {
	t.mu.Lock()
	t.cancelPollLocked()
	t.mu.Unlock()
}

func (t *Tracker) cancelPollLocked() {
	if t.poll != nil {
		t.poll.cancel()
		t.poll = nil
	}
}

// Resume restores a session persisted before a redirect. A session that had
// not settled goes back to pending and polling restarts.
func (t *Tracker) Resume(ctx context.Context, s Session) Session {
	if s.CheckoutID == "" {
		return t.Session()
	}

	t.mu.Lock()
	t.cancelPollLocked()
	t.gen++
	gen := t.gen
	t.session = s.clone()
	var task *pollTask
	if !t.session.Terminal() {
		t.session.Status = StatusPending
		t.session.Message = fmt.Sprintf("Resuming checkout %s...", s.CheckoutID)
		task = t.newPollLocked()
	}
	snap := t.session.clone()
	t.mu.Unlock()

	t.notify(snap)
	if task != nil {
		t.launchPoll(ctx, task, gen, s.CheckoutID)
	}
	return snap
}

// Wait blocks until no background create, poll or refresh is running.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Close cancels polling and waits for background work.
func (t *Tracker) Close() {
	t.CancelPolling()
	t.Wait()
}

func (t *Tracker) notify(s Session) {
	t.mu.Lock()
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (t *Tracker) record(ctx context.Context, s Session) {
	if t.recorder == nil {
		return
	}
	if err := t.recorder.SaveCheckout(ctx, s); err != nil {
		log.Printf("checkout: could not save %s: %v", s.CheckoutID, err)
	}
}

func createErrorMessage(err error) string {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Message != "" {
			return upstream.Message
		}
		return "Unable to create checkout. Confirm the Polar key and product id."
	}
	return "Unexpected error creating checkout: " + err.Error()
}

func refreshErrorMessage(err error) string {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Message != "" {
			return upstream.Message
		}
		return "Unable to fetch checkout status"
	}
	return "Unable to refresh status: " + err.Error()
}
