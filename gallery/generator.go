package gallery

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/mhpenta/nanogen"
	"github.com/mhpenta/nanogen/sl"
)

// Status is the outcome of the most recent submission.
type Status string

const (
	StatusIdle    Status = "IDLE"
	StatusLoading Status = "LOADING"
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// DefaultErrorMessage is shown when a failure carries no message of its own.
const DefaultErrorMessage = "Failed to generate image. Please try again."

// State is a point-in-time copy of a Generator.
type State struct {
	Status Status
	Error  string
	Draft  string
	Images []GeneratedImage
}

// InFlight reports whether a request is outstanding. It is advisory: the
// Generator does not refuse a second submission while one is running.
func (s State) InFlight() bool {
	return s.Status == StatusLoading
}

// Generator runs prompts through an image client and records the results.
// The zero value is not usable; create one with NewGenerator.
type Generator struct {
	client nanogen.ImageClient
	now    func() time.Time
	log    *slog.Logger

	mu      sync.Mutex
	status  Status
	lastErr string
	draft   string
	gallery Gallery
	lastID  int64
	epoch   uint64

	pending sync.WaitGroup
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGenerator returns an Idle Generator with an empty gallery.
func NewGenerator(client nanogen.ImageClient, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client: client,
		now:    time.Now,
		log:    slog.Default(),
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(sl.Module("gallery"))
	return g
}

// Submit runs one generation for prompt and returns the resulting status.
//
// A blank prompt is ignored: nothing changes and the client is not called.
// Otherwise the call blocks until the client returns. The prompt is stored
// exactly as given.
func (g *Generator) Submit(ctx context.Context, prompt string) Status {
	epoch, status, ok := g.begin(prompt)
	if !ok {
		return status
	}
	url, err := g.client.GenerateImage(ctx, prompt)
	return g.finish(epoch, prompt, url, err)
}

// Start is Submit without the wait: the state is Loading when it returns and
// the client call runs in the background. Wait blocks until such calls end.
func (g *Generator) Start(ctx context.Context, prompt string) Status {
	epoch, status, ok := g.begin(prompt)
	if !ok {
		return status
	}

	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		url, err := g.client.GenerateImage(ctx, prompt)
		g.finish(epoch, prompt, url, err)
	}()

	return status
}

// Wait blocks until every request started with Start has landed.
func (g *Generator) Wait() {
	g.pending.Wait()
}

// begin moves to Loading for a non-blank prompt. ok is false when the prompt
// is blank and nothing changed.
func (g *Generator) begin(prompt string) (epoch uint64, status Status, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if nanogen.ValidatePrompt(prompt) != nil {
		return g.epoch, g.status, false
	}

	g.draft = prompt
	g.lastErr = ""
	g.status = StatusLoading
	return g.epoch, g.status, true
}

func (g *Generator) finish(epoch uint64, prompt, url string, err error) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	if epoch != g.epoch {
		// Reset ran while the request was out; the result belongs to a
		// session that no longer exists.
		g.log.Debug("dropping result of a reset session")
		return g.status
	}

	if err != nil {
		g.lastErr = errorMessage(err)
		g.status = StatusError
		g.log.Warn("generation failed", sl.Err(err))
		return g.status
	}

	now := g.now().UnixMilli()
	g.gallery.Prepend(GeneratedImage{
		ID:        g.nextID(now),
		URL:       url,
		Prompt:    prompt,
		Timestamp: g.timestamp(now),
	})
	g.draft = ""
	g.status = StatusSuccess

	g.log.Info("image added to gallery", slog.Int("gallery_size", g.gallery.Len()))

	return g.status
}

// Snapshot returns a copy of the current state.
func (g *Generator) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return State{
		Status: g.status,
		Error:  g.lastErr,
		Draft:  g.draft,
		Images: g.gallery.Images(),
	}
}

// Image looks up a gallery entry by id.
func (g *Generator) Image(id string) (GeneratedImage, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gallery.Find(id)
}

// Reset discards the gallery and returns to Idle. Requests still in flight
// complete but their results are dropped.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.status = StatusIdle
	g.lastErr = ""
	g.draft = ""
	g.gallery = Gallery{}
	g.epoch++
}

// nextID derives the id from the clock, bumped so ids stay unique when two
// results land in the same millisecond.
func (g *Generator) nextID(now int64) string {
	id := now
	if id <= g.lastID {
		id = g.lastID + 1
	}
	g.lastID = id
	return strconv.FormatInt(id, 10)
}

// timestamp keeps the gallery ordered if the wall clock steps backwards.
func (g *Generator) timestamp(now int64) int64 {
	if head, ok := g.gallery.Head(); ok && head.Timestamp > now {
		return head.Timestamp
	}
	return now
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
