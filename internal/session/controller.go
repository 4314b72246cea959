// Package session owns the two buffers being compared, the active comparison
// options and the in-memory history of completed comparisons.
//
// A Controller is meant to be driven from a single goroutine; it does no
// locking of its own.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chardiff/internal/compare"
)

// ContentLoader produces the content behind a source identifier.
type ContentLoader interface {
	Load(ctx context.Context, sourceID string) (string, error)
}

type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// OptionName identifies a boolean comparison option.
type OptionName string

const (
	OptionIgnoreCase       OptionName = "ignore_case"
	OptionIgnoreWhitespace OptionName = "ignore_whitespace"
)

// Buffer is one side's text and where it came from. SourceID is empty when
// the text was not loaded from a source.
type Buffer struct {
	Content  string
	SourceID string
}

type Controller struct {
	id     string
	loader ContentLoader
	now    func() time.Time
	log    zerolog.Logger

	left    Buffer
	right   Buffer
	options compare.Options
	history []HistoryEntry
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

func WithOptions(opts compare.Options) Option {
	return func(c *Controller) {
		c.options = opts
	}
}

func NewController(loader ContentLoader, opts ...Option) *Controller {
	c := &Controller{
		id:     uuid.New().String(),
		loader: loader,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("session", c.id).Logger()
	return c
}

func (c *Controller) SessionID() string {
	return c.id
}

func (c *Controller) Left() Buffer {
	return c.left
}

func (c *Controller) Right() Buffer {
	return c.right
}

func (c *Controller) Buffer(side Side) Buffer {
	if side == SideLeft {
		return c.left
	}
	return c.right
}

// ReplaceLeft sets the left buffer to content that was already produced for sourceID.
func (c *Controller) ReplaceLeft(sourceID, content string) {
	c.replace(SideLeft, sourceID, content)
}

func (c *Controller) ReplaceRight(sourceID, content string) {
	c.replace(SideRight, sourceID, content)
}

func (c *Controller) replace(side Side, sourceID, content string) {
	buf := Buffer{Content: content, SourceID: sourceID}
	if side == SideLeft {
		c.left = buf
	} else {
		c.right = buf
	}
}

// Edit replaces a buffer's text in place, keeping its source identifier.
func (c *Controller) Edit(side Side, content string) {
	if side == SideLeft {
		c.left.Content = content
	} else {
		c.right.Content = content
	}
}

func (c *Controller) LoadLeft(ctx context.Context, sourceID string) error {
	return c.Load(ctx, SideLeft, sourceID)
}

func (c *Controller) LoadRight(ctx context.Context, sourceID string) error {
	return c.Load(ctx, SideRight, sourceID)
}

// LoadRequest names the source to load into one side.
type LoadRequest struct {
	Side     Side
	SourceID string
}

// Fetched is the outcome of one LoadRequest. Err is a *SourceUnreadableError
// when the loader failed.
type Fetched struct {
	LoadRequest
	Content string
	Err     error
}

// Load fetches sourceID through the loader into one side. On failure the
// buffer keeps its previous content and a *SourceUnreadableError is returned.
func (c *Controller) Load(ctx context.Context, side Side, sourceID string) error {
	return c.Apply(c.FetchAll(ctx, []LoadRequest{{Side: side, SourceID: sourceID}}))
}

// Fetch asks the loader for sourceID without touching session state, so it
// may run off the goroutine that owns the controller. Failures are returned
// as *SourceUnreadableError.
func (c *Controller) Fetch(ctx context.Context, sourceID string) (string, error) {
	content, err := c.loader.Load(ctx, sourceID)
	if err != nil {
		return "", &SourceUnreadableError{SourceID: sourceID, Reason: err}
	}
	return content, nil
}

// FetchAll runs Fetch for every request in order. Like Fetch it leaves
// session state alone; hand the results to Apply.
func (c *Controller) FetchAll(ctx context.Context, plan []LoadRequest) []Fetched {
	out := make([]Fetched, 0, len(plan))
	for _, req := range plan {
		content, err := c.Fetch(ctx, req.SourceID)
		out = append(out, Fetched{LoadRequest: req, Content: content, Err: err})
	}
	return out
}

// Apply installs each successful fetch into its side. Failed sides keep their
// buffers; the returned error joins the per-side failures.
func (c *Controller) Apply(results []Fetched) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			c.log.Warn().Err(r.Err).Str("side", r.Side.String()).Str("source", r.SourceID).Msg("load failed")
			errs = append(errs, r.Err)
			continue
		}
		c.replace(r.Side, r.SourceID, r.Content)
		c.log.Debug().Str("side", r.Side.String()).Str("source", r.SourceID).Int("bytes", len(r.Content)).Msg("loaded source")
	}
	return errors.Join(errs...)
}

// AttachPlan maps attached identifiers to sides: the first goes left, the
// second right, and any past the second are ignored.
func (c *Controller) AttachPlan(ids []string) []LoadRequest {
	switch len(ids) {
	case 0:
		return nil
	case 1:
		return []LoadRequest{{Side: SideLeft, SourceID: ids[0]}}
	}
	if len(ids) > 2 {
		c.log.Debug().Int("ignored", len(ids)-2).Msg("attach: extra sources dropped")
	}
	return []LoadRequest{
		{Side: SideLeft, SourceID: ids[0]},
		{Side: SideRight, SourceID: ids[1]},
	}
}

// HistoryPlan is the load plan that restores both sides of entry.
func (c *Controller) HistoryPlan(entry HistoryEntry) []LoadRequest {
	return c.AttachPlan([]string{entry.LeftSource, entry.RightSource})
}

// AttachSources loads ids according to AttachPlan. Each side is loaded even
// if the other fails; the returned error joins the per-side failures.
func (c *Controller) AttachSources(ctx context.Context, ids []string) error {
	return c.Apply(c.FetchAll(ctx, c.AttachPlan(ids)))
}

// LoadFromHistory reloads both sides from the identifiers recorded in entry.
func (c *Controller) LoadFromHistory(ctx context.Context, entry HistoryEntry) error {
	return c.Apply(c.FetchAll(ctx, c.HistoryPlan(entry)))
}

func (c *Controller) Options() compare.Options {
	return c.options
}

func (c *Controller) SetOption(name OptionName, value bool) error {
	switch name {
	case OptionIgnoreCase:
		c.options.IgnoreCase = value
	case OptionIgnoreWhitespace:
		c.options.IgnoreWhitespace = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return nil
}

// Clear empties both buffers and forgets their sources. History is kept.
func (c *Controller) Clear() {
	c.left = Buffer{}
	c.right = Buffer{}
}

// Compare runs the comparator over the current buffers. When both sides have a
// source identifier the comparison is appended to the history, once per call.
func (c *Controller) Compare() compare.Result {
	res := compare.Strings(c.left.Content, c.right.Content, c.options)

	if c.left.SourceID != "" && c.right.SourceID != "" {
		c.history = append(c.history, HistoryEntry{
			Timestamp:   c.now(),
			LeftSource:  c.left.SourceID,
			RightSource: c.right.SourceID,
		})
	}

	stats := res.Stats()
	c.log.Info().
		Int("positions", res.Len()).
		Int("differences", stats.Differences()).
		Bool("ignore_case", c.options.IgnoreCase).
		Bool("ignore_whitespace", c.options.IgnoreWhitespace).
		Int("history", len(c.history)).
		Msg("compared buffers")
	return res
}

// History returns a copy of the recorded comparisons, oldest first.
func (c *Controller) History() []HistoryEntry {
	out := make([]HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}
