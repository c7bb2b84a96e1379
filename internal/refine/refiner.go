// Package refine runs the bio refinement request and keeps the refiner
// controls in a consistent busy or idle state.
package refine

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/verte-zerg/datafolio/internal/genai"
	"github.com/verte-zerg/datafolio/internal/model"
	"github.com/verte-zerg/datafolio/internal/view"
)

// Persona is the system instruction sent with every draft.
const Persona = "You are a professional career coach and writer. Refine and expand the user's bio to make it more professional, engaging, and suitable for a software engineering portfolio."

// Fixed messages shown in the output element.
const (
	MsgEmptyDraft       = "Error: Please enter a bio draft to refine."
	MsgCouldNotGenerate = "Error: Could not generate bio. Please try again."
	MsgFailedToConnect  = "Error: Failed to connect to the generator. Please check your network."
)

// Generator produces refined text from a draft.
type Generator interface {
	Generate(ctx context.Context, system, text string) (string, error)
}

// Recorder persists finished refinements.
type Recorder interface {
	InsertRefinement(ctx context.Context, r model.Refinement) (int64, error)
}

// Request is one in-flight submission.
type Request struct {
	Draft     string
	startedAt time.Time
}

// Run performs the network call for the request.
func (r *Request) Run(ctx context.Context, gen Generator) (string, error) {
	return gen.Generate(ctx, Persona, r.Draft)
}

// Refiner drives the refiner elements of a document.
type Refiner struct {
	doc      *view.Document
	gen      Generator
	logger   *log.Logger
	recorder Recorder
	now      func() time.Time

	pending *Request
}

// Option configures a Refiner.
type Option func(*Refiner)

// WithLogger sets the diagnostic logger for transport failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Refiner) { r.logger = l }
}

// WithRecorder sets where Submit and Record store finished requests.
func WithRecorder(rec Recorder) Option {
	return func(r *Refiner) { r.recorder = rec }
}

// New returns an idle Refiner. Without a logger, diagnostics are discarded.
func New(doc *view.Document, gen Generator, opts ...Option) *Refiner {
	r := &Refiner{
		doc:    doc,
		gen:    gen,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pending reports whether a request is in flight.
func (r *Refiner) Pending() bool {
	return r.pending != nil
}

// Generator returns the generator requests run against.
func (r *Refiner) Generator() Generator {
	return r.gen
}

// Begin validates the draft and enters the busy state. It returns false when
// the draft is empty, which shows the validation message, or when a request
// is already pending, in which case the control is disabled and nothing
// changes.
func (r *Refiner) Begin(draft string) (*Request, bool) {
	if r.pending != nil || r.doc.ByID(view.GenerateButton).Disabled {
		return nil, false
	}
	draft = strings.TrimSpace(draft)
	output := r.doc.ByID(view.GeneratedOutput)
	if draft == "" {
		output.Text = MsgEmptyDraft
		output.RemoveClass(view.ClassHidden)
		return nil, false
	}
	r.doc.ByID(view.LoadingSpinner).RemoveClass(view.ClassHidden)
	output.AddClass(view.ClassHidden)
	r.doc.ByID(view.GenerateButton).Disabled = true
	req := &Request{Draft: draft, startedAt: r.now()}
	r.pending = req
	return req, true
}

// Finish renders the outcome of req and returns to the idle state. It returns
// the record of the finished request without storing it, and reports false,
// changing nothing, when req is not the pending request.
func (r *Refiner) Finish(req *Request, text string, err error) (model.Refinement, bool) {
	if req == nil || req != r.pending {
		return model.Refinement{}, false
	}
	defer r.idle()

	output := r.doc.ByID(view.GeneratedOutput)
	var outcome model.Outcome
	switch {
	case err == nil && text != "":
		outcome = model.OutcomeRefined
		output.Text = text
	case err == nil || errors.Is(err, genai.ErrNoText):
		outcome = model.OutcomeMalformed
		output.Text = MsgCouldNotGenerate
	default:
		outcome = model.OutcomeTransport
		r.logger.Printf("refine: API call failed: %v", err)
		output.Text = MsgFailedToConnect
	}
	return model.Refinement{
		CreatedAt:  req.startedAt,
		Draft:      req.Draft,
		Result:     output.Text,
		Outcome:    outcome,
		DurationMs: r.now().Sub(req.startedAt).Milliseconds(),
	}, true
}

// Submit runs a whole submission synchronously and records it. ok is false
// when the draft was rejected before any request was made.
func (r *Refiner) Submit(ctx context.Context, draft string) (outcome model.Outcome, ok bool) {
	req, ok := r.Begin(draft)
	if !ok {
		return "", false
	}
	var (
		text string
		err  error
	)
	defer func() {
		if rec, done := r.Finish(req, text, err); done {
			outcome = rec.Outcome
			r.Record(ctx, rec)
		}
	}()
	text, err = req.Run(ctx, r.gen)
	return "", true
}

// Record stores rec with the configured recorder. Failures are only logged.
// It touches neither the document nor the pending request, so it may run
// from a command off the UI loop.
func (r *Refiner) Record(ctx context.Context, rec model.Refinement) {
	if r.recorder == nil {
		return
	}
	if _, err := r.recorder.InsertRefinement(ctx, rec); err != nil {
		r.logger.Printf("refine: failed to record refinement: %v", err)
	}
}

// Recording reports whether finished requests are stored.
func (r *Refiner) Recording() bool {
	return r.recorder != nil
}

func (r *Refiner) idle() {
	r.pending = nil
	r.doc.ByID(view.LoadingSpinner).AddClass(view.ClassHidden)
	r.doc.ByID(view.GeneratedOutput).RemoveClass(view.ClassHidden)
	r.doc.ByID(view.GenerateButton).Disabled = false
}
