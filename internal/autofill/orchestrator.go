// Package autofill runs fill passes: detect job-application forms, classify
// each field, resolve its value and write it.
package autofill

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/form-autofill/internal/classify"
	"github.com/jonathan/form-autofill/internal/forms"
	"github.com/jonathan/form-autofill/internal/resolve"
	"github.com/jonathan/form-autofill/internal/types"
	"github.com/jonathan/form-autofill/internal/writer"
	"go.uber.org/zap"
)

// Failure messages reported in FillResult.
const (
	MsgNoData   = "User data not available. Please login first."
	MsgNoForms  = "No compatible job application forms found on this page."
	MsgNoFields = "Found forms but could not fill any fields"
)

// Page is anything that can report its job-application forms.
type Page interface {
	Detect() []forms.Form
}

// Orchestrator composes detection, classification, resolution and writing.
type Orchestrator struct {
	writer         *writer.Writer
	logger         *zap.Logger
	defaultCountry string
	now            func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDefaultCountry overrides the value written into country fields.
func WithDefaultCountry(country string) Option {
	return func(o *Orchestrator) { o.defaultCountry = country }
}

// WithClock overrides the clock used for experience durations.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator.
func New(w *writer.Writer, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if w == nil {
		w = writer.New(logger)
	}
	o := &Orchestrator{
		writer:         w,
		logger:         logger,
		defaultCountry: resolve.DefaultCountry,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AutoFill runs one fill pass over page with the context's current snapshot.
// Failures are reported in the result, never returned.
func (o *Orchestrator) AutoFill(page Page, actx *Context) types.FillResult {
	log := o.logger.With(zap.String("pass_id", uuid.NewString()))

	var snap Snapshot
	if actx != nil {
		snap = actx.Snapshot()
	}
	if snap.Profile == nil {
		log.Info("fill skipped: no profile loaded")
		return types.FillResult{Success: false, Message: MsgNoData}
	}

	detected := page.Detect()
	if len(detected) == 0 {
		log.Info("fill skipped: no job application forms")
		return types.FillResult{Success: false, Message: MsgNoForms}
	}

	resolver := o.resolver(snap)

	filled := 0
	for _, form := range detected {
		log.Debug("form accepted",
			zap.String("form", form.ID()),
			zap.Int("phone_fields", form.Signals.PhoneFields))
		for _, field := range form.Fields {
			if o.fillField(log, resolver, field) {
				filled++
			}
		}
	}

	log.Info("fill pass complete",
		zap.Int("forms", len(detected)),
		zap.Int("filled", filled))

	if filled == 0 {
		return types.FillResult{Success: false, Message: MsgNoFields}
	}
	return types.FillResult{
		Success:     true,
		FilledCount: filled,
		Message:     fmt.Sprintf("Successfully filled %d field(s)", filled),
	}
}

func (o *Orchestrator) resolver(snap Snapshot) *resolve.Resolver {
	return &resolve.Resolver{
		Profile:        snap.Profile,
		Resume:         snap.Resume,
		Now:            o.now,
		DefaultCountry: o.defaultCountry,
	}
}

func (o *Orchestrator) fillField(log *zap.Logger, resolver *resolve.Resolver, field forms.Field) bool {
	category := classify.Classify(field.Descriptor)
	if category == classify.Unknown {
		return false
	}

	value := resolver.Resolve(category)
	log.Debug("field classified",
		zap.String("name", field.Name),
		zap.String("category", string(category)),
		zap.Bool("resolved", value != ""))
	if value == "" {
		return false
	}

	o.writer.Write(field.Element, value)
	return true
}

// DetectForms summarizes the page's job-application forms.
func (o *Orchestrator) DetectForms(page Page) []types.FormSummary {
	detected := page.Detect()
	out := make([]types.FormSummary, 0, len(detected))
	for _, form := range detected {
		out = append(out, types.FormSummary{ID: form.ID(), Fields: len(form.Fields)})
	}
	return out
}
