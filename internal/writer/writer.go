// Package writer mutates form fields the way a user typing into them would:
// assign the value, raise input/change/blur and flash a highlight.
package writer

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Event is a DOM notification dispatched after a value change.
type Event string

// Events dispatched after every write, in this order.
const (
	EventInput  Event = "input"
	EventChange Event = "change"
	EventBlur   Event = "blur"
)

// NotifyOrder is the order events are dispatched in.
var NotifyOrder = []Event{EventInput, EventChange, EventBlur}

// Defaults for the transient highlight.
const (
	DefaultHighlightColor    = "#e8f5e8"
	DefaultHighlightDuration = 2 * time.Second
)

// Option is one <option> of a select element.
type Option struct {
	Text  string
	Value string
}

// Element is the capability set a writable form field exposes. Implementations
// back it with a parsed document, a live browser page or a test double.
type Element interface {
	// Tag is the lower-cased tag name: input, textarea or select.
	Tag() string
	Value() string
	// Options lists a select's options; nil for other tags.
	Options() []Option
	SetValue(value string)
	Dispatch(event Event)
	SetStyle(property, value string)
}

// Writer writes resolved values into elements.
type Writer struct {
	HighlightColor    string
	HighlightDuration time.Duration
	logger            *zap.Logger
}

// New creates a Writer with the default highlight.
func New(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		HighlightColor:    DefaultHighlightColor,
		HighlightDuration: DefaultHighlightDuration,
		logger:            logger,
	}
}

// Write assigns value to el and notifies listeners. A select with no option
// containing value keeps its current selection.
func (w *Writer) Write(el Element, value string) {
	if el.Tag() == "select" {
		if opt, ok := MatchOption(el.Options(), value); ok {
			el.SetValue(opt.Value)
		} else {
			w.logger.Debug("no matching select option", zap.String("value", value))
		}
	} else {
		el.SetValue(value)
	}

	for _, ev := range NotifyOrder {
		el.Dispatch(ev)
	}

	w.highlight(el)
}

// highlight sets the background colour and clears it after HighlightDuration.
// The timer is not tracked; clearing a detached element is a no-op.
func (w *Writer) highlight(el Element) {
	if w.HighlightColor == "" {
		return
	}
	el.SetStyle("background-color", w.HighlightColor)
	if w.HighlightDuration <= 0 {
		return
	}
	time.AfterFunc(w.HighlightDuration, func() {
		el.SetStyle("background-color", "")
	})
}

// MatchOption returns the first option whose text or value contains value,
// case-insensitively.
func MatchOption(options []Option, value string) (Option, bool) {
	needle := strings.ToLower(value)
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Text), needle) ||
			strings.Contains(strings.ToLower(opt.Value), needle) {
			return opt, true
		}
	}
	return Option{}, false
}
