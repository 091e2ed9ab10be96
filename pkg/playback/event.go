package playback

import (
	"fmt"
	"time"
)

// EventKind tags a StatusEvent.
type EventKind int

const (
	EventError EventKind = iota
	EventWarning
	EventEndOfStream
	EventElement
	EventOther
)

func (k EventKind) String() string {
	switch k {
	case EventError:
		return "error"
	case EventWarning:
		return "warning"
	case EventEndOfStream:
		return "eos"
	case EventElement:
		return "element"
	default:
		return "other"
	}
}

// missingPluginName is the structure name GStreamer uses for missing plugin notices.
const missingPluginName = "missing-plugin"

// ElementNotice is the payload of an element message posted by the pipeline.
type ElementNotice struct {
	Name   string
	Fields map[string]any
}

// IsMissingPlugin reports whether the notice announces a missing decoder or plugin.
func (n ElementNotice) IsMissingPlugin() bool {
	return n.Name == missingPluginName
}

// Field returns a field rendered as a string, or "" when absent.
func (n ElementNotice) Field(name string) string {
	v, ok := n.Fields[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Detail is the capability the missing plugin would provide, e.g. "video/x-h265".
func (n ElementNotice) Detail() string {
	return n.Field("detail")
}

// StatusEvent is an out-of-band message from the pipeline.
type StatusEvent struct {
	Kind   EventKind
	Cause  error
	Notice *ElementNotice
	Source string
	At     time.Time
}

func (e StatusEvent) String() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s from %s: %v", e.Kind, e.Source, e.Cause)
	case e.Notice != nil:
		return fmt.Sprintf("%s from %s: %s", e.Kind, e.Source, e.Notice.Name)
	default:
		return fmt.Sprintf("%s from %s", e.Kind, e.Source)
	}
}

// ErrorEvent wraps a pipeline error.
func ErrorEvent(source string, cause error) StatusEvent {
	return StatusEvent{Kind: EventError, Cause: cause, Source: source, At: time.Now()}
}

// WarningEvent wraps a pipeline warning.
func WarningEvent(source string, cause error) StatusEvent {
	return StatusEvent{Kind: EventWarning, Cause: cause, Source: source, At: time.Now()}
}

// EndOfStreamEvent signals that the last frame has been produced.
func EndOfStreamEvent(source string) StatusEvent {
	return StatusEvent{Kind: EventEndOfStream, Source: source, At: time.Now()}
}

// ElementEvent carries an element notice.
func ElementEvent(source string, notice ElementNotice) StatusEvent {
	return StatusEvent{Kind: EventElement, Notice: &notice, Source: source, At: time.Now()}
}

// MissingPluginEvent builds the element event GStreamer posts when no element can handle detail.
func MissingPluginEvent(source, detail, description string) StatusEvent {
	return ElementEvent(source, ElementNotice{
		Name: missingPluginName,
		Fields: map[string]any{
			"type":   "decoder",
			"detail": detail,
			"name":   description,
		},
	})
}
