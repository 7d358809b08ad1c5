package analysis

import (
	"fmt"
	"log"
)

// Warnings collects config and data warnings for one pipeline run,
// deduplicating by key so a warning repeated across groups is logged once.
// Each run gets its own recorder; nothing is shared between invocations.
type Warnings struct {
	seen    map[string]bool
	ordered []string
}

// NewWarnings builds an empty recorder.
func NewWarnings() *Warnings {
	return &Warnings{seen: map[string]bool{}}
}

// Warnf records and logs a warning once per key.
func (w *Warnings) Warnf(key, format string, args ...any) {
	if w.seen[key] {
		return
	}
	w.seen[key] = true
	msg := fmt.Sprintf(format, args...)
	w.ordered = append(w.ordered, msg)
	log.Printf("warn: %s", msg)
}

// List returns the recorded warnings in first-seen order.
func (w *Warnings) List() []string {
	out := make([]string, len(w.ordered))
	copy(out, w.ordered)
	return out
}
