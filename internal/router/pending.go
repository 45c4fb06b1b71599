package router

import (
	"fmt"
	"strings"
)

// pendingQuestion is the single outstanding follow-up. A new question
// overwrites an unanswered one; the very next turn consumes it regardless
// of content.
type pendingQuestion struct {
	category string
	field    string
}

func (r *Router) ask(category, field string) {
	r.pending = &pendingQuestion{category: category, field: field}
}

// HasPending reports whether a follow-up question is waiting for an answer.
func (r *Router) HasPending() bool {
	return r.pending != nil
}

// consumePending treats text as the answer to the outstanding question. The
// slot is cleared whether or not the save succeeds.
func (r *Router) consumePending(text string) string {
	q := r.pending
	r.pending = nil

	if err := r.profile.Set(q.category, q.field, text); err != nil {
		return "I couldn't save that information."
	}
	field := strings.ReplaceAll(q.field, "_", " ")
	return fmt.Sprintf("Got it! I'll remember your %s is %s.", field, text)
}
