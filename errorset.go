package boomerang

import "sort"

// Errors collects validation messages per field.
//
// Messages are appended during validation and read back for display. The
// zero value is ready to use.
type Errors struct {
	messages map[string][]string
}

// Add appends a message for field.
func (e *Errors) Add(field, message string) {
	if e.messages == nil {
		e.messages = make(map[string][]string)
	}
	e.messages[field] = append(e.messages[field], message)
}

// On returns the messages recorded for field.
func (e *Errors) On(field string) []string {
	msgs := e.messages[field]
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out
}

// Messages returns a copy of every field's messages.
func (e *Errors) Messages() map[string][]string {
	out := make(map[string][]string, len(e.messages))
	for field, msgs := range e.messages {
		if len(msgs) == 0 {
			continue
		}
		cp := make([]string, len(msgs))
		copy(cp, msgs)
		out[field] = cp
	}
	return out
}

// Fields returns the names of fields with messages, sorted.
func (e *Errors) Fields() []string {
	fields := make([]string, 0, len(e.messages))
	for field, msgs := range e.messages {
		if len(msgs) > 0 {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Len returns the total number of messages.
func (e *Errors) Len() int {
	n := 0
	for _, msgs := range e.messages {
		n += len(msgs)
	}
	return n
}

// Empty reports whether no messages were recorded.
func (e *Errors) Empty() bool {
	return e.Len() == 0
}

// Clear removes every message.
func (e *Errors) Clear() {
	e.messages = nil
}

// Set replaces the collection with messages, bypassing validation.
// The map is copied.
func (e *Errors) Set(messages map[string][]string) {
	e.messages = nil
	for field, msgs := range messages {
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
}
