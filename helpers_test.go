package boomerang

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type TestObject struct {
	Validations
	SomeField      string `prg:"some_field"`
	ProtectedField string `prg:"protected_field,protected"`
	PrivateField   string `prg:"private_field,private"`
}

// testCodec is a JSON codec for tests in this package.
type testCodec struct{}

func (testCodec) ContentType() string                { return "application/json" }
func (testCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (testCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// failingCodec fails every marshal.
type failingCodec struct{ testCodec }

func (failingCodec) Marshal(any) ([]byte, error) { return nil, errors.New("marshal boom") }

// memSession is a single in-memory session with injectable failures.
type memSession struct {
	data      map[string][]byte
	getErr    error
	setErr    error
	deleteErr error
	deletes   int
}

func newMemSession() *memSession {
	return &memSession{data: map[string][]byte{}}
}

func (s *memSession) Get(_ context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *memSession) Set(_ context.Context, key string, data []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = data
	return nil
}

func (s *memSession) Delete(_ context.Context, key string) error {
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.data, key)
	return nil
}

func (s *memSession) has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// writeState stores st under the default key as the relay would.
func writeState(t *testing.T, sess *memSession, st state) {
	t.Helper()
	data, err := testCodec{}.Marshal(st)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	sess.data[DefaultKey] = data
}
