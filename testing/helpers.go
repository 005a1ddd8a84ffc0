// Package testing provides test utilities for boomerang.
package testing

import (
	"context"
	"testing"

	"github.com/zoobzio/boomerang"
	"github.com/zoobzio/boomerang/store/memory"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey(t testing.TB) []byte {
	t.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(t testing.TB) boomerang.Encryptor {
	t.Helper()
	enc, err := boomerang.AES(TestKey(t))
	if err != nil {
		t.Fatalf("AES() error: %v", err)
	}
	return enc
}

// Signup is a sample form model covering every access level.
type Signup struct {
	boomerang.Validations
	Email    string `prg:"email"`
	Password string `prg:"password,filter"`
	Age      int    `prg:"age"`
	Role     string `prg:"role,protected"`
}

// NewSession returns an empty in-memory session.
func NewSession() boomerang.Session {
	return memory.New().Session("test")
}

// Record is the stored shape of one redirected object, for writing state
// the way an older or foreign writer would.
type Record struct {
	Errors    map[string][]string `json:"errors" yaml:"errors" msgpack:"errors" bson:"errors" cbor:"errors"`
	Params    map[string]any      `json:"params" yaml:"params" msgpack:"params" bson:"params" cbor:"params"`
	Permitted bool                `json:"permitted" yaml:"permitted" msgpack:"permitted" bson:"permitted" cbor:"permitted"`
}

// WriteState encodes records with codec and stores them under key.
func WriteState(t testing.TB, sess boomerang.Session, codec boomerang.Codec, key string, records map[string]Record) {
	t.Helper()
	data, err := codec.Marshal(records)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if err := sess.Set(context.Background(), key, data); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
}
