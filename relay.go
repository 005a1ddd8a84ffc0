package boomerang

import (
	"context"
	"errors"
	"reflect"
	"time"
)

// DefaultKey is the session key redirect state is stored under.
const DefaultKey = "redirected_objects"

// Relay moves redirected objects through a session store.
// Use Redirect in the failed write request and Load in the request that follows.
//
// A Relay holds no per-request state and is safe for concurrent use. The
// Session passed to each call decides which client the state belongs to.
type Relay struct {
	codec Codec
	key   string
}

// Option configures a Relay.
type Option func(*Relay)

// WithKey sets the session key redirect state is stored under.
func WithKey(key string) Option {
	return func(r *Relay) {
		if key != "" {
			r.key = key
		}
	}
}

// New creates a Relay that encodes stored state with codec.
func New(codec Codec, opts ...Option) *Relay {
	r := &Relay{
		codec: codec,
		key:   DefaultKey,
	}
	for _, opt := range opts {
		opt(r)
	}

	emitRelayCreated(context.Background(), codec.ContentType(), r.key)
	return r
}

// Key returns the session key redirect state is stored under.
func (r *Relay) Key() string {
	return r.key
}

// Redirect stores obj's errors and the submitted params under id, merging
// with any other objects already stored for this round trip.
//
// params must be Permitted. Raw params fail with an UnsafeParametersError
// naming every submitted key. Fields tagged filter on obj's type are not
// stored. Stored state that no longer decodes is replaced.
func (r *Relay) Redirect(ctx context.Context, sess Session, id string, obj Model, params Params) (err error) {
	start := time.Now()
	emitRedirectStart(ctx, r.codec.ContentType(), id)

	stored := 0
	defer func() {
		emitRedirectComplete(ctx, r.codec.ContentType(), id, time.Since(start), stored, err)
	}()

	if id == "" {
		return ErrInvalidIdentifier
	}
	if isNilModel(obj) {
		return newConfigError(ErrUnsupportedType, "", "nil")
	}
	errs := obj.Errors()
	if errs == nil {
		return newConfigError(ErrUnsupportedType, "Errors", reflect.TypeOf(obj).String())
	}

	permitted, err := requirePermitted(params)
	if err != nil {
		return err
	}

	values := permitted.Values()
	plan, ok, err := plansForType(reflect.TypeOf(obj))
	if err != nil {
		return err
	}
	if ok {
		for _, name := range plan.filtered {
			delete(values, name)
		}
	}

	st, err := r.read(ctx, sess)
	if errors.Is(err, ErrUnmarshal) {
		emitStateReset(ctx, r.key, err)
		st, err = state{}, nil
	}
	if err != nil {
		return err
	}

	st[id] = record{
		Errors:    errs.Messages(),
		Params:    values,
		Permitted: true,
	}
	if err := r.write(ctx, sess, st); err != nil {
		return err
	}

	stored = len(values)
	return nil
}

// Load rebuilds every stored object and binds it to its target, then removes
// the stored state.
//
// Each identifier is handled on its own: a failure for one does not stop the
// others. A single failure is returned unchanged; several are joined. Stored
// identifiers with no target are consumed and dropped.
//
// The stored state is deleted on every exit path, including errors and
// panics. No state at all is the normal fresh page load: targets are left
// untouched and no error is returned.
func (r *Relay) Load(ctx context.Context, sess Session, targets Targets) (err error) {
	start := time.Now()
	emitLoadStart(ctx, r.codec.ContentType(), r.key)

	restored := 0
	defer func() {
		emitLoadComplete(ctx, r.codec.ContentType(), r.key, time.Since(start), restored, err)
	}()

	data, found, err := r.fetch(ctx, sess)
	if err != nil || !found {
		return err
	}

	// Consumed on every exit path from here on.
	defer func() {
		if derr := sess.Delete(ctx, r.key); derr != nil {
			err = errors.Join(err, newStoreError("delete", r.key, derr))
		}
	}()

	st, err := r.decode(data)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range st.identifiers() {
		ok, rerr := r.restore(ctx, id, st[id], targets)
		if rerr != nil {
			errs = append(errs, rerr)
			continue
		}
		if ok {
			restored++
		}
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

// Pending returns the identifiers currently stored, sorted, without
// consuming them.
func (r *Relay) Pending(ctx context.Context, sess Session) ([]string, error) {
	st, err := r.read(ctx, sess)
	if err != nil {
		return nil, err
	}
	return st.identifiers(), nil
}

// restore rebuilds one record into its target.
// The bool is false when the identifier had no target.
func (r *Relay) restore(ctx context.Context, id string, rec record, targets Targets) (bool, error) {
	target, ok := targets[id]
	if !ok || target == nil {
		emitRecordDiscarded(ctx, id)
		return false, nil
	}

	permitted, err := AssertPermitted(rec.params())
	if err != nil {
		return false, err
	}

	if err := target.restore(permitted.Permit(target.permitted()...), rec.Errors); err != nil {
		return false, err
	}

	emitRecordRestored(ctx, id, target.typeName())
	return true, nil
}

// fetch reads the raw stored state. found is false when nothing is stored.
func (r *Relay) fetch(ctx context.Context, sess Session) ([]byte, bool, error) {
	data, err := sess.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, newStoreError("get", r.key, err)
	}
	return data, true, nil
}

func (r *Relay) decode(data []byte) (state, error) {
	if len(data) == 0 {
		return state{}, nil
	}
	var st state
	if err := r.codec.Unmarshal(data, &st); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}
	if st == nil {
		st = state{}
	}
	st.normalize()
	return st, nil
}

// read returns the stored state, empty when nothing is stored.
func (r *Relay) read(ctx context.Context, sess Session) (state, error) {
	data, found, err := r.fetch(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return state{}, nil
	}
	return r.decode(data)
}

func (r *Relay) write(ctx context.Context, sess Session, st state) error {
	data, err := r.codec.Marshal(st)
	if err != nil {
		return newCodecError(ErrMarshal, err)
	}
	if err := sess.Set(ctx, r.key, data); err != nil {
		return newStoreError("set", r.key, err)
	}
	return nil
}

func isNilModel(obj Model) bool {
	if obj == nil {
		return true
	}
	rv := reflect.ValueOf(obj)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
