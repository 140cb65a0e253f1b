// Package persistence keeps JSON records in named storage slots. A record is
// loaded once, merged over its defaults, and written back in full after
// every change.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"aiteam/internal/metrics"
	"aiteam/internal/state"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrMalformedImport = errors.New("malformed import")
)

// Slots is the durable key/value storage a Record persists into.
type Slots interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Fields is the canonical form of a record: one raw JSON value per top-level
// key. Keys that T does not declare are carried along untouched.
type Fields map[string]json.RawMessage

// Record is a slot-backed JSON object with typed access through T. T must be
// a struct whose fields encode to a JSON object.
type Record[T any] struct {
	slot     string
	slots    Slots
	defaults Fields
	known    map[string]bool
	store    *state.Store[Fields]
	log      zerolog.Logger
	metrics  *metrics.Metrics

	validate  func(key string, raw json.RawMessage) error
	normalize func(T) T

	// mu serializes changes so skipFlush applies to exactly one dispatch.
	mu        sync.Mutex
	skipFlush bool
}

// Option configures a Record.
type Option[T any] func(*Record[T])

// WithValidator adds a domain check run on every known field that is
// loaded, set or imported, after the type check.
func WithValidator[T any](fn func(key string, raw json.RawMessage) error) Option[T] {
	return func(r *Record[T]) { r.validate = fn }
}

// WithNormalizer rewrites the loaded value before it becomes current.
func WithNormalizer[T any](fn func(T) T) Option[T] {
	return func(r *Record[T]) { r.normalize = fn }
}

// New creates a record holding defaults. Call Load to read the slot.
func New[T any](slot string, slots Slots, defaults T, log zerolog.Logger, m *metrics.Metrics, opts ...Option[T]) (*Record[T], error) {
	defFields, err := toFields(defaults)
	if err != nil {
		return nil, fmt.Errorf("encode defaults for %s: %w", slot, err)
	}
	r := &Record[T]{
		slot:     slot,
		slots:    slots,
		defaults: defFields,
		known:    jsonFieldNames(reflect.TypeOf(defaults)),
		store:    state.NewStore(maps.Clone(defFields)),
		log:      log.With().Str("slot", slot).Logger(),
		metrics:  m,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.store.Subscribe(func(_, next Fields) {
		if !r.skipFlush {
			r.flush(next)
		}
	})
	return r, nil
}

// Slot returns the storage key this record persists into.
func (r *Record[T]) Slot() string { return r.slot }

// Load reads the slot and merges it over the defaults. Failures fall back
// to the defaults with a warning; Load never fails.
func (r *Record[T]) Load(ctx context.Context) T {
	merged := maps.Clone(r.defaults)
	raw, ok, err := r.slots.Read(ctx, r.slot)
	switch {
	case err != nil:
		r.log.Warn().Err(err).Msg("failed to read storage slot, using defaults")
	case !ok:
	default:
		stored, perr := parseObject([]byte(raw))
		if perr != nil {
			r.log.Warn().Err(perr).Msg("failed to parse storage slot, using defaults")
			break
		}
		for k, v := range stored {
			if r.known[k] {
				if isNull(v) {
					continue
				}
				if verr := r.checkField(k, v); verr != nil {
					r.log.Warn().Str("field", k).Err(verr).Msg("dropping stored value")
					continue
				}
			}
			merged[k] = v
		}
	}
	r.store.Restore(merged)
	return r.Value()
}

// Value decodes the current fields into T.
func (r *Record[T]) Value() T {
	v, err := r.decode(r.store.Get())
	if err != nil {
		// Every stored field was type-checked on the way in.
		r.log.Error().Err(err).Msg("decode record")
	}
	return v
}

// Fields returns a copy of the current raw fields, unknown keys included.
func (r *Record[T]) Fields() Fields {
	return maps.Clone(r.store.Get())
}

// Subscribe registers fn to run after every change, resets included.
func (r *Record[T]) Subscribe(fn func(T)) func() {
	return r.store.Subscribe(func(_, next Fields) {
		v, err := r.decode(next)
		if err == nil {
			fn(v)
		}
	})
}

// Set replaces one field and writes the full record back.
func (r *Record[T]) Set(ctx context.Context, key string, value any) (T, error) {
	return r.Merge(ctx, map[string]any{key: value})
}

// Merge replaces the given fields as a single change.
func (r *Record[T]) Merge(_ context.Context, patch map[string]any) (T, error) {
	encoded := make(Fields, len(patch))
	for k, v := range patch {
		if !r.known[k] {
			return r.Value(), fmt.Errorf("%w: %q", ErrUnknownField, k)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return r.Value(), fmt.Errorf("%w: %s: %v", ErrInvalidValue, k, err)
		}
		if err := r.checkField(k, raw); err != nil {
			return r.Value(), fmt.Errorf("%w: %s: %w", ErrInvalidValue, k, err)
		}
		encoded[k] = raw
	}
	r.dispatch(withFields(encoded), true)
	return r.Value(), nil
}

// Apply runs a typed reducer over the current value. Fields of the result
// replace the stored ones; unknown keys are kept.
func (r *Record[T]) Apply(_ context.Context, reduce func(T) T) (T, error) {
	next, err := toFields(reduce(r.Value()))
	if err != nil {
		return r.Value(), fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	r.dispatch(withFields(next), true)
	return r.Value(), nil
}

// Reset restores the defaults and removes the slot. Subscribers see the
// change; the slot is not rewritten.
func (r *Record[T]) Reset(ctx context.Context) error {
	defaults := maps.Clone(r.defaults)
	r.dispatch(func(Fields) Fields { return defaults }, false)
	if err := r.slots.Remove(ctx, r.slot); err != nil {
		return fmt.Errorf("remove slot %s: %w", r.slot, err)
	}
	return nil
}

// Export writes the current record as indented JSON.
func (r *Record[T]) Export(w io.Writer) error {
	data, err := json.MarshalIndent(r.store.Get(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.slot, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s export: %w", r.slot, err)
	}
	return nil
}

func (r *Record[T]) ExportFile(path string) error {
	var buf bytes.Buffer
	if err := r.Export(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Import merges a previously exported document over the current record.
// Nothing changes unless the whole document is valid.
func (r *Record[T]) Import(_ context.Context, rd io.Reader) (T, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return r.Value(), fmt.Errorf("read import: %w", err)
	}
	patch, err := parseObject(data)
	if err != nil {
		return r.Value(), fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	for k, v := range patch {
		if !r.known[k] {
			continue
		}
		if err := r.checkField(k, v); err != nil {
			return r.Value(), fmt.Errorf("%w: field %s: %w", ErrMalformedImport, k, err)
		}
	}
	r.dispatch(withFields(patch), true)
	return r.Value(), nil
}

func (r *Record[T]) ImportFile(ctx context.Context, path string) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		return r.Value(), fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return r.Import(ctx, f)
}

func (r *Record[T]) dispatch(reduce func(Fields) Fields, flush bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipFlush = !flush
	r.store.Dispatch(reduce)
	r.skipFlush = false
}

func (r *Record[T]) flush(fields Fields) {
	data, err := json.Marshal(fields)
	if err == nil {
		err = r.slots.Write(context.Background(), r.slot, string(data))
	}
	if err != nil {
		r.metrics.SlotWrite(r.slot, false)
		r.log.Warn().Err(err).Msg("failed to save storage slot")
		return
	}
	r.metrics.SlotWrite(r.slot, true)
}

// decode builds T from the declared keys only.
func (r *Record[T]) decode(f Fields) (T, error) {
	declared := make(Fields, len(r.known))
	for k, v := range f {
		if r.known[k] {
			declared[k] = v
		}
	}
	return fromFields[T](declared)
}

// checkField reports whether raw decodes into T's field for key and passes
// the validator.
func (r *Record[T]) checkField(key string, raw json.RawMessage) error {
	if isNull(raw) {
		return errors.New("null value")
	}
	single, err := json.Marshal(map[string]json.RawMessage{key: raw})
	if err != nil {
		return err
	}
	var v T
	if err := json.Unmarshal(single, &v); err != nil {
		return err
	}
	if r.validate != nil {
		return r.validate(key, raw)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func withFields(patch Fields) func(Fields) Fields {
	return func(cur Fields) Fields {
		next := maps.Clone(cur)
		if next == nil {
			next = Fields{}
		}
		maps.Copy(next, patch)
		return next
	}
}

func parseObject(data []byte) (Fields, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("expected a JSON object")
	}
	var f Fields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func toFields(v any) (Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return parseObject(data)
}

func fromFields[T any](f Fields) (T, error) {
	var v T
	data, err := json.Marshal(f)
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(data, &v)
	return v, err
}

// jsonFieldNames lists the top-level JSON keys of a struct type.
func jsonFieldNames(t reflect.Type) map[string]bool {
	names := make(map[string]bool)
	if t == nil {
		return names
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		names[name] = true
	}
	return names
}
