package storage

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/huyle/flashdeck/internal/logger"
)

// probeKey is written and deleted to check that the store accepts writes.
const probeKey = "__flashdeck_probe__"

// ExportPayload is the single-document backup shape: a version stamp, an
// export timestamp, and a map of logical key to raw JSON value.
type ExportPayload struct {
	Version    string                     `json:"version"`
	ExportDate string                     `json:"export_date"`
	Data       map[string]json.RawMessage `json:"data"`
}

// WatchFunc receives the new raw JSON value after a successful write, or nil
// after a removal. Notifications are in-process and best-effort; they are a
// refresh hint, not a consistency guarantee.
type WatchFunc func(value []byte)

// Adapter wraps a Store with JSON serialization and converts every failure
// into a boolean result or a default value. Nothing below it escapes as a
// panic or a returned error.
type Adapter struct {
	store   Store
	log     *logger.Logger
	version string

	mu       sync.Mutex
	watchers map[string]map[int64]WatchFunc
	nextID   int64
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithVersion sets the version stamped into export payloads and compared on
// import. Defaults to "1.0.0".
func WithVersion(v string) AdapterOption {
	return func(a *Adapter) { a.version = v }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *logger.Logger) AdapterOption {
	return func(a *Adapter) { a.log = l }
}

// NewAdapter creates an Adapter over the given store.
func NewAdapter(store Store, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		store:    store,
		log:      logger.Default().WithPrefix("storage"),
		version:  "1.0.0",
		watchers: make(map[string]map[int64]WatchFunc),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsAvailable probes the store with a throwaway write and delete. Callers can
// use it to fall back to an in-memory store when persistence is disallowed.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	if err := a.store.Set(ctx, probeKey, "ok"); err != nil {
		a.log.Warn("store is not available: %v", err)
		return false
	}
	if err := a.store.Delete(ctx, probeKey); err != nil {
		a.log.Warn("store probe cleanup failed: %v", err)
		return false
	}
	return true
}

// SetItem JSON-encodes value and writes it under key. Returns false on any
// serialization or store failure.
func (a *Adapter) SetItem(ctx context.Context, key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		a.log.Error("failed to serialize value for %s: %v", key, err)
		return false
	}
	if err := a.store.Set(ctx, key, string(raw)); err != nil {
		a.log.Error("failed to write %s: %v", key, err)
		return false
	}
	a.notify(key, raw)
	return true
}

// GetItem reads key and decodes it into out. On a missing key, a corrupt
// value or a store failure it returns false and leaves out untouched, so the
// caller's preloaded default survives.
func (a *Adapter) GetItem(ctx context.Context, key string, out any) bool {
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.log.Error("failed to read %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		a.log.Error("failed to decode %s: %v", key, err)
		return false
	}
	return true
}

// RemoveItem deletes key. Returns false on store failure.
func (a *Adapter) RemoveItem(ctx context.Context, key string) bool {
	if err := a.store.Delete(ctx, key); err != nil {
		a.log.Error("failed to remove %s: %v", key, err)
		return false
	}
	a.notify(key, nil)
	return true
}

// Size returns the space used by the app's known keys in kilobytes, rounded
// to two decimal places. 0 on failure.
func (a *Adapter) Size(ctx context.Context) float64 {
	values, err := a.store.GetMany(ctx, KnownKeys())
	if err != nil {
		a.log.Error("failed to measure storage size: %v", err)
		return 0
	}
	total := 0
	for _, v := range values {
		total += len(v)
	}
	return math.Round(float64(total)/1024*100) / 100
}

// ExportAll snapshots every known key into a single backup payload.
// Returns nil when the store cannot be read.
func (a *Adapter) ExportAll(ctx context.Context) *ExportPayload {
	values, err := a.store.GetMany(ctx, KnownKeys())
	if err != nil {
		a.log.Error("failed to export app data: %v", err)
		return nil
	}
	payload := &ExportPayload{
		Version:    a.version,
		ExportDate: time.Now().Format(time.RFC3339),
		Data:       make(map[string]json.RawMessage, len(values)),
	}
	for key, raw := range values {
		payload.Data[key] = json.RawMessage(raw)
	}
	a.log.Debug("exported %d keys", len(payload.Data))
	return payload
}

// ImportAll writes each recognized key from the payload. Unrecognized keys
// are skipped, a version mismatch is logged but not rejected, and a payload
// without data is refused. Returns false on the first write failure.
func (a *Adapter) ImportAll(ctx context.Context, payload *ExportPayload) bool {
	if payload == nil || payload.Data == nil {
		a.log.Error("invalid import payload: missing data")
		return false
	}
	if payload.Version != "" && payload.Version != a.version {
		a.log.Warn("import version mismatch: payload=%s, app=%s, proceeding anyway", payload.Version, a.version)
	}

	known := make(map[string]bool, len(KnownKeys()))
	for _, k := range KnownKeys() {
		known[k] = true
	}

	for _, key := range KnownKeys() {
		raw, ok := payload.Data[key]
		if !ok {
			continue
		}
		if err := a.store.Set(ctx, key, string(raw)); err != nil {
			a.log.Error("failed to import %s: %v", key, err)
			return false
		}
		a.notify(key, raw)
	}
	for key := range payload.Data {
		if !known[key] {
			a.log.Warn("skipping unrecognized import key: %s", key)
		}
	}
	return true
}

// ClearAll removes every known key. Returns false if any removal fails.
func (a *Adapter) ClearAll(ctx context.Context) bool {
	ok := true
	for _, key := range KnownKeys() {
		if !a.RemoveItem(ctx, key) {
			ok = false
		}
	}
	return ok
}

// Migrate stamps the stored app version when it differs from current.
// A placeholder for future per-version data migrations.
func (a *Adapter) Migrate(ctx context.Context, current string) {
	stored := "0.0.0"
	a.GetItem(ctx, KeyAppVersion, &stored)
	if stored == current {
		return
	}
	if a.SetItem(ctx, KeyAppVersion, current) {
		a.log.Info("data migrated from %s to %s", stored, current)
	}
}

// Watch registers fn to run after every successful write or removal of key.
// The returned function cancels the registration.
func (a *Adapter) Watch(key string, fn WatchFunc) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watchers[key] == nil {
		a.watchers[key] = make(map[int64]WatchFunc)
	}
	a.nextID++
	id := a.nextID
	a.watchers[key][id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.watchers[key], id)
	}
}

func (a *Adapter) notify(key string, value []byte) {
	a.mu.Lock()
	fns := make([]WatchFunc, 0, len(a.watchers[key]))
	for _, fn := range a.watchers[key] {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn(value)
	}
}
