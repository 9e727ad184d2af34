package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"freela/internal/core"
	"freela/internal/log"
)

// Collection keys.
const (
	KeyEvents       = "freela:events"
	KeyTransactions = "freela:transactions"
	KeySettings     = "freela:settings"
)

const corruptedInfix = ":corrupted:"

// QuarantineKey is where a blob that failed to parse is moved.
func QuarantineKey(key string, at time.Time) string {
	return key + corruptedInfix + at.UTC().Format("20060102T150405.000000000Z")
}

// document reads and writes one JSON value under a key. A value that fails to
// decode is moved aside and reported as absent.
type document[T any] struct {
	store Store
	key   string
	now   func() time.Time
}

func (d document[T]) load(ctx context.Context) (T, bool, error) {
	var v T
	raw, ok, err := d.store.Get(ctx, d.key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		if qerr := d.quarantine(ctx, raw, err); qerr != nil {
			return v, false, qerr
		}
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}

func (d document[T]) save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return core.Storage(fmt.Sprintf("encode %s", d.key), err)
	}
	return d.store.Put(ctx, d.key, raw)
}

func (d document[T]) quarantine(ctx context.Context, raw []byte, cause error) error {
	backup := QuarantineKey(d.key, d.now())
	if err := d.store.Put(ctx, backup, raw); err != nil {
		return core.Storage("quarantine corrupted data", err)
	}
	if err := d.store.Delete(ctx, d.key); err != nil {
		return core.Storage("remove corrupted data", err)
	}
	slog.WarnContext(ctx, "Corrupted collection moved aside",
		log.FieldComponent, log.ComponentStorage,
		"key", d.key,
		"backup_key", backup,
		"bytes", len(raw),
		"error", cause)
	return nil
}
