package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/schemas"
	"github.com/jonathan/form-autofill/internal/types"
	"go.uber.org/zap"
)

// LoadSnapshot reads the profile and résumé records. A missing profile yields
// a snapshot with a nil Profile, which fill passes report as no data.
func LoadSnapshot(ctx context.Context, store Store) (autofill.Snapshot, error) {
	var snap autofill.Snapshot

	raw, err := get(ctx, store, KeyUserData)
	if err != nil {
		return snap, err
	}
	if raw != nil {
		var profile types.UserProfile
		if err := decode(KeyUserData, schemas.UserData, raw, &profile); err != nil {
			return snap, err
		}
		if err := profile.Validate(); err != nil {
			return snap, &LoadError{Key: KeyUserData, Message: "invalid profile", Cause: err}
		}
		snap.Profile = &profile
	}

	raw, err = get(ctx, store, KeyResumeData)
	if err != nil {
		return snap, err
	}
	if raw != nil {
		var resume types.ResumeRecord
		if err := decode(KeyResumeData, schemas.ResumeData, raw, &resume); err != nil {
			return snap, err
		}
		snap.Resume = &resume
	}

	return snap, nil
}

// SaveRecord validates value for key and stores it.
func SaveRecord(ctx context.Context, store Store, key string, value []byte) error {
	switch key {
	case KeyUserData:
		var profile types.UserProfile
		if err := decode(key, schemas.UserData, value, &profile); err != nil {
			return err
		}
		if err := profile.Validate(); err != nil {
			return &LoadError{Key: key, Message: "invalid profile", Cause: err}
		}
	case KeyResumeData:
		var resume types.ResumeRecord
		if err := decode(key, schemas.ResumeData, value, &resume); err != nil {
			return err
		}
	case KeyUser:
		if !json.Valid(value) {
			return &LoadError{Key: key, Message: "not valid JSON"}
		}
	default:
		return fmt.Errorf("unknown storage key %q", key)
	}
	return store.Set(ctx, key, value)
}

// Sync loads the snapshot into target, then refreshes it whenever the profile
// or résumé changes. It returns when ctx is done. A change that fails to load
// is logged and the previous snapshot stays in place.
func Sync(ctx context.Context, store Store, target *autofill.Context, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	changes, err := store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch storage: %w", err)
	}

	snap, err := LoadSnapshot(ctx, store)
	if err != nil {
		return err
	}
	target.Refresh(snap)
	logger.Info("storage snapshot loaded", zap.Bool("profile", snap.Profile != nil), zap.Bool("resume", snap.Resume != nil))

	for change := range changes {
		if change.Key != KeyUserData && change.Key != KeyResumeData {
			continue
		}
		snap, err := LoadSnapshot(ctx, store)
		if err != nil {
			logger.Warn("storage refresh failed", zap.String("key", change.Key), zap.Error(err))
			continue
		}
		target.Refresh(snap)
		logger.Info("storage snapshot refreshed", zap.String("key", change.Key))
	}

	if ctx.Err() != nil {
		return nil
	}
	return errors.New("storage watch ended unexpectedly")
}

// get returns nil for missing or null records.
func get(ctx context.Context, store Store, key string) ([]byte, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &LoadError{Key: key, Message: "storage read failed", Cause: err}
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	return raw, nil
}

func decode(key, schema string, raw []byte, v any) error {
	if err := schemas.ValidateRecord(schema, raw); err != nil {
		return &LoadError{Key: key, Message: "schema check failed", Cause: err}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &LoadError{Key: key, Message: "decode failed", Cause: err}
	}
	return nil
}
