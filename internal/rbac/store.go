package rbac

import (
	"context"
	"fmt"
)

const (
	errSeedStoreFmt = "seed role store: %w"
	errLoadStoreFmt = "load role store: %w"
)

// Store persists the role-permission model.
type Store interface {
	// Seed upserts roles, permissions and grants. Existing rows are kept.
	Seed(ctx context.Context, cfg Config) error
	// Load rebuilds the model from storage.
	Load(ctx context.Context) (Config, error)
}

// LoadChecker seeds store with preset, reloads the stored model and builds a
// Checker from it, so the in-memory model matches what accounts reference.
// The preset's protected roles apply to the loaded model.
func LoadChecker(ctx context.Context, store Store, preset Config) (*Checker, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}

	if err := store.Seed(ctx, preset); err != nil {
		return nil, fmt.Errorf(errSeedStoreFmt, err)
	}

	cfg, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf(errLoadStoreFmt, err)
	}
	// Storage holds roles and grants only; protection always comes from code.
	cfg.Protected = append([]Role(nil), preset.Protected...)

	return New(cfg)
}
