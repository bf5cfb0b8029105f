package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/tweakctl/internal/core/kv"
)

const probeKey = "tweakctl-doctor-probe"

// StorageCheck verifies the state backend can be written and read.
type StorageCheck struct {
	backend string
	store   kv.KV
}

// NewStorageCheck creates a storage check.
func NewStorageCheck(backend string, store kv.KV) *StorageCheck {
	return &StorageCheck{backend: backend, store: store}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	fail := func(err error) Result {
		result.Items = append(result.Items, CheckItem{
			Label:  c.backend,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	if err := c.store.Set(ctx, probeKey, true); err != nil {
		return fail(fmt.Errorf("write: %w", err))
	}
	var got bool
	if err := c.store.Get(ctx, probeKey, &got); err != nil {
		return fail(fmt.Errorf("read: %w", err))
	}
	if err := c.store.Delete(ctx, probeKey); err != nil {
		return fail(fmt.Errorf("delete: %w", err))
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.backend,
		Status: StatusPass,
		Detail: "read/write ok",
	})
	return result
}
