// lifecycle/bulk.go
package lifecycle

import (
	"context"
	"errors"

	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/store"
)

// BulkResult summarizes a best-effort bulk operation. Items are attempted
// independently; one failure never aborts the batch.
type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Skipped   []string      `json:"skipped"`
	Failed    []BulkFailure `json:"failed"`
}

type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func newBulkResult() *BulkResult {
	return &BulkResult{Succeeded: []string{}, Skipped: []string{}, Failed: []BulkFailure{}}
}

func (r *BulkResult) fail(id string, err error) {
	r.Failed = append(r.Failed, BulkFailure{ID: id, Reason: err.Error()})
}

// BulkUnassign returns every targeted asset to stock. Unassigning in bulk
// can strip assets out of employees' hands, so it is capability gated.
func (s *Service) BulkUnassign(ctx context.Context, ids []string, actor models.Actor) (*BulkResult, error) {
	if !actor.HasCapability(models.CapBulkUnassign) {
		return nil, &AuthorizationError{Msg: "not allowed to bulk-unassign assets"}
	}

	result := newBulkResult()
	for _, id := range ids {
		if err := s.UnassignAsset(ctx, id, actor); err != nil {
			result.fail(id, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

// BulkSoftDelete moves the eligible subset of ids to the recycle bin. Only
// Active assets are deleted; Assigned assets are skipped unless the actor
// may bulk-unassign, in which case they are unassigned first. Everything
// else (In Repair, Scrapped, Inactive) is skipped.
func (s *Service) BulkSoftDelete(ctx context.Context, ids []string, actor models.Actor) (*BulkResult, error) {
	result := newBulkResult()
	for _, id := range ids {
		asset, err := s.getAsset(ctx, id)
		if err != nil {
			result.fail(id, err)
			continue
		}

		switch asset.Status {
		case models.StatusActive:
		case models.StatusAssigned:
			if !actor.HasCapability(models.CapBulkUnassign) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			if err := s.UnassignAsset(ctx, id, actor); err != nil {
				result.fail(id, err)
				continue
			}
		default:
			result.Skipped = append(result.Skipped, id)
			continue
		}

		if err := s.SoftDelete(ctx, id); err != nil {
			result.fail(id, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

// BulkRestore brings a set of bin entries back in one atomic batch. There is
// no per-item eligibility here, so a grouped commit is equivalent to
// per-item success.
func (s *Service) BulkRestore(ctx context.Context, ids []string) (*BulkResult, error) {
	result := newBulkResult()
	if len(ids) == 0 {
		return result, nil
	}

	now := s.now()
	batch := s.store.Batch()
	for _, id := range ids {
		batch.Update(CollectionAssets, id, map[string]interface{}{
			"isDeleted": false,
			"deletedAt": nil,
			"updatedAt": now,
		})
	}
	if err := batch.Commit(ctx); err != nil {
		werr := error(&StorageError{Op: "restore batch", Err: err})
		if errors.Is(err, store.ErrNotFound) {
			werr = &NotFoundError{Kind: "asset", ID: "in batch"}
		}
		for _, id := range ids {
			result.fail(id, werr)
		}
		return result, nil
	}
	result.Succeeded = append(result.Succeeded, ids...)
	return result, nil
}

// BulkPermanentlyDelete irreversibly removes asset records. Ledger events
// are kept on purpose.
func (s *Service) BulkPermanentlyDelete(ctx context.Context, ids []string) (*BulkResult, error) {
	result := newBulkResult()
	for _, id := range ids {
		if err := s.PermanentlyDelete(ctx, id); err != nil {
			result.fail(id, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}
