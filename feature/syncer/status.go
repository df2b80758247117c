package syncer

import (
	"asset-sync/core/models"
	"asset-sync/core/reconcile"
)

// RunStatus derives the terminal status of a run from its tally and the fetch error.
//
//   - failed: nothing was written and something went wrong
//   - partial: some items were written and something went wrong
//   - success: otherwise, including an empty feed
func RunStatus(t *reconcile.Tally, fetchErr error) string {
	troubled := fetchErr != nil || t.Failed > 0
	switch {
	case !troubled:
		return models.RunSuccess
	case t.Succeeded() == 0:
		return models.RunFailed
	default:
		return models.RunPartial
	}
}
