package reconcile

import (
	"fmt"
	"strings"

	"asset-sync/core/models"
)

// Outcome is the result of reconciling one item.
type Outcome string

const (
	Created Outcome = "created"
	Updated Outcome = "updated"
	Skipped Outcome = "skipped"
	Failed  Outcome = "failed"
)

// maxErrors bounds the error messages kept for a run summary.
const maxErrors = 5

// Tally accumulates outcomes over one run.
// Processed always equals Created + Updated + Failed; skipped items are not processed.
type Tally struct {
	Processed int
	Created   int
	Updated   int
	Failed    int
	Skipped   int
	Errors    []string
}

// Record adds one outcome. A non-nil err counts as a failure whatever the outcome.
func (t *Tally) Record(o Outcome, err error) {
	if err != nil {
		o = Failed
		if len(t.Errors) < maxErrors {
			t.Errors = append(t.Errors, err.Error())
		}
	}

	switch o {
	case Created:
		t.Created++
	case Updated:
		t.Updated++
	case Failed:
		t.Failed++
	case Skipped:
		t.Skipped++
		return
	}
	t.Processed++
}

// Succeeded is the number of items written.
func (t *Tally) Succeeded() int {
	return t.Created + t.Updated
}

// Apply copies the counters onto a run.
func (t *Tally) Apply(run *models.SyncRun) {
	run.ItemsProcessed = t.Processed
	run.ItemsCreated = t.Created
	run.ItemsUpdated = t.Updated
	run.ItemsFailed = t.Failed
}

// Summary renders a one-line description for the run record.
func (t *Tally) Summary() string {
	s := fmt.Sprintf("processed=%d created=%d updated=%d failed=%d skipped=%d",
		t.Processed, t.Created, t.Updated, t.Failed, t.Skipped)
	if len(t.Errors) > 0 {
		s += "; errors: " + strings.Join(t.Errors, " | ")
	}
	return s
}
