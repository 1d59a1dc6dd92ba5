package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/pkg/chainledger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/metrics"
)

// OperationStore is the slice of the operations repository the worker needs.
type OperationStore interface {
	SetReconciliation(ctx context.Context, id uuid.UUID, txHash *string, status enums.BlockchainStatus) (bool, error)
}

// Worker submits committed operations to the external ledger and records the
// outcome. The local commit is authoritative: no failure here may surface to
// the request that produced the operation.
type Worker struct {
	recorder chainledger.Recorder
	store    OperationStore
	metrics  *metrics.OperationMetrics
	logg     *logger.Logger
	timeout  time.Duration
}

// NewWorker wires a reconciliation worker. timeout bounds each external call;
// zero falls back to 30 seconds.
func NewWorker(recorder chainledger.Recorder, store OperationStore, m *metrics.OperationMetrics, logg *logger.Logger, timeout time.Duration) *Worker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Worker{
		recorder: recorder,
		store:    store,
		metrics:  m,
		logg:     logg,
		timeout:  timeout,
	}
}

// Record submits one committed operation to the external ledger, then writes
// txHash and blockchainStatus exactly once. Any failure, including a timed
// out or never-initialized ledger client, marks the operation FAILED with no
// txHash. An operation already in a terminal blockchain status is left alone.
func (w *Worker) Record(ctx context.Context, op *models.Operation) {
	if op == nil {
		return
	}
	ctx = w.logg.WithOperationID(ctx, op.ID.String())

	callCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	started := time.Now()
	txHash, err := w.recorder.RecordOperation(callCtx, op.ID.String(), string(op.Type), uint64(op.CreatedAt.Unix()))
	w.metrics.ObserveChainCall("recordOperation", time.Since(started))

	status := enums.BlockchainStatusConfirmed
	var hashPtr *string
	if err != nil || txHash == "" {
		status = enums.BlockchainStatusFailed
		if err != nil {
			w.logg.Error(ctx, "external ledger submission failed", err)
		}
	} else {
		hashPtr = &txHash
	}

	updated, storeErr := w.store.SetReconciliation(ctx, op.ID, hashPtr, status)
	if storeErr != nil {
		w.logg.Error(ctx, "failed to persist reconciliation outcome", storeErr)
		return
	}
	if !updated {
		// Already terminal; nothing to do.
		return
	}

	op.TxHash = hashPtr
	op.BlockchainStatus = status
	w.metrics.IncReconciled(string(status))
	if status == enums.BlockchainStatusConfirmed {
		w.logg.Info(ctx, "operation reconciled")
	}
}
