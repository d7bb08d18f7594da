package jobs

import (
	"context"
	"log/slog"

	"returns/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RefundReconciliationJob periodically sweeps pending refunds. It resubmits
// refunds whose original submission timed out and polls the processor for
// refunds stuck in processing, applying terminal outcomes to the ledger.
type RefundReconciliationJob struct {
	handler  commands.ReconcileRefundsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRefundReconciliationJob creates a reconciliation job running on the
// given cron schedule, for example "@every 1m".
func NewRefundReconciliationJob(
	handler commands.ReconcileRefundsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *RefundReconciliationJob {
	return &RefundReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "refund_reconciliation_job"),
	}
}

// Start schedules the reconciliation sweep.
func (j *RefundReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewReconcileRefundsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Refund reconciliation sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Refund reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the reconciliation job.
func (j *RefundReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Refund reconciliation job stopped")
}
