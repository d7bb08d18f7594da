// Package jobs provides scheduled background tasks for the returns engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the settlement pipeline.
//
// # Available Jobs
//
// 1. RefundReconciliationJob - Sweeps pending refunds: resubmits timed-out
// submissions under their original idempotency key and polls the processor
// for refunds stuck in processing.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(reconcileRefundsHandler, "@every 1m", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed sweep is logged and retried on the next tick. Per-refund failures
// never abort a sweep; the command handler isolates each entry in its own
// unit of work.
package jobs
