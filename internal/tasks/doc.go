// Package tasks runs the long-lived FitHub operations that call the generative API.
//
// # Advice
//
// [Advisor] wraps a [services.Coach] with a pending flag. A second request while one is
// outstanding returns [ErrRequestInFlight] without reaching the provider.
//
// # Video Generation
//
// [VideoWorkflow] drives one motivational video through a fixed state machine,
// Idle -> Submitting -> Polling -> Fetching -> Ready, with Failed reachable from every working state.
//
//  1. Submitting : validates the request, makes sure a credential is available (prompting once
//     if not), and creates the job.
//  2. Polling : re-fetches the job every poll interval until it reports done. Polling is bounded
//     by a maximum attempt count and fails with [ErrPollTimeout] past it.
//  3. Fetching : downloads the first generated asset to the output directory. A finished job
//     without an asset fails with [ErrNoAsset]; a job carrying an error fails with [ErrJobFailed].
//
// While the workflow is busy a second ticker rotates through [LoadingMessages]. Both tickers are
// stopped on every exit path and the rotation goroutine has exited before Run returns.
// Only one Run may be active per workflow.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select with default, so
// a slow or absent reader never blocks the workflow.
package tasks
