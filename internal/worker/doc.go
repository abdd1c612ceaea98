// Package worker implements the pipeline state machine as two queue
// consumers. The Processor runs content analysis and forwards results to
// evaluation, requeueing failures at decayed priority under a retry
// ceiling. The Evaluator scores results, caching and completing those that
// clear the threshold and sending the rest back through processing. Every
// transition emits a status event; every retry is an explicit republish,
// never a transport redelivery.
package worker
