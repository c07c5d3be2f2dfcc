// Package task contains the background execution layer: the executor
// implementations for each task type, the worker-pool runner that
// drives them, and the dispatcher that turns task request events into
// queued executors.
package task
