// Package store defines the persistence interfaces for tasks, trends
// and content records. The interfaces keep the orchestration and
// service layers independent of the storage backend; postgres and
// in-memory implementations live under internal/platform.
package store
