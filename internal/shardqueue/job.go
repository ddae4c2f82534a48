package shardqueue

import "context"

// Job is one unit of work run on a shard worker: a send round trip, or a
// barrier no-op. Run must be safe for concurrent invocations when the same
// Job instance is reused across keys.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a closure to a Job.
type JobFunc func(ctx context.Context) error

// Run implements Job.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }
