package guidechat

import (
	"context"

	"github.com/virtualgoa/guidechat/internal/shardqueue"
)

// executor abstracts the internal async job runner that serializes sends
// per conversation key.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Stop()
}
