package guidechat

import (
	"hash/fnv"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sendsEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "guidechat",
		Name:      "sends_enqueued_total",
		Help:      "Send round trips accepted into the shard executor.",
	},
	[]string{"shard"},
)

// shardLabel hashes a conversation ID to a stable label in [0,31] so the
// counter's cardinality stays bounded no matter how many conversations are
// opened.
func shardLabel(convID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(convID))
	return strconv.Itoa(int(h.Sum32() % 32))
}
