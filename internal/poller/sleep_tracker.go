package poller

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lordthorzonus/oura-api-exporter/internal/oura"
)

const sleepTrackerSize = 1024

// sleepTracker remembers the content digest of every sleep document already
// turned into records. Sleep documents are fetched by date, so each cycle of
// a day returns the same documents again.
type sleepTracker struct {
	seen *lru.Cache[string, uint64]
}

func newSleepTracker(size int) *sleepTracker {
	if size <= 0 {
		size = sleepTrackerSize
	}
	// lru.New only fails on a non-positive size.
	cache, _ := lru.New[string, uint64](size)
	return &sleepTracker{seen: cache}
}

// unseen returns the documents that are new or changed since the previous
// call and remembers them.
func (t *sleepTracker) unseen(person string, docs []oura.SleepDocument) []oura.SleepDocument {
	fresh := make([]oura.SleepDocument, 0, len(docs))
	for _, doc := range docs {
		b, err := json.Marshal(doc)
		if err != nil {
			fresh = append(fresh, doc)
			continue
		}
		key := person + "/" + doc.ID
		digest := xxhash.Sum64(b)
		if prev, ok := t.seen.Get(key); ok && prev == digest {
			continue
		}
		t.seen.Add(key, digest)
		fresh = append(fresh, doc)
	}
	return fresh
}
