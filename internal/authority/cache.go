package authority

import (
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/polkit-go/localauthority/internal/rule"
)

// lruEntry is a doubly-linked list node, mirroring the teacher's
// internal/service.ResultCache shape.
type lruEntry struct {
	key      uint64
	decision rule.ImplicitAuthorization
	prev     *lruEntry
	next     *lruEntry
}

// resultCache is a bounded LRU cache of decision outcomes keyed by the
// full query tuple, mirroring the teacher's ResultCache for its CEL
// evaluation results. Unlike the teacher's use of this pattern for a
// potentially-expensive CEL evaluation, this cache is a pure performance
// addition over an otherwise cheap in-memory scan — see
// authority.rebuild, which clears it synchronously on every StoreSet
// rebuild so it never outlives the data it was computed from.
type resultCache struct {
	mu      sync.Mutex
	entries map[uint64]*lruEntry
	head    *lruEntry
	tail    *lruEntry
	maxSize int
}

func newResultCache(maxSize int) *resultCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &resultCache{
		entries: make(map[uint64]*lruEntry, maxSize),
		maxSize: maxSize,
	}
}

func (c *resultCache) Get(key uint64) (rule.ImplicitAuthorization, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.moveToHeadLocked(e)
		return e.decision, true
	}
	return rule.Unknown, false
}

func (c *resultCache) Put(key uint64, decision rule.ImplicitAuthorization) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.decision = decision
		c.moveToHeadLocked(e)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictTailLocked()
	}

	e := &lruEntry{key: key, decision: decision}
	c.entries[key] = e
	c.pushHeadLocked(e)
}

func (c *resultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*lruEntry, c.maxSize)
	c.head = nil
	c.tail = nil
}

func (c *resultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *resultCache) moveToHeadLocked(e *lruEntry) {
	if c.head == e {
		return
	}
	c.unlinkLocked(e)
	c.pushHeadLocked(e)
}

func (c *resultCache) pushHeadLocked(e *lruEntry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *resultCache) unlinkLocked(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (c *resultCache) evictTailLocked() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlinkLocked(c.tail)
}

// cacheKey hashes the full query tuple — subject identity, action id,
// locality/activity flags, the host-supplied implicit default, and sorted
// detail constraints — following the teacher's computeCacheKey approach of
// writing every discriminating field into an xxhash digest in a fixed
// order with separators.
func cacheKey(subject, actionID string, isLocal, isActive bool, implicit rule.ImplicitAuthorization, details map[string]string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(subject)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(actionID)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.FormatBool(isLocal))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.FormatBool(isActive))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.Itoa(int(implicit)))
	_, _ = h.Write([]byte{0})

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = h.WriteString(k)
			_, _ = h.Write([]byte{'='})
			_, _ = h.WriteString(details[k])
			_, _ = h.Write([]byte{';'})
		}
	}

	return h.Sum64()
}
