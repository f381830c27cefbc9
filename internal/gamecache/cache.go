package gamecache

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Policy decides whether a cached entry fetched at fetchedAt is still
// servable at now.
type Policy interface {
	Valid(fetchedAt, now time.Time) bool
}

type PolicyFunc func(fetchedAt, now time.Time) bool

func (f PolicyFunc) Valid(fetchedAt, now time.Time) bool {
	return f(fetchedAt, now)
}

// SameClockHour treats each wall-clock hour of each calendar day as its own
// cache epoch: an entry fetched at 09:59 is stale at 10:01 even though only
// two minutes elapsed.
func SameClockHour() Policy {
	return PolicyFunc(func(fetchedAt, now time.Time) bool {
		fy, fm, fd := fetchedAt.Date()
		ny, nm, nd := now.Date()
		return fy == ny && fm == nm && fd == nd && fetchedAt.Hour() == now.Hour()
	})
}

// Window keeps entries for a rolling duration from their fetch time.
func Window(d time.Duration) Policy {
	return PolicyFunc(func(fetchedAt, now time.Time) bool {
		return now.Sub(fetchedAt) < d
	})
}

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Cache is a small keyed cache whose staleness rule is injected. Entries are
// only written on successful fetches; stale entries stay in place until a
// fresh value overwrites them, so a failed refetch never evicts prior data.
type Cache[T any] struct {
	entries *lru.Cache
	policy  Policy
}

func New[T any](size int, policy Policy) *Cache[T] {
	entries, _ := lru.New(size)
	return &Cache[T]{entries: entries, policy: policy}
}

func (c *Cache[T]) Get(id string, now time.Time) (T, bool) {
	var zero T
	raw, ok := c.entries.Get(id)
	if !ok {
		return zero, false
	}
	e := raw.(entry[T])
	if !c.policy.Valid(e.fetchedAt, now) {
		return zero, false
	}
	return e.value, true
}

func (c *Cache[T]) Put(id string, value T, now time.Time) {
	c.entries.Add(id, entry[T]{value: value, fetchedAt: now})
}

func (c *Cache[T]) Remove(id string) {
	c.entries.Remove(id)
}

func (c *Cache[T]) Purge() {
	c.entries.Purge()
}

func (c *Cache[T]) Len() int {
	return c.entries.Len()
}
