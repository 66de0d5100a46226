// Package bloom deduplicates discovered URLs.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate sizes the filter used by NewURLSet.
const DefaultFalsePositiveRate = 0.01

// URLSet records URLs seen during a crawl. A Bloom filter answers the
// common "never seen" case; filter hits are confirmed against an exact
// set, so a false positive never drops a page.
//
// URLSet is safe for concurrent use.
type URLSet struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// NewURLSet creates a set sized for n expected URLs.
func NewURLSet(n uint) *URLSet {
	if n == 0 {
		n = 1
	}
	return &URLSet{
		filter: bloom.NewWithEstimates(n, DefaultFalsePositiveRate),
		exact:  make(map[string]struct{}, n),
	}
}

// Add records url and reports whether it was not already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter.TestString(url) {
		if _, ok := s.exact[url]; ok {
			return false
		}
	}
	s.filter.AddString(url)
	s.exact[url] = struct{}{}
	return true
}

// Contains reports whether url has been added.
func (s *URLSet) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filter.TestString(url) {
		return false
	}
	_, ok := s.exact[url]
	return ok
}

// Len returns the number of distinct URLs added.
func (s *URLSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.exact)
}

// EstimatedCount returns the filter's approximation of Len.
func (s *URLSet) EstimatedCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.filter.ApproximatedSize())
}

// Dedup returns urls with repeats removed, keeping first occurrences.
func Dedup(urls []string) []string {
	set := NewURLSet(uint(len(urls)))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if set.Add(u) {
			out = append(out, u)
		}
	}
	return out
}
