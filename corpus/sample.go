// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package corpus

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// ErrInsufficientCorpus signals that more distinct hostnames were requested
// than a corpus contains.
var ErrInsufficientCorpus = errors.New("slice size exceeds total hostnames in corpus")

// Sampler draws random subsets of hostnames from a [Corpus]. A Sampler is safe
// for concurrent use; its random source doesn't need to be (and isn't)
// cryptographically secure.
type Sampler struct {
	corpus Corpus
	mu     sync.Mutex // protects rnd
	rnd    *rand.Rand
}

// NewSampler returns a Sampler drawing from the specified corpus, using the
// specified random source. If src is nil, a time-seeded source is used.
func NewSampler(c Corpus, src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{
		corpus: c,
		rnd:    rand.New(src), // #nosec G404 -- load generation, not security
	}
}

// Len returns the size of the underlying corpus.
func (s *Sampler) Len() int {
	return len(s.corpus)
}

// Sample returns k distinct hostnames drawn uniformly at random without
// replacement. Requesting more hostnames than the corpus contains fails with
// [ErrInsufficientCorpus] instead of silently returning fewer hostnames.
func (s *Sampler) Sample(k int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Sample(s.corpus, k, s.rnd)
}

// Sample returns k distinct hostnames from c, drawn uniformly at random
// without replacement using rnd. The returned slice is in random order and
// freshly allocated on each call, so callers own it.
//
// Sample uses Robert Floyd's algorithm, so it needs only O(k) steps and
// doesn't touch the corpus apart from k index lookups.
func Sample(c Corpus, k int, rnd *rand.Rand) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("invalid sample size %d", k)
	}
	n := len(c)
	if k > n {
		return nil, fmt.Errorf("%w: requested %d, corpus has %d",
			ErrInsufficientCorpus, k, n)
	}
	picked := make(map[int]struct{}, k)
	sample := make([]string, 0, k)
	for j := n - k; j < n; j++ {
		idx := rnd.Intn(j + 1)
		if _, ok := picked[idx]; ok {
			idx = j
		}
		picked[idx] = struct{}{}
		sample = append(sample, c[idx])
	}
	// Floyd's algorithm picks a uniform subset, but not a uniform order.
	rnd.Shuffle(len(sample), func(a, b int) {
		sample[a], sample[b] = sample[b], sample[a]
	})
	return sample, nil
}
