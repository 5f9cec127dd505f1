package leagues

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	maxCandidates  = 5
	candidateFloor = 0.2

	indexBodyLimit = 1 << 20
)

// Resolver answers league lookups from the built-in table merged with an
// optionally configured scoreboard index. The merged index is the only
// retained state in the process and is refreshed lazily once it is older
// than the configured TTL.
type Resolver struct {
	indexURL string
	ttl      time.Duration
	client   *http.Client

	mu        sync.Mutex
	merged    []League
	byAlias   map[string]int
	fetchedAt time.Time
}

// NewResolver builds a resolver. indexURL may be empty, in which case only
// the built-in table is used and nothing is ever fetched.
func NewResolver(indexURL string, ttl time.Duration) *Resolver {
	r := &Resolver{
		indexURL: indexURL,
		ttl:      ttl,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	r.rebuild(nil)
	return r
}

// Resolve looks label up in the current index. An exact alias hit returns
// the canonical league; otherwise the closest entries come back as ranked
// candidates.
func (r *Resolver) Resolve(ctx context.Context, label string) Resolution {
	leagues, byAlias := r.index(ctx)

	if i, ok := byAlias[normalizeLabel(label)]; ok {
		return Resolution{Exact: true, League: leagues[i]}
	}

	var cands []Candidate
	for _, l := range leagues {
		best := labelOverlap(label, l.Name)
		for _, a := range l.Aliases {
			if s := labelOverlap(label, a); s > best {
				best = s
			}
		}
		if best >= candidateFloor {
			cands = append(cands, Candidate{League: l, Score: best})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
	if len(cands) > maxCandidates {
		cands = cands[:maxCandidates]
	}
	return Resolution{Candidates: cands}
}

// index returns the merged table, re-fetching the external index inline
// when the cached copy has gone stale. A failed fetch keeps serving
// whatever we had; the built-in table is always present.
func (r *Resolver) index(ctx context.Context) ([]League, map[string]int) {
	r.mu.Lock()
	leagues, byAlias := r.merged, r.byAlias
	stale := r.indexURL != "" && time.Since(r.fetchedAt) > r.ttl
	if stale {
		// Claim the refresh before releasing the lock so concurrent
		// lookups keep serving the cached table instead of stacking up
		// behind the fetch. A failed fetch keeps this stamp too, so a
		// down index is not retried on every request.
		r.fetchedAt = time.Now()
	}
	r.mu.Unlock()
	if !stale {
		return leagues, byAlias
	}

	external, err := r.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", r.indexURL).Msg("scoreboard index fetch failed, serving cached table")
		return leagues, byAlias
	}

	r.mu.Lock()
	r.rebuild(external)
	leagues, byAlias = r.merged, r.byAlias
	r.mu.Unlock()
	return leagues, byAlias
}

func (r *Resolver) fetch(ctx context.Context) ([]League, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.indexURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard index: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, indexBodyLimit))
	if err != nil {
		return nil, err
	}
	var external []League
	if err := json.Unmarshal(body, &external); err != nil {
		return nil, fmt.Errorf("scoreboard index: %w", err)
	}
	return external, nil
}

// rebuild merges external entries over the built-in table. Built-in keys
// win on conflict so a bad index cannot shadow the common leagues.
func (r *Resolver) rebuild(external []League) {
	merged := make([]League, 0, len(builtin)+len(external))
	seen := make(map[string]bool, len(builtin))
	for _, l := range builtin {
		merged = append(merged, l)
		seen[l.Key] = true
	}
	for _, l := range external {
		if l.Key == "" || seen[l.Key] {
			continue
		}
		merged = append(merged, l)
		seen[l.Key] = true
	}

	byAlias := make(map[string]int, len(merged)*2)
	for i, l := range merged {
		for _, label := range append([]string{l.Key, l.Name}, l.Aliases...) {
			n := normalizeLabel(label)
			if n == "" {
				continue
			}
			if _, dup := byAlias[n]; !dup {
				byAlias[n] = i
			}
		}
	}
	r.merged = merged
	r.byAlias = byAlias
}
