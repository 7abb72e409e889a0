// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph builds the citation-style graph over a normalized corpus.
//
// Edges are a structural approximation of citation, not bibliographic
// fact: a document may only point at documents dated strictly before it.
// The construction guarantees the graph is acyclic.
package graph

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// Defaults for Structural.
const (
	DefaultPriorArt = 3
	DefaultMaxRefs  = 3
)

// Builder turns a document set into a citation graph. Implementations must
// keep edges pointing strictly backward in time.
type Builder interface {
	Build(docs []types.Document) types.CitationGraph
}

// Structural wires each document to a random subset of earlier documents.
//
// Documents are stable-sorted by date. The first PriorArt documents emit no
// edges. Every later document at sort index i emits between 1 and
// min(MaxRefs, i) edges to distinct documents drawn from [0, i) whose date
// is strictly earlier than its own, so a document sharing its date with
// every predecessor emits none.
type Structural struct {
	PriorArt int
	MaxRefs  int

	// Seed fixes edge selection. Nil seeds from the clock.
	Seed *uint64
}

// NewStructural returns a builder with the given settings. An unset seed
// means unseeded.
func NewStructural(cfg types.GraphConfig) *Structural {
	s := &Structural{PriorArt: cfg.PriorArt, MaxRefs: cfg.MaxRefs}
	if cfg.Seed != nil {
		seed := *cfg.Seed
		s.Seed = &seed
	}
	return s
}

// Seeded returns a builder with default settings and a fixed seed.
func Seeded(seed uint64) *Structural {
	return &Structural{Seed: &seed}
}

func (s *Structural) priorArt() int {
	if s.PriorArt <= 0 {
		return DefaultPriorArt
	}
	return s.PriorArt
}

func (s *Structural) maxRefs() int {
	if s.MaxRefs <= 0 {
		return DefaultMaxRefs
	}
	return s.MaxRefs
}

func (s *Structural) rng() *rand.Rand {
	if s.Seed != nil {
		return rand.New(rand.NewPCG(*s.Seed, *s.Seed^0x9e3779b97f4a7c15))
	}
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, rand.Uint64()))
}

// Build returns one node per document in input order and the sampled edges
// in sort order.
func (s *Structural) Build(docs []types.Document) types.CitationGraph {
	g := types.CitationGraph{
		Nodes: make([]types.GraphNode, len(docs)),
		Edges: []types.Edge{},
	}
	for i, d := range docs {
		g.Nodes[i] = nodeOf(d)
	}

	order := SortedByDate(docs)
	rng := s.rng()
	k, maxRefs := s.priorArt(), s.maxRefs()

	for i := k; i < len(order); i++ {
		src := order[i]
		// Candidates are the prefix dated strictly before src.
		eligible := i
		for eligible > 0 && !order[eligible-1].Date.Before(src.Date) {
			eligible--
		}
		if eligible == 0 {
			continue
		}
		n := 1 + rng.IntN(min(maxRefs, eligible))
		for _, j := range sample(rng, eligible, n) {
			g.Edges = append(g.Edges, types.Edge{
				Source: src.Key(),
				Target: order[j].Key(),
				Type:   types.EdgeCitation,
			})
		}
	}
	return g
}

// sample picks n distinct indices from [0, upto) with a partial
// Fisher-Yates shuffle.
func sample(rng *rand.Rand, upto, n int) []int {
	idx := make([]int, upto)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(upto-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:n]
}

// SortedByDate returns a copy of docs stable-sorted by ascending date, ties
// kept in input order.
func SortedByDate(docs []types.Document) []types.Document {
	out := slices.Clone(docs)
	slices.SortStableFunc(out, func(a, b types.Document) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func nodeOf(d types.Document) types.GraphNode {
	return types.GraphNode{
		ID:           d.ID,
		Kind:         d.Kind,
		Title:        d.Title,
		Organization: d.Organization,
		Date:         d.Date,
	}
}

// OutDegree counts the edges leaving each node key.
func OutDegree(g types.CitationGraph) map[string]int {
	deg := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		deg[n.Key()] = 0
	}
	for _, e := range g.Edges {
		deg[e.Source]++
	}
	return deg
}

// ErrInvalidGraph is wrapped by every Validate failure.
var ErrInvalidGraph = errors.New("invalid citation graph")

// Validate checks that g has one node per document, that every edge joins
// known nodes with a strictly later source, that no edge repeats and that
// the graph is acyclic.
func Validate(g types.CitationGraph) error {
	dates := make(map[string]time.Time, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := dates[n.Key()]; dup {
			return fmt.Errorf("%w: duplicate node %s", ErrInvalidGraph, n.Key())
		}
		dates[n.Key()] = n.Date
	}

	adj := make(map[string][]string)
	seen := make(map[types.Edge]bool, len(g.Edges))
	for _, e := range g.Edges {
		sd, ok := dates[e.Source]
		if !ok {
			return fmt.Errorf("%w: edge source %s is not a node", ErrInvalidGraph, e.Source)
		}
		td, ok := dates[e.Target]
		if !ok {
			return fmt.Errorf("%w: edge target %s is not a node", ErrInvalidGraph, e.Target)
		}
		if !sd.After(td) {
			return fmt.Errorf("%w: edge %s -> %s does not point to the past", ErrInvalidGraph, e.Source, e.Target)
		}
		if seen[e] {
			return fmt.Errorf("%w: repeated edge %s -> %s", ErrInvalidGraph, e.Source, e.Target)
		}
		seen[e] = true
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	if cyc := findCycle(g.Nodes, adj); cyc != "" {
		return fmt.Errorf("%w: cycle through %s", ErrInvalidGraph, cyc)
	}
	return nil
}

// findCycle runs an iterative three-colour DFS and returns a node on a
// cycle, or "".
func findCycle(nodes []types.GraphNode, adj map[string][]string) string {
	const (
		white = iota
		grey
		black
	)
	colour := make(map[string]int, len(nodes))
	type frame struct {
		key  string
		next int
	}
	for _, n := range nodes {
		if colour[n.Key()] != white {
			continue
		}
		stack := []frame{{key: n.Key()}}
		colour[n.Key()] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(adj[top.key]) {
				colour[top.key] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := adj[top.key][top.next]
			top.next++
			switch colour[child] {
			case grey:
				return child
			case white:
				colour[child] = grey
				stack = append(stack, frame{key: child})
			}
		}
	}
	return ""
}
