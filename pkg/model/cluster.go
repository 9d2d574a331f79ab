// Package model defines the cluster snapshot types consumed by litmap.
//
// A ClusterData snapshot is produced by the upstream retrieval service
// (projection + clustering happen there, not here) and is held immutable
// for the lifetime of one visualization session. A new query replaces the
// snapshot wholesale; there is no incremental mutation.
package model

import "sort"

// YearRange is the publication year span of a cluster.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ClusterSummary describes one cluster as reported by the upstream service.
type ClusterSummary struct {
	Size        int       `json:"size"`
	TopKeywords []string  `json:"top_keywords"`
	YearRange   YearRange `json:"year_range"`
}

// ClusterPoint is one document projected into 2D space.
// X and Y carry no guaranteed range; scales must be derived from the
// actual extent of the snapshot, never from a hardcoded domain.
type ClusterPoint struct {
	ID            string   `json:"id"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	ClusterID     int      `json:"cluster_id"`
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	Keywords      []string `json:"keywords"`
	CitationCount *int     `json:"citation_count,omitempty"`
}

// Citations returns the citation count, treating an absent value as zero.
func (p ClusterPoint) Citations() int {
	if p.CitationCount == nil || *p.CitationCount < 0 {
		return 0
	}
	return *p.CitationCount
}

// ClusterData is the root snapshot.
//
// Cluster ids are not required to be contiguous or zero-based, and a point
// may reference a cluster id with no entry in Clusters (an orphan); renderers
// must tolerate both. When Message is non-empty the snapshot is degenerate
// (e.g. too few documents) and Points/Clusters must not be trusted.
type ClusterData struct {
	Points     []ClusterPoint         `json:"points"`
	Clusters   map[int]ClusterSummary `json:"clusters"`
	Algorithm  string                 `json:"algorithm"`
	Parameters map[string]any         `json:"parameters"`
	Message    string                 `json:"message,omitempty"`
}

// Degenerate reports whether the snapshot should be replaced by the
// fallback panel instead of being rendered. An empty point set with no
// message is degenerate too: there is no extent to project.
func (d *ClusterData) Degenerate() bool {
	return d == nil || d.Message != "" || len(d.Points) == 0
}

// FallbackMessage returns the text the fallback panel should show.
func (d *ClusterData) FallbackMessage() string {
	if d != nil && d.Message != "" {
		return d.Message
	}
	return "No cluster data available"
}

// ClusterIDs returns the declared cluster ids in ascending order.
// Iteration over the Clusters map is randomized by the runtime; every
// consumer that renders tiles or labels needs a stable order.
func (d *ClusterData) ClusterIDs() []int {
	if d == nil || len(d.Clusters) == 0 {
		return nil
	}
	ids := make([]int, 0, len(d.Clusters))
	for id := range d.Clusters {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
