package scatter

import (
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/litmap/pkg/model"
)

// Coord is a position in data space.
type Coord struct {
	X, Y float64
}

// Centroids computes the mean position of each declared cluster's points in
// data space. Used only for label placement; the result is projected through
// the current scales by the frame builder.
//
// A cluster declared in the summary map with no matching points is skipped —
// its label has no defined position. Orphan points (cluster id absent from
// the summary map) contribute to no centroid but still render as circles.
func Centroids(data *model.ClusterData) map[int]Coord {
	if data == nil || len(data.Clusters) == 0 {
		return nil
	}

	xs := make(map[int][]float64, len(data.Clusters))
	ys := make(map[int][]float64, len(data.Clusters))
	for _, p := range data.Points {
		if _, declared := data.Clusters[p.ClusterID]; !declared {
			continue
		}
		xs[p.ClusterID] = append(xs[p.ClusterID], p.X)
		ys[p.ClusterID] = append(ys[p.ClusterID], p.Y)
	}

	out := make(map[int]Coord, len(xs))
	for id, vals := range xs {
		out[id] = Coord{
			X: stat.Mean(vals, nil),
			Y: stat.Mean(ys[id], nil),
		}
	}
	return out
}
