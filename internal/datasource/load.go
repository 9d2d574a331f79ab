// Package datasource loads cluster snapshots into the in-memory model.
// A snapshot is a single JSON document as produced by the retrieval
// service's /clusters endpoint; it is parsed and validated once, then
// handed to the UI or exporter immutable.
package datasource

import (
	"fmt"
	"io"
	"math"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/litmap/pkg/debug"
	"github.com/vanderheijden86/litmap/pkg/model"
)

// DataEnvVar names the environment variable that overrides the snapshot
// path when no -data flag is given.
const DataEnvVar = "LITMAP_DATA"

// ResolvePath picks the snapshot path: explicit flag wins, then
// LITMAP_DATA, then the provided default.
func ResolvePath(flagPath, fallback string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(DataEnvVar); env != "" {
		return env
	}
	return fallback
}

// Load reads and validates the snapshot at path.
func Load(path string) (*model.ClusterData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	data, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	debug.Log("loaded %s: %d points, %d clusters", path, len(data.Points), len(data.Clusters))
	return data, nil
}

// LoadReader parses and validates a snapshot from r.
func LoadReader(r io.Reader) (*model.ClusterData, error) {
	var data model.ClusterData
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := Validate(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate rejects snapshots the projection pipeline cannot digest.
// A degenerate snapshot (message, or no points) is valid: the fallback
// panel handles it downstream. Non-finite coordinates are not, since a
// single NaN would poison the extent of every other point.
func Validate(data *model.ClusterData) error {
	if data.Degenerate() {
		return nil
	}
	for i, p := range data.Points {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("point %d (%q): non-finite coordinate (%v, %v)", i, p.ID, p.X, p.Y)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
