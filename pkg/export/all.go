package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Formats lists the supported export formats.
var Formats = []string{"svg", "png"}

// SaveAllFormats renders the snapshot in every supported format, deriving
// one output path per format from opts.Path (extension replaced). Renders
// run concurrently; the first failure wins and the other format may still
// have been written.
func SaveAllFormats(opts SnapshotOptions) error {
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))

	var g errgroup.Group
	for _, format := range Formats {
		o := opts
		o.Format = format
		o.Path = base + "." + format
		g.Go(func() error {
			if err := SaveScatterSnapshot(o); err != nil {
				return fmt.Errorf("%s: %w", o.Format, err)
			}
			return nil
		})
	}
	return g.Wait()
}
