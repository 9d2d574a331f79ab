package datasource

import (
	"crypto/sha256"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/litmap/pkg/model"
)

// HashSnapshot returns a short content hash of the snapshot, embedded in
// exported images so a rendering can be traced back to its input data.
func HashSnapshot(data *model.ClusterData) string {
	if data == nil {
		return ""
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%x", sum[:6])
}
