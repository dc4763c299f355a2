// Package regions loads the neighborhood boundary dataset. Boundaries arrive as
// a GeoJSON FeatureCollection and are reduced immediately to bounding boxes;
// the exact polygon is never kept because the spatial join is bbox-only.
package regions

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/stadslab/heat-readiness-map/apps/api/pkg/geo"
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// Property keys probed for the region code and display name. Dutch CBS exports
// use buurtcode/buurtnaam; generic exports use code/name.
var (
	codeKeys = []string{"buurtcode", "code", "id"}
	nameKeys = []string{"buurtnaam", "name"}
)

// Load decodes a GeoJSON FeatureCollection into regions. Features without a
// geometry or without any code property are dropped, not errors: boundary
// datasets routinely carry a few administrative stubs.
func Load(r io.Reader) ([]model.Region, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read regions: %w", err)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode regions geojson: %w", err)
	}

	out := make([]model.Region, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		code := property(f.Properties, codeKeys)
		if code == "" {
			continue
		}
		name := property(f.Properties, nameKeys)
		if name == "" {
			name = code
		}
		out = append(out, model.Region{
			Code: code,
			Name: name,
			BBox: geo.Bounds(f.Geometry),
		})
	}
	return out, nil
}

func property(props map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := props[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
