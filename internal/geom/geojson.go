package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	geojson.CustomJSONMarshaler = json
	geojson.CustomJSONUnmarshaler = json
}

// Property keys of the county dataset.
const (
	PropName = "GEN"
	PropAGS  = "AGS"
)

// ErrMissingProperties is returned when a feature has no usable region name
// or region code. It aborts the whole load.
var ErrMissingProperties = errors.New("missing properties on feature")

// LoadCounties decodes a GeoJSON FeatureCollection of counties. Every feature
// must carry GEN and AGS; geometries other than Polygon/MultiPolygon are kept
// as an empty Geometry and fail later, per region.
func LoadCounties(data []byte) (Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Collection{}, fmt.Errorf("decode counties: %w", err)
	}
	if len(fc.Features) == 0 {
		return Collection{}, errors.New("no counties found")
	}
	out := Collection{Counties: make([]County, 0, len(fc.Features))}
	for i, f := range fc.Features {
		c, err := countyFromFeature(f)
		if err != nil {
			return Collection{}, fmt.Errorf("feature %d: %w", i, err)
		}
		out.Counties = append(out.Counties, c)
	}
	return out, nil
}

func countyFromFeature(f *geojson.Feature) (County, error) {
	if f == nil || f.Properties == nil {
		return County{}, ErrMissingProperties
	}
	name, _ := f.Properties[PropName].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return County{}, fmt.Errorf("%w: %s", ErrMissingProperties, PropName)
	}
	ags, ok := parseAGS(f.Properties[PropAGS])
	if !ok {
		return County{}, fmt.Errorf("%w: %s (%s)", ErrMissingProperties, PropAGS, name)
	}
	return County{
		AGS:        ags,
		Name:       name,
		Geometry:   geometryFrom(f.Geometry),
		Properties: map[string]any(f.Properties),
	}, nil
}

// parseAGS accepts the code as a zero-padded string ("01001") or a number.
// Places 1-2 are the state, 3-5 the county.
func parseAGS(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	case float64:
		if t <= 0 {
			return 0, false
		}
		return int(t), true
	case int:
		return t, t > 0
	}
	return 0, false
}

func geometryFrom(g orb.Geometry) Geometry {
	switch t := g.(type) {
	case orb.Polygon:
		return Geometry{Kind: KindPolygon, Polygons: []orb.Polygon{t}}
	case orb.MultiPolygon:
		return Geometry{Kind: KindMultiPolygon, Polygons: []orb.Polygon(t)}
	}
	return Geometry{}
}
