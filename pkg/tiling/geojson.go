package tiling

import (
	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the footprints of tiles as GeoJSON polygons in
// degrees, for inspecting tile coverage in a map viewer.
func FeatureCollection(tiles []Tile) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, t := range tiles {
		e := t.Extent()
		west, south := s1.Angle(e.West).Degrees(), s1.Angle(e.South).Degrees()
		east, north := s1.Angle(e.East).Degrees(), s1.Angle(e.North).Degrees()

		ring := orb.Ring{
			{west, north},
			{west, south},
			{east, south},
			{east, north},
			{west, north},
		}

		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["level"] = t.Level
		feature.Properties["x"] = t.X
		feature.Properties["y"] = t.Y
		feature.Properties["state"] = t.State.String()

		fc.Append(feature)
	}

	return fc
}
