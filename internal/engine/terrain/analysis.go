package terrain

import (
	"context"
	"fmt"
	gomath "math"
	"sort"

	"github.com/Faultbox/terraglobe/pkg/math"
	"github.com/Faultbox/terraglobe/pkg/tiling"
)

// ErrorStats summarizes the displacement between a fine tile's vertices and
// the same points reconstructed from a coarser ancestor.
type ErrorStats struct {
	Level int // Level of the coarse tile
	Count int
	Max   float64
	Min   float64
	Sum   float64
	RMS   float64

	sumSquares float64
}

// Mean returns Sum/Count, or 0 for empty stats.
func (s ErrorStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

func (s *ErrorStats) add(d float64) {
	if s.Count == 0 {
		s.Max, s.Min = d, d
	} else {
		s.Max = max(s.Max, d)
		s.Min = min(s.Min, d)
	}
	s.Count++
	s.Sum += d
	s.sumSquares += d * d
	s.RMS = gomath.Sqrt(s.sumSquares / float64(s.Count))
}

// Merge folds other into s.
func (s *ErrorStats) Merge(other ErrorStats) {
	if other.Count == 0 {
		return
	}
	if s.Count == 0 {
		level := s.Level
		*s = other
		s.Level = level
		return
	}
	s.Max = max(s.Max, other.Max)
	s.Min = min(s.Min, other.Min)
	s.Count += other.Count
	s.Sum += other.Sum
	s.sumSquares += other.sumSquares
	s.RMS = gomath.Sqrt(s.sumSquares / float64(s.Count))
}

// CompareToAncestor reconstructs every vertex of fine by bilinear
// interpolation inside coarse and records the distance to the true vertex.
// coarseTile must be an ancestor of fineTile or the tile itself.
func CompareToAncestor(fine, coarse *Mesh, fineTile, coarseTile tiling.Tile) (ErrorStats, error) {
	if fine == nil || coarse == nil {
		return ErrorStats{}, fmt.Errorf("nil mesh: %w", ErrInvalidArgument)
	}
	ancestor, ok := fineTile.Ancestor(coarseTile.Level)
	if !ok || ancestor.X != coarseTile.X || ancestor.Y != coarseTile.Y {
		return ErrorStats{}, fmt.Errorf("%v is not an ancestor of %v: %w", coarseTile, fineTile, ErrInvalidArgument)
	}
	if fine.Width < 2 || fine.Height < 2 || coarse.Width < 2 || coarse.Height < 2 {
		return ErrorStats{}, fmt.Errorf("meshes need at least 2x2 vertices: %w", ErrInvalidArgument)
	}

	levelDiff := fineTile.Level - coarseTile.Level
	scale := float64(int(1) << uint(levelDiff))

	// Offset of the fine tile inside the ancestor, in fine tiles.
	offsetX := float64(fineTile.X - coarseTile.X<<uint(levelDiff))
	offsetY := float64(fineTile.Y - coarseTile.Y<<uint(levelDiff))

	coarseCols := float64(coarse.Width - 1)
	coarseRows := float64(coarse.Height - 1)
	fineCols := float64(fine.Width - 1)
	fineRows := float64(fine.Height - 1)

	stats := ErrorStats{Level: coarseTile.Level}
	for v := range fine.Height {
		row := (offsetY + float64(v)/fineRows) / scale * coarseRows
		for h := range fine.Width {
			col := (offsetX + float64(h)/fineCols) / scale * coarseCols
			reconstructed := interpolatePosition(coarse, row, col)
			stats.add(fine.Position(v, h).Distance(reconstructed))
		}
	}

	return stats, nil
}

// interpolatePosition returns the bilinear position at fractional grid
// coordinates of m.
func interpolatePosition(m *Mesh, row, col float64) math.Vec3 {
	row = clampf(row, 0, float64(m.Height-1))
	col = clampf(col, 0, float64(m.Width-1))

	r0 := min(int(row), m.Height-2)
	c0 := min(int(col), m.Width-2)
	fr := row - float64(r0)
	fc := col - float64(c0)

	north := m.Position(r0, c0).Lerp(m.Position(r0, c0+1), fc)
	south := m.Position(r0+1, c0).Lerp(m.Position(r0+1, c0+1), fc)
	return north.Lerp(south, fr)
}

// Accumulator collects error stats per coarse level.
type Accumulator struct {
	levels map[int]*ErrorStats
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{levels: make(map[int]*ErrorStats)}
}

// Add merges s into the stats of s.Level.
func (a *Accumulator) Add(s ErrorStats) {
	acc, ok := a.levels[s.Level]
	if !ok {
		acc = &ErrorStats{Level: s.Level}
		a.levels[s.Level] = acc
	}
	acc.Merge(s)
}

// Level returns the merged stats of one level.
func (a *Accumulator) Level(level int) (ErrorStats, bool) {
	s, ok := a.levels[level]
	if !ok {
		return ErrorStats{}, false
	}
	return *s, true
}

// Stats returns the merged stats of every level, finest first.
func (a *Accumulator) Stats() []ErrorStats {
	out := make([]ErrorStats, 0, len(a.levels))
	for _, s := range a.levels {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	return out
}

// MeshLoader loads the mesh of a tile.
type MeshLoader interface {
	Load(ctx context.Context, tile *tiling.Tile) (*Mesh, error)
}

// AnalyzeLevels compares tile against each of its ancestors down to
// minLevel and returns one ErrorStats per ancestor, finest first.
func AnalyzeLevels(ctx context.Context, loader MeshLoader, tile tiling.Tile, minLevel int) ([]ErrorStats, error) {
	if minLevel < 0 || minLevel > tile.Level {
		return nil, fmt.Errorf("min level %d for %v: %w", minLevel, tile, ErrInvalidArgument)
	}

	fine, err := loader.Load(ctx, &tile)
	if err != nil {
		return nil, fmt.Errorf("load %v: %w", tile, err)
	}

	stats := make([]ErrorStats, 0, tile.Level-minLevel)
	for level := tile.Level - 1; level >= minLevel; level-- {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ancestor, _ := tile.Ancestor(level)
		coarse, err := loader.Load(ctx, &ancestor)
		if err != nil {
			return stats, fmt.Errorf("load %v: %w", ancestor, err)
		}

		s, err := CompareToAncestor(fine, coarse, tile, ancestor)
		if err != nil {
			return stats, err
		}
		stats = append(stats, s)
	}

	return stats, nil
}
