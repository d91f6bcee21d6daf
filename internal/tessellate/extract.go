package tessellate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rclancey/earcut"

	"covidmap/internal/logger"
)

var (
	// ErrMissingGeometry: the part has no vertex list. Fatal to that part only.
	ErrMissingGeometry = errors.New("missing geometry")
	// ErrDegenerateTriangulation: triangulation produced no triangles.
	ErrDegenerateTriangulation = errors.New("degenerate triangulation")
	// ErrRegionWithoutGeometry: no part of a region could be extracted.
	ErrRegionWithoutGeometry = errors.New("region without geometry")
)

// Extraction is a triangulated part: x,y,z positions and triangle indices
// into them.
type Extraction struct {
	Positions []float64
	Indices   []int

	RegionID    string
	RegionAGS   int
	RegionLabel string
}

// VertexCount is len(Positions)/3.
func (e Extraction) VertexCount() int { return len(e.Positions) / 3 }

// TriangleCount is len(Indices)/3.
func (e Extraction) TriangleCount() int { return len(e.Indices) / 3 }

// Extract triangulates one flattened part and lifts it to z=0. A panic
// inside the triangulator fails the part with ErrDegenerateTriangulation.
func Extract(f *Flat) (ex Extraction, err error) {
	if f == nil || f.Vertices == nil {
		return Extraction{}, ErrMissingGeometry
	}
	if f.Dimensions != 0 && f.Dimensions != 2 {
		return Extraction{}, fmt.Errorf("%s: unsupported dimensions %d", f.RegionID, f.Dimensions)
	}
	if len(f.Vertices)%2 != 0 {
		return Extraction{}, fmt.Errorf("%w: %s has an odd coordinate count", ErrMissingGeometry, f.RegionID)
	}
	coords := append([]float64(nil), f.Vertices...)
	if n := len(coords); n >= 4 && coords[0] == coords[n-2] && coords[1] == coords[n-1] {
		coords = coords[:n-2]
	}
	defer func() {
		if r := recover(); r != nil {
			ex, err = Extraction{}, fmt.Errorf("%w: %s: triangulator panic: %v", ErrDegenerateTriangulation, f.RegionID, r)
		}
	}()
	indices, err := earcut.Earcut(coords, f.Holes, 2)
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %s: %v", ErrDegenerateTriangulation, f.RegionID, err)
	}
	if len(indices) == 0 {
		return Extraction{}, fmt.Errorf("%w: %s", ErrDegenerateTriangulation, f.RegionID)
	}
	return Extraction{
		Positions:   ZUpgrade(coords, 0),
		Indices:     indices,
		RegionID:    f.RegionID,
		RegionAGS:   f.RegionAGS,
		RegionLabel: f.RegionLabel,
	}, nil
}

// ZUpgrade turns x,y pairs into x,y,z triples with a constant z.
// A 2k-long input yields a 3k-long output.
func ZUpgrade(coords []float64, z float64) []float64 {
	out := make([]float64, 0, len(coords)/2*3)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, coords[i], coords[i+1], z)
	}
	return out
}

// PartError records a part that was skipped.
type PartError struct {
	ID  string
	Err error
}

func (e PartError) Error() string { return e.ID + ": " + e.Err.Error() }
func (e PartError) Unwrap() error { return e.Err }

// Batch is the outcome of extracting every part of one region.
type Batch struct {
	Extractions []Extraction
	Skipped     []PartError
}

// ExtractAll extracts each part, logging and skipping the ones that fail.
// It returns ErrRegionWithoutGeometry when nothing survived; the batch still
// lists the skipped parts.
func ExtractAll(f Flattened, l *slog.Logger) (Batch, error) {
	if l == nil {
		l = logger.L()
	}
	var b Batch
	for i := range f.Parts {
		part := &f.Parts[i]
		ex, err := Extract(part)
		if err != nil {
			l.Warn("part_skipped", "part", part.RegionID, "label", part.RegionLabel, "err", err)
			b.Skipped = append(b.Skipped, PartError{ID: part.RegionID, Err: err})
			continue
		}
		b.Extractions = append(b.Extractions, ex)
	}
	if len(b.Extractions) == 0 {
		return b, ErrRegionWithoutGeometry
	}
	return b, nil
}
