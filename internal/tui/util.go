package tui

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/geom"
	"covidmap/internal/mesh"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func boundsBBox(b mesh.Bounds) geom.BBox {
	return geom.BBox{
		MinX: b.MinWorld.X(), MinY: b.MinWorld.Y(),
		MaxX: b.MaxWorld.X(), MaxY: b.MaxWorld.Y(),
	}
}
