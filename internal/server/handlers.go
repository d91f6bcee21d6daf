package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"covidmap/internal/cases"
	"covidmap/internal/mesh"
	"covidmap/internal/projection"
	"covidmap/internal/scene"
)

type sceneSummary struct {
	Stats      scene.Stats       `json:"stats"`
	Bounds     mesh.Bounds       `json:"bounds"`
	Camera     scene.Framing     `json:"camera"`
	Projection projection.Config `json:"projection"`
	Order      []int             `json:"order"`
	Days       int               `json:"days"`
}

type regionSummary struct {
	AGS      int         `json:"ags"`
	Label    string      `json:"label"`
	Meshes   int         `json:"meshes"`
	Samples  int         `json:"samples"`
	Fallback bool        `json:"fallback,omitempty"`
	Bounds   mesh.Bounds `json:"bounds"`
}

type daySummary struct {
	Index   int    `json:"index"`
	Date    string `json:"date"`
	Display string `json:"display"`
	Reports int    `json:"reports"`
	Total   int    `json:"total"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sceneSummary{
		Stats:      s.scene.Stats,
		Bounds:     s.scene.Bounds,
		Camera:     s.scene.Camera,
		Projection: s.scene.Projection,
		Order:      s.scene.Order,
		Days:       len(s.timeline.Days),
	})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	out := make([]regionSummary, 0, len(s.scene.Order))
	for _, reg := range s.scene.Ordered() {
		out = append(out, regionSummary{
			AGS:      reg.AGS,
			Label:    reg.Label,
			Meshes:   len(reg.Meshes),
			Samples:  len(reg.Samples.Points),
			Fallback: reg.Samples.Fallback,
			Bounds:   reg.Bounds,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	ags, err := strconv.Atoi(mux.Vars(r)["ags"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ags")
		return
	}
	reg, ok := s.scene.Region(ags)
	if !ok {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	out := make([]daySummary, 0, len(s.timeline.Days))
	for i, d := range s.timeline.Days {
		out = append(out, daySummary{
			Index:   i,
			Date:    d.Date,
			Display: cases.FormatDate(d.Date),
			Reports: len(d.Reports),
			Total:   d.Total(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
