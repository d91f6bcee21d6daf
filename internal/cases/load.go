package cases

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	PropReported = "Meldedatum"
	PropCounty   = "IdLandkreis"
	PropCases    = "AnzahlFall"
)

var (
	ErrNoReports  = errors.New("cases: no reports")
	ErrNoFeatures = errors.New("cases: not a feature collection")
)

// Load decodes case data, picking GeoJSON when the payload starts with '{'
// and CSV otherwise.
func Load(data []byte) ([]Report, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return LoadGeoJSON(trimmed)
	}
	return LoadCSV(bytes.NewReader(data))
}

type caseFeature struct {
	Properties map[string]any `json:"properties"`
}

type caseCollection struct {
	Type     string        `json:"type"`
	Features []caseFeature `json:"features"`
}

// LoadGeoJSON reads a FeatureCollection whose features carry Meldedatum,
// IdLandkreis and AnzahlFall properties. Geometry is ignored.
func LoadGeoJSON(data []byte) ([]Report, error) {
	var fc caseCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}
	if fc.Features == nil {
		return nil, ErrNoFeatures
	}
	out := make([]Report, 0, len(fc.Features))
	for i, f := range fc.Features {
		r, err := reportFrom(f.Properties)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, ErrNoReports
	}
	return out, nil
}

func reportFrom(p map[string]any) (Report, error) {
	date, _ := p[PropReported].(string)
	if date == "" {
		return Report{}, fmt.Errorf("missing %s", PropReported)
	}
	key, ok := toInt(p[PropCounty])
	if !ok {
		return Report{}, fmt.Errorf("invalid %s %v", PropCounty, p[PropCounty])
	}
	n, ok := toInt(p[PropCases])
	if !ok {
		return Report{}, fmt.Errorf("invalid %s %v", PropCases, p[PropCases])
	}
	return Report{Reported: date, CountyKey: key, Cases: n}, nil
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

// LoadCSV reads case rows. Columns are found by header name
// (case-insensitive): Meldedatum|date, IdLandkreis|ags|county and
// AnzahlFall|cases. Rows that do not parse are skipped.
func LoadCSV(r io.Reader) ([]Report, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	idxDate, idxKey, idxCases := -1, -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "meldedatum", "date", "reported":
			if idxDate == -1 {
				idxDate = i
			}
		case "idlandkreis", "ags", "county":
			if idxKey == -1 {
				idxKey = i
			}
		case "anzahlfall", "cases":
			if idxCases == -1 {
				idxCases = i
			}
		}
	}
	if idxDate == -1 || idxKey == -1 || idxCases == -1 {
		return nil, errors.New("csv: date/county/cases columns not found")
	}
	var out []Report
	for _, row := range recs[1:] {
		if idxDate >= len(row) || idxKey >= len(row) || idxCases >= len(row) {
			continue
		}
		key, err1 := strconv.Atoi(strings.TrimSpace(row[idxKey]))
		n, err2 := strconv.Atoi(strings.TrimSpace(row[idxCases]))
		date := strings.TrimSpace(row[idxDate])
		if err1 != nil || err2 != nil || date == "" {
			continue
		}
		out = append(out, Report{Reported: date, CountyKey: key, Cases: n})
	}
	if len(out) == 0 {
		return nil, ErrNoReports
	}
	return out, nil
}
