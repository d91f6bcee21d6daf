package cases

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"

	"covidmap/internal/geom"
	"covidmap/internal/logger"
	"covidmap/internal/scene"
)

func TestGroupFixesAndOrders(t *testing.T) {
	in := []Report{
		{Reported: "2020/03/02 00:00:00", CountyKey: 1, Cases: 4},
		{Reported: "2021/01/01 00:00:00", CountyKey: 1, Cases: 9},
		{Reported: "2020/01/05 00:00:00", CountyKey: 2, Cases: 7},
		{Reported: "2020/03/01 00:00:00", CountyKey: 3, Cases: 1},
		{Reported: "2020/03/02 00:00:00", CountyKey: 4, Cases: 2},
	}
	tl := Group(in)
	if len(tl.Days) != 3 {
		t.Fatalf("got %d days: %+v", len(tl.Days), tl.Days)
	}
	wantDates := []string{"2020/01/05", "2020/03/01", "2020/03/02"}
	for i, d := range tl.Days {
		if d.Date != wantDates[i] {
			t.Errorf("day %d = %s, want %s", i, d.Date, wantDates[i])
		}
	}
	if tl.Days[0].Reports[0].Cases != 0 {
		t.Error("pre-outbreak report kept its cases")
	}
	if got := tl.Days[2]; len(got.Reports) != 2 || got.Reports[0].CountyKey != 1 || got.Total() != 6 {
		t.Errorf("last day = %+v", got)
	}
	if tl.Total() != 7 {
		t.Errorf("total = %d", tl.Total())
	}
	if in[2].Cases != 7 {
		t.Error("input was modified")
	}
}

func TestReportDayNormalizesDashes(t *testing.T) {
	if d := (Report{Reported: "2020-04-01T00:00:00"}).Day(); d != "2020/04/01" {
		t.Errorf("day = %s", d)
	}
}

func TestGroupMixedSeparators(t *testing.T) {
	tl := Group([]Report{
		{Reported: "2020/03/02 00:00:00", CountyKey: 1, Cases: 1},
		{Reported: "2020-03-01T00:00:00", CountyKey: 2, Cases: 2},
		{Reported: "2020/03/01 00:00:00", CountyKey: 3, Cases: 3},
		{Reported: "2020-03-02T00:00:00", CountyKey: 4, Cases: 4},
	})
	if len(tl.Days) != 2 {
		t.Fatalf("got %d days: %+v", len(tl.Days), tl.Days)
	}
	if tl.Days[0].Date != "2020/03/01" || tl.Days[1].Date != "2020/03/02" {
		t.Errorf("days = %s, %s", tl.Days[0].Date, tl.Days[1].Date)
	}
	if tl.Days[0].Total() != 5 || tl.Days[1].Total() != 5 {
		t.Errorf("totals = %d, %d", tl.Days[0].Total(), tl.Days[1].Total())
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2020/03/15"); got != "15.03.2020" {
		t.Errorf("FormatDate = %s", got)
	}
	if got := FormatDate("2020"); got != "2020" {
		t.Errorf("short date = %s", got)
	}
}

const casesGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":null,"properties":{"Meldedatum":"2020/03/02 00:00:00","IdLandkreis":"01001","AnzahlFall":3}},
 {"type":"Feature","geometry":null,"properties":{"Meldedatum":"2020/03/01 00:00:00","IdLandkreis":11004,"AnzahlFall":"2"}}
]}`

func TestLoadGeoJSON(t *testing.T) {
	rs, err := Load([]byte(casesGeoJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 || rs[0].CountyKey != 1001 || rs[0].Cases != 3 || rs[1].CountyKey != 11004 || rs[1].Cases != 2 {
		t.Errorf("reports = %+v", rs)
	}
}

func TestLoadGeoJSONErrors(t *testing.T) {
	bad := `{"type":"FeatureCollection","features":[{"properties":{"IdLandkreis":"1","AnzahlFall":1}}]}`
	if _, err := LoadGeoJSON([]byte(bad)); err == nil || !strings.Contains(err.Error(), "Meldedatum") {
		t.Errorf("err = %v", err)
	}
	if _, err := LoadGeoJSON([]byte(`{"type":"Feature"}`)); !errors.Is(err, ErrNoFeatures) {
		t.Errorf("err = %v", err)
	}
	if _, err := LoadGeoJSON([]byte(`{"features":[]}`)); !errors.Is(err, ErrNoReports) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadCSV(t *testing.T) {
	data := "IdBundesland,IdLandkreis,Meldedatum,AnzahlFall\n" +
		"1,01001,2020/03/02 00:00:00,5\n" +
		"1,01002,not-a-date-but-kept,x\n" +
		"9,09162,2020/03/03 00:00:00,1\n"
	rs, err := Load([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 || rs[1].CountyKey != 9162 || rs[0].Cases != 5 {
		t.Errorf("reports = %+v", rs)
	}
	if _, err := LoadCSV(strings.NewReader("a,b\n1,2\n")); err == nil {
		t.Error("missing columns accepted")
	}
}

func testScene(t *testing.T, count int) *scene.Scene {
	t.Helper()
	sq := func(ags int, name string, x float64) geom.County {
		return geom.County{AGS: ags, Name: name, Geometry: geom.Geometry{
			Polygons: []orb.Polygon{{{{x, 0}, {x + 10, 0}, {x + 10, 10}, {x, 10}, {x, 0}}}},
		}}
	}
	c := geom.Collection{Counties: []geom.County{sq(11000, "Berlin", 0), sq(1001, "Flensburg", 20)}}
	s, err := scene.Build(context.Background(), c, scene.Options{
		SampleCount: count, Seed: 5, Planar: true, Logger: logger.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBursts(t *testing.T) {
	s := testScene(t, 5)
	day := Day{Date: "2020/03/02", Reports: []Report{
		{CountyKey: 11004, Cases: 3},
		{CountyKey: 1001, Cases: 0},
		{CountyKey: 4242, Cases: 1},
		{CountyKey: 1001, Cases: 2},
	}}
	bs := Bursts(day, s, rand.New(rand.NewSource(1)), logger.Discard())
	if len(bs) != 2 {
		t.Fatalf("got %d bursts: %+v", len(bs), bs)
	}
	if bs[0].AGS != 11000 || bs[0].Count != 3 || bs[1].Label != "Flensburg" {
		t.Errorf("bursts = %+v", bs)
	}
	berlin, _ := s.Region(11000)
	found := false
	for _, p := range berlin.Samples.Points {
		if p.X() == bs[0].Origin.X() && p.Y() == bs[0].Origin.Y() {
			found = true
		}
	}
	if !found {
		t.Errorf("origin %v is not a sample point", bs[0].Origin)
	}
	if bs[0].Origin.Z() != EmitterOffset {
		t.Errorf("origin z = %v", bs[0].Origin.Z())
	}
}

func TestBurstsJitterFallback(t *testing.T) {
	s := testScene(t, 0)
	bs := Bursts(Day{Reports: []Report{{CountyKey: 1001, Cases: 1}}}, s, rand.New(rand.NewSource(2)), logger.Discard())
	if len(bs) != 1 {
		t.Fatalf("bursts = %+v", bs)
	}
	dx := bs[0].Origin.X() - 25
	dy := bs[0].Origin.Y() - 5
	for _, d := range []float64{dx, dy} {
		if d < 0 {
			d = -d
		}
		if d < jitterMin || d > jitterMin+jitterSpan {
			t.Errorf("jitter %v out of range", d)
		}
	}
}

func TestJitterRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	neg, pos := false, false
	for i := 0; i < 200; i++ {
		p := Jitter(mgl64.Vec3{1, 1, 4}, rnd)
		d := p.X() - 1
		if d < 0 {
			neg = true
			d = -d
		} else {
			pos = true
		}
		if d < jitterMin || d > jitterMin+jitterSpan || p.Z() != 4 {
			t.Fatalf("jittered %v", p)
		}
	}
	if !neg || !pos {
		t.Error("jitter sign never varied")
	}
}
