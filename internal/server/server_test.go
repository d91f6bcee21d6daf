package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"

	"covidmap/internal/cases"
	"covidmap/internal/geom"
	"covidmap/internal/logger"
	"covidmap/internal/playback"
	"covidmap/internal/scene"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	sq := func(ags int, name string, x float64) geom.County {
		return geom.County{AGS: ags, Name: name, Geometry: geom.Geometry{
			Polygons: []orb.Polygon{{{{x, 0}, {x + 4, 0}, {x + 4, 4}, {x, 4}, {x, 0}}}},
		}}
	}
	c := geom.Collection{Counties: []geom.County{sq(1001, "Flensburg", 0), sq(11000, "Berlin", 10)}}
	s, err := scene.Build(context.Background(), c, scene.Options{SampleCount: 4, Seed: 1, Planar: true, Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	tl := cases.Group([]cases.Report{
		{Reported: "2020/03/01 00:00:00", CountyKey: 1001, Cases: 2},
		{Reported: "2020/03/02 00:00:00", CountyKey: 11003, Cases: 5},
		{Reported: "2020/03/03 00:00:00", CountyKey: 1001, Cases: 1},
	})
	return New(s, tl, Options{Seed: 1, Logger: logger.Discard()})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSceneEndpoint(t *testing.T) {
	rec := get(t, testServer(t).Handler(), "/api/scene")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got sceneSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Stats.Regions != 2 || got.Days != 3 || len(got.Order) != 2 {
		t.Errorf("summary = %+v", got)
	}
	if got.Camera.Distance <= 0 {
		t.Errorf("camera = %+v", got.Camera)
	}
}

func TestRegionsEndpoints(t *testing.T) {
	h := testServer(t).Handler()
	var list []regionSummary
	rec := get(t, h, "/api/regions")
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].AGS != 1001 || list[0].Samples != 4 {
		t.Errorf("regions = %+v", list)
	}

	rec = get(t, h, "/api/regions/11005")
	if rec.Code != http.StatusOK {
		t.Fatalf("berlin district status = %d", rec.Code)
	}
	var reg scene.Region
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatal(err)
	}
	if reg.Label != "Berlin" || len(reg.Meshes) != 1 || len(reg.Samples.Points) != 4 {
		t.Errorf("region = %+v", reg)
	}

	if rec := get(t, h, "/api/regions/4242"); rec.Code != http.StatusNotFound {
		t.Errorf("missing region status = %d", rec.Code)
	}
	if rec := get(t, h, "/api/regions/abc"); rec.Code != http.StatusNotFound {
		t.Errorf("non-numeric ags status = %d", rec.Code)
	}
}

func TestDaysEndpoint(t *testing.T) {
	var days []daySummary
	rec := get(t, testServer(t).Handler(), "/api/days")
	if err := json.Unmarshal(rec.Body.Bytes(), &days); err != nil {
		t.Fatal(err)
	}
	if len(days) != 3 || days[1].Display != "02.03.2020" || days[1].Total != 5 {
		t.Errorf("days = %+v", days)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := testServer(t).Handler()
	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
	get(t, h, "/api/days")
	rec := get(t, h, "/metrics")
	if !strings.Contains(rec.Body.String(), "covidmap_http_requests_total") {
		t.Error("request counter not exported")
	}
}

func TestPlaybackWebsocket(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/playback?pacing=1ms&from=1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frames []playback.Frame
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("read: %v", err)
			}
			break
		}
		var f playback.Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			t.Fatal(err)
		}
		frames = append(frames, f)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames", len(frames))
	}
	if frames[0].Index != 1 || frames[0].Total != 5 || frames[0].Bursts[0].AGS != 11000 {
		t.Errorf("first frame = %+v", frames[0])
	}
}

func TestPlaybackBadParams(t *testing.T) {
	h := testServer(t).Handler()
	for _, q := range []string{"?from=-1", "?from=x", "?pacing=fast"} {
		if rec := get(t, h, "/ws/playback"+q); rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d", q, rec.Code)
		}
	}
}
