package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"plantbot/internal/config"
	"plantbot/internal/domain"
	"plantbot/internal/schedule"
	"plantbot/internal/storage/sqlite"
	"plantbot/internal/vision"
)

func newTestServer(t *testing.T, raw string) (*Server, *sql.DB) {
	t.Helper()
	db, err := sqlite.InitDB(filepath.Join(t.TempDir(), "api-test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := New(config.Config{Port: "0", MaxPhotoMB: 10}, db)
	s.vision = func(context.Context, []byte) (string, vision.Usage, error) {
		return raw, vision.Usage{}, nil
	}
	return s, db
}

func doJSON(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestCreatePlant(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodPost, "/plants", `{"name": "Desk fern", "species": "Nephrolepis"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out["id"] == 0 {
		t.Fatalf("unexpected body %s (err=%v)", rec.Body.String(), err)
	}

	rec = doJSON(t, s, http.MethodPost, "/plants", `{"species": "missing name"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
}

func TestAnalyzeEndpointFullFlow(t *testing.T) {
	raw := `{
		"identification": {"commonName": "Monstera", "confidence": "high"},
		"healthAssessment": {"score": 9, "summary": "Great"},
		"carePlan": {"watering": {"frequency": "weekly"}}
	}`
	s, db := newTestServer(t, raw)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", "plant.png")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			v := uint8(0)
			if (x+y)%2 == 1 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	if err := png.Encode(part, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/plants/1/analyses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out struct {
		ScanID     string `json:"scan_id"`
		AnalysisID int64  `json:"analysis_id"`
		Status     string `json:"status"`
		Verdict    struct {
			Pass bool `json:"pass"`
		} `json:"verdict"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !out.Verdict.Pass || out.Status != "ok" || out.AnalysisID == 0 || out.ScanID == "" {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}

	schedules, _ := sqlite.ListSchedules(db, 1)
	if len(schedules) != 1 || schedules[0].CareType != domain.CareWatering {
		t.Fatalf("unexpected schedules %+v", schedules)
	}
}

func TestUpdateFrequencyEndpoint(t *testing.T) {
	s, db := newTestServer(t, "")
	id, _ := sqlite.InsertSchedule(db, domain.CareSchedule{
		PlantID: 1, CareType: domain.CareWatering, FrequencyDays: 7,
		Enabled: true, NextDue: time.Now(),
	})

	rec := doJSON(t, s, http.MethodPut, fmt.Sprintf("/schedules/%d/frequency", id), `{"frequency_days": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	sched, _ := sqlite.GetSchedule(db, id)
	if !sched.IsCustom || sched.FrequencyDays != 10 {
		t.Fatalf("unexpected schedule %+v", sched)
	}

	rec = doJSON(t, s, http.MethodPut, fmt.Sprintf("/schedules/%d/frequency", id), `{"frequency_days": 120}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range frequency, got %d", rec.Code)
	}
}

func TestResolveRecommendationEndpoint(t *testing.T) {
	s, db := newTestServer(t, "")
	id, _ := sqlite.InsertSchedule(db, domain.CareSchedule{
		PlantID: 1, CareType: domain.CareWatering, FrequencyDays: 5,
		IsCustom: true, Enabled: true, NextDue: time.Now(), Notes: "mine",
	})

	pending := schedule.EncodePendingNotes(21, "mine")
	body := fmt.Sprintf(`{"pending_notes": %q, "accept": true}`, pending)
	rec := doJSON(t, s, http.MethodPost, fmt.Sprintf("/schedules/%d/recommendation", id), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	sched, _ := sqlite.GetSchedule(db, id)
	if sched.IsCustom || sched.FrequencyDays != 21 || sched.Notes != "mine" {
		t.Fatalf("unexpected schedule %+v", sched)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodGet, "/analyses/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
