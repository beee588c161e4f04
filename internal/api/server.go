// Package api exposes the engine over HTTP for the mobile client. Handlers
// stay thin: decode the request, call the engine, encode the outcome.
package api

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"plantbot/internal/analyze"
	"plantbot/internal/config"
	"plantbot/internal/domain"
	"plantbot/internal/quality"
	"plantbot/internal/schedule"
	"plantbot/internal/storage/sqlite"
	"plantbot/internal/vision"
)

type Server struct {
	cfg    config.Config
	db     *sql.DB
	vision analyze.Vision
	sink   schedule.ReminderSink
	echo   *echo.Echo
}

func New(cfg config.Config, db *sql.DB) *Server {
	s := &Server{
		cfg: cfg,
		db:  db,
		vision: func(ctx context.Context, photo []byte) (string, vision.Usage, error) {
			return vision.AnalyzePhoto(ctx, cfg.AnthropicAPIKey, cfg.VisionModel, photo)
		},
		sink: schedule.LogSink{},
	}
	s.echo = s.routes()
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.POST("/plants", s.createPlant)
	e.GET("/plants/:id/schedules", s.listSchedules)
	e.POST("/plants/:id/analyses", s.analyzePhoto)
	e.PUT("/plants/:id/reminders", s.toggleReminders)
	e.GET("/analyses/:id", s.getAnalysis)
	e.PUT("/schedules/:id/frequency", s.updateFrequency)
	e.POST("/schedules/:id/completions", s.markCompleted)
	e.POST("/schedules/:id/recommendation", s.resolveRecommendation)
	return e
}

func (s *Server) Start() error {
	return s.echo.Start(":" + s.cfg.Port)
}

func errJSON(c echo.Context, code int, err error) error {
	return c.JSON(code, map[string]string{"error": err.Error()})
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (s *Server) createPlant(c echo.Context) error {
	var body struct {
		Name    string `json:"name"`
		Species string `json:"species"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	id, err := sqlite.InsertPlant(s.db, domain.Plant{Name: body.Name, Species: body.Species})
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) listSchedules(c echo.Context) error {
	plantID, err := pathID(c)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	schedules, err := sqlite.ListSchedules(s.db, plantID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, scheduleViews(schedules))
}

func (s *Server) analyzePhoto(c echo.Context) error {
	plantID, err := pathID(c)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "photo file is required"})
	}
	maxBytes := int64(s.cfg.MaxPhotoMB) << 20
	if file.Size > maxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "photo too large"})
	}
	src, err := file.Open()
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	defer src.Close()
	photo, err := io.ReadAll(io.LimitReader(src, maxBytes))
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}

	mode := quality.ModeStandard
	if c.QueryParam("mode") == "lenient" {
		mode = quality.ModeLenient
	}
	force := c.QueryParam("force") == "true"

	res, err := analyze.Photo(c.Request().Context(), s.db, plantID, photo, mode, force, s.vision, s.sink)
	if err != nil {
		log.Printf("api analyze error plant=%d: %v", plantID, err)
		return errJSON(c, http.StatusBadGateway, err)
	}
	return c.JSON(http.StatusOK, analyzeView(res))
}

func (s *Server) getAnalysis(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	rec, err := sqlite.GetAnalysis(s.db, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "analysis not found"})
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, toAnalysisView(rec))
}

func (s *Server) updateFrequency(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	var body struct {
		FrequencyDays int `json:"frequency_days"`
	}
	if err := c.Bind(&body); err != nil || body.FrequencyDays < 1 || body.FrequencyDays > 90 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "frequency_days must be in [1, 90]"})
	}
	if err := schedule.UpdateFrequency(s.db, id, body.FrequencyDays, time.Now()); err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) markCompleted(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	if err := schedule.MarkCompleted(s.db, id, time.Now()); err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) toggleReminders(c echo.Context) error {
	plantID, err := pathID(c)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if err := schedule.ToggleReminders(s.db, plantID, body.Enabled, time.Now(), s.sink); err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// resolveRecommendation settles a pending conflict the reconciler surfaced.
// The client echoes back the sentinel-encoded notes it was handed; accepting
// applies the proposed frequency and restores the original notes.
func (s *Server) resolveRecommendation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, err)
	}
	var body struct {
		PendingNotes string `json:"pending_notes"`
		Accept       bool   `json:"accept"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if !body.Accept {
		return c.JSON(http.StatusOK, map[string]string{"status": "discarded"})
	}
	days, originalNotes, ok := schedule.DecodePendingNotes(body.PendingNotes)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "pending_notes carries no recommendation"})
	}
	if err := schedule.AcceptRecommendation(s.db, id, days, originalNotes, time.Now()); err != nil {
		return errJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "accepted"})
}
