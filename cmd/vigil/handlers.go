package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vigil-bot/vigil/automod"
)

type GenericStatus struct {
	Status  string `json:"status"`
	Daemon  string `json:"daemon"`
	Version string `json:"version,omitempty"`
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, GenericStatus{Status: "ok", Daemon: "vigil"})
}

// HandleEvaluate runs one message through the decision pipeline and returns
// the verdict. The caller (platform adapter) is responsible for applying it.
func (srv *Server) HandleEvaluate(c echo.Context) error {
	var msg automod.Message
	if err := c.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message payload")
	}
	if msg.Sender.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "sender.id is required")
	}

	dec, err := srv.engine.ProcessMessage(c.Request().Context(), msg)
	if err != nil {
		srv.logger.Error("message evaluation failed", "err", err, "sender", msg.Sender.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "evaluation failed")
	}
	return c.JSON(http.StatusOK, dec)
}

type LearnRequest struct {
	Text string `json:"text"`
}

type LearnResponse struct {
	Accepted bool `json:"accepted"`
}

// Admin feedback: confirmed spam missed by the engine.
func (srv *Server) HandleLearnSpam(c echo.Context) error {
	var req LearnRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	if err := srv.trainer.LearnSpam(c.Request().Context(), req.Text); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "recording sample failed")
	}
	return c.JSON(http.StatusOK, LearnResponse{Accepted: true})
}

// Admin feedback: a falsely-flagged message, fed back as ham.
func (srv *Server) HandleLearnHam(c echo.Context) error {
	var req LearnRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	if err := srv.trainer.LearnHam(c.Request().Context(), req.Text); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "recording sample failed")
	}
	return c.JSON(http.StatusOK, LearnResponse{Accepted: true})
}

type ResetWarningsRequest struct {
	UserID string `json:"user_id"`
}

func (srv *Server) HandleResetWarnings(c echo.Context) error {
	var req ResetWarningsRequest
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if err := srv.history.ResetWarnings(c.Request().Context(), req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "resetting warnings failed")
	}
	return c.NoContent(http.StatusOK)
}

type ModelInfo struct {
	Trained     bool   `json:"trained"`
	Version     int64  `json:"version,omitempty"`
	SampleCount int    `json:"sample_count,omitempty"`
	TrainedAt   string `json:"trained_at,omitempty"`
}

func (srv *Server) HandleModelInfo(c echo.Context) error {
	snap := srv.engine.Classifier.Current()
	if snap == nil {
		return c.JSON(http.StatusOK, ModelInfo{Trained: false})
	}
	return c.JSON(http.StatusOK, ModelInfo{
		Trained:     true,
		Version:     snap.Version,
		SampleCount: snap.SampleCount,
		TrainedAt:   snap.TrainedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
