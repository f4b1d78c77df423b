package ui

import (
	"net/http"

	"chartsense/app"
	"chartsense/domain/core"
	"chartsense/domain/dataset"
	"chartsense/domain/outlier"
	"chartsense/internal/errors"
	"chartsense/internal/report"

	"github.com/gin-gonic/gin"
)

// OutlierRequest asks for detection on one column
type OutlierRequest struct {
	Rows      []dataset.Row           `json:"rows"`
	Column    string                  `json:"column" binding:"required"`
	Detection outlier.DetectionConfig `json:"detection"`
}

// ReportRequest is an analysis request rendered as an HTML page
type ReportRequest struct {
	app.AnalysisRequest
	Title string `json:"title"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string     `json:"error"`
	Code  string     `json:"code"`
	RunID core.RunID `json:"run_id,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"memo":   s.memo.Stats(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req app.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	result, err := s.analyze(c, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleLatest returns the result of the most recently submitted analysis
// that has completed. A slow request never replaces a newer one.
func (s *Server) handleLatest(c *gin.Context) {
	result, ok := s.latest.Latest()
	if !ok {
		s.fail(c, errors.NotFound("analysis result"))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleOutliers(c *gin.Context) {
	var req OutlierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	if err := s.checkRows(len(req.Rows)); err != nil {
		s.fail(c, err)
		return
	}

	report, err := s.service.DetectOutliers(c.Request.Context(), req.Rows, req.Column, s.detection(req.Detection))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	result, err := s.analyze(c, req.AnalysisRequest)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(req.Title, report.Markdown(req.Title, result)))
}

func (s *Server) analyze(c *gin.Context, req app.AnalysisRequest) (*app.AnalysisResult, error) {
	if err := s.checkRows(len(req.Rows)); err != nil {
		return nil, err
	}
	req.Detection = s.detection(req.Detection)

	seq := s.latest.Next()
	result, err := s.memo.Analyze(c.Request.Context(), req)
	if err != nil {
		return nil, err
	}
	if !s.latest.Accept(seq, result) {
		s.logger.Debug("analysis %d superseded by a newer submission", seq)
	}
	return result, nil
}

func (s *Server) checkRows(n int) error {
	if s.options.MaxRows > 0 && n > s.options.MaxRows {
		return errors.InvalidInput("request has more rows than the configured limit")
	}
	return nil
}

// detection falls back to the server default for an unset config
func (s *Server) detection(cfg outlier.DetectionConfig) outlier.DetectionConfig {
	if cfg.Method == "" && cfg.Sensitivity == 0 {
		return s.options.Detection
	}
	return cfg
}

func (s *Server) fail(c *gin.Context, err error) {
	mapped := errors.FromDomain(err)
	code := errors.GetCode(mapped)
	status := errors.HTTPStatus(code)

	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: mapped.Error(),
		Code:  code,
		RunID: requestRunID(c),
	})
}
