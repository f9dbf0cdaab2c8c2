package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reddit-ranger/ranger/detect"
)

type GenericError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type GenericStatus struct {
	Daemon  string `json:"daemon"`
	Status  string `json:"status"`
	Message string `json:"msg,omitempty"`
}

// AnalyzeResponse is the wire shape consumed by the dashboard and the
// browser overlay. The sub-category scores live inside the summary block
// keyed "<category>_score", which the overlay renders in its tooltip.
type AnalyzeResponse struct {
	Username    string         `json:"username"`
	Probability float64        `json:"probability"`
	Summary     AnalyzeSummary `json:"summary"`
	ComputedAt  time.Time      `json:"computed_at"`
}

type AnalyzeSummary struct {
	AccountAge         string             `json:"account_age"`
	Karma              int64              `json:"karma"`
	Scores             map[string]float64 `json:"scores"`
	TotalComments      int                `json:"total_comments"`
	TotalSubmissions   int                `json:"total_submissions"`
	UniqueSubreddits   int                `json:"unique_subreddits"`
	AvgCommentScore    float64            `json:"avg_comment_score"`
	AvgSubmissionScore float64            `json:"avg_submission_score"`
}

func analyzeResponse(res *detect.AnalysisResult) AnalyzeResponse {
	scores := make(map[string]float64, len(res.CategoryScores))
	for cat, val := range res.CategoryScores {
		scores[cat+"_score"] = val
	}
	return AnalyzeResponse{
		Username:    res.Username,
		Probability: res.Probability,
		Summary: AnalyzeSummary{
			AccountAge:         res.Summary.AccountAge,
			Karma:              res.Summary.Karma,
			Scores:             scores,
			TotalComments:      res.Summary.TotalComments,
			TotalSubmissions:   res.Summary.TotalSubmissions,
			UniqueSubreddits:   res.Summary.UniqueSubreddits,
			AvgCommentScore:    res.Summary.AvgCommentScore,
			AvgSubmissionScore: res.Summary.AvgSubmissionScore,
		},
		ComputedAt: res.ComputedAt,
	}
}

func (srv *Server) HandleAnalyze(c echo.Context) error {
	ctx := c.Request().Context()

	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(400, GenericError{
			Error:   "InvalidUsername",
			Message: "username must not be empty",
		})
	}

	res, err := srv.engine.Analyze(ctx, username)
	if err != nil {
		requestErrorCount.WithLabelValues(errorKind(err)).Inc()
		return c.JSON(errorStatus(err), GenericError{
			Error:   errorKind(err),
			Message: fmt.Sprintf("%s", err),
		})
	}
	return c.JSON(200, analyzeResponse(res))
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, detect.ErrAccountNotFound):
		return "AccountNotFound"
	case errors.Is(err, detect.ErrInsufficientData):
		return "InsufficientData"
	case errors.Is(err, detect.ErrUpstreamUnavailable):
		return "UpstreamUnavailable"
	default:
		return "InternalError"
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, detect.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, detect.ErrInsufficientData):
		return http.StatusBadRequest
	case errors.Is(err, detect.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (srv *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var errorMessage string
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		errorMessage = fmt.Sprintf("%s", he.Message)
	}
	if code >= 500 {
		slog.Warn("rangerd-http-internal-error", "err", err)
	}
	c.JSON(code, GenericStatus{Status: "error", Daemon: "rangerd", Message: errorMessage})
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(200, GenericStatus{Status: "ok", Daemon: "rangerd"})
}
