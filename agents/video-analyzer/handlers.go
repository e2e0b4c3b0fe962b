package videoanalyzer

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"silenced-backend/agents/video-analyzer/youtube"
	"silenced-backend/internal/models"
	"silenced-backend/shared/bias"
	"silenced-backend/shared/greenwashing"
	"silenced-backend/shared/quality"
)

func bindJSON(c *gin.Context, op string, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, InvalidInput(op, err, "Invalid request body: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) handlePostTranscript(c *gin.Context) {
	var req models.TranscriptRequest
	if !bindJSON(c, "transcript", &req) {
		return
	}

	result := s.fetcher.Fetch(c.Request.Context(), req.VideoID, req.Languages)
	s.monitor.RecordTranscript(result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetTranscript(c *gin.Context) {
	videoID := c.Param("video_id")
	lang := c.DefaultQuery("lang", "en")

	result := s.fetcher.Fetch(c.Request.Context(), videoID, []string{lang, "en", "en-US"})
	s.monitor.RecordTranscript(result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleQualityScore(c *gin.Context) {
	var req models.QualityScoreRequest
	if !bindJSON(c, "quality-score", &req) {
		return
	}

	result := s.scorer.Score(c.Request.Context(), quality.InputFromRequest(req))
	s.monitor.RecordQuality(result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGreenwashing(c *gin.Context) {
	var req models.GreenwashingRequest
	if !bindJSON(c, "greenwashing", &req) {
		return
	}

	result := s.detector.Detect(c.Request.Context(), greenwashing.InputFromRequest(req))
	s.monitor.RecordGreenwashing(result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBiasReceipt(c *gin.Context) {
	req := models.NewBiasReceiptRequest()
	if !bindJSON(c, "bias-receipt", &req) {
		return
	}

	receipt := bias.Generate(bias.InputFromRequest(req))
	s.monitor.RecordBiasReceipt()
	c.JSON(http.StatusOK, receipt)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	req := models.NewAnalyzeRequest()
	if !bindJSON(c, "analyze", &req) {
		return
	}

	result := s.orchestrator.Analyze(c.Request.Context(), req)
	s.monitor.RecordAnalysis(result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetVideo(c *gin.Context) {
	if s.metadata == nil {
		respondError(c, Unavailable("video", youtube.ErrNoAPIKey, "YouTube Data API is not configured"))
		return
	}

	videoID := c.Param("video_id")
	video, err := s.metadata.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			respondError(c, NotFound("video", err, "Video not found"))
			return
		}
		respondError(c, Upstream("video", err, "Failed to fetch video metadata"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "video": video})
}
