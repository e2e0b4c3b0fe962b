package videoanalyzer

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"silenced-backend/shared/analysis"
	"silenced-backend/shared/config"
	"silenced-backend/shared/monitoring"
)

// Server holds the analysis components behind the HTTP API. It keeps no
// per-request state.
type Server struct {
	config       *config.Config
	fetcher      analysis.TranscriptFetcher
	scorer       analysis.QualityScorer
	detector     analysis.GreenwashingDetector
	orchestrator *analysis.Orchestrator
	metadata     analysis.MetadataSource
	monitor      *monitoring.Monitor
	health       *monitoring.HealthChecker
}

// Options wires a Server. Metadata may be nil when no Data API key is set.
type Options struct {
	Config   *config.Config
	Fetcher  analysis.TranscriptFetcher
	Scorer   analysis.QualityScorer
	Detector analysis.GreenwashingDetector
	Metadata analysis.MetadataSource
	Monitor  *monitoring.Monitor
}

func NewServer(opts Options) *Server {
	monitor := opts.Monitor
	if monitor == nil {
		monitor = monitoring.NewMonitor()
	}

	orchestrator := analysis.NewOrchestrator(opts.Fetcher, opts.Scorer, opts.Detector)
	if opts.Metadata != nil {
		orchestrator.WithMetadata(opts.Metadata)
	}

	return &Server{
		config:       opts.Config,
		fetcher:      opts.Fetcher,
		scorer:       opts.Scorer,
		detector:     opts.Detector,
		orchestrator: orchestrator,
		metadata:     opts.Metadata,
		monitor:      monitor,
		health:       monitoring.NewHealthChecker(monitor, opts.Config.GeminiAvailable(), opts.Config.YouTubeAPIAvailable()),
	}
}

// Router builds the gin engine. CORS allows every origin, method and header,
// which suits local extension development only.
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	if s.config.Tracing.Enabled {
		r.Use(otelgin.Middleware(s.config.Tracing.ServiceName))
	}
	r.Use(RequestLogger(), Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{requestIDHeader},
	}))

	r.GET("/health", s.health.Health)
	r.GET("/status", s.health.Status)

	r.POST("/transcript", s.handlePostTranscript)
	r.GET("/transcript/:video_id", s.handleGetTranscript)
	r.POST("/quality-score", s.handleQualityScore)
	r.POST("/greenwashing", s.handleGreenwashing)
	r.POST("/bias-receipt", s.handleBiasReceipt)
	r.POST("/analyze", s.handleAnalyze)
	r.GET("/video/:video_id", s.handleGetVideo)

	return r
}
