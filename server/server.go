// Package server exposes the observability surface (C10, additive and
// optional): a health check, a Server-Sent-Events stream of progress
// events, and a Prometheus metrics endpoint. It is only ever started
// explicitly (`scrape --serve ADDR` or the `serve` subcommand) — the
// core scrape path never depends on it.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// Server holds the process-lifetime state the HTTP surface reports:
// uptime and the live progress broker. It implements
// scheduler.EventSink/pipeline.EventSink, so a batch run can be wired
// straight to it.
type Server struct {
	broker    *broker
	startedAt time.Time
}

// New creates a Server. Call Router to get a mountable gin.Engine.
func New() *Server {
	return &Server{
		broker:    newBroker(),
		startedAt: time.Now(),
	}
}

// Emit forwards a progress event to every subscribed /events client
// and updates the Prometheus gauges/counters it cares about.
func (s *Server) Emit(e models.ProgressEvent) {
	switch e.Kind {
	case models.KindPipelineState:
		if e.PipelineState.State == models.StateSearching {
			pipelinesStarted.Inc()
		}
		if e.PipelineState.State == models.StateFailed {
			pipelinesFailed.WithLabelValues(e.PipelineState.Publisher).Inc()
		}
	case models.KindArticleCount:
		articlesCollected.Set(float64(e.ArticleCount.Total))
	case models.KindBatchCompleted:
		batchDuration.Observe(time.Since(s.startedAt).Seconds())
	}

	s.broker.Emit(e)
}

// Router builds the gin engine: GET /healthz (liveness), GET /events
// (SSE), GET /metrics (Prometheus text exposition). mode is a gin
// mode string ("debug"/"release"/"test").
func (s *Server) Router(mode string) *gin.Engine {
	gin.SetMode(mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/healthz", s.handleHealthz)
	r.GET("/events", s.handleEvents)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleEvents streams progress events to the client as Server-Sent
// Events until the client disconnects.
func (s *Server) handleEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientID := uuid.NewString()
	slog.Info("sse client connected", "client_id", clientID)
	defer slog.Info("sse client disconnected", "client_id", clientID)

	ch, cancel := s.broker.subscribe()
	defer cancel()

	c.Stream(func(w http.ResponseWriter) bool {
		select {
		case e, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(e.Kind), e)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
