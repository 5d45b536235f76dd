package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eos-mcp/internal/config"
	"eos-mcp/internal/history"
	"eos-mcp/internal/llm"
	"eos-mcp/internal/mcpserver"
	"eos-mcp/internal/query"
	"eos-mcp/internal/receiver"
	"eos-mcp/internal/scheduler"
	"eos-mcp/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.New()

	log.Printf("🚀 Starting Eos feedback MCP Server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := history.NewStore(history.DefaultCapacity)
	svc := query.NewService(store)

	var metrics *receiver.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = receiver.NewMetrics(reg)
		go serveMetrics(cfg.MetricsAddr, reg)
	}

	// registered before the receiver so the final archive runs after it stops
	sched := setupReports(cfg, svc)
	if sched != nil {
		defer func() {
			// archive what this session saw before exiting
			if err := sched.RunNow(); err != nil {
				log.Printf("❌ Final insights report failed: %v", err)
			}
			sched.Stop()
		}()
	}

	var rx *receiver.Receiver
	if cfg.RxEnabled {
		rx = receiver.New(receiver.Deps{
			Store:       store,
			Bind:        cfg.RxBind,
			Port:        cfg.RxPort,
			Metrics:     metrics,
			LogMessages: cfg.RxLogMessages,
		})
		if err := rx.Start(ctx); err != nil {
			var bindErr *receiver.BindError
			if errors.As(err, &bindErr) {
				log.Printf("❌ Feedback receiver unavailable, continuing without it: %v", err)
			} else {
				log.Printf("❌ Feedback receiver failed to start: %v", err)
			}
		}
		defer func() {
			if err := rx.Stop(2 * time.Second); err != nil {
				log.Printf("⚠️ Feedback receiver stop: %v", err)
			}
		}()
	} else {
		log.Printf("ℹ️ OSC receive disabled (EOS_RX_ENABLED=false); feedback queries will return empty results")
	}

	narrator := llm.NewNarrator(nil)
	if cfg.LLMProvider != config.ProviderNone {
		client, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider))
		if err != nil {
			log.Printf("⚠️ LLM narration disabled: %v", err)
		} else {
			narrator = llm.NewNarrator(client)
			log.Printf("🤖 LLM narration via %s", cfg.LLMProvider)
		}
	}

	tools := mcpserver.NewFeedbackTools(svc, rx, narrator).
		WithConsole(net.JoinHostPort(cfg.EosHost, strconv.Itoa(cfg.EosPort))).
		WithReports(sched)
	server := mcpserver.NewServer(tools)

	log.Printf("🔗 Starting server on stdin/stdout...")
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("❌ Server failed: %v", err)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Printf("📈 Serving metrics on http://%s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("❌ Metrics server stopped: %v", err)
	}
}

// setupReports returns nil when reports are disabled or fail to start.
func setupReports(cfg *config.Config, svc *query.Service) *scheduler.Scheduler {
	if cfg.ReportPath == "" {
		return nil
	}
	sched, err := startReports(cfg, svc)
	if err != nil {
		log.Printf("❌ Insights reports disabled: %v", err)
		return nil
	}
	return sched
}

func startReports(cfg *config.Config, svc *query.Service) (*scheduler.Scheduler, error) {
	fr, err := storage.NewFileRecorder(cfg.ReportPath)
	if err != nil {
		return nil, err
	}
	var recorder storage.Recorder = fr
	log.Printf("🗂️ Archiving insights reports to %s", fr.Path())

	sched := scheduler.New(cfg.ReportSchedule)
	sched.SetReportFunction(func(ctx context.Context) error {
		rec, err := recorder.AppendReport(svc.Insights(cfg.ReportWindow))
		if err != nil {
			return fmt.Errorf("archive insights report: %w", err)
		}
		log.Printf("🗂️ Archived insights report %s (%d actions, %d errors)", rec.ID, rec.Report.TotalActions, rec.Report.ErrorCount)
		return nil
	})
	if err := sched.Start(); err != nil {
		return nil, err
	}
	return sched, nil
}
