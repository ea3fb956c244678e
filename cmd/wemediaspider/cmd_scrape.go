package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/vag-Zhao/WeMediaSpider/bodycache"
	"github.com/vag-Zhao/WeMediaSpider/config"
	"github.com/vag-Zhao/WeMediaSpider/httpclient"
	"github.com/vag-Zhao/WeMediaSpider/models"
	"github.com/vag-Zhao/WeMediaSpider/parser"
	"github.com/vag-Zhao/WeMediaSpider/pipeline"
	"github.com/vag-Zhao/WeMediaSpider/progressbus"
	"github.com/vag-Zhao/WeMediaSpider/scheduler"
	"github.com/vag-Zhao/WeMediaSpider/server"
	"github.com/vag-Zhao/WeMediaSpider/sessionstore"
	"github.com/vag-Zhao/WeMediaSpider/sink"
)

const dateLayout = "2006-01-02"

type cmdScrape struct {
	Publishers  []string `long:"publisher" required:"true" description:"Publisher display name; repeatable"`
	WindowStart string   `long:"window-start" required:"true" description:"YYYY-MM-DD, inclusive"`
	WindowEnd   string   `long:"window-end" required:"true" description:"YYYY-MM-DD, inclusive"`

	MaxPages    int `long:"max-pages" description:"Max appmsg pages per publisher (overrides config default)"`
	Concurrency int `long:"concurrency" description:"Max concurrent publisher pipelines (overrides config default)"`

	FetchBodies bool   `long:"fetch-bodies" description:"Fetch and parse each post's body"`
	Keyword     string `long:"keyword" description:"Keep only posts whose body contains this substring (implies --fetch-bodies)"`

	Output string `long:"output" required:"true" description:"Output file path"`
	Format string `long:"format" choice:"csv" choice:"json" default:"csv" description:"Output format"`

	Serve string `long:"serve" description:"Also start the observability HTTP surface at this address (e.g. 127.0.0.1:8080)"`
}

func (c *cmdScrape) Execute(_ []string) error {
	cfg := config.Load()
	initLogger(cfg.Log)

	batchCfg, err := c.buildBatchConfig(cfg)
	if err != nil {
		return err
	}

	store := sessionstore.New(ttlFromConfig(cfg))
	session, err := store.Load()
	if err != nil {
		return err
	}
	if session == nil {
		return models.NewSessionMissingError("no persisted session; run `decode` first")
	}

	client := httpclient.New(session, batchCfg.RequestIntervalSecs)

	if valid, err := store.ValidateLive(context.Background(), client, session); err != nil {
		return err
	} else if !valid {
		return models.NewAuthExpiredError("persisted session is no longer authenticated", nil)
	}

	bus := progressbus.New()
	if cfg.Webhook.URL != "" {
		bus.WithWebhook(cfg.Webhook.URL, cfg.Webhook.Secret)
	}

	var obsServer *server.Server
	var sink2 scheduler.EventSink = bus
	if c.Serve != "" {
		obsServer = server.New()
		sink2 = fanout{a: bus, b: obsServer}
	}

	p := parser.New()
	breakers := pipeline.NewBreakerRegistry()
	bodies := bodycache.New(10000, time.Hour)

	var sched *scheduler.Scheduler
	factory := func(displayName string) scheduler.Runner {
		return pipeline.New(client, p, batchCfg, breakers, sched, bodies)
	}
	sched = scheduler.New(batchCfg, factory, sink2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	trapSignals(cancel)

	if obsServer != nil {
		go func() {
			addr := c.Serve
			fmt.Printf("observability server listening on %s\n", addr)
			_ = obsServer.Router(cfg.Server.Mode).Run(addr)
		}()
	}

	records := sched.Run(ctx)
	cancelled := ctx.Err() != nil

	format := sink.FormatCSV
	if strings.EqualFold(c.Format, "json") {
		format = sink.FormatJSON
	}
	if err := sink.Write(c.Output, format, records); err != nil {
		return err
	}

	if cancelled {
		fmt.Println(color.New(color.FgYellow).Sprintf("cancelled; wrote %d partial records to %s", len(records), c.Output))
		return models.NewCancelledError()
	}

	fmt.Println(color.New(color.FgGreen).Sprintf("wrote %d records to %s", len(records), c.Output))
	return nil
}

func (c *cmdScrape) buildBatchConfig(cfg *config.Config) (*models.BatchConfig, error) {
	start, err := time.ParseInLocation(dateLayout, c.WindowStart, time.Local)
	if err != nil {
		return nil, models.NewValidationError("invalid --window-start", err)
	}
	end, err := time.ParseInLocation(dateLayout, c.WindowEnd, time.Local)
	if err != nil {
		return nil, models.NewValidationError("invalid --window-end", err)
	}

	maxPages := cfg.Batch.MaxPagesPerPublisher
	if c.MaxPages > 0 {
		maxPages = c.MaxPages
	}
	concurrency := cfg.Batch.MaxConcurrentPublishers
	if c.Concurrency > 0 {
		concurrency = c.Concurrency
	}

	batchCfg := &models.BatchConfig{
		Publishers:                        c.Publishers,
		WindowStart:                       start,
		WindowEnd:                         end,
		MaxPagesPerPublisher:              maxPages,
		RequestIntervalSecs:               cfg.Batch.RequestIntervalSecs,
		FetchBodies:                       c.FetchBodies || c.Keyword != "",
		BodyKeyword:                       c.Keyword,
		MaxConcurrentPublishers:           concurrency,
		MaxConcurrentRequestsPerPublisher: cfg.Batch.MaxConcurrentRequestsPerPublisher,
		OutputPath:                        c.Output,
	}
	if err := batchCfg.Validate(); err != nil {
		return nil, err
	}
	return batchCfg, nil
}

// fanout forwards one progress event to two sinks, so a batch run can
// feed both the webhook bus and the observability server at once.
type fanout struct {
	a, b scheduler.EventSink
}

func (f fanout) Emit(e models.ProgressEvent) {
	f.a.Emit(e)
	f.b.Emit(e)
}

func trapSignals(cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()
}
