// Command awds detects whistlers in raw VLF sample files.
//
// Usage:
//
//	awds [flags] file ...
//
// Each file holds little-endian float32 samples. Files are cut into
// fixed-length segments which are analyzed in parallel; detections are
// printed as a table, or as JSON with -json.
//
// Examples:
//
//	awds -rate 40000 -L 2.1 orbit.f32
//	awds -config awds.yaml -db out/awds.sqlite -workers 4 *.f32
//	awds -json -metrics-addr :9100 orbit.f32
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwbudde/algo-whistler/internal/config"
	"github.com/cwbudde/algo-whistler/internal/store"
	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

func main() {
	cfgPath := flag.String("config", "", "YAML configuration file (defaults built in)")
	rate := flag.Float64("rate", 40000, "sample rate in Hz")
	shell := flag.Float64("L", 2, "McIlwain L-shell selecting the regime")
	segment := flag.Float64("segment", 0, "segment length in seconds (overrides config)")
	workers := flag.Int("workers", -1, "concurrent segments (overrides config; 0 = GOMAXPROCS)")
	asJSON := flag.Bool("json", false, "print detections as JSON")
	dbPath := flag.String("db", "", "store results in this SQLite file")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	verbose := flag.Bool("v", false, "log per-segment progress")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: awds [flags] file ...\n\n")
		fmt.Fprintf(os.Stderr, "Detects whistlers in little-endian float32 sample files.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("error: %v", err)
		}
	}
	if *segment > 0 {
		cfg.Batch.SegmentSeconds = *segment
	}
	if *workers >= 0 {
		cfg.Batch.Workers = *workers
	}

	pcfg, err := cfg.Pipeline()
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	regime, err := cfg.RegimeTable().Lookup(*shell)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	opts := []pipeline.Option{}
	if *verbose {
		opts = append(opts, pipeline.WithLogger(log.Default()))
	}
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, pipeline.WithMetrics(pipeline.NewMetrics(reg)))
		go serveMetrics(*metricsAddr, reg)
	}

	p, err := pipeline.New(pcfg, opts...)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	var db *store.Store
	if *dbPath != "" {
		if db, err = store.Open(context.Background(), *dbPath); err != nil {
			log.Fatalf("error: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	log.Printf("regime %s (L=%.2f): %.1f-%.1f kHz, nose %.1f kHz, D0 %d",
		regime.Name, *shell, regime.LowHz/1e3, regime.HighHz/1e3, regime.NoseHz/1e3, regime.D0)

	var reports []fileReport
	exit := 0
	for _, path := range flag.Args() {
		rep, err := runFile(ctx, p, db, path, *rate, regime, cfg.Batch)
		if err != nil {
			log.Printf("error: %s: %v", path, err)
			exit = 1
			continue
		}
		reports = append(reports, rep)
	}

	if *asJSON {
		err = writeJSON(os.Stdout, reports)
	} else {
		err = writeTable(os.Stdout, reports)
	}
	if err != nil {
		log.Printf("error: failed to write output: %v", err)
		exit = 1
	}

	stop()
	if err := db.Close(); err != nil {
		log.Printf("error: %v", err)
		exit = 1
	}
	os.Exit(exit)
}

func runFile(ctx context.Context, p *pipeline.Pipeline, db *store.Store, path string, rate float64, regime pipeline.Regime, batch config.BatchConfig) (fileReport, error) {
	samples, err := readSamples(path)
	if err != nil {
		return fileReport{}, err
	}

	segs := pipeline.Split(samples, rate, batch.SegmentSeconds)
	if len(segs) == 0 {
		return fileReport{}, errors.New("no segments")
	}
	for i := range segs {
		segs[i].Regime = regime
	}

	start := time.Now()
	results := p.Batch(ctx, segs, batch.Workers)
	source := filepath.Base(path)

	if db != nil {
		for _, r := range results {
			if err := db.SaveSegment(ctx, source, r); err != nil {
				return fileReport{}, err
			}
		}
	}

	rep := newFileReport(source, len(samples), results)
	log.Printf("%s: %s samples, %d segments, %d detections in %v",
		source, humanizeCount(len(samples)), len(segs), len(rep.Detections), time.Since(start).Round(time.Millisecond))
	return rep, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Printf("metrics on http://%s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("error: metrics server: %v", err)
	}
}
