// Package config loads the YAML configuration of the awds command.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-whistler/dsp/cfar"
	"github.com/cwbudde/algo-whistler/measure/detect"
	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

// Config is the file model. Fields left out of a file keep their defaults.
type Config struct {
	Spectrogram  SpectrogramConfig  `yaml:"spectrogram"`
	Model        ModelConfig        `yaml:"model"`
	CFAR         CFARConfig         `yaml:"cfar"`
	Localization LocalizationConfig `yaml:"localization"`
	Fit          FitConfig          `yaml:"fit"`
	Batch        BatchConfig        `yaml:"batch"`
	Regimes      []RegimeConfig     `yaml:"regimes"`
}

// SpectrogramConfig controls the STFT.
type SpectrogramConfig struct {
	WindowLength int     `yaml:"window_length"`
	TimeScale    float64 `yaml:"time_scale"` // 2 reproduces the AWDA batch timing
}

// ModelConfig controls kernel rendering.
type ModelConfig struct {
	An float64 `yaml:"an"`
}

// CFARConfig selects the estimator and its window.
type CFARConfig struct {
	Method string  `yaml:"method"` // ca, os, tm or fusion
	N      int     `yaml:"n"`
	G      int     `yaml:"g"`
	T1     int     `yaml:"t1"`
	T2     int     `yaml:"t2"`
	XdB    float64 `yaml:"x_db"`
}

// LocalizationConfig controls candidate filtering.
type LocalizationConfig struct {
	Threshold float64 `yaml:"threshold"` // dB
	Decimals  int     `yaml:"decimals"`
}

// FitConfig controls the D0 search.
type FitConfig struct {
	Strategy    string  `yaml:"strategy"` // exhaustive or bucketed
	Buckets     int     `yaml:"buckets"`
	Window      float64 `yaml:"window"` // seconds
	D0Min       int     `yaml:"d0_min"`
	D0Max       int     `yaml:"d0_max"`
	RegimeRange bool    `yaml:"regime_range"`
	Workers     int     `yaml:"workers"`
}

// BatchConfig controls segmenting and parallelism across segments.
type BatchConfig struct {
	SegmentSeconds float64 `yaml:"segment_seconds"`
	Workers        int     `yaml:"workers"` // 0 means GOMAXPROCS
}

// RegimeConfig is one row of the magnetic-latitude table. A zero MaxL on
// the last row means unbounded.
type RegimeConfig struct {
	Name   string  `yaml:"name"`
	MaxL   float64 `yaml:"max_l"`
	LowHz  float64 `yaml:"low_hz"`
	HighHz float64 `yaml:"high_hz"`
	NoseHz float64 `yaml:"nose_hz"`
	D0     int     `yaml:"d0"`
	D0Min  int     `yaml:"d0_min"`
	D0Max  int     `yaml:"d0_max"`
}

// Default returns the built-in configuration, equal to
// pipeline.DefaultConfig and pipeline.DefaultRegimes.
func Default() *Config {
	p := pipeline.DefaultConfig()

	regimes := pipeline.DefaultRegimes()
	rc := make([]RegimeConfig, len(regimes))
	for i, e := range regimes {
		maxL := e.MaxL
		if math.IsInf(maxL, 1) {
			maxL = 0
		}
		rc[i] = RegimeConfig{
			Name:   e.Name,
			MaxL:   maxL,
			LowHz:  e.LowHz,
			HighHz: e.HighHz,
			NoseHz: e.NoseHz,
			D0:     e.D0,
			D0Min:  e.D0Min,
			D0Max:  e.D0Max,
		}
	}

	return &Config{
		Spectrogram: SpectrogramConfig{WindowLength: p.WindowLength, TimeScale: p.TimeScale},
		Model:       ModelConfig{An: p.An},
		CFAR: CFARConfig{
			Method: p.Method.String(),
			N:      p.CFAR.N,
			G:      p.CFAR.G,
			T1:     p.CFAR.T1,
			T2:     p.CFAR.T2,
			XdB:    p.CFAR.XdB,
		},
		Localization: LocalizationConfig{Threshold: p.Threshold, Decimals: p.Decimals},
		Fit: FitConfig{
			Strategy:    p.Strategy.String(),
			Buckets:     p.Buckets,
			Window:      p.FitWindow,
			D0Min:       p.D0Min,
			D0Max:       p.D0Max,
			RegimeRange: p.RegimeRange,
			Workers:     p.FitWorkers,
		},
		Batch:   BatchConfig{SegmentSeconds: pipeline.DefaultSegmentSeconds},
		Regimes: rc,
	}
}

// Load reads and validates a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays YAML data on Default and validates the result. A regimes
// list in data replaces the default table.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.Pipeline(); err != nil {
		return err
	}
	if err := c.RegimeTable().Validate(); err != nil {
		return fmt.Errorf("config: regimes: %w", err)
	}
	if !(c.Batch.SegmentSeconds > 0) || math.IsInf(c.Batch.SegmentSeconds, 0) {
		return fmt.Errorf("config: batch.segment_seconds must be positive, got %v", c.Batch.SegmentSeconds)
	}
	return nil
}

// Pipeline converts the detection sections to a validated pipeline.Config.
func (c *Config) Pipeline() (pipeline.Config, error) {
	method, err := cfar.ParseMethod(c.CFAR.Method)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("config: cfar.method: %w", err)
	}

	strategy, err := detect.ParseStrategy(c.Fit.Strategy)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("config: fit.strategy: %w", err)
	}

	p := pipeline.Config{
		WindowLength: c.Spectrogram.WindowLength,
		TimeScale:    c.Spectrogram.TimeScale,
		An:           c.Model.An,
		Method:       method,
		CFAR: cfar.Params{
			N:   c.CFAR.N,
			G:   c.CFAR.G,
			T1:  c.CFAR.T1,
			T2:  c.CFAR.T2,
			XdB: c.CFAR.XdB,
		},
		Threshold:   c.Localization.Threshold,
		Decimals:    c.Localization.Decimals,
		Strategy:    strategy,
		Buckets:     c.Fit.Buckets,
		FitWindow:   c.Fit.Window,
		D0Min:       c.Fit.D0Min,
		D0Max:       c.Fit.D0Max,
		RegimeRange: c.Fit.RegimeRange,
		FitWorkers:  c.Fit.Workers,
	}
	if err := p.Validate(); err != nil {
		return pipeline.Config{}, fmt.Errorf("config: %w", err)
	}
	return p, nil
}

// RegimeTable converts the regime rows. The last row's zero MaxL becomes
// +Inf.
func (c *Config) RegimeTable() pipeline.RegimeTable {
	t := make(pipeline.RegimeTable, len(c.Regimes))
	for i, r := range c.Regimes {
		maxL := r.MaxL
		if i == len(c.Regimes)-1 && maxL == 0 {
			maxL = math.Inf(1)
		}
		t[i] = pipeline.RegimeEntry{
			MaxL: maxL,
			Regime: pipeline.Regime{
				Name:   r.Name,
				LowHz:  r.LowHz,
				HighHz: r.HighHz,
				NoseHz: r.NoseHz,
				D0:     r.D0,
				D0Min:  r.D0Min,
				D0Max:  r.D0Max,
			},
		}
	}
	return t
}
