// Command kernelinfo prints the geometry of whistler dispersion kernels.
//
// Usage:
//
//	kernelinfo [flags] [D0 ...]
//
// Without arguments it prints the regime's reference kernel and the ends of
// its D0 search range.
//
// Examples:
//
//	kernelinfo -L 2.1
//	kernelinfo -regime higher 40 70 100
//	kernelinfo -rate 40000 -an 0.4 50
//	kernelinfo -list
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-whistler/dsp/whistler"
	"github.com/cwbudde/algo-whistler/internal/config"
	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

func main() {
	cfgPath := flag.String("config", "", "YAML configuration file (defaults built in)")
	rate := flag.Float64("rate", 40000, "sample rate in Hz")
	shell := flag.Float64("L", 2, "McIlwain L-shell selecting the regime")
	name := flag.String("regime", "", "regime name (overrides -L)")
	an := flag.Float64("an", math.NaN(), "normalized gyrofrequency (overrides config)")
	list := flag.Bool("list", false, "print the regime table")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kernelinfo [flags] [D0 ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints whistler kernel geometry for one regime.\n")
		fmt.Fprintf(os.Stderr, "Without D0 arguments, prints the reference kernel and the search range ends.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  kernelinfo -L 2.1\n")
		fmt.Fprintf(os.Stderr, "  kernelinfo -regime higher 40 70 100\n")
		fmt.Fprintf(os.Stderr, "  kernelinfo -list\n")
	}
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	table := cfg.RegimeTable()

	if *list {
		printList(table)
		return
	}

	regime, err := resolveRegime(table, *name, *shell)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	d0s, err := parseD0(flag.Args(), regime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	gyro := cfg.Model.An
	if !math.IsNaN(*an) {
		gyro = *an
	}

	band := gridBand(regime, *rate, cfg.Spectrogram.WindowLength, cfg.Spectrogram.TimeScale)
	model, err := whistler.New(band, whistler.WithAn(gyro))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("regime %s: %.1f-%.1f kHz, nose %.1f kHz, grid %.4f s x %.4f kHz, An %.2f\n\n",
		regime.Name, band.LowHz/1e3, band.HighHz/1e3, band.NoseHz/1e3, band.TimeRes, band.FreqResKHz, model.An())
	printKernels(model, d0s)
}

// gridBand returns the band a spectrogram of one frame-aligned second at
// rate would produce. Long recordings converge to the same grid.
func gridBand(r pipeline.Regime, rate float64, window int, timeScale float64) whistler.Band {
	bins := window/2 + 1
	freqRes := rate / 2 / 1e3 / float64(bins)
	timeRes := float64(window) / rate * timeScale

	return whistler.Band{
		TimeRes:    timeRes,
		FreqResKHz: freqRes,
		LowHz:      r.LowHz,
		HighHz:     r.HighHz,
		NoseHz:     r.NoseHz,
	}
}

func resolveRegime(table pipeline.RegimeTable, name string, L float64) (pipeline.Regime, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return table.Lookup(L)
	}
	for _, e := range table {
		if strings.ToLower(e.Name) == name {
			return e.Regime, nil
		}
	}
	return pipeline.Regime{}, fmt.Errorf("unknown regime %q (use -list to see available)", name)
}

func parseD0(args []string, r pipeline.Regime) ([]int, error) {
	if len(args) == 0 {
		return []int{r.D0Min, r.D0, r.D0Max}, nil
	}

	out := make([]int, 0, len(args))
	for _, a := range args {
		d, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("invalid D0 %q", a)
		}
		out = append(out, d)
	}
	return out, nil
}

func printList(table pipeline.RegimeTable) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Regime\tL below\tBand [kHz]\tNose [kHz]\tD0\tD0 range\n")
	fmt.Fprintf(tw, "------\t-------\t----------\t----------\t--\t--------\n")
	for _, e := range table {
		fmt.Fprintf(tw, "%s\t%g\t%.1f-%.1f\t%.1f\t%d\t%d-%d\n",
			e.Name, e.MaxL, e.LowHz/1e3, e.HighHz/1e3, e.NoseHz/1e3, e.D0, e.D0Min, e.D0Max)
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printKernels(model *whistler.Model, d0s []int) {
	timeRes := model.Band().TimeRes

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "D0\tRows\tCols\tDuration [s]\tLit\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "--\t----\t----\t------------\t---\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, d0 := range d0s {
		k, err := model.Kernel(d0)
		if err != nil {
			if _, err := fmt.Fprintf(tw, "%d\t-\t-\t-\t%v\n", d0, err); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
				return
			}
			continue
		}

		if _, err := fmt.Fprintf(tw, "%d\t%d\t%d\t%.3f\t%d\n",
			d0,
			k.Rows(),
			k.Cols(),
			k.Duration(timeRes),
			k.Lit(),
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
