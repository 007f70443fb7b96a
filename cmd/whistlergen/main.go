// Command whistlergen writes synthetic VLF recordings for awds.
//
// Usage:
//
//	whistlergen [flags] onset ...
//
// Each onset (seconds) places one whistler of the selected regime into
// white noise. Output is little-endian float32.
//
// Examples:
//
//	whistlergen -o test.f32 2.5 7
//	whistlergen -L 3 -d0 80 -seconds 20 -o test.f32 4 12.5
//	whistlergen -peak 0.9 -o test.f32 3
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-whistler/dsp/signal"
	"github.com/cwbudde/algo-whistler/dsp/whistler"
	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

func main() {
	out := flag.String("o", "whistler.f32", "output file")
	rate := flag.Float64("rate", 40000, "sample rate in Hz")
	seconds := flag.Float64("seconds", 10, "recording length in seconds")
	noise := flag.Float64("noise", 0.1, "white noise amplitude")
	amp := flag.Float64("amp", 1, "whistler amplitude")
	shell := flag.Float64("L", 2, "McIlwain L-shell selecting the band")
	d0 := flag.Float64("d0", 0, "dispersion (0 = regime reference)")
	an := flag.Float64("an", whistler.DefaultAn, "normalized gyrofrequency")
	seed := flag.Int64("seed", 1, "noise seed")
	peak := flag.Float64("peak", 0, "scale output to this peak amplitude (0 = unscaled)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: whistlergen [flags] onset ...\n\n")
		fmt.Fprintf(os.Stderr, "Writes white noise with whistlers at the given onsets (seconds).\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	onsets, err := parseOnsets(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	regime, err := pipeline.DefaultRegimes().Lookup(*shell)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *d0 <= 0 {
		*d0 = float64(regime.D0)
	}

	g := signal.NewGenerator(*rate, signal.WithSeed(*seed))
	x, err := synthesize(g, int(math.Round(*seconds**rate)), *noise, onsets, signal.Whistler{
		D0:        *d0,
		An:        *an,
		LowHz:     regime.LowHz,
		HighHz:    regime.HighHz,
		NoseHz:    regime.NoseHz,
		Amplitude: *amp,
	}, *peak)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := writeFile(*out, x); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d samples at %.0f Hz, %d whistlers (%s, D0 %.0f)\n",
		*out, len(x), *rate, len(onsets), regime.Name, *d0)
}

func parseOnsets(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid onset %q", a)
		}
		out = append(out, v)
	}
	return out, nil
}

func synthesize(g *signal.Generator, samples int, noise float64, onsets []float64, w signal.Whistler, peak float64) ([]float64, error) {
	x, err := g.WhiteNoise(noise, samples)
	if err != nil {
		return nil, err
	}
	for _, t := range onsets {
		w.Onset = t
		y, err := g.Whistler(w, samples)
		if err != nil {
			return nil, err
		}
		floats.Add(x, y)
	}
	if peak > 0 {
		return signal.Normalize(x, peak)
	}
	return x, nil
}

func writeFile(path string, x []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeSamples(f, x); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeSamples(w io.Writer, x []float64) error {
	bw := bufio.NewWriter(w)
	var b [4]byte
	for _, v := range x {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
