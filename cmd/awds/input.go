package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// readSamples loads a file of little-endian float32 samples.
func readSamples(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeSamples(f)
}

func decodeSamples(r io.Reader) ([]float64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("input length %d is not a multiple of 4 bytes", len(raw))
	}

	out := make([]float64, len(raw)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:])))
	}
	return out, nil
}
