package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	magnitudeInto(out, in)
	return out
}

// magnitudeInto writes |in[k]| to dst[k] for k < len(dst). Scratch buffers
// are pooled, so the per-frame spectrogram loop does not allocate.
func magnitudeInto(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(dst))
	for k := range dst {
		re[k] = real(in[k])
		im[k] = imag(in[k])
	}

	vecmath.Magnitude(dst, re, im)
	putScratch(buf)
}
