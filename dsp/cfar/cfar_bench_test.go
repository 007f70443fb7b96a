package cfar

import (
	"testing"

	"github.com/cwbudde/algo-whistler/internal/testutil"
)

func BenchmarkPulse(b *testing.B) {
	trace := testutil.DeterministicNoise(1, 1, 4096)
	p := DefaultParams()

	for _, m := range []Method{MethodCA, MethodOS, MethodTM, MethodFusion} {
		b.Run(m.String(), func(b *testing.B) {
			for range b.N {
				if _, err := Pulse(trace, m, p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
