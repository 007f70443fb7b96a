package pipeline_test

import (
	"fmt"

	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

func ExampleRegimeTable_Lookup() {
	table := pipeline.DefaultRegimes()
	for _, L := range []float64{1.2, 2.0, 3.1, 5.0} {
		r, err := table.Lookup(L)
		if err != nil {
			panic(err)
		}
		fmt.Printf("L=%.1f %s %.1f-%.1f kHz D0=%d\n", L, r.Name, r.LowHz/1e3, r.HighHz/1e3, r.D0)
	}
	// Output:
	// L=1.2 low 4.5-11.5 kHz D0=10
	// L=2.0 mid 4.5-11.5 kHz D0=50
	// L=3.1 higher 4.0-10.0 kHz D0=70
	// L=5.0 very-high 4.0-8.0 kHz D0=65
}

func ExampleSplit() {
	segs := pipeline.Split(make([]float64, 25600*25), 25600, pipeline.DefaultSegmentSeconds)
	for _, s := range segs {
		fmt.Printf("#%d at %.0f s, %.1f s long\n", s.Index, s.Offset, s.Duration())
	}
	// Output:
	// #0 at 0 s, 10.0 s long
	// #1 at 10 s, 10.0 s long
	// #2 at 20 s, 5.0 s long
}
