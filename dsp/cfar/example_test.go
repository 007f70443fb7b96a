package cfar_test

import (
	"fmt"

	"github.com/cwbudde/algo-whistler/dsp/cfar"
)

func ExamplePulse() {
	trace := make([]float64, 60)
	for i := range trace {
		trace[i] = 1
	}
	trace[30] = 12

	pulses, err := cfar.Pulse(trace, cfar.MethodFusion, cfar.DefaultParams())
	if err != nil {
		fmt.Println(err)
		return
	}

	for i, p := range pulses {
		if p {
			fmt.Println("pulse at", i)
		}
	}
	// Output:
	// pulse at 30
}
