// SPDX-License-Identifier: MIT
package builder_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/qudec/builder"
	"github.com/katalvlaran/qudec/dem"
)

func ExampleQuantize() {
	fmt.Println(builder.Quantize(0.01), builder.Quantize(0.1), builder.Quantize(0.5))
	// Output: 461 230 69
}

func ExampleBuild() {
	m, _ := dem.ParseModel(strings.NewReader(`
error(0.1) D0 D1 L0
error(0.2) D1 D0
error(0.05) D1
`))
	g, _ := builder.Build(m)
	for _, e := range g.Edges() {
		fmt.Printf("%d-%d p=%.2f w=%d obs=%v\n", e.U, e.V, e.Probability, e.Weight, e.Observables)
	}
	// Output:
	// 0-1 p=0.26 w=135 obs=[0]
	// 1-2 p=0.05 w=300 obs=[]
}
