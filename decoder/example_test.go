package decoder_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/qudec/builder"
	"github.com/katalvlaran/qudec/decoder"
	"github.com/katalvlaran/qudec/dem"
)

func ExampleGlobal() {
	m, _ := dem.ParseModel(strings.NewReader(`
error(0.01) D0 D1 L0
error(0.02) D0
error(0.02) D1 L1
`))
	g, _ := builder.Build(m)
	d, _ := decoder.NewGlobal(g)

	for _, dets := range [][]int{{0, 1}, {0}, {1}} {
		res, _ := d.Decode(dets, nil)
		fmt.Println(dets, "->", res)
	}
	// Output:
	// [0 1] -> [0]
	// [0] -> []
	// [1] -> [1]
}
