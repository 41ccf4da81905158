package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
)

func ExampleBlock() {
	b := buffer.New(2, 4)
	copy(b.Channels()[0], []float32{1, 2, 3, 4})

	b.Resize(2, 2)

	fmt.Println(b.Len(), b.Frames())
	fmt.Println(b.Channels()[1])

	// Output:
	// 2 2
	// [3 4]
}
