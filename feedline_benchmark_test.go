package feedline

import (
	"testing"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/operators"
)

func BenchmarkCastCPU(b *testing.B) {
	session, err := NewCPUSession()
	if err != nil {
		b.Fatal(err)
	}
	defer func() {
		if err := session.Destroy(); err != nil {
			b.Fatal(err)
		}
	}()

	cast, err := session.NewOperator("Cast", operators.Args{"dtype": dtypes.Float32})
	if err != nil {
		b.Fatal(err)
	}

	pixels := make([]uint8, 224*224*3)
	for i := range pixels {
		pixels[i] = uint8(i)
	}
	input, err := operators.NewContainerFrom(pixels, 224, 224, 3)
	if err != nil {
		b.Fatal(err)
	}
	ws := operators.NewWorkspace([]*operators.Container{input}, 1)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if err := cast.Run(ws); err != nil {
			b.Fatal(err)
		}
	}
}
