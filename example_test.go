package khorgosh_test

import (
	"fmt"

	khorgosh "github.com/TamimEhsan/khorgosh"
)

func Example() {
	codec, err := khorgosh.New(128, khorgosh.WithBits(4), khorgosh.WithSeed(42))
	if err != nil {
		panic(err)
	}

	vec := make([]float32, 128)
	for i := range vec {
		vec[i] = float32(i) / 128
	}

	ev, err := codec.Encode(vec)
	if err != nil {
		panic(err)
	}

	fmt.Println("packed bytes:", len(ev.Packed))
	fmt.Println("float32 bytes:", 4*len(vec))
	// Output:
	// packed bytes: 64
	// float32 bytes: 512
}

func Example_search() {
	codec, err := khorgosh.New(4, khorgosh.WithBits(8))
	if err != nil {
		panic(err)
	}

	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.9, 0.1, 0, 0},
	}
	encoded := make([]*khorgosh.EncodedVector, len(vectors))
	for i, v := range vectors {
		if encoded[i], err = codec.Encode(v); err != nil {
			panic(err)
		}
	}

	q, err := codec.EncodeQuery([]float32{1, 0, 0, 0})
	if err != nil {
		panic(err)
	}

	top, err := codec.Rank(q, encoded, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println("nearest id:", top[0].ID)
	// Output:
	// nearest id: 0
}
