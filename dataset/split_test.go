package dataset

import (
	"testing"

	"gotest.tools/assert"
)

func numbered(n int) Dataset {
	ds := make(Dataset, n)
	for i := range ds {
		ds[i] = Sample{Pixels: []uint8{uint8(i)}, Label: i % 2}
	}
	return ds
}

func Test_Split(t *testing.T) {
	ds := numbered(20)
	train, test, err := ds.Split(0.25, 90)
	assert.NilError(t, err)
	assert.Assert(t, len(test) == 5)
	assert.Assert(t, len(train) == 15)
	seen := map[uint8]int{}
	for _, s := range train {
		seen[s.Pixels[0]]++
	}
	for _, s := range test {
		seen[s.Pixels[0]]++
	}
	// the subsets partition the dataset: every sample exactly once
	assert.Assert(t, len(seen) == 20)
	for _, c := range seen {
		assert.Assert(t, c == 1)
	}
}

func Test_SplitDeterminism(t *testing.T) {
	ds := numbered(17)
	train1, test1, err := ds.Split(0.3, 7)
	assert.NilError(t, err)
	train2, test2, err := ds.Split(0.3, 7)
	assert.NilError(t, err)
	assert.Assert(t, len(train1) == len(train2) && len(test1) == len(test2))
	for i := range test1 {
		assert.Assert(t, test1[i].Pixels[0] == test2[i].Pixels[0])
	}
	for i := range train1 {
		assert.Assert(t, train1[i].Pixels[0] == train2[i].Pixels[0])
	}
	_, test3, err := ds.Split(0.3, 8)
	assert.NilError(t, err)
	differs := len(test3) != len(test1)
	for i := 0; !differs && i < len(test1); i++ {
		differs = test1[i].Pixels[0] != test3[i].Pixels[0]
	}
	assert.Assert(t, differs)
}

func Test_SplitDegenerate(t *testing.T) {
	_, _, err := numbered(1).Split(0.25, 1)
	assert.Assert(t, err != nil)
	_, _, err = numbered(10).Split(0, 1)
	assert.Assert(t, err != nil)
	_, _, err = numbered(10).Split(1, 1)
	assert.Assert(t, err != nil)
	// tiny fractions still leave both subsets non-empty
	train, test, err := numbered(2).Split(0.01, 1)
	assert.NilError(t, err)
	assert.Assert(t, len(train) == 1 && len(test) == 1)
}
