package dataset

import (
	"math"
	"math/rand"

	"go-ml.dev/pkg/zorros"
)

/*
Split partitions the dataset into train and test subsets by a seeded
uniform permutation of sample indices. round(testSize*n) samples go to
test, the rest to train; the same seed and input always produce the
same partition. No stratification by label is performed.
*/
func (d Dataset) Split(testSize float64, seed int64) (train, test Dataset, err error) {
	n := len(d)
	if n < 2 {
		return nil, nil, zorros.Errorf("can't split dataset of %v samples", n)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, zorros.Errorf("test size %v is out of the interval (0,1)", testSize)
	}
	k := int(math.Round(testSize * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n-1 {
		k = n - 1
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = make(Dataset, 0, k)
	train = make(Dataset, 0, n-k)
	for _, i := range perm[:k] {
		test = append(test, d[i])
	}
	for _, i := range perm[k:] {
		train = append(train, d[i])
	}
	return
}
