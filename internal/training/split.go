package training

import (
	"math"
	"math/rand"
)

// Split holds the train and held-out partitions of an encoded dataset.
type Split struct {
	XTrain [][]float64
	YTrain []int
	XTest  [][]float64
	YTest  []int
}

// TrainTestSplit shuffles rows with a source seeded by seed and moves
// ceil(n * testRatio) of them to the held-out partition.
func TrainTestSplit(X [][]float64, y []int, testRatio float64, seed int64) Split {
	n := len(X)
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Ceil(float64(n) * testRatio))

	var s Split
	for i, idx := range indices {
		if i < nTest {
			s.XTest = append(s.XTest, X[idx])
			s.YTest = append(s.YTest, y[idx])
		} else {
			s.XTrain = append(s.XTrain, X[idx])
			s.YTrain = append(s.YTrain, y[idx])
		}
	}
	return s
}
