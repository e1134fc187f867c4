package utils

import (
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes differ by at most one and cover the range
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Bucket lookup
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				bn := pm.GetBucket(k)
				kMin, kMax := pm.GetBucketRange(bn)
				assert.True(t, k >= kMin && k < kMax)
			}
			assert.Equal(t, -1, pm.GetBucket(maxIndex))
			assert.Equal(t, -1, pm.GetBucket(-1))
			assert.Equal(t, maxIndex, pm.GetBucketDimension(-1))
		}
	}
	{ // Run visits every index once
		var (
			pm   = NewPartitionMap(4, 103)
			seen = make([]int, 103)
		)
		pm.Run(func(bn, kMin, kMax int) {
			for k := kMin; k < kMax; k++ {
				seen[k]++
			}
		})
		for k := range seen {
			assert.Equal(t, 1, seen[k])
		}
	}
}

func TestParallelDegree(t *testing.T) {
	assert.Equal(t, 3, ParallelDegree(3, 100))
	assert.Equal(t, 4, ParallelDegree(16, 4))
	assert.Equal(t, 1, ParallelDegree(0, 0))
	np := runtime.NumCPU()
	if np > 50 {
		np = 50
	}
	assert.Equal(t, np, ParallelDegree(0, 50))
}
