package utils

import (
	"runtime"
	"sync"
)

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets whose sizes differ by at most one
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // [begin, end) of each bucket
}

func NewPartitionMap(parallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: parallelDegree,
		Partitions:     make([][2]int, parallelDegree),
	}
	var (
		size      = maxIndex / parallelDegree
		remainder = maxIndex % parallelDegree
		begin     int
	)
	for bn := range pm.Partitions {
		end := begin + size
		if bn < remainder { // the first buckets take one extra item each
			end++
		}
		pm.Partitions[bn] = [2]int{begin, end}
		begin = end
	}
	return
}

// ParallelDegree picks the number of goroutines for maxIndex independent work
// items, procLimit = 0 uses every CPU
func ParallelDegree(procLimit, maxIndex int) (np int) {
	np = procLimit
	if np <= 0 {
		np = runtime.NumCPU()
	}
	if np > maxIndex {
		np = maxIndex
	}
	if np < 1 {
		np = 1
	}
	return
}

// GetBucket returns the bucket holding k, or -1 when k is out of range
func (pm *PartitionMap) GetBucket(k int) (bn int) {
	if k < 0 || k >= pm.MaxIndex {
		return -1
	}
	bn = pm.ParallelDegree * k / pm.MaxIndex
	for k < pm.Partitions[bn][0] {
		bn--
	}
	for k >= pm.Partitions[bn][1] {
		bn++
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bn int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bn][0], pm.Partitions[bn][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) int {
	if bn == -1 {
		return pm.MaxIndex
	}
	kMin, kMax := pm.GetBucketRange(bn)
	return kMax - kMin
}

// Run calls fn once per bucket, each on its own goroutine, and returns when
// all of them have finished
func (pm *PartitionMap) Run(fn func(bn, kMin, kMax int)) {
	var wg sync.WaitGroup
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		wg.Add(1)
		go func(bn int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(bn)
			fn(bn, kMin, kMax)
		}(bn)
	}
	wg.Wait()
}
