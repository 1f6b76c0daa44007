package regression

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/cpuid/v2"
	"k8s.io/klog/v2"
)

// CPU is the only device models can be trained on
const CPU = "cpu"

// Bounds on the evaluation batch sizes chosen by EvalBatchSize
const (
	minEvalBatch      = 16
	maxEvalBatch      = 1024
	fallbackEvalBatch = 32
)

var logDevice sync.Once

// checkDevice returns an error if device is not a supported device.
// The empty string selects the CPU.
func checkDevice(device string) error {
	if device != "" && strings.ToLower(device) != CPU {
		return fmt.Errorf("checkDevice: unsupported device %q, only %q "+
			"is available", device, CPU)
	}

	logDevice.Do(func() {
		klog.V(1).Infof("regression: training on %v (%d physical cores, "+
			"%d logical cores, %d byte L2 cache, AVX2: %v)",
			cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores,
			cpuid.CPU.LogicalCores, cpuid.CPU.Cache.L2,
			cpuid.CPU.Supports(cpuid.AVX2))
	})
	return nil
}

// EvalBatchSize returns an evaluation batch size for a network with
// the given hidden layers, such that the hidden activations of a batch
// fit in the L2 cache of the CPU
func EvalBatchSize(hiddenSizes []int) int {
	return evalBatchSize(cpuid.CPU.Cache.L2, hiddenSizes)
}

// evalBatchSize returns the number of rows of float64 hidden
// activations which fit in l2 bytes, clipped to [minEvalBatch,
// maxEvalBatch]. An unknown cache size gives fallbackEvalBatch.
func evalBatchSize(l2 int, hiddenSizes []int) int {
	if l2 <= 0 {
		return fallbackEvalBatch
	}
	row := 0
	for _, size := range hiddenSizes {
		row += size
	}
	if row < 1 {
		row = 1
	}

	batch := l2 / (8 * row)
	if batch < minEvalBatch {
		return minEvalBatch
	}
	if batch > maxEvalBatch {
		return maxEvalBatch
	}
	return batch
}
