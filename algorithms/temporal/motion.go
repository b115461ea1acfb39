package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultMotionThreshold is the default z-score threshold for flagging
// motion artifacts. It is a configurable default, not an algorithm-intrinsic
// constant.
const DefaultMotionThreshold = 2.0

// MotionDetector flags time points whose frame-to-frame intensity change is
// an outlier relative to the rest of the acquisition.
type MotionDetector struct {
	threshold float64
}

// NewMotionDetector creates a detector with the default threshold.
func NewMotionDetector() *MotionDetector {
	return &MotionDetector{threshold: DefaultMotionThreshold}
}

// NewMotionDetectorWithThreshold creates a detector with a custom z-score
// threshold.
func NewMotionDetectorWithThreshold(threshold float64) *MotionDetector {
	return &MotionDetector{threshold: threshold}
}

// Detect computes the first difference across time of the per-time-point
// across-voxel mean, standardizes it to z-scores, and returns the 0-based
// indices where |z| exceeds the threshold, in order. The input is not
// mutated. A flat series yields an empty result.
func (d *MotionDetector) Detect(ts [][]float64) []int {
	if len(ts) < 2 {
		return []int{}
	}

	meanCurve := meanAcrossVoxels(ts)
	diff := firstDifference(meanCurve)

	mean := stat.Mean(diff, nil)
	std := populationStd(diff, mean)
	if std == 0 || math.IsNaN(std) {
		return []int{}
	}

	frames := []int{}
	for i, v := range diff {
		if math.Abs((v-mean)/std) > d.threshold {
			frames = append(frames, i)
		}
	}
	return frames
}

// DetectCurve treats a single curve as a one-voxel series.
func (d *MotionDetector) DetectCurve(curve []float64) []int {
	ts := make([][]float64, len(curve))
	for t, v := range curve {
		ts[t] = []float64{v}
	}
	return d.Detect(ts)
}
