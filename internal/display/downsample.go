package display

import (
	"math"

	"github.com/heliodash/heliodash/internal/series"
)

// Downsample reduces a day series to at most maxPoints samples using the
// Largest-Triangle-Three-Buckets algorithm, which keeps the visually
// significant points of the curve. A maxPoints of zero or less disables
// downsampling.
func Downsample(samples []series.Sample, maxPoints int) []series.Sample {
	if maxPoints <= 0 || len(samples) <= maxPoints {
		return samples
	}
	if maxPoints <= 2 {
		return []series.Sample{samples[0], samples[len(samples)-1]}
	}

	out := make([]series.Sample, 0, maxPoints)
	out = append(out, samples[0])

	// Bucket size excluding the fixed first and last points.
	bucketSize := float64(len(samples)-2) / float64(maxPoints-2)

	a := 0
	for i := 0; i < maxPoints-2; i++ {
		// Average of the next bucket, used as the third triangle vertex.
		avgStart := int(math.Floor(float64(i+1)*bucketSize)) + 1
		avgEnd := int(math.Floor(float64(i+2)*bucketSize)) + 1
		if avgEnd > len(samples) {
			avgEnd = len(samples)
		}
		avgX, avgY := 0.0, 0.0
		for j := avgStart; j < avgEnd; j++ {
			avgX += samples[j].Offset
			avgY += samples[j].Value
		}
		n := float64(avgEnd - avgStart)
		avgX /= n
		avgY /= n

		// Pick the point in the current bucket forming the largest
		// triangle with the previous pick and the next bucket average.
		rangeStart := int(math.Floor(float64(i)*bucketSize)) + 1
		rangeEnd := int(math.Floor(float64(i+1)*bucketSize)) + 1
		if rangeEnd > len(samples) {
			rangeEnd = len(samples)
		}

		maxArea := -1.0
		best := rangeStart
		for j := rangeStart; j < rangeEnd; j++ {
			area := math.Abs(
				(samples[a].Offset-avgX)*(samples[j].Value-samples[a].Value)-
					(samples[a].Offset-samples[j].Offset)*(avgY-samples[a].Value),
			) / 2
			if area > maxArea {
				maxArea = area
				best = j
			}
		}

		out = append(out, samples[best])
		a = best
	}

	out = append(out, samples[len(samples)-1])
	return out
}
