/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package metrics

import "math"

const bytesPerGiB = 1024 * 1024 * 1024

// CalculateThroughput calculates upload and download rates in bytes per second
// from two cumulative counter snapshots.
// Formula: ΔBytes / Δt
// A counter that went backwards (interface reset, wrap) yields 0 for that direction.
func CalculateThroughput(prev, current NetCounters) (upload, download float64) {
	if prev.Timestamp.IsZero() {
		return 0.0, 0.0
	}

	deltaTime := current.Timestamp.Sub(prev.Timestamp).Seconds()
	if deltaTime <= 0 {
		return 0.0, 0.0
	}

	return counterRate(prev.BytesSent, current.BytesSent, deltaTime),
		counterRate(prev.BytesRecv, current.BytesRecv, deltaTime)
}

func counterRate(prev, current uint64, seconds float64) float64 {
	if current < prev {
		return 0.0
	}
	return float64(current-prev) / seconds
}

// CalculatePercent returns used/total as a percentage, 0 when total is 0.
func CalculatePercent(used, total uint64) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(used) / float64(total) * 100.0
}

// AverageCPU returns the mean of per-core percentages, NaN for no cores.
func AverageCPU(perCore []float64) float64 {
	if len(perCore) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range perCore {
		sum += v
	}
	return sum / float64(len(perCore))
}

// BytesToGiB converts a byte count to GiB.
func BytesToGiB(b uint64) float64 {
	return float64(b) / bytesPerGiB
}
