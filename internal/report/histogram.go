package report

import (
	"math"
	"time"

	"github.com/stackmuncher/stm-app/pkg/alg/stats"
)

const hoursPerDay = 24

// recentWindowDays bounds histogram_recent to commits within the last
// year of the report's generation time.
const recentWindowDays = 365

// tzOverlapStart and tzOverlapEnd bound the "working hours" window the
// timezone-overlap vector counts against, in the offset-rotated bucket
// order: [08, 17).
const (
	tzOverlapStart = 8
	tzOverlapEnd   = 17
)

// Histogram is a 24-bucket hour-of-day distribution with its summary
// statistics and percentage conversion.
type Histogram struct {
	Buckets     [hoursPerDay]int `json:"buckets"`
	Percentages [hoursPerDay]int `json:"percentages"`
	Sum         int              `json:"sum"`
	Mean        float64          `json:"mean"`
	StdDev      float64          `json:"std_dev"`
	TZOverlap   [hoursPerDay]int `json:"tz_overlap"`
}

// BuildHistograms classifies commitEpochs (UTC unix seconds) into the
// recent (last 365 days of now) and all-time hour-of-day histograms.
func BuildHistograms(commitEpochs []int64, now time.Time) (recent, all Histogram) {
	cutoff := now.Add(-recentWindowDays * 24 * time.Hour).Unix()

	var recentBuckets, allBuckets [hoursPerDay]int

	for _, epoch := range commitEpochs {
		hour := time.Unix(epoch, 0).UTC().Hour()
		allBuckets[hour]++

		if epoch >= cutoff {
			recentBuckets[hour]++
		}
	}

	return buildHistogram(recentBuckets), buildHistogram(allBuckets)
}

func buildHistogram(buckets [hoursPerDay]int) Histogram {
	h := Histogram{Buckets: buckets}

	sum := 0
	for _, c := range buckets {
		sum += c
	}

	h.Sum = sum
	h.Mean = float64(sum) / float64(hoursPerDay)

	floats := make([]float64, hoursPerDay)
	for i, c := range buckets {
		floats[i] = float64(c)
	}

	_, h.StdDev = stats.MeanStdDev(floats)

	if sum > 0 {
		for i, c := range buckets {
			h.Percentages[i] = int(math.Round(float64(c) * 100 / float64(sum)))
		}
	}

	// Timezone overlap: for every hypothetical offset tz in 0..24, count
	// how many hours in the rotated [08,17) working-hours window have a
	// raw bucket count strictly greater than the standard deviation. All
	// 24 offsets are computed here, including tz=23, which the original
	// range-off-by-one left permanently zero.
	for tz := 0; tz < hoursPerDay; tz++ {
		count := 0

		for hour := tzOverlapStart; hour < tzOverlapEnd; hour++ {
			rotated := (hour + tz) % hoursPerDay
			if float64(buckets[rotated]) > h.StdDev {
				count++
			}
		}

		h.TZOverlap[tz] = count
	}

	return h
}
