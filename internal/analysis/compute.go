package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric names in the whole-activity metric table
const (
	MetricDuration      = "duration"       // seconds
	MetricDistance      = "distance"       // meters
	MetricAveragePower  = "average_power"  // watts, time weighted
	MetricMaxPower      = "max_power"      // watts
	MetricWork          = "work"           // kilojoules
	MetricElevationGain = "elevation_gain" // meters
)

// ComputeRideMetrics calculates the whole-activity metric table.
// Values that come out NaN or infinite are stored as 0.
func ComputeRideMetrics(s Series) Metrics {
	metrics := Metrics{}
	if s.Empty() {
		return metrics
	}

	metrics[MetricDuration] = s.End() - s.Begin()
	metrics[MetricDistance] = s.Samples[len(s.Samples)-1].Distance - s.Samples[0].Distance

	power := make([]float64, len(s.Samples))
	for i, p := range s.Samples {
		power[i] = p.Power
	}
	metrics[MetricMaxPower] = floats.Max(power)

	// each sample's power covers the time since the one before it
	if len(s.Samples) > 1 {
		weights := make([]float64, len(s.Samples)-1)
		for i := range weights {
			weights[i] = s.Samples[i+1].Time - s.Samples[i].Time
		}
		metrics[MetricAveragePower] = stat.Mean(power[1:], weights)
		metrics[MetricWork] = floats.Dot(power[1:], weights) / 1000
	}

	metrics[MetricElevationGain] = elevationGain(s.Samples)

	for name, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			metrics[name] = 0
		}
	}
	return metrics
}

// elevationGain sums every rise in altitude between consecutive samples
func elevationGain(samples []Sample) float64 {
	var gain float64
	for i := 1; i < len(samples); i++ {
		if d := samples[i].Altitude - samples[i-1].Altitude; d > 0 {
			gain += d
		}
	}
	return gain
}
