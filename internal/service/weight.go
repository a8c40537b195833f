package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeightLog returns the body mass measured on or before a date, 0 if none
type WeightLog interface {
	WeightOn(date time.Time) (float64, error)
}

// BodyMass resolves the athlete's weight for a ride in kg.
//
// The weight log wins, then the ride's Weight tag, then the configured
// weight. A non-positive result falls back to FallbackWeightKG.
func BodyMass(log WeightLog, date time.Time, tags map[string]string, configured float64) (float64, error) {
	var kg float64
	if log != nil {
		w, err := log.WeightOn(date)
		if err != nil {
			return 0, fmt.Errorf("reading weight log: %w", err)
		}
		kg = w
	}

	if kg <= 0 {
		if v, ok := tags[WeightTag]; ok {
			if w, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				kg = w
			}
		}
	}

	if kg <= 0 {
		kg = configured
	}
	if kg <= 0 {
		kg = FallbackWeightKG
	}
	return kg, nil
}
