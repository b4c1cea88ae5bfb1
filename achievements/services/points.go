package services

import "hardware-distribution-backend/db/models"

type band struct {
	threshold float64
	points    int
}

var (
	accuracyBands = []band{{100, 100}, {95, 75}, {90, 50}, {80, 25}}
	volumeBands   = []band{{10000, 100}, {5000, 50}, {1000, 25}}
	speedBands    = []band{{30, 50}, {60, 25}}
	qualityBands  = []band{{95, 50}, {90, 25}}
)

func atLeast(value float64, bands []band) int {
	for _, b := range bands {
		if value >= b.threshold {
			return b.points
		}
	}
	return 0
}

func atMost(value float64, bands []band) int {
	for _, b := range bands {
		if value <= b.threshold {
			return b.points
		}
	}
	return 0
}

// CalculatePoints adds the four independent band lookups.
func CalculatePoints(perf models.ImportPerformance) int {
	return atLeast(perf.AccuracyPercentage, accuracyBands) +
		atLeast(float64(perf.ValidRows), volumeBands) +
		atMost(perf.ImportDuration, speedBands) +
		atLeast(perf.QualityScore, qualityBands)
}

type UserLevel struct {
	Name      string `json:"name"`
	MinPoints int    `json:"minPoints"`
}

var userLevels = []UserLevel{
	{"Diamond", 5000},
	{"Platinum", 2500},
	{"Gold", 1000},
	{"Silver", 500},
	{"Bronze", 0},
}

// LevelForPoints maps cumulative points to a named tier.
func LevelForPoints(points int) UserLevel {
	for _, l := range userLevels {
		if points >= l.MinPoints {
			return l
		}
	}
	return userLevels[len(userLevels)-1]
}

// NextLevelAt is the points needed for the next tier, or nil at the top.
func NextLevelAt(points int) *int {
	for i := len(userLevels) - 1; i >= 0; i-- {
		if userLevels[i].MinPoints > points {
			next := userLevels[i].MinPoints
			return &next
		}
	}
	return nil
}
