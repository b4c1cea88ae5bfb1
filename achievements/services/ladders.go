package services

import "hardware-distribution-backend/db/models"

const (
	minLevel = 1
	maxLevel = 5
)

type ladder struct {
	rungs         []float64
	lowerIsBetter bool
}

// Five rungs per type. Level is the number of rungs reached.
var ladders = map[models.AchievementType]ladder{
	models.AccuracyAchievement: {rungs: []float64{80, 90, 95, 98, 100}},
	models.VolumeAchievement:   {rungs: []float64{100, 1000, 5000, 10000, 50000}},
	models.StreakAchievement:   {rungs: []float64{3, 5, 10, 20, 50}},
	models.SpeedAchievement:    {rungs: []float64{120, 60, 30, 15, 10}, lowerIsBetter: true},
	models.QualityAchievement:  {rungs: []float64{70, 80, 90, 95, 100}},
}

// InitialTarget is the first rung of the type's ladder.
func InitialTarget(t models.AchievementType) float64 {
	l, ok := ladders[t]
	if !ok || len(l.rungs) == 0 {
		return 0
	}
	return l.rungs[0]
}

func (l ladder) reached(value float64, hasData bool) int {
	count := 0
	for _, rung := range l.rungs {
		if l.lowerIsBetter {
			if !hasData || value > rung {
				break
			}
		} else if value < rung {
			break
		}
		count++
	}
	return count
}

// applyLadder sets Level and TargetProgress from the row's tracked metric.
func applyLadder(p *models.UserAchievementProgress) {
	l, ok := ladders[p.AchievementType]
	if !ok || len(l.rungs) == 0 {
		return
	}
	value := metricValue(typeMetric[p.AchievementType], p)
	reached := l.reached(value, p.TotalImports > 0)

	level := reached
	if level < minLevel {
		level = minLevel
	}
	if level > maxLevel {
		level = maxLevel
	}
	p.Level = level

	if reached >= len(l.rungs) {
		p.TargetProgress = l.rungs[len(l.rungs)-1]
	} else {
		p.TargetProgress = l.rungs[reached]
	}
}
