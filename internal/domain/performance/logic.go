package performance

import "fmt"

func buildSummary(goals []Goal, ratings []float64) Summary {
	summary := Summary{
		GoalsTotal:         len(goals),
		ReviewsTotal:       len(ratings),
		RatingDistribution: map[string]int{},
	}
	var totalProgress float64
	for _, goal := range goals {
		totalProgress += goal.Progress
		if goal.Status == GoalStatusCompleted {
			summary.GoalsCompleted++
		}
	}
	if len(goals) > 0 {
		summary.AverageProgress = totalProgress / float64(len(goals))
	}
	for _, rating := range ratings {
		key := fmt.Sprintf("%d", int(rating+0.5))
		summary.RatingDistribution[key]++
	}
	return summary
}

func validRating(rating float64) bool {
	return rating >= 1 && rating <= 5
}

func validProgress(progress float64) bool {
	return progress >= 0 && progress <= 100
}
