package performance

import "testing"

func TestBuildSummary(t *testing.T) {
	goals := []Goal{
		{Status: GoalStatusCompleted, Progress: 100},
		{Status: GoalStatusActive, Progress: 40},
		{Status: GoalStatusActive, Progress: 10},
	}
	summary := buildSummary(goals, []float64{3.2, 3.7, 4.9})

	if summary.GoalsTotal != 3 || summary.GoalsCompleted != 1 {
		t.Fatalf("goals summary = %+v", summary)
	}
	if summary.AverageProgress != 50 {
		t.Fatalf("average progress = %v, want 50", summary.AverageProgress)
	}
	if summary.RatingDistribution["3"] != 1 || summary.RatingDistribution["4"] != 1 || summary.RatingDistribution["5"] != 1 {
		t.Fatalf("rating distribution = %+v", summary.RatingDistribution)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := buildSummary(nil, nil)
	if summary.AverageProgress != 0 || summary.GoalsTotal != 0 {
		t.Fatalf("empty summary = %+v", summary)
	}
	if len(summary.RatingDistribution) != 0 {
		t.Fatalf("expected empty distribution, got %+v", summary.RatingDistribution)
	}
}

func TestRatingAndProgressBounds(t *testing.T) {
	if validRating(0.5) || validRating(5.1) {
		t.Fatal("out-of-range rating accepted")
	}
	if !validRating(1) || !validRating(5) {
		t.Fatal("boundary rating rejected")
	}
	if validProgress(-1) || validProgress(101) {
		t.Fatal("out-of-range progress accepted")
	}
	if !validProgress(0) || !validProgress(100) {
		t.Fatal("boundary progress rejected")
	}
}
