// Package chart turns a list of training sessions into a per-day series
// suitable for plotting.
//
// STRATEGY:
//  1. Bucket sessions by their UTC calendar date ("2025-01-03").
//  2. Average feeling, performance and rating inside each bucket.
//  3. Sort the buckets by date and keep only the most recent MaxDays.
//
// The function is pure: same input, same output, nothing is mutated.
package chart

import (
	"math"
	"sort"

	"github.com/sakif/training-journal/internal/model"
)

// MaxDays is how many distinct dates a series keeps.
const MaxDays = 30

// DateLayout is the bucket key format.
const DateLayout = "2006-01-02"

// Point is one day of the series. Scores are means rounded to one decimal.
type Point struct {
	Date        string  `json:"date"`
	Feeling     float64 `json:"feeling"`
	Performance float64 `json:"performance"`
	Rating      float64 `json:"rating"`
	Count       int     `json:"count"`
}

type totals struct {
	feeling, performance, rating, count int
}

// AggregateSessionsByDay groups sessions by UTC date and averages their
// scores. The result is ascending by date and holds at most MaxDays points.
func AggregateSessionsByDay(sessions []model.TrainingSession) []Point {
	buckets := make(map[string]*totals)
	for _, s := range sessions {
		day := s.Date.UTC().Format(DateLayout)
		t, ok := buckets[day]
		if !ok {
			t = &totals{}
			buckets[day] = t
		}
		t.feeling += s.Feeling
		t.performance += s.Performance
		t.rating += s.Rating
		t.count++
	}

	points := make([]Point, 0, len(buckets))
	for day, t := range buckets {
		n := float64(t.count)
		points = append(points, Point{
			Date:        day,
			Feeling:     round1(float64(t.feeling) / n),
			Performance: round1(float64(t.performance) / n),
			Rating:      round1(float64(t.rating) / n),
			Count:       t.count,
		})
	}

	// YYYY-MM-DD sorts lexically in date order.
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	if len(points) > MaxDays {
		points = points[len(points)-MaxDays:]
	}
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
