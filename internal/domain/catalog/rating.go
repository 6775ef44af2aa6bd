package catalog

import "math"

// RatingStats summarizes the reviews of a service.
type RatingStats struct {
	ServiceID    int64       `json:"service_id"`
	Distribution map[int]int `json:"distribution"`
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
}

// NewRatingStats builds stats from star counts. Stars outside 1..5 are ignored
// and every star from 1 to 5 is present in Distribution.
func NewRatingStats(serviceID int64, counts map[int]int) RatingStats {
	dist := make(map[int]int, 5)
	total, sum := 0, 0
	for star := 1; star <= 5; star++ {
		n := counts[star]
		if n < 0 {
			n = 0
		}
		dist[star] = n
		total += n
		sum += star * n
	}

	var avg float64
	if total > 0 {
		avg = math.Round(float64(sum)/float64(total)*10) / 10
	}
	return RatingStats{ServiceID: serviceID, Distribution: dist, Count: total, Average: avg}
}
