package monitoring

import "math"

func average(xs []float64) float64 {
	total := 0.0
	for _, v := range xs {
		total += v
	}
	return total / float64(len(xs))
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}

	mean := average(xs)
	var varianceSum float64
	for _, v := range xs {
		varianceSum += math.Pow(v-mean, 2)
	}

	return math.Sqrt(varianceSum / float64(len(xs)))
}
