package main

// float64Source is the slice of *rand.Rand the audio path draws from.
type float64Source interface {
	Float64() float64
}

// whiteNoise fills n samples uniformly in [-1, 1).
func whiteNoise(n int, rnd float64Source) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = rnd.Float64()*2 - 1
	}
	return buf
}

// brownNoise integrates white noise with a leaky integrator,
// out[i] = (out[i-1] + leak*white) / (1+leak), and stores each sample
// multiplied by makeup. The recurrence runs on the unscaled value.
func brownNoise(n int, leak, makeup float64, rnd float64Source) []float64 {
	buf := make([]float64, n)
	last := 0.0
	for i := range buf {
		white := rnd.Float64()*2 - 1
		last = (last + leak*white) / (1 + leak)
		buf[i] = last * makeup
	}
	return buf
}
