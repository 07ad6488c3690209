package main

import "particlefield/internal/particles"

// devicePrefilterSlack widens the float32 device cut so pairs just under the
// threshold in float64 are never rejected by rounding on the device.
const devicePrefilterSlack = 1e-3

// devicePrefilter is the loose cut the device applies before the host makes
// the exact strict comparison.
func devicePrefilter(threshold float64) float32 {
	return float32(threshold + threshold*devicePrefilterSlack + devicePrefilterSlack)
}

// collectDeviceLinks keeps the pairs the device marked in range (dist[i*n+j]
// >= 0 for i < j) whose float64 distance is strictly below threshold.
func collectDeviceLinks(ps []particles.Particle, dist []float32, threshold float64, dst []particles.Link) []particles.Link {
	n := len(ps)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if dist[i*n+j] < 0 {
				continue
			}
			if d := particles.Dist(ps[i].Pos, ps[j].Pos); d < threshold {
				dst = append(dst, particles.Link{A: i, B: j, Dist: d})
			}
		}
	}
	return dst
}
