package particles

// Link joins two particles, by index, that are closer than the link distance.
type Link struct {
	A, B int
	Dist float64
}

// LinkFinder reports every unordered pair of particles closer than threshold.
// Implementations append to dst and return the extended slice.
type LinkFinder interface {
	FindLinks(ps []Particle, threshold float64, dst []Link) ([]Link, error)
}

// PairwiseLinks is the CPU link finder: a straight scan over all pairs.
type PairwiseLinks struct{}

// FindLinks implements LinkFinder.
func (PairwiseLinks) FindLinks(ps []Particle, threshold float64, dst []Link) ([]Link, error) {
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			d := Dist(ps[i].Pos, ps[j].Pos)
			if d < threshold {
				dst = append(dst, Link{A: i, B: j, Dist: d})
			}
		}
	}
	return dst, nil
}

// LinkOpacity fades a link linearly from LinkBaseOpacity at distance 0 to 0
// at the threshold.
func LinkOpacity(d, threshold float64) float64 {
	if threshold <= 0 || d >= threshold {
		return 0
	}
	if d < 0 {
		d = 0
	}
	return (1 - d/threshold) * LinkBaseOpacity
}
