package termview

import (
	"math"
	"sync"
)

type ringOffset struct {
	dx float64
	dy float64
}

type ringKey struct {
	r, cellW, cellH float64
}

// ringCache holds precomputed ring outlines; the ring radius is fixed for a
// run so this stays tiny. Surfaces on separate loops share it.
var (
	ringMu    sync.Mutex
	ringCache = map[ringKey][]ringOffset{}
)

// ringFootprint returns page-space offsets around a circle of radius r,
// spaced so consecutive points land roughly one cell apart.
func ringFootprint(r, cellW, cellH float64) []ringOffset {
	key := ringKey{r: r, cellW: cellW, cellH: cellH}
	ringMu.Lock()
	defer ringMu.Unlock()
	if fp, ok := ringCache[key]; ok {
		return fp
	}
	step := math.Min(cellW, cellH)
	n := int(math.Ceil(2 * math.Pi * r / step))
	if n < 8 {
		n = 8
	}
	fp := make([]ringOffset, 0, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		fp = append(fp, ringOffset{dx: r * math.Cos(angle), dy: r * math.Sin(angle)})
	}
	ringCache[key] = fp
	return fp
}
