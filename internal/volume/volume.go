// Package volume resolves a product's annual origination schedule.
package volume

import "credit-engine/internal/model"

// Resolve returns the ten annual origination volumes for a product. An explicit
// volume array wins over the y1/y10 interpolation.
func Resolve(p *model.Product) [model.Years]float64 {
	var out [model.Years]float64

	if len(p.VolumeArray) > 0 {
		copy(out[:], p.VolumeArray)
	} else {
		y1, y10 := p.Volumes.Y1, p.Volumes.Y10
		for i := range out {
			out[i] = y1 + (y10-y1)*float64(i)/float64(model.Years-1)
		}
	}

	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}
	return out
}
