package image

import (
	"runtime"
	"sync"

	math "render-engine/math"
)

// ACESNarkowicz is Krzysztof Narkowicz's fitted approximation of the ACES
// filmic tone curve, applied per-channel (spec.md §4.8, GLOSSARY "Tone
// mapping").
func ACESNarkowicz(x float32) float32 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// LinearToGamma applies the engine's fixed gamma-2 approximation
// (sqrt(c)) used ahead of ACES tone mapping (spec.md §4.8).
func LinearToGamma(c math.Vec3) math.Vec3 {
	return c.Sqrt()
}

func toneMap(c math.Vec3) math.Vec3 {
	g := LinearToGamma(c)
	return math.Vec3{X: ACESNarkowicz(g.X), Y: ACESNarkowicz(g.Y), Z: ACESNarkowicz(g.Z)}
}

// quantize saturates c to [0,1] and converts to 8-bit, component-wise,
// matching ldr[i] = u8(c * 255) of spec.md §4.8 (property 2: equals
// floor(clamp(c,0,1)*255)).
func quantize(c math.Vec3) math.U8Vec3 {
	c = c.Clamp(0, 1)
	return math.U8Vec3{
		X: uint8(c.X * 255),
		Y: uint8(c.Y * 255),
		Z: uint8(c.Z * 255),
	}
}

// UpdateLDR recomputes the LDR buffer from the current radiance buffer,
// treating it as a single-sample accumulation (spec.md §4.8). filtered
// selects the ACES+gamma path; otherwise radiance is simply clamped.
// Idempotent given the same radiance buffer and flag (testable property
// 7): it only reads Radiance and writes LDR.
func (b *Buffer) UpdateLDR(filtered bool) {
	b.UpdateLDRSamples(filtered, 1)
}

// UpdateLDRSamples is UpdateLDR generalized to a running radiance sum
// accumulated over sampleCount samples: the displayed value is
// radiance[i]/sampleCount before tone mapping (spec.md §4.6 "running mean
// after S samples = radiance/S"). Parallelized over the full pixel range.
func (b *Buffer) UpdateLDRSamples(filtered bool, sampleCount uint32) {
	if sampleCount == 0 {
		sampleCount = 1
	}
	n := len(b.Radiance)
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		b.updateLDRRange(0, n, filtered, sampleCount)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			b.updateLDRRange(lo, hi, filtered, sampleCount)
		}(start, end)
	}
	wg.Wait()
}

func (b *Buffer) updateLDRRange(lo, hi int, filtered bool, sampleCount uint32) {
	inv := 1 / float32(sampleCount)
	for i := lo; i < hi; i++ {
		c := b.Radiance[i].Mul(inv)
		if filtered {
			c = toneMap(c)
		} else {
			c = c.Clamp(0, 1)
		}
		b.LDR[i] = quantize(c)
	}
}
