package main

import "math"

// grainParams parameterises one grain/grade pass.
type grainParams struct {
	seed      float64
	scale     float64
	intensity float64
}

// grainHash is the fractional part of a scaled sine, sign preserved.
func grainHash(x float64) float64 {
	return math.Mod(math.Sin(x*127.1)*43758.5453, 1)
}

// grainSeedPhase reduces the seed's contribution to the hash angle modulo 2π
// in float64. The seed reaches six digits, where a float32 cannot represent
// the per-frame increment; the OpenCL kernel adds this phase instead.
func grainSeedPhase(seed float64) float32 {
	phase := math.Mod(seed*127.1, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	return float32(phase)
}

// valueNoise is smoothstep-interpolated lattice noise at (nx, ny).
func valueNoise(nx, ny, seed float64) float64 {
	fi, fj := math.Floor(nx), math.Floor(ny)
	fx, fy := nx-fi, ny-fj
	a := grainHash(fi*12.9898 + fj*78.233 + seed)
	b := grainHash((fi+1)*12.9898 + fj*78.233 + seed)
	c := grainHash(fi*12.9898 + (fj+1)*78.233 + seed)
	d := grainHash((fi+1)*12.9898 + (fj+1)*78.233 + seed)
	u := fx * fx * (3 - 2*fx)
	v := fy * fy * (3 - 2*fy)
	return lerp(lerp(a, b, u), lerp(c, d, u), v)
}

func luma(r, g, b float64) float64 {
	return r*lumaR + g*lumaG + b*lumaB
}

// gradePixel desaturates towards a green tint and adds the noise offset n.
func gradePixel(r, g, b uint8, n float64) (uint8, uint8, uint8) {
	gray := luma(float64(r), float64(g), float64(b))
	return clampByte(gray*0.9 + n*0.6), clampByte(gray + 6 + n), clampByte(gray*0.9 + n*0.4)
}

// grainRows grades rows [y0, y1) of an RGBA buffer in place.
func grainRows(pix []byte, stride, w, y0, y1 int, p grainParams) {
	for y := y0; y < y1; y++ {
		row := pix[y*stride:]
		ny := float64(y) * p.scale
		for x := 0; x < w; x++ {
			n := (valueNoise(float64(x)*p.scale, ny, p.seed) - 0.5) * p.intensity
			i := x * 4
			row[i], row[i+1], row[i+2] = gradePixel(row[i], row[i+1], row[i+2], n)
			row[i+3] = 255
		}
	}
}

// grainPass is implemented by the CPU pool and the optional OpenCL backend.
type grainPass interface {
	Apply(c *canvas, p grainParams) error
	Name() string
	Close()
}

// cpuGrain spreads grainRows across row bands.
type cpuGrain struct {
	workers int
}

func (g *cpuGrain) Apply(c *canvas, p grainParams) error {
	bands := assignRowBands(g.workers, c.h)
	runBands(bands, func(b rowBand) {
		grainRows(c.img.Pix, c.img.Stride, c.w, b.y0, b.y1, p)
	})
	return nil
}

func (g *cpuGrain) Name() string { return "cpu" }

func (g *cpuGrain) Close() {}
