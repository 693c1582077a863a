//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

const grainKernelSource = `float grain_hash(float lattice, float phase)
{
    return fmod(sin(fmod(lattice * 127.1f, 6.2831853f) + phase) * 43758.5453f, 1.0f);
}

float value_noise(float nx, float ny, float phase)
{
    float fi = floor(nx);
    float fj = floor(ny);
    float fx = nx - fi;
    float fy = ny - fj;
    float a = grain_hash(fi * 12.9898f + fj * 78.233f, phase);
    float b = grain_hash((fi + 1.0f) * 12.9898f + fj * 78.233f, phase);
    float c = grain_hash(fi * 12.9898f + (fj + 1.0f) * 78.233f, phase);
    float d = grain_hash((fi + 1.0f) * 12.9898f + (fj + 1.0f) * 78.233f, phase);
    float u = fx * fx * (3.0f - 2.0f * fx);
    float v = fy * fy * (3.0f - 2.0f * fy);
    return mix(mix(a, b, u), mix(c, d, u), v);
}

__kernel void grain_grade(
    const int width,
    const int height,
    const float phase,
    const float scale,
    const float intensity,
    __global uchar* pix)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    float n = (value_noise(x * scale, y * scale, phase) - 0.5f) * intensity;
    int base = idx * 4;
    float gray = pix[base] * 0.30f + pix[base + 1] * 0.59f + pix[base + 2] * 0.11f;
    pix[base] = convert_uchar_sat_rte(gray * 0.9f + n * 0.6f);
    pix[base + 1] = convert_uchar_sat_rte(gray + 6.0f + n);
    pix[base + 2] = convert_uchar_sat_rte(gray * 0.9f + n * 0.4f);
    pix[base + 3] = 255;
}`

type openCLGrain struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	pixBuf     *cl.MemObject
	width      int
	height     int
	deviceName string
}

func pickOpenCLDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func newOpenCLGrain(width, height int) (grainPass, error) {
	device, err := pickOpenCLDevice()
	if err != nil {
		return nil, err
	}
	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	g := &openCLGrain{context: context, deviceName: device.Name()}
	if g.queue, err = context.CreateCommandQueue(device, 0); err != nil {
		g.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if g.program, err = context.CreateProgramWithSource([]string{grainKernelSource}); err != nil {
		g.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := g.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		g.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if g.kernel, err = g.program.CreateKernel("grain_grade"); err != nil {
		g.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	if err := g.ensureBuffer(width, height); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// ensureBuffer reallocates the device pixel buffer after a resize.
func (g *openCLGrain) ensureBuffer(width, height int) error {
	if g.pixBuf != nil && width == g.width && height == g.height {
		return nil
	}
	if g.pixBuf != nil {
		g.pixBuf.Release()
		g.pixBuf = nil
	}
	buf, err := g.context.CreateEmptyBuffer(cl.MemReadWrite, width*height*4)
	if err != nil {
		return fmt.Errorf("allocating pixel buffer: %w", err)
	}
	g.pixBuf, g.width, g.height = buf, width, height
	return nil
}

func (g *openCLGrain) Apply(c *canvas, p grainParams) error {
	if err := g.ensureBuffer(c.w, c.h); err != nil {
		return err
	}
	pix := c.img.Pix
	byteLen := len(pix)
	ptr := unsafe.Pointer(&pix[0])
	if _, err := g.queue.EnqueueWriteBuffer(g.pixBuf, false, 0, byteLen, ptr, nil); err != nil {
		return fmt.Errorf("writing pixel buffer: %w", err)
	}
	if err := g.kernel.SetArgs(
		int32(c.w),
		int32(c.h),
		grainSeedPhase(p.seed),
		float32(p.scale),
		float32(p.intensity),
		g.pixBuf,
	); err != nil {
		return fmt.Errorf("setting grain kernel arguments: %w", err)
	}
	if _, err := g.queue.EnqueueNDRangeKernel(g.kernel, nil, []int{c.w * c.h}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing grain kernel: %w", err)
	}
	if _, err := g.queue.EnqueueReadBuffer(g.pixBuf, true, 0, byteLen, ptr, nil); err != nil {
		return fmt.Errorf("reading pixel buffer: %w", err)
	}
	return nil
}

func (g *openCLGrain) Name() string { return "opencl:" + g.deviceName }

func (g *openCLGrain) Close() {
	if g.pixBuf != nil {
		g.pixBuf.Release()
		g.pixBuf = nil
	}
	if g.kernel != nil {
		g.kernel.Release()
		g.kernel = nil
	}
	if g.program != nil {
		g.program.Release()
		g.program = nil
	}
	if g.queue != nil {
		g.queue.Release()
		g.queue = nil
	}
	if g.context != nil {
		g.context.Release()
		g.context = nil
	}
}

func listOpenCLDevices() ([]openCLDeviceInfo, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, fmt.Errorf("querying OpenCL platforms: %w", err)
	}
	var out []openCLDeviceInfo
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeAll)
		if derr != nil {
			continue
		}
		for _, d := range devices {
			out = append(out, openCLDeviceInfo{
				Platform: p.Name(),
				Name:     d.Name(),
				GPU:      d.Type()&cl.DeviceTypeGPU != 0,
			})
		}
	}
	return out, nil
}
