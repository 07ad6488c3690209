//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jgillich/go-opencl/cl"

	"particlefield/internal/particles"
)

// openCLLinkSolver finds particle links on an OpenCL device. One work item
// handles one ordered pair; the host keeps pairs the device marked in range.
type openCLLinkSolver struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	posBuf     *cl.MemObject
	distBuf    *cl.MemObject
	capacity   int
	positions  []float32
	distances  []float32
	deviceName string
}

const linkKernelSource = `__kernel void pair_dist(
    const int n,
    const float threshold,
    __global const float* pos,
    __global float* dist)
{
    int gid = get_global_id(0);
    if (gid >= n * n) {
        return;
    }
    int i = gid / n;
    int j = gid % n;
    if (j <= i) {
        dist[gid] = -1.0f;
        return;
    }
    float dx = pos[2 * i] - pos[2 * j];
    float dy = pos[2 * i + 1] - pos[2 * j + 1];
    float d = sqrt(dx * dx + dy * dy);
    dist[gid] = d < threshold ? d : -1.0f;
}`

// newOpenCLLinkSolver prepares buffers for up to capacity particles.
func newOpenCLLinkSolver(capacity int) (*openCLLinkSolver, error) {
	if capacity <= 0 {
		return nil, errors.New("link solver capacity must be positive")
	}
	device, err := pickOpenCLDevice()
	if err != nil {
		return nil, err
	}

	s := &openCLLinkSolver{
		capacity:   capacity,
		positions:  make([]float32, 2*capacity),
		distances:  make([]float32, capacity*capacity),
		deviceName: device.Name(),
	}
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{linkKernelSource}); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.kernel, err = s.program.CreateKernel("pair_dist"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	if s.posBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, 4*len(s.positions)); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating position buffer: %w", err)
	}
	if s.distBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, 4*len(s.distances)); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating distance buffer: %w", err)
	}
	if err := s.kernel.SetArgs(int32(0), float32(0), s.posBuf, s.distBuf); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting kernel arguments: %w", err)
	}
	return s, nil
}

// pickOpenCLDevice prefers a GPU and falls back to a CPU device.
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

// FindLinks implements particles.LinkFinder. More particles than the solver
// was sized for is an error, which makes the simulator fall back to the CPU.
func (s *openCLLinkSolver) FindLinks(ps []particles.Particle, threshold float64, dst []particles.Link) ([]particles.Link, error) {
	n := len(ps)
	if n < 2 {
		return dst, nil
	}
	if n > s.capacity {
		return dst, fmt.Errorf("%d particles exceed OpenCL capacity %d", n, s.capacity)
	}
	for i := range ps {
		s.positions[2*i] = float32(ps[i].Pos.X)
		s.positions[2*i+1] = float32(ps[i].Pos.Y)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.posBuf, false, 0, s.positions[:2*n], nil); err != nil {
		return dst, fmt.Errorf("writing position buffer: %w", err)
	}
	if err := s.kernel.SetArgInt32(0, int32(n)); err != nil {
		return dst, fmt.Errorf("setting particle count: %w", err)
	}
	if err := s.kernel.SetArgFloat32(1, devicePrefilter(threshold)); err != nil {
		return dst, fmt.Errorf("setting link distance: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{n * n}, nil, nil); err != nil {
		return dst, fmt.Errorf("enqueueing kernel: %w", err)
	}
	out := s.distances[:n*n]
	if _, err := s.queue.EnqueueReadBufferFloat32(s.distBuf, true, 0, out, nil); err != nil {
		return dst, fmt.Errorf("reading distance buffer: %w", err)
	}
	dst = collectDeviceLinks(ps, out, threshold, dst)
	return dst, nil
}

func (s *openCLLinkSolver) Close() {
	if s.distBuf != nil {
		s.distBuf.Release()
		s.distBuf = nil
	}
	if s.posBuf != nil {
		s.posBuf.Release()
		s.posBuf = nil
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

func (s *openCLLinkSolver) DeviceName() string {
	return s.deviceName
}
