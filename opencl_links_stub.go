//go:build !opencl

package main

import (
	"errors"

	"particlefield/internal/particles"
)

var errOpenCLDisabled = errors.New("OpenCL support is not enabled; rebuild with -tags opencl")

type openCLLinkSolver struct{}

func newOpenCLLinkSolver(_ int) (*openCLLinkSolver, error) {
	return nil, errOpenCLDisabled
}

func (s *openCLLinkSolver) FindLinks(_ []particles.Particle, _ float64, dst []particles.Link) ([]particles.Link, error) {
	return dst, errOpenCLDisabled
}

func (s *openCLLinkSolver) Close() {}

func (s *openCLLinkSolver) DeviceName() string { return "" }
