// Package constants centralizes the fixed diagnostic target and shared
// defaults.
//
// Keeping the endpoint, environment-variable names, per-probe timeouts, and
// file permissions in one place prevents magic values from scattering across
// cmd/ and internal/. The values here can be referenced from multiple
// packages without introducing import cycles.
package constants
