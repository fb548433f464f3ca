/*
Package workers provides utilities for determining worker pool sizes in
containerized environments.

When running in a container, the number of available CPUs may be limited
by cgroup constraints. Go 1.19+ sets GOMAXPROCS from the container CPU
limit, but runtime.NumCPU() still returns the host machine's CPU count,
so sizing pools from NumCPU oversubscribes limited containers.

The helpers here size pools from GOMAXPROCS with a workload multiplier:

	// CPU-bound work (image decoding): 1 worker per CPU
	n := workers.ForCPU(8)

	// I/O-bound work (stat sweeps, file copies): 2 workers per CPU
	n := workers.ForIO(16)

	// Mixed work: 1.5 workers per CPU
	n := workers.ForMixed(12)

All functions respect the WORKER_COUNT environment variable, which lets
operators override the automatic calculation.
*/
package workers
