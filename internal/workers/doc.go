/*
Package workers provides utilities for determining worker pool sizes in
containerized environments.

# Overview

When the pipeline runs in a container (CI runner, Kubernetes job), the number
of available CPUs may be limited by cgroup constraints. Go 1.19+ automatically
sets GOMAXPROCS based on container CPU limits, while runtime.NumCPU() still
returns the host machine's CPU count. Sizing a pool from NumCPU on a 64-core
node with a 2-CPU limit produces 64 workers fighting over 2 cores.

This package sizes pools from GOMAXPROCS instead, with a per-workload
multiplier.

# Basic Usage

	import "gallery-pipeline/internal/workers"

	// Image derivation: decode, resize, encode are CPU-bound.
	// 1 worker per available CPU.
	numWorkers := workers.ForCPU(8) // max 8 workers

	// Uploads are I/O-bound; workers spend most of their time waiting.
	// 2 workers per available CPU.
	numWorkers := workers.ForIO(16) // max 16 workers

	// Mixed workloads (read file, process, write result).
	numWorkers := workers.ForMixed(12) // max 12 workers

For fine-grained control, use Count directly:

	numWorkers := workers.Count(3.0, 24) // 3 per CPU, max 24
	numWorkers := workers.Count(2.0, 0)  // no maximum

# Environment Variable Override

All functions respect the PIPELINE_WORKERS environment variable, allowing
operators to override the automatic calculation:

	PIPELINE_WORKERS=4 gallery-pipeline -input photos -output public

The -workers flag of the pipeline commands takes precedence over both.

# Choosing a Multiplier

The image pool uses ForCPU: each worker fully occupies a core while it
decodes a master and re-encodes dozens of tiles. The publish pool uses
ForIO: PutObject calls wait on the network far longer than they compute.
Always pass a sensible limit; Count never returns less than 1.

# Thread Safety

All functions in this package are safe for concurrent use.
*/
package workers
