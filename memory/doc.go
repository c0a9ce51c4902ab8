// Package memory provides the dual-tier creative memory for the muse
// pipeline: every successful generation is remembered, and remix requests
// recall the semantically closest past creation.
//
// Architecture:
//   - Tier: a semantically queryable, append-only store of creations.
//     Two instances exist side by side: a short-term tier that lives for
//     the process lifetime and a long-term tier that persists on disk.
//     Both share the same record schema and query contract.
//   - Embedder: text-to-vector conversion, injected into each tier
//     (Ollama for real deployments, a deterministic mock for tests).
//   - Manager: writes new creations to both tiers, queries both, and owns
//     the cross-tier best-match selection that drives the remix path.
//
// Failure policy: losing the embedding provider at construction time is
// fatal (no degraded mode), but every per-call failure after that is
// absorbed. A failed query yields an empty result set and a failed
// short-term write leaves the durable long-term copy intact, so the
// pipeline can always fall back to generating fresh instead of aborting
// the user's request.
package memory
