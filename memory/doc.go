// Package memory provides an in-process semantic memory store for agents.
//
// The store keeps an append-only log of text records, lazily builds a
// nearest-neighbor index over their embeddings, and answers top-k
// similarity queries with metadata filtering (kind, tags, session).
//
// Architecture:
//   - Store: record log, lazy index, degraded-mode state machine
//   - Embedder: text-to-vector conversion (Ollama, OpenAI, mock)
//   - Index: vector storage and nearest-neighbor search (chromem-go)
//
// The store degrades gracefully: if the embedding backend fails, records
// are still kept and retrieval falls back to a filtered linear scan over
// insertion order. Degradation is one-way for the store's lifetime; the
// backend is never re-probed.
//
// Integration:
//   - Add: called with user queries and tool outputs as the agent runs
//   - Retrieve: called before planning to inject relevant past context
package memory
