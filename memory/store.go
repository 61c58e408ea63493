package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the store's operational mode.
type State int

const (
	// StateUninitialized means no embedding has succeeded yet; the index
	// does not exist because its dimension is unknown.
	StateUninitialized State = iota

	// StateActive means the index exists and embeddings are succeeding.
	StateActive

	// StateDegraded means the embedding backend has failed at least once.
	// The index is frozen at its last size, new records are stored without
	// vectors, and retrieval uses filtered linear scans. The transition is
	// one-way: the backend is never re-probed.
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	defaultProbeTimeout = 2 * time.Second
	defaultEmbedTimeout = 10 * time.Second

	// probeText is the throwaway input for the construction-time
	// connectivity check.
	probeText = "test"
)

// Config holds Store configuration.
type Config struct {
	// Embedder is the embedding backend. Required.
	Embedder Embedder

	// NewIndex allocates the nearest-neighbor index once the embedding
	// dimension is known. Required.
	NewIndex IndexFactory

	// Logger receives degradation warnings and debug output.
	// Defaults to a no-op logger.
	Logger zerolog.Logger

	// ProbeTimeout bounds the construction-time connectivity check.
	// Default: 2s.
	ProbeTimeout time.Duration

	// EmbedTimeout bounds each data-path embedding call. A timeout counts
	// as backend unavailability. Default: 10s.
	EmbedTimeout time.Duration

	// DisableProbe skips the construction-time connectivity check, so the
	// store starts uninitialized even if the backend is down.
	DisableProbe bool
}

// Status is a point-in-time snapshot of the store.
type Status struct {
	Records int   // total stored records
	Indexed int   // records with a vector in the index
	State   State // current operational mode
}

// Store owns the append-only record log, the lazily created vector index,
// and the degraded-mode state machine.
//
// Invariant: embedded records form a prefix of the record log, and the
// row id assigned by the index's k-th insertion equals the position of the
// k-th embedded record. Records added while degraded have no vector and
// are reachable only through linear scans.
//
// All methods are safe for concurrent use; Add and Retrieve serialize
// against the shared log and index so inserts never interleave.
type Store struct {
	mu           sync.Mutex
	embedder     Embedder
	newIndex     IndexFactory
	logger       zerolog.Logger
	embedTimeout time.Duration

	index   Index
	records []Record
	indexed int
	state   State
}

// New creates an empty store and, unless disabled, probes the embedding
// backend once. A failed probe starts the store degraded but never
// prevents construction.
func New(cfg Config) (*Store, error) {
	if cfg.Embedder == nil {
		return nil, errors.New("memory: embedder is required")
	}
	if cfg.NewIndex == nil {
		return nil, errors.New("memory: index factory is required")
	}

	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	embedTimeout := cfg.EmbedTimeout
	if embedTimeout <= 0 {
		embedTimeout = defaultEmbedTimeout
	}

	s := &Store{
		embedder:     cfg.Embedder,
		newIndex:     cfg.NewIndex,
		logger:       cfg.Logger,
		embedTimeout: embedTimeout,
	}

	if !cfg.DisableProbe {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		_, err := s.embedder.Embed(ctx, probeText)
		cancel()
		if err != nil {
			s.mu.Lock()
			s.degrade(err)
			s.mu.Unlock()
		}
	}

	return s, nil
}

// Add stores one record. Storage of the record itself always succeeds for
// valid input: if embedding fails, the store degrades, the record is kept
// without a vector, and Add returns nil. The only errors are caller
// contract violations (ErrInvalidInput) and configuration/index errors
// (dimension mismatches, index creation failures, row-id desync) — all of
// which still leave the record stored.
func (s *Store) Add(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.Text) == "" {
		return fmt.Errorf("add: %w: text must be non-empty", ErrInvalidInput)
	}
	if rec.Kind == "" {
		rec.Kind = KindFact
	}
	if !rec.Kind.valid() {
		return fmt.Errorf("add: %w: unknown kind %q", ErrInvalidInput, rec.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if s.state == StateDegraded {
		s.records = append(s.records, rec)
		return nil
	}

	vec, err := s.embed(ctx, rec.Text)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return fmt.Errorf("add: %w", err)
		}
		// The record is kept either way; only semantic indexing is lost.
		s.degrade(err)
		s.records = append(s.records, rec)
		return nil
	}

	if s.state == StateUninitialized {
		idx, err := s.newIndex(len(vec))
		if err != nil {
			s.degrade(err)
			s.records = append(s.records, rec)
			return fmt.Errorf("add: create index: %w", err)
		}
		s.index = idx
		s.state = StateActive
		s.logger.Debug().Int("dimensions", len(vec)).Msg("vector index created")
	}

	if got, want := len(vec), s.index.Dimensions(); got != want {
		// Configuration error, not transient unavailability: the index
		// cannot accept vectors of this dimension. Keep the record,
		// freeze the index, and surface the error instead of swallowing
		// it into silent degradation.
		mismatch := &DimensionMismatchError{Want: want, Got: got}
		s.logger.Error().Err(mismatch).Msg("freezing vector index")
		s.degrade(mismatch)
		s.records = append(s.records, rec)
		return fmt.Errorf("add: %w", mismatch)
	}

	row, err := s.index.Add(ctx, vec)
	if err != nil {
		s.degrade(err)
		s.records = append(s.records, rec)
		return nil
	}
	if row != s.indexed {
		// Row ids must mirror positions in the record log. A divergent id
		// means the index is not insertion-ordered; stop indexing against
		// it rather than return wrong records from searches.
		s.degrade(fmt.Errorf("index returned row %d, expected %d", row, s.indexed))
		s.records = append(s.records, rec)
		return fmt.Errorf("add: index row %d out of sync with record log (%d)", row, s.indexed)
	}

	s.indexed++
	s.records = append(s.records, rec)
	return nil
}

// AddAll stores records in order, stopping at the first rejected record.
func (s *Store) AddAll(ctx context.Context, recs []Record) error {
	for i := range recs {
		if err := s.Add(ctx, recs[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// Retrieve returns up to q.TopK records matching q's filters: nearest
// first while the store is active, insertion order once degraded. An
// embedding failure mid-call degrades the store and falls back to the
// linear-scan path instead of failing. An empty result is not an error.
func (s *Store) Retrieve(ctx context.Context, q Query) ([]Record, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, fmt.Errorf("retrieve: %w: query text must be non-empty", ErrInvalidInput)
	}
	if q.TopK <= 0 {
		return nil, fmt.Errorf("retrieve: %w: top_k must be positive, got %d", ErrInvalidInput, q.TopK)
	}
	if q.Kind != "" && !q.Kind.valid() {
		return nil, fmt.Errorf("retrieve: %w: unknown kind %q", ErrInvalidInput, q.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return nil, nil
	}
	if s.state != StateActive || s.indexed == 0 {
		return s.scan(q), nil
	}

	vec, err := s.embed(ctx, q.Text)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, fmt.Errorf("retrieve: %w", err)
		}
		s.degrade(err)
		return s.scan(q), nil
	}
	if got, want := len(vec), s.index.Dimensions(); got != want {
		mismatch := &DimensionMismatchError{Want: want, Got: got}
		s.logger.Error().Err(mismatch).Msg("freezing vector index")
		s.degrade(mismatch)
		return nil, fmt.Errorf("retrieve: %w", mismatch)
	}

	// Overfetch so post-filtering can still fill top_k. There is
	// deliberately no retry with a larger factor when filtering leaves
	// fewer than top_k results.
	hits, err := s.index.Search(ctx, vec, q.TopK*2)
	if err != nil {
		s.degrade(err)
		return s.scan(q), nil
	}

	// TopK is caller-controlled; cap the allocation at what can match.
	out := make([]Record, 0, min(q.TopK, len(s.records)))
	for _, h := range hits {
		if h.Row < 0 || h.Row >= s.indexed {
			continue
		}
		rec := s.records[h.Row]
		if !rec.matches(q) {
			continue
		}
		out = append(out, rec)
		if len(out) == q.TopK {
			break
		}
	}
	return out, nil
}

// Status returns a snapshot of the store's size and mode.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Records: len(s.records),
		Indexed: s.indexed,
		State:   s.state,
	}
}

// scan is the degraded-mode retrieval path: a filtered walk over the
// record log in insertion order. No similarity signal exists, so the
// result order is insertion order.
func (s *Store) scan(q Query) []Record {
	out := make([]Record, 0, min(q.TopK, len(s.records)))
	for _, rec := range s.records {
		if !rec.matches(q) {
			continue
		}
		out = append(out, rec)
		if len(out) == q.TopK {
			break
		}
	}
	return out
}

// embed calls the backend under the data-path timeout. Timeouts are
// reported as unavailability so the caller's degradation policy applies.
func (s *Store) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: backend returned empty embedding", ErrUnavailable)
	}
	return vec, nil
}

// degrade flips the store into degraded mode. Caller must hold s.mu.
// Idempotent; the warning is logged once per store lifetime.
func (s *Store) degrade(cause error) {
	if s.state == StateDegraded {
		return
	}
	from := s.state
	s.state = StateDegraded
	s.logger.Warn().
		Err(cause).
		Stringer("from", from).
		Int("indexed", s.indexed).
		Msg("embedding backend unavailable, semantic search disabled")
}
