// Package codec adapts compression algorithms to a single round-trip
// contract the benchmark driver can drive without knowing how each codec
// is invoked.
package codec

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/ciricc/codecbench/internal/audio"
)

// Config selects an algorithm and its evaluator parameter. Candidate
// configs carry a model order; reference configs carry a bitrate label
// like "320k".
type Config struct {
	Algorithm string `yaml:"algorithm"`
	Order     int    `yaml:"order,omitempty"`
	Bitrate   string `yaml:"bitrate,omitempty"`
}

// Label names the evaluator in report columns, e.g. "lilt4" or "mp3320k".
func (c Config) Label() string {
	if c.Bitrate != "" {
		return c.Algorithm + c.Bitrate
	}
	return fmt.Sprintf("%s%d", c.Algorithm, c.Order)
}

func (c Config) Validate() error {
	if c.Algorithm == "" {
		return fmt.Errorf("%w: empty algorithm", ErrInvalidParam)
	}
	return nil
}

// Result is one completed round trip through a codec.
type Result struct {
	Audio           *audio.Buffer
	CompressedBytes int
}

// Adapter runs one compression algorithm. Roundtrip compresses src
// according to cfg, decompresses again, and returns the reconstruction
// with its measured compressed size. The reconstruction has the same
// length and rate as src.
type Adapter interface {
	Name() string
	Roundtrip(ctx context.Context, src *audio.Buffer, cfg Config) (*Result, error)
}

// Registry resolves algorithm identifiers to adapters.
type Registry struct {
	mu       sync.Mutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.adapters[a.Name()] = a
}

func (r *Registry) Get(name string) (Adapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// Names returns the registered algorithm identifiers, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := lo.Keys(r.adapters)
	sort.Strings(names)
	return names
}

// parseBitrateLabel converts a label like "320k" to bits per second.
func parseBitrateLabel(label string) (int, error) {
	s, ok := strings.CutSuffix(label, "k")
	if !ok {
		return 0, fmt.Errorf("%w: bitrate %q", ErrInvalidParam, label)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: bitrate %q", ErrInvalidParam, label)
	}
	return n * 1000, nil
}

// alignLength trims or zero-pads b to n samples. Lossy encoders pad their
// streams to whole frames, so decoded output rarely matches the input
// length exactly.
func alignLength(b *audio.Buffer, n int) {
	switch b.Format {
	case audio.Int16:
		for len(b.Ints) < n {
			b.Ints = append(b.Ints, 0)
		}
		b.Ints = b.Ints[:n]
	default:
		for len(b.Floats) < n {
			b.Floats = append(b.Floats, 0)
		}
		b.Floats = b.Floats[:n]
	}
}
