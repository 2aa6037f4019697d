package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Loader decodes dataset files into mono Buffers at the run's target rate.
//
// The target rate may be left at 0 ("native"): the first loaded file then
// fixes the effective target rate, and every later file whose native rate
// differs is resampled to it. This is the only mutable run state the
// harness carries, so it lives here behind a mutex instead of in settings.
type Loader struct {
	mu      sync.Mutex
	formats map[string]DecodeFunc
	rate    int
	log     *slog.Logger
}

// NewLoader builds a loader with the default format decoders registered.
// targetRate 0 means "adopt the first file's native rate".
func NewLoader(targetRate int, log *slog.Logger) *Loader {
	l := &Loader{
		formats: make(map[string]DecodeFunc),
		rate:    targetRate,
		log:     log.With("component", "loader"),
	}
	l.RegisterFormat(".wav", DecodeWAV)
	l.RegisterFormat(".aiff", DecodeAIFF)
	l.RegisterFormat(".aif", DecodeAIFF)
	l.RegisterFormat(".mp3", DecodeMP3)
	l.RegisterFormat(".ogg", DecodeOgg)
	return l
}

// RegisterFormat maps a file extension (with leading dot) to a decoder.
func (l *Loader) RegisterFormat(ext string, fn DecodeFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.formats[strings.ToLower(ext)] = fn
}

// Extensions returns the registered file extensions, sorted.
func (l *Loader) Extensions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	exts := lo.Keys(l.formats)
	sort.Strings(exts)
	return exts
}

// Rate returns the effective target rate, or 0 while still undetermined.
func (l *Loader) Rate() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// Load decodes path and converts it to the effective target rate.
// Files already at the target rate keep their decoded representation;
// resampled files come back as normalized float32.
func (l *Loader) Load(path string) (*Buffer, error) {
	dec, ok := l.decoderFor(path)
	if !ok {
		return nil, fmt.Errorf("load %s: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	buf, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("load %s: %w", path, ErrNoSamples)
	}

	target := l.adoptRate(buf.Rate)
	if buf.Rate == target {
		l.log.Debug("loaded file",
			"path", path, "rate", buf.Rate, "samples", buf.Len(), "format", buf.Format.String())
		return buf, nil
	}

	out := NewFloat32(target, Resample(buf.Float32s(), buf.Rate, target))
	l.log.Debug("loaded and resampled file",
		"path", path, "native_rate", buf.Rate, "rate", target, "samples", out.Len())
	return out, nil
}

func (l *Loader) decoderFor(path string) (DecodeFunc, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dec, ok := l.formats[strings.ToLower(filepath.Ext(path))]
	return dec, ok
}

// adoptRate returns the effective target rate, fixing it to native when no
// rate was configured and no file has been loaded yet.
func (l *Loader) adoptRate(native int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rate == 0 {
		l.rate = native
	}
	return l.rate
}
