// Package document reads named JSON documents from local files, Redis or S3
// and decodes them without losing the integer/float distinction of number
// literals.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mohammad-safakhou/computesales/internal/report"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidJSON = errors.New("document is not valid JSON")
)

const (
	s3Prefix    = "s3://"
	redisPrefix = "redis:"
)

// Source fetches the raw bytes of a named document.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FileSource reads documents from the local filesystem.
type FileSource struct{}

func (FileSource) Fetch(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Decode parses data as exactly one JSON value. Numbers decode as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrInvalidJSON)
	}
	return v, nil
}

// Loader routes document names to a source and reports failures as
// user-facing diagnostics.
type Loader struct {
	file  Source
	redis Source
	s3    Source
	out   report.Printer
	log   zerolog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRedis serves names of the form redis:<key>.
func WithRedis(src Source) Option { return func(l *Loader) { l.redis = src } }

// WithS3 serves names of the form s3://<bucket>/<key>.
func WithS3(src Source) Option { return func(l *Loader) { l.s3 = src } }

// WithFiles replaces the local filesystem source.
func WithFiles(src Source) Option { return func(l *Loader) { l.file = src } }

// WithLogger sets the operational logger.
func WithLogger(log zerolog.Logger) Option { return func(l *Loader) { l.log = log } }

func NewLoader(out report.Printer, opts ...Option) *Loader {
	l := &Loader{file: FileSource{}, out: out, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) sourceFor(name string) (Source, error) {
	switch {
	case strings.HasPrefix(name, s3Prefix):
		if l.s3 == nil {
			return nil, errors.New("s3 source not configured")
		}
		return l.s3, nil
	case strings.HasPrefix(name, redisPrefix):
		if l.redis == nil {
			return nil, errors.New("redis source not configured")
		}
		return l.redis, nil
	}
	return l.file, nil
}

// Read fetches and decodes name without printing anything.
func (l *Loader) Read(ctx context.Context, name string) (any, error) {
	src, err := l.sourceFor(name)
	if err != nil {
		return nil, err
	}
	data, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	l.log.Debug().Str("document", name).Int("bytes", len(data)).Msg("document loaded")
	return v, nil
}

// Load reads name and, on failure, prints a diagnostic naming it. A non-nil
// error means the document is absent; the caller decides whether to go on.
func (l *Loader) Load(ctx context.Context, name string) (any, error) {
	v, err := l.Read(ctx, name)
	if err == nil {
		return v, nil
	}
	switch {
	case errors.Is(err, ErrNotFound):
		l.out.Println(fmt.Sprintf("Error: File '%s' not found.", name))
	case errors.Is(err, ErrInvalidJSON):
		l.out.Println(fmt.Sprintf("Error: File '%s' is not a valid JSON.", name))
	default:
		l.out.Println(fmt.Sprintf("Error: File '%s' could not be read.", name))
	}
	l.log.Debug().Err(err).Str("document", name).Msg("document load failed")
	return nil, err
}

// Reason classifies a Load error for metrics labels.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	}
	return "unreadable"
}
