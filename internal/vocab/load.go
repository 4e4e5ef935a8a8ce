package vocab

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vocabdiff/internal/charset"
)

// ErrRead indicates that a vocabulary file could not be read.
var ErrRead = errors.New("reading vocabulary")

// LoadOptions configures Load.
type LoadOptions struct {
	Policy Policy

	// Reciprocal runs Vocabulary.Reciprocal after parsing.
	Reciprocal bool

	Charset charset.Options
}

// Info describes a loaded file.
type Info struct {
	Path       string
	Size       int64
	Compressed bool
	Encoding   charset.Result
	Stats      Stats

	// Reciprocal is the number of keys added by the reciprocal pass.
	Reciprocal int
}

// Load reads, decodes and parses the vocabulary at path. Files ending in .gz
// or .dz (dictzip) are decompressed first.
//
// On failure Load returns an empty, non-nil vocabulary together with the
// error so callers can still compare against it.
func Load(path string, opts LoadOptions) (*Vocabulary, *Info, error) {
	info := &Info{Path: path}

	raw, compressed, err := readFile(path)
	if err != nil {
		return New(opts.Policy), info, fmt.Errorf("%w %q: %w", ErrRead, path, err)
	}
	info.Size = int64(len(raw))
	info.Compressed = compressed

	text, enc, err := charset.Decode(raw, opts.Charset)
	info.Encoding = enc
	if err != nil {
		return New(opts.Policy), info, fmt.Errorf("decoding %q: %w", path, err)
	}

	v, st, err := Parse(strings.NewReader(text), opts.Policy)
	info.Stats = st
	if err != nil {
		return New(opts.Policy), info, fmt.Errorf("%w %q: %w", ErrRead, path, err)
	}

	if opts.Reciprocal {
		info.Reciprocal = v.Reciprocal()
	}
	return v, info, nil
}

func readFile(path string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	var r io.Reader = f
	compressed := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".dz":
		// dictzip is gzip with a random access table in the extra field.
		z, err := gzip.NewReader(f)
		if err != nil {
			return nil, false, err
		}
		defer z.Close()
		r = z
		compressed = true
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, compressed, err
	}
	return raw, compressed, nil
}
