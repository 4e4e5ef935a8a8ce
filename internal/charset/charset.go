// Package charset guesses the byte encoding of vocabulary files and decodes
// them to UTF-8.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"vocabdiff/internal/log"
)

const (
	// DefaultFallback is used when no candidate encoding decodes the input.
	DefaultFallback = "utf-8"

	// DefaultMinConfidence is the lowest detector confidence (0-100) that is
	// still tried before the fallback.
	DefaultMinConfidence = 10
)

var (
	// ErrUndecodable is returned when neither a detected encoding nor the
	// fallback decodes the input cleanly.
	ErrUndecodable = errors.New("undecodable input")

	// ErrUnsupported is returned for encoding names with no decoder.
	ErrUnsupported = errors.New("unsupported encoding")
)

// Candidate is one statistical guess.
type Candidate struct {
	Name       string
	Confidence int
}

// Detector proposes candidate encodings for raw bytes, best first.
type Detector interface {
	Detect(raw []byte) []Candidate
}

// Options controls detection and decoding.
type Options struct {
	// Force skips detection and decodes with the named encoding only.
	Force string

	// Fallback is tried after every detected candidate failed. Empty means
	// DefaultFallback.
	Fallback string

	// MinConfidence drops weaker candidates.
	MinConfidence int

	// Detector overrides the chardet based detector.
	Detector Detector
}

// Result describes how the input was decoded.
type Result struct {
	Name       string
	Confidence int
	BOM        bool
	Fallback   bool
}

func (r Result) String() string {
	switch {
	case r.Fallback:
		return r.Name + " (fallback)"
	case r.BOM:
		return r.Name + " (BOM)"
	default:
		return fmt.Sprintf("%s (%d%%)", r.Name, r.Confidence)
	}
}

type chardetDetector struct {
	d *chardet.Detector
}

// NewDetector returns the default text detector.
func NewDetector() Detector {
	return chardetDetector{d: chardet.NewTextDetector()}
}

func (c chardetDetector) Detect(raw []byte) []Candidate {
	results, err := c.d.DetectAll(raw)
	if err != nil {
		return nil
	}
	out := make([]Candidate, 0, len(results))
	for _, r := range results {
		out = append(out, Candidate{Name: r.Charset, Confidence: r.Confidence})
	}
	return out
}

type bomSig struct {
	prefix []byte
	name   string
}

// Longer signatures first: the UTF-32LE mark starts with the UTF-16LE one.
var boms = []bomSig{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "UTF-32BE"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "UTF-32LE"},
	{[]byte{0xEF, 0xBB, 0xBF}, "UTF-8"},
	{[]byte{0xFE, 0xFF}, "UTF-16BE"},
	{[]byte{0xFF, 0xFE}, "UTF-16LE"},
}

// Decode decodes raw into a UTF-8 string.
func Decode(raw []byte, opts Options) (string, Result, error) {
	if opts.Force != "" {
		text, err := decodeStrict(opts.Force, raw)
		if err != nil {
			return "", Result{Name: opts.Force}, err
		}
		// Decoders for the Unicode family keep the mark as U+FEFF.
		text, bom := strings.CutPrefix(text, "\ufeff")
		return text, Result{Name: opts.Force, Confidence: 100, BOM: bom}, nil
	}

	if len(raw) == 0 {
		return "", Result{Name: "UTF-8", Confidence: 100}, nil
	}

	for _, b := range boms {
		if bytes.HasPrefix(raw, b.prefix) {
			text, err := decodeStrict(b.name, raw[len(b.prefix):])
			if err != nil {
				return "", Result{Name: b.name, BOM: true}, err
			}
			return text, Result{Name: b.name, Confidence: 100, BOM: true}, nil
		}
	}

	if utf8.Valid(raw) {
		return string(raw), Result{Name: "UTF-8", Confidence: 100}, nil
	}

	detector := opts.Detector
	if detector == nil {
		detector = NewDetector()
	}
	for _, c := range detector.Detect(raw) {
		if c.Confidence < opts.MinConfidence {
			log.Tracef("charset %s: confidence %d below %d", c.Name, c.Confidence, opts.MinConfidence)
			continue
		}
		text, err := decodeStrict(c.Name, raw)
		if err != nil {
			log.Tracef("charset %s (%d%%): %v", c.Name, c.Confidence, err)
			continue
		}
		return text, Result{Name: c.Name, Confidence: c.Confidence}, nil
	}

	fallback := opts.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}
	text, err := decodeStrict(fallback, raw)
	if err != nil {
		return "", Result{Name: fallback, Fallback: true}, err
	}
	return text, Result{Name: fallback, Fallback: true}, nil
}

// Lookup resolves an encoding name as reported by the detector, IANA or the
// WHATWG encoding standard.
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "":
		return nil, fmt.Errorf("%w: empty name", ErrUnsupported)
	case "utf-8", "utf8", "ascii", "us-ascii":
		return unicode.UTF8, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	case "gb-18030":
		key = "gb18030"
	}

	if e, err := htmlindex.Get(key); err == nil {
		return e, nil
	}
	if e, err := ianaindex.IANA.Encoding(key); err == nil && e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
}

func decodeStrict(name string, raw []byte) (string, error) {
	e, err := Lookup(name)
	if err != nil {
		return "", err
	}
	if e == unicode.UTF8 {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: not valid %s", ErrUndecodable, name)
		}
		return string(raw), nil
	}

	out, err := e.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUndecodable, name, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%w: invalid %s byte sequence", ErrUndecodable, name)
	}
	return string(out), nil
}
