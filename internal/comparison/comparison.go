// Package comparison loads two vocabulary files and diffs them in one
// synchronous run.
package comparison

import (
	"errors"
	"fmt"
	"time"

	apexlog "github.com/apex/log"

	"vocabdiff/internal/differ"
	"vocabdiff/internal/log"
	"vocabdiff/internal/vocab"
)

// ErrMissingInput is returned when either path is empty.
var ErrMissingInput = errors.New("select both an old and a new vocabulary file")

// Side names one of the two inputs.
type Side string

const (
	Old Side = "old"
	New Side = "new"
)

// Request names the two files to compare.
type Request struct {
	OldPath string
	NewPath string
}

// Ready reports whether both paths are set.
func (r Request) Ready() bool {
	return r.OldPath != "" && r.NewPath != ""
}

type Options struct {
	Load vocab.LoadOptions
}

// LoadError is a failure to load one side.
type LoadError struct {
	Side Side
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s file: %v", e.Side, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Comparison is the outcome of one run. A side that failed to load is an
// empty vocabulary and has an entry in Errors.
type Comparison struct {
	Request Request

	Old     *vocab.Vocabulary
	New     *vocab.Vocabulary
	OldInfo *vocab.Info
	NewInfo *vocab.Info

	Result differ.Result
	Errors []*LoadError

	Elapsed time.Duration
}

// Failed reports whether either side failed to load.
func (c *Comparison) Failed() bool {
	return len(c.Errors) > 0
}

// Err joins the load errors, or returns nil.
func (c *Comparison) Err() error {
	errs := make([]error, len(c.Errors))
	for i, e := range c.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Run loads both files and compares them. Load failures do not stop the run.
func Run(req Request, opts Options) (*Comparison, error) {
	if !req.Ready() {
		return nil, ErrMissingInput
	}

	start := time.Now()
	c := &Comparison{Request: req}
	c.Old, c.OldInfo = load(c, Old, req.OldPath, opts)
	c.New, c.NewInfo = load(c, New, req.NewPath, opts)

	c.Result = differ.Compare(c.Old, c.New)
	c.Elapsed = time.Since(start)

	s := c.Result.Summary()
	log.WithFields(apexlog.Fields{
		"added":     s.Added,
		"removed":   s.Removed,
		"changed":   s.Changed,
		"unchanged": s.Unchanged,
		"elapsed":   c.Elapsed.Round(time.Millisecond),
	}).Info("compared vocabularies")
	return c, nil
}

func load(c *Comparison, side Side, path string, opts Options) (*vocab.Vocabulary, *vocab.Info) {
	v, info, err := vocab.Load(path, opts.Load)
	if err != nil {
		log.WithError(err).WithField("side", string(side)).Warn("load failed")
		c.Errors = append(c.Errors, &LoadError{Side: side, Path: path, Err: err})
		return v, info
	}
	log.Debugf("loaded %s %q: %d words, encoding %s", side, path, v.Len(), info.Encoding)
	return v, info
}
