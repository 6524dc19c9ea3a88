package dnnwsp

import (
	"fmt"
	"strings"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned.
var (
	ErrNoHiddenLayer = Error{"layer sizes must include an input, at least one hidden, and an output layer"}
	ErrUnknownMode   = Error{"mode must be either \"layer\" or \"node\""}
	ErrNilModel      = Error{"Model is nil"}
	ErrNilData       = Error{"training data is nil"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// ValidationError is returned when a Config (and the data it is paired with) fails validation.
// Every problem that was found is listed, not only the first.
type ValidationError struct {
	Problems []string
}

func (err *ValidationError) Error() string {
	if len(err.Problems) == 1 {
		return "invalid configuration: " + err.Problems[0]
	}

	return fmt.Sprintf("invalid configuration (%d problems):\n\t%s", len(err.Problems), strings.Join(err.Problems, "\n\t"))
}

func (err *ValidationError) add(format string, args ...interface{}) {
	err.Problems = append(err.Problems, fmt.Sprintf(format, args...))
}

// MergeProblems combines the problems of every *ValidationError given into one, in order and
// without repeats. Any other non-nil error is returned as it is. The result is nil if there are
// no problems.
func MergeProblems(errs ...error) error {
	merged := new(ValidationError)
	seen := make(map[string]bool)

	for _, err := range errs {
		if err == nil {
			continue
		}

		verr, ok := err.(*ValidationError)
		if !ok {
			return err
		}

		for _, p := range verr.Problems {
			if !seen[p] {
				seen[p] = true
				merged.Problems = append(merged.Problems, p)
			}
		}
	}

	return merged.orNil()
}

// orNil returns nil if no problems have been recorded. This avoids handing back a typed nil
// pointer inside a non-nil error interface.
func (err *ValidationError) orNil() error {
	if len(err.Problems) == 0 {
		return nil
	}

	return err
}

// ZeroNormError is returned when Hoyer's sparseness is requested for a vector whose L2 norm is
// zero. The ratio is undefined there and no fallback value is substituted.
//
// Layer and Step are -1 when unknown (e.g. when the metric is used outside of training). Node is
// the column of the weight matrix in node-wise mode, and -1 in layer-wise mode.
type ZeroNormError struct {
	Layer, Node, Step int
}

func (err *ZeroNormError) Error() string {
	if where := position(err.Layer, err.Node, err.Step); where != "" {
		return "weight vector has zero L2 norm at " + where + "; Hoyer's sparseness is undefined"
	}

	return "weight vector has zero L2 norm; Hoyer's sparseness is undefined"
}

// NonFiniteError is returned when a weight vector holds a NaN or infinite value, which is what a
// diverging run leaves behind. The positions are filled in the same way as for ZeroNormError.
type NonFiniteError struct {
	Layer, Node, Step int
}

func (err *NonFiniteError) Error() string {
	if where := position(err.Layer, err.Node, err.Step); where != "" {
		return "weights are not finite at " + where + "; training has diverged"
	}

	return "weights are not finite; training has diverged"
}

func position(layer, node, step int) string {
	var where []string
	if layer >= 0 {
		where = append(where, fmt.Sprintf("hidden layer %d", layer))
	}
	if node >= 0 {
		where = append(where, fmt.Sprintf("node %d", node))
	}
	if step >= 0 {
		where = append(where, fmt.Sprintf("step %d", step))
	}

	return strings.Join(where, ", ")
}
