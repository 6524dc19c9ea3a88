package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// CSVOptions describes the layout of a CSV file of samples, one per line:
//
//	<class>, x[0], x[1], x[2], ... x[n-1]
//
// or, if the file is unlabelled, just the values of x.
type CSVOptions struct {
	// Labelled indicates that the first value of each line is the class of the sample, as an
	// integer starting from 0.
	Labelled bool

	// Classes is the number of classes. If 0, it is one more than the largest label.
	Classes int

	// Every input value is divided by Scale. 0 is treated as 1. For MNIST, this would be 255.
	Scale float64

	// Header indicates that the first line should be skipped.
	Header bool
}

// LoadCSV opens the file at the given path and reads it with ReadCSV.
func LoadCSV(path string, opts CSVOptions) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open file %s\n", path)
	}

	defer f.Close()

	s, err := ReadCSV(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't read data set from file %s\n", path)
	}

	return s, nil
}

// ReadCSV reads a Set from CSV. Every line must have the same number of values.
func ReadCSV(r io.Reader, opts CSVOptions) (*Set, error) {
	rd := csv.NewReader(r)
	rd.TrimLeadingSpace = true
	rd.ReuseRecord = true
	rd.FieldsPerRecord = -1

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	var (
		values []float64
		labels []int
		width  int
		rows   int
	)

	for line := 1; ; line++ {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "Couldn't read line %d\n", line)
		}

		if opts.Header && line == 1 {
			continue
		}

		// allow for a trailing comma
		if n := len(rec); n > 0 && strings.TrimSpace(rec[n-1]) == "" {
			rec = rec[:n-1]
		}

		if opts.Labelled {
			if len(rec) == 0 {
				return nil, errors.Errorf("Line %d has no label", line)
			}

			class, err := strconv.Atoi(strings.TrimSpace(rec[0]))
			if err != nil {
				return nil, errors.Wrapf(err, "Couldn't parse value of class on line %d (given: %s)\n", line, rec[0])
			} else if class < 0 || (opts.Classes > 0 && class >= opts.Classes) {
				return nil, errors.Errorf("Class on line %d is out of bounds (%d not in [0, %d))", line, class, opts.Classes)
			}

			labels = append(labels, class)
			rec = rec[1:]
		}

		if rows == 0 {
			width = len(rec)
			if width == 0 {
				return nil, errors.Errorf("Line %d has no values", line)
			}
		} else if len(rec) != width {
			return nil, errors.Errorf("Line %d has %d values, expected %d", line, len(rec), width)
		}

		for i, str := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Couldn't parse value %d on line %d (given: %s)\n", i, line, str)
			}

			values = append(values, v/scale)
		}

		rows++
	}

	if rows == 0 {
		return nil, errors.Errorf("No samples found")
	}

	x := mat.NewDense(rows, width, values)
	if !opts.Labelled {
		return Unlabelled(x)
	}

	classes := opts.Classes
	if classes == 0 {
		for _, l := range labels {
			if l >= classes {
				classes = l + 1
			}
		}
	}

	return New(x, labels, classes)
}

// WriteCSV writes the Set in the format read by ReadCSV, without scaling.
func WriteCSV(w io.Writer, s *Set) error {
	cw := csv.NewWriter(w)

	width := s.Width()
	rec := make([]string, 0, width+1)
	for i := 0; i < s.Len(); i++ {
		rec = rec[:0]
		if s.labels != nil {
			rec = append(rec, strconv.Itoa(s.labels[i]))
		}

		for _, v := range s.x.RawRowView(i) {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}

		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "Failed to write sample %d\n", i)
		}
	}

	cw.Flush()
	return cw.Error()
}
