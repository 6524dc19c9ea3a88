package dataset

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestBatch(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})

	s, err := New(x, []int{2, 0, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}

	b, err := s.Batch([]int{2, 0})
	if err != nil {
		t.Fatal(err)
	}

	if b.Size() != 2 {
		t.Fatalf("batch size = %d, want 2", b.Size())
	}

	if b.X.At(0, 0) != 5 || b.X.At(1, 1) != 2 {
		t.Errorf("batch inputs are in the wrong order: %v", mat.Formatted(b.X))
	}

	want := mat.NewDense(2, 3, []float64{
		0, 1, 0,
		0, 0, 1,
	})
	if !mat.Equal(b.Y, want) {
		t.Errorf("one-hot targets:\n%v\nwant:\n%v", mat.Formatted(b.Y), mat.Formatted(want))
	}

	if b.Labels[0] != 1 || b.Labels[1] != 2 {
		t.Errorf("labels = %v, want [1 2]", b.Labels)
	}

	if _, err = s.Batch([]int{3}); err == nil {
		t.Error("expected an error for an out of bounds index")
	}

	if _, err = s.Batch(nil); err == nil {
		t.Error("expected an error for an empty batch")
	}
}

func TestNewErrors(t *testing.T) {
	x := mat.NewDense(2, 2, nil)

	if _, err := New(x, []int{0}, 2); err == nil {
		t.Error("expected an error for too few labels")
	}

	if _, err := New(x, []int{0, 2}, 2); err == nil {
		t.Error("expected an error for a label out of bounds")
	}

	if _, err := New(nil, nil, 1); err == nil {
		t.Error("expected an error for nil inputs")
	}
}

func TestUnlabelled(t *testing.T) {
	s, err := Unlabelled(mat.NewDense(4, 3, nil))
	if err != nil {
		t.Fatal(err)
	}

	if s.NumLabels() != 0 || s.Classes() != 0 {
		t.Errorf("unlabelled set has %d labels and %d classes", s.NumLabels(), s.Classes())
	}

	b, err := s.Batch([]int{0, 1})
	if err != nil {
		t.Fatal(err)
	}

	if b.Y != nil || b.Labels != nil {
		t.Error("unlabelled batch has targets")
	}
}

func TestReadCSV(t *testing.T) {
	in := `label,a,b,c
1, 0, 255, 51,
0, 102, 0, 0
2, 255, 255, 255
`

	s, err := ReadCSV(strings.NewReader(in), CSVOptions{Labelled: true, Scale: 255, Header: true})
	if err != nil {
		t.Fatal(err)
	}

	if s.Len() != 3 || s.Width() != 3 || s.Classes() != 3 {
		t.Fatalf("got %d samples of width %d with %d classes, want 3, 3, 3", s.Len(), s.Width(), s.Classes())
	}

	if v := s.Inputs().At(0, 2); v != 0.2 {
		t.Errorf("scaled value = %v, want 0.2", v)
	}

	if ls := s.Labels(); ls[0] != 1 || ls[1] != 0 || ls[2] != 2 {
		t.Errorf("labels = %v, want [1 0 2]", ls)
	}
}

func TestReadCSVErrors(t *testing.T) {
	cases := map[string]struct {
		in   string
		opts CSVOptions
	}{
		"ragged":     {"1,2,3\n4,5\n", CSVOptions{}},
		"bad value":  {"1,2,x\n", CSVOptions{}},
		"bad label":  {"a,1,2\n", CSVOptions{Labelled: true}},
		"big label":  {"3,1,2\n", CSVOptions{Labelled: true, Classes: 3}},
		"empty":      {"", CSVOptions{}},
		"only label": {"1\n", CSVOptions{Labelled: true}},
	}

	for name, c := range cases {
		if _, err := ReadCSV(strings.NewReader(c.in), c.opts); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	s, err := Gaussian(12, 4, 3, 0.1, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "data.csv")

	var buf bytes.Buffer
	if err = WriteCSV(&buf, s); err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadCSV(path, CSVOptions{Labelled: true, Classes: 3})
	if err != nil {
		t.Fatal(err)
	}

	if !mat.Equal(loaded.Inputs(), s.Inputs()) {
		t.Error("inputs changed after writing and reading")
	}

	for i, l := range loaded.Labels() {
		if l != s.labels[i] {
			t.Errorf("label %d changed from %d to %d", i, s.labels[i], l)
		}
	}
}

func TestGaussian(t *testing.T) {
	s, err := Gaussian(10, 2, 3, 0.5, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	counts := make([]int, 3)
	for _, l := range s.Labels() {
		counts[l]++
	}

	if counts[0] != 4 || counts[1] != 3 || counts[2] != 3 {
		t.Errorf("class sizes = %v, want [4 3 3]", counts)
	}

	if _, err = Gaussian(0, 2, 3, 0.5, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected an error for n = 0")
	}
}

func TestSplit(t *testing.T) {
	s, err := Gaussian(10, 2, 2, 0.5, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	a, b, err := s.Split(7, rand.New(rand.NewSource(2)).Perm)
	if err != nil {
		t.Fatal(err)
	}

	if a.Len() != 7 || b.Len() != 3 {
		t.Errorf("split into %d and %d, want 7 and 3", a.Len(), b.Len())
	}

	if a.Classes() != 2 || b.Classes() != 2 {
		t.Error("split sets lost the number of classes")
	}

	if _, _, err = s.Split(10, rand.Perm); err == nil {
		t.Error("expected an error for an empty second set")
	}
}
