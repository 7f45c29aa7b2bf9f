package filters

import (
	"fmt"
	"strings"
)

// Name identifies one of the transforms offered by Apply.
type Name int

const (
	Grayscale Name = iota
	Binary
	Brightness
	Contrast
	Negative
	Binarisation
	Averaging
	Median
	Kuwahara
	Gaussian
	Sharpening
	HighPass
	Laplace
	Prewitt
	Roberts
	Sobel
	Scharr
	Ridge

	nameCount
)

var names = [nameCount]string{
	Grayscale:    "grayscale",
	Binary:       "binary",
	Brightness:   "brightness",
	Contrast:     "contrast",
	Negative:     "negative",
	Binarisation: "binarisation",
	Averaging:    "averaging",
	Median:       "median",
	Kuwahara:     "kuwahara",
	Gaussian:     "gaussian",
	Sharpening:   "sharpening",
	HighPass:     "highPass",
	Laplace:      "laplace",
	Prewitt:      "prewitt",
	Roberts:      "roberts",
	Sobel:        "sobel",
	Scharr:       "scharr",
	Ridge:        "ridge",
}

func (n Name) String() string {
	if n < 0 || n >= nameCount {
		return fmt.Sprintf("filter(%d)", int(n))
	}
	return names[n]
}

// Valid reports whether n is one of the declared filters.
func (n Name) Valid() bool {
	return n >= 0 && n < nameCount
}

// All returns every filter in declaration order.
func All() []Name {
	all := make([]Name, 0, nameCount)
	for n := Name(0); n < nameCount; n++ {
		all = append(all, n)
	}
	return all
}

// ParseName accepts the canonical names as well as display labels such as
// "High Pass" or "high_pass". Matching ignores case, spaces, '-' and '_'.
func ParseName(s string) (Name, error) {
	key := normalize(s)
	for n := Name(0); n < nameCount; n++ {
		if normalize(names[n]) == key {
			return n, nil
		}
	}
	return 0, fmt.Errorf("unknown filter: %q", s)
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// MarshalText implements encoding.TextMarshaler so names round-trip
// through YAML and JSON as strings.
func (n Name) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("invalid filter %d", int(n))
	}
	return []byte(n.String()), nil
}

func (n *Name) UnmarshalText(text []byte) error {
	parsed, err := ParseName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
