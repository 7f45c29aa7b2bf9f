package filters

// ParameterSpec documents the parameter range a shell should offer for a
// filter. The filters themselves only reject values with no meaning.
type ParameterSpec struct {
	Filter  Name
	Label   string
	Uses    bool
	Min     float64
	Max     float64
	Default float64
	Integer bool
}

// InRange reports whether v lies in the recommended range. Filters that
// ignore their parameter accept anything.
func (p ParameterSpec) InRange(v float64) bool {
	if !p.Uses {
		return true
	}
	if p.Integer && v != float64(int64(v)) {
		return false
	}
	return v >= p.Min && v <= p.Max
}

var catalog = [nameCount]ParameterSpec{
	Grayscale:    {Label: "Grayscale"},
	Binary:       {Label: "Binary", Uses: true, Min: 0, Max: 255, Default: 100, Integer: true},
	Brightness:   {Label: "Brightness", Uses: true, Min: -255, Max: 255, Default: 0, Integer: true},
	Contrast:     {Label: "Contrast", Uses: true, Min: 0.1, Max: 4, Default: 1},
	Negative:     {Label: "Negative"},
	Binarisation: {Label: "Binarisation", Uses: true, Min: 0, Max: 255, Default: 0, Integer: true},
	Averaging:    {Label: "Averaging", Uses: true, Min: 1, Max: 10, Default: 1, Integer: true},
	Median:       {Label: "Median", Uses: true, Min: 1, Max: 10, Default: 1, Integer: true},
	Kuwahara:     {Label: "Kuwahara", Uses: true, Min: 1, Max: 10, Default: 1, Integer: true},
	Gaussian:     {Label: "Gaussian", Uses: true, Min: 0.1, Max: 5, Default: 1},
	Sharpening:   {Label: "Sharpening", Uses: true, Min: 1, Max: 20, Default: 1},
	HighPass:     {Label: "High Pass", Uses: true, Min: 4, Max: 20, Default: 10},
	Laplace:      {Label: "Laplace"},
	Prewitt:      {Label: "Prewitt"},
	Roberts:      {Label: "Roberts"},
	Sobel:        {Label: "Sobel"},
	Scharr:       {Label: "Scharr"},
	Ridge:        {Label: "Ridge"},
}

// Parameter returns the recommended parameter range for one filter.
func Parameter(n Name) (ParameterSpec, bool) {
	if !n.Valid() {
		return ParameterSpec{}, false
	}
	spec := catalog[n]
	spec.Filter = n
	return spec, true
}

// Catalog lists parameter specs for every filter in declaration order.
func Catalog() []ParameterSpec {
	specs := make([]ParameterSpec, 0, nameCount)
	for _, n := range All() {
		spec, _ := Parameter(n)
		specs = append(specs, spec)
	}
	return specs
}
