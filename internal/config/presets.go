package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"raster-filters/internal/processing/chain"

	"gopkg.in/yaml.v3"
)

// Presets maps a preset name to its ordered chain steps.
type Presets map[string][]chain.Step

type presetFile struct {
	Presets Presets `yaml:"presets"`
}

// LoadPresets reads a YAML document of the form
//
//	presets:
//	  soft:
//	    - filter: gaussian
//	      param: 1.5
//	    - filter: sharpening
//	      param: 5
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	return DecodePresets(bytes.NewReader(data))
}

func DecodePresets(r io.Reader) (Presets, error) {
	var file presetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}
	if file.Presets == nil {
		return Presets{}, nil
	}
	return file.Presets, nil
}

// Chain returns the named preset's steps.
func (p Presets) Chain(name string) ([]chain.Step, error) {
	steps, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return steps, nil
}

func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode writes the presets back in the same YAML layout LoadPresets reads.
func (p Presets) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(presetFile{Presets: p}); err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	return enc.Close()
}
