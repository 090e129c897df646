// Package orientation defines the fixed, ordered set of head poses captured
// during enrollment and the instruction shown or spoken for each.
package orientation

import (
	_ "embed"
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed instructions.yaml
var instructionsYAML []byte

// Orientation is one head-pose label.
type Orientation string

// The five poses, in capture order.
const (
	Front  Orientation = "front"
	Left   Orientation = "left"
	Right  Orientation = "right"
	Top    Orientation = "top"
	Bottom Orientation = "bottom"
)

// order is the iteration order of an enrollment sequence. Never mutated.
var order = []Orientation{Front, Left, Right, Top, Bottom}

var instructions map[Orientation]string

type instructionFile struct {
	Orientations []struct {
		Name        string `yaml:"name"`
		Instruction string `yaml:"instruction"`
	} `yaml:"orientations"`
}

func init() {
	var f instructionFile
	if err := yaml.Unmarshal(instructionsYAML, &f); err != nil {
		panic("failed to unmarshal embedded instructions.yaml: " + err.Error())
	}
	instructions = make(map[Orientation]string, len(f.Orientations))
	for _, o := range f.Orientations {
		instructions[Orientation(o.Name)] = o.Instruction
	}
	for _, o := range order {
		if instructions[o] == "" {
			panic(fmt.Sprintf("instructions.yaml is missing orientation %q", o))
		}
	}
}

// All returns the orientations in capture order. The returned slice is a copy.
func All() []Orientation {
	return slices.Clone(order)
}

// Count is the number of orientations in a full sequence.
func Count() int {
	return len(order)
}

// At returns the orientation at the given cursor position.
func At(i int) (Orientation, bool) {
	if i < 0 || i >= len(order) {
		return "", false
	}
	return order[i], true
}

// Index returns the position of o in the sequence, or -1.
func Index(o Orientation) int {
	return slices.Index(order, o)
}

// Parse validates a raw label.
func Parse(s string) (Orientation, error) {
	o := Orientation(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown orientation %q (expected one of %v)", s, order)
	}
	return o, nil
}

// Valid reports whether o is one of the five known poses.
func (o Orientation) Valid() bool {
	return Index(o) >= 0
}

// Instruction returns the human readable instruction for o.
func (o Orientation) Instruction() string {
	return instructions[o]
}

// Label returns a title-cased label suitable for display ("Front").
func (o Orientation) Label() string {
	return cases.Title(language.English).String(string(o))
}

func (o Orientation) String() string {
	return string(o)
}
