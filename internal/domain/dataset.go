package domain

import (
	"fmt"
)

// Attr is a single NetCDF attribute. Value holds one of the classic-format
// attribute types: string, []uint8, []int16, []int32, []float32 or []float64.
type Attr struct {
	Name  string
	Value any
}

// AttrList is an ordered attribute collection. NetCDF attribute order is
// meaningful to downstream tooling, so a slice is used instead of a map.
type AttrList []Attr

// Get returns the value of the named attribute.
func (l AttrList) Get(name string) (any, bool) {
	for i := range l {
		if l[i].Name == name {
			return l[i].Value, true
		}
	}
	return nil, false
}

// GetString returns the named attribute as a string, or "" if it is absent
// or not a character attribute.
func (l AttrList) GetString(name string) string {
	v, ok := l.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Set replaces the named attribute in place, or appends it if absent.
func (l *AttrList) Set(name string, value any) {
	for i := range *l {
		if (*l)[i].Name == name {
			(*l)[i].Value = value
			return
		}
	}
	*l = append(*l, Attr{Name: name, Value: value})
}

// Del removes the named attribute. Removing an absent attribute is a no-op.
func (l *AttrList) Del(name string) {
	for i := range *l {
		if (*l)[i].Name == name {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return
		}
	}
}

// Clone returns a copy that can be mutated independently. Attribute values
// are shared; callers replace values rather than mutating them.
func (l AttrList) Clone() AttrList {
	if l == nil {
		return nil
	}
	out := make(AttrList, len(l))
	copy(out, l)
	return out
}

// Dim is a named NetCDF dimension.
type Dim struct {
	Name   string
	Length int
}

// Variable is a NetCDF variable with its data loaded in memory.
// Values holds one of []uint8, string (character data), []int16, []int32,
// []float32 or []float64, in row-major dimension order.
type Variable struct {
	Name   string
	Dims   []string
	Attrs  AttrList
	Values any
}

// Len returns the number of stored elements (characters for string data).
func (v *Variable) Len() int {
	switch d := v.Values.(type) {
	case []uint8:
		return len(d)
	case string:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	}
	return 0
}

// Float64s converts numeric variable data to float64.
// Character variables cannot be converted.
func (v *Variable) Float64s() ([]float64, error) {
	switch d := v.Values.(type) {
	case []uint8:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(int8(x))
		}
		return out, nil
	case []int16:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x)
		}
		return out, nil
	case []float32:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x)
		}
		return out, nil
	case []float64:
		out := make([]float64, len(d))
		copy(out, d)
		return out, nil
	}
	return nil, fmt.Errorf("variable %s: character data cannot be converted to float64", v.Name)
}

// Dataset is an in-memory NetCDF dataset: dimensions, variables and global
// attributes, all in file order.
type Dataset struct {
	Dims  []Dim
	Vars  []*Variable
	Attrs AttrList
}

// Var returns the named variable, or nil if it does not exist.
func (ds *Dataset) Var(name string) *Variable {
	for _, v := range ds.Vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// DimLength returns the length of the named dimension.
func (ds *Dataset) DimLength(name string) (int, bool) {
	for _, d := range ds.Dims {
		if d.Name == name {
			return d.Length, true
		}
	}
	return 0, false
}

// SliceProfiles returns a new dataset restricted to profile records
// [from, to) along the given axis. Variables whose outermost dimension is
// the axis are sliced; variables not indexed by the axis are copied whole.
// A variable carrying the axis in a non-leading position is rejected.
func (ds *Dataset) SliceProfiles(axis string, from, to int) (*Dataset, error) {
	axisLen, ok := ds.DimLength(axis)
	if !ok {
		return nil, fmt.Errorf("profile dimension %q not found", axis)
	}
	if from < 0 || to > axisLen || from >= to {
		return nil, fmt.Errorf("profile slice [%d,%d) out of range for dimension %s of length %d", from, to, axis, axisLen)
	}

	out := &Dataset{
		Dims:  make([]Dim, len(ds.Dims)),
		Vars:  make([]*Variable, 0, len(ds.Vars)),
		Attrs: ds.Attrs.Clone(),
	}
	copy(out.Dims, ds.Dims)
	for i := range out.Dims {
		if out.Dims[i].Name == axis {
			out.Dims[i].Length = to - from
		}
	}

	for _, v := range ds.Vars {
		sv, err := sliceVariable(v, axis, axisLen, from, to)
		if err != nil {
			return nil, err
		}
		out.Vars = append(out.Vars, sv)
	}
	return out, nil
}

func sliceVariable(v *Variable, axis string, axisLen, from, to int) (*Variable, error) {
	onAxis := false
	for i, d := range v.Dims {
		if d != axis {
			continue
		}
		if i != 0 {
			return nil, fmt.Errorf("variable %s: profile dimension %s must be outermost", v.Name, axis)
		}
		onAxis = true
	}

	out := &Variable{
		Name:  v.Name,
		Dims:  append([]string(nil), v.Dims...),
		Attrs: v.Attrs.Clone(),
	}
	if !onAxis {
		out.Values = v.Values
		return out, nil
	}

	rowSize := v.Len() / axisLen
	out.Values = sliceValues(v.Values, from*rowSize, to*rowSize)
	return out, nil
}

func sliceValues(values any, from, to int) any {
	switch d := values.(type) {
	case []uint8:
		return append([]uint8(nil), d[from:to]...)
	case string:
		return d[from:to]
	case []int16:
		return append([]int16(nil), d[from:to]...)
	case []int32:
		return append([]int32(nil), d[from:to]...)
	case []float32:
		return append([]float32(nil), d[from:to]...)
	case []float64:
		return append([]float64(nil), d[from:to]...)
	}
	return nil
}
