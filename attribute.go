package offerdoc

import "strings"

// Attribute is a named product characteristic as published by a datasource,
// e.g. COLOR=Black.
type Attribute struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Language string `json:"language,omitempty"`
}

// NormalizeAttributeName upper-cases name, trims it, collapses inner
// whitespace and drops a trailing colon ("Couleur :" becomes "COULEUR").
func NormalizeAttributeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ":")
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// AddAttribute adds a to the fragment. Adding a name that is already present
// with the same value is a no-op; a different value fails with ECONFLICT and
// the first value is kept.
func (f *Fragment) AddAttribute(a Attribute) error {
	a.Name = NormalizeAttributeName(a.Name)
	a.Value = strings.Join(strings.Fields(a.Value), " ")
	if a.Name == "" {
		return Errorf(EINVALID, "attribute name required")
	}
	if a.Value == "" {
		return Errorf(EINVALID, "attribute %s has no value", a.Name)
	}

	if i, ok := f.attrIndex[a.Name]; ok {
		if strings.EqualFold(f.attributes[i].Value, a.Value) {
			return nil
		}
		return Errorf(ECONFLICT, "attribute %s already set to %q, got %q", a.Name, f.attributes[i].Value, a.Value)
	}

	if f.attrIndex == nil {
		f.attrIndex = make(map[string]int)
	}
	f.attrIndex[a.Name] = len(f.attributes)
	f.attributes = append(f.attributes, a)
	return nil
}

// RemoveAttribute deletes the named attribute and reports whether it existed.
func (f *Fragment) RemoveAttribute(name string) bool {
	name = NormalizeAttributeName(name)
	i, ok := f.attrIndex[name]
	if !ok {
		return false
	}
	f.attributes = append(f.attributes[:i], f.attributes[i+1:]...)
	delete(f.attrIndex, name)
	for j := i; j < len(f.attributes); j++ {
		f.attrIndex[f.attributes[j].Name] = j
	}
	return true
}

// Attribute returns the named attribute.
func (f *Fragment) Attribute(name string) (Attribute, bool) {
	i, ok := f.attrIndex[NormalizeAttributeName(name)]
	if !ok {
		return Attribute{}, false
	}
	return f.attributes[i], true
}

// HasAttribute reports whether the named attribute is set.
func (f *Fragment) HasAttribute(name string) bool {
	_, ok := f.attrIndex[NormalizeAttributeName(name)]
	return ok
}

// Attributes returns a copy of the attributes in insertion order.
func (f *Fragment) Attributes() []Attribute {
	if len(f.attributes) == 0 {
		return nil
	}
	return append([]Attribute(nil), f.attributes...)
}
