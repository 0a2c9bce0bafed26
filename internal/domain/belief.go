package domain

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BeliefItem is a single weighted belief inside the worldview or selfview section.
type BeliefItem struct {
	Description string  `yaml:"description" json:"description"`
	Weight      float64 `yaml:"weight" json:"weight"`
}

// BeliefDocument is the structured belief system of a character. All three sections are
// always present; weights lie in [0,1].
type BeliefDocument struct {
	Worldview map[string]BeliefItem `yaml:"worldview" json:"worldview"`
	Selfview  map[string]BeliefItem `yaml:"selfview" json:"selfview"`
	Values    map[string]float64    `yaml:"values" json:"values"`
}

// EmptyBeliefDocument returns a document whose three sections are present but empty.
func EmptyBeliefDocument() BeliefDocument {
	return BeliefDocument{
		Worldview: map[string]BeliefItem{},
		Selfview:  map[string]BeliefItem{},
		Values:    map[string]float64{},
	}
}

// IsEmpty reports whether no belief has emerged yet.
func (d BeliefDocument) IsEmpty() bool {
	return len(d.Worldview) == 0 && len(d.Selfview) == 0 && len(d.Values) == 0
}

// Normalize fills missing sections and clamps every weight into [0,1].
func (d *BeliefDocument) Normalize() {
	if d.Worldview == nil {
		d.Worldview = map[string]BeliefItem{}
	}
	if d.Selfview == nil {
		d.Selfview = map[string]BeliefItem{}
	}
	if d.Values == nil {
		d.Values = map[string]float64{}
	}
	for k, item := range d.Worldview {
		item.Weight = ClampWeight(item.Weight)
		d.Worldview[k] = item
	}
	for k, item := range d.Selfview {
		item.Weight = ClampWeight(item.Weight)
		d.Selfview[k] = item
	}
	for k, w := range d.Values {
		d.Values[k] = ClampWeight(w)
	}
}

// Validate checks the document invariants without modifying it.
func (d BeliefDocument) Validate() error {
	if d.Worldview == nil || d.Selfview == nil || d.Values == nil {
		return fmt.Errorf("belief document must contain worldview, selfview and values")
	}
	for k, item := range d.Worldview {
		if !validWeight(item.Weight) {
			return fmt.Errorf("worldview %q: weight %v out of range", k, item.Weight)
		}
	}
	for k, item := range d.Selfview {
		if !validWeight(item.Weight) {
			return fmt.Errorf("selfview %q: weight %v out of range", k, item.Weight)
		}
	}
	for k, w := range d.Values {
		if !validWeight(w) {
			return fmt.Errorf("value %q: weight %v out of range", k, w)
		}
	}
	return nil
}

// YAML serializes the document with exactly the three named sections.
func (d BeliefDocument) YAML() string {
	d.Normalize()
	out, err := yaml.Marshal(d)
	if err != nil {
		// Maps of plain structs always marshal.
		return "worldview: {}\nselfview: {}\nvalues: {}\n"
	}
	return string(out)
}

// TopValues returns value names ordered by descending weight, ties broken by name.
func (d BeliefDocument) TopValues(n int) []string {
	names := make([]string, 0, len(d.Values))
	for k := range d.Values {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if d.Values[names[i]] != d.Values[names[j]] {
			return d.Values[names[i]] > d.Values[names[j]]
		}
		return names[i] < names[j]
	})
	if n > 0 && len(names) > n {
		names = names[:n]
	}
	return names
}

// ParseBeliefDocument decodes a YAML (or JSON) belief document, tolerating markdown fences.
// The result is normalized.
func ParseBeliefDocument(text string) (BeliefDocument, error) {
	doc, _, err := DecodeBeliefDocument(text)
	return doc, err
}

// DecodeBeliefDocument is ParseBeliefDocument that also reports whether any weight lay
// outside [0,1] and was clamped.
func DecodeBeliefDocument(text string) (doc BeliefDocument, clamped bool, err error) {
	raw := StripCodeFence(text)
	if raw == "" {
		return BeliefDocument{}, false, fmt.Errorf("empty belief document")
	}

	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return BeliefDocument{}, false, fmt.Errorf("parse belief document: %w", err)
	}
	if doc.Worldview == nil && doc.Selfview == nil && doc.Values == nil {
		return BeliefDocument{}, false, fmt.Errorf("belief document has none of worldview, selfview, values")
	}

	clamped = !doc.weightsInRange()
	doc.Normalize()
	return doc, clamped, nil
}

func (d BeliefDocument) weightsInRange() bool {
	for _, item := range d.Worldview {
		if !validWeight(item.Weight) {
			return false
		}
	}
	for _, item := range d.Selfview {
		if !validWeight(item.Weight) {
			return false
		}
	}
	for _, w := range d.Values {
		if !validWeight(w) {
			return false
		}
	}
	return true
}

// StripCodeFence removes a surrounding markdown code fence (```json, ```yaml, ```), including
// one written on a single line.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimRight(s, " \t\r\n"), "```")

	tag := 0
	for tag < len(s) && isFenceTagByte(s[tag]) {
		tag++
	}
	if tag > 0 {
		rest := s[tag:]
		if strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n") || rest == "" {
			s = rest
		} else if t := strings.TrimLeft(rest, " \t"); strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
			s = t
		}
	}
	return strings.TrimSpace(s)
}

func isFenceTagByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_' || b == '+'
}

func ClampWeight(w float64) float64 {
	switch {
	case w != w: // NaN
		return 0
	case w < 0:
		return 0
	case w > 1:
		return 1
	}
	return w
}

func validWeight(w float64) bool {
	return w >= 0 && w <= 1
}
