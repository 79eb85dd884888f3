// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package labels holds the category taxonomy and the tolerant parser for
// stored label lists such as "['Banjir', 'Sampah']" or `["Banjir"]`.
package labels

import (
	"sort"
	"strings"
)

// Category is a known taxonomy entry.
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Emoji string `json:"emoji" yaml:"emoji"`
	Color string `json:"color" yaml:"color"`
}

// DefaultColor is the badge color of labels outside the taxonomy.
const DefaultColor = "#e2e3e5"

var taxonomy = []Category{
	{"Air Bersih & Sanitasi", "🚿", "#a2d5f2"},
	{"Banjir", "🌊", "#f8d7da"},
	{"Energi", "⚡", "#fce38a"},
	{"Industri", "🏭", "#cce5ff"},
	{"Infrastruktur", "🛣️", "#e2f0cb"},
	{"Kebakaran", "🔥", "#ffcccc"},
	{"Kemacetan", "🚗", "#f6c6ea"},
	{"Kemiskinan & Sosial", "🤝", "#ffd3b6"},
	{"Kesehatan", "🩺", "#d1ecf1"},
	{"Keselamatan", "🛡️", "#fff3cd"},
	{"Ketahanan Pangan", "🌾", "#c3f584"},
	{"Limbah", "🧴", "#ffddcc"},
	{"Lingkungan", "🌱", "#b8f2e6"},
	{"Otomasi & Kontrol", "🤖", "#f0e68c"},
	{"Pencemaran Air", "🚱", "#add8e6"},
	{"Pendidikan", "📚", "#e2e3e5"},
	{"Perkotaan / Permukiman", "🏘️", "#b5ead7"},
	{"Perubahan Iklim", "🌡️", "#f4cccc"},
	{"Polusi Udara", "🌫️", "#ffe4e1"},
	{"Sampah", "🗑️", "#e0bbe4"},
	{"Transportasi", "🚌", "#dadada"},
	{"Transportasi Laut / Maritim", "🚢", "#d0f0c0"},
	{"Umum", "📌", "#dddddd"},
}

var byName = func() map[string]Category {
	m := make(map[string]Category, len(taxonomy))
	for _, c := range taxonomy {
		m[c.Name] = c
	}
	return m
}()

// Taxonomy returns a copy of the known categories in display order.
func Taxonomy() []Category {
	out := make([]Category, len(taxonomy))
	copy(out, taxonomy)
	return out
}

// Lookup returns the category for name. Unknown labels get an empty emoji
// and DefaultColor; ok is false for them.
func Lookup(name string) (c Category, ok bool) {
	name = strings.TrimSpace(name)
	c, ok = byName[name]
	if !ok {
		return Category{Name: name, Color: DefaultColor}, false
	}
	return c, true
}

// Display renders a label with its emoji prefix, e.g. "🌊 Banjir".
func Display(name string) string {
	c, _ := Lookup(name)
	return strings.TrimSpace(c.Emoji + " " + c.Name)
}

// Distinct returns the sorted set of labels across all lists.
func Distinct(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, l := range list {
			l = strings.TrimSpace(l)
			if l == "" || seen[l] {
				continue
			}
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
