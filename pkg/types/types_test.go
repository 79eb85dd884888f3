// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeText(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		synopsis string
		want     string
	}{
		{"title and synopsis", "Flood Sensor", "IoT flood early warning",
			"Flood Sensor Flood Sensor Flood Sensor IoT flood early warning"},
		{"trims whitespace", "  Sensor ", " warning  ", "Sensor Sensor Sensor warning"},
		{"synopsis only", "", "only body", "only body"},
		{"title only", "T", "", "T T T"},
		{"both empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeText(tt.title, tt.synopsis))
		})
	}
}

func TestClassifierText(t *testing.T) {
	assert.Equal(t, "Judul. Isi", ClassifierText("Judul", "Isi"))
	assert.Equal(t, "Judul", ClassifierText("Judul", " "))
	assert.Equal(t, "Isi", ClassifierText("", "Isi"))
	assert.Equal(t, "", ClassifierText("", ""))
}

func TestNewRecordRecomputesMergedText(t *testing.T) {
	n := NewRecord{Title: " Flood Barrier ", Synopsis: "Mechanical flood barrier", Year: 2024}
	r := n.Record([]string{"Banjir"})
	assert.Equal(t, "Flood Barrier", r.Title)
	assert.Equal(t, "Flood Barrier Flood Barrier Flood Barrier Mechanical flood barrier", r.MergedText)

	r.Title = "Levee"
	r.Remerge()
	assert.Equal(t, "Levee Levee Levee Mechanical flood barrier", r.MergedText)
}

func TestHasLabel(t *testing.T) {
	r := Record{Labels: []string{"Banjir", " Lingkungan"}}
	assert.True(t, r.HasLabel([]string{"Sampah", "Lingkungan"}))
	assert.False(t, r.HasLabel([]string{"Sampah"}))
	assert.False(t, r.HasLabel(nil))
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.Defaults()
	assert.Equal(t, 15, c.Search.PageSize)
	assert.Equal(t, SortNewest, c.Search.Sort)
	assert.Equal(t, 50, c.Problem.Candidates)
	assert.Equal(t, 20, c.Problem.Keep)
	assert.Equal(t, time.Minute, c.Server.RateWindow)

	c2 := Config{Search: SearchConfig{Sort: SortOldest, PageSize: 3}}
	c2.Defaults()
	assert.Equal(t, SortOldest, c2.Search.Sort)
	assert.Equal(t, 3, c2.Search.PageSize)
}
