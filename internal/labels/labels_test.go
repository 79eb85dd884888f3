// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package labels

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/risda/internal/metrics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"python repr", "['Banjir', 'Sampah']", []string{"Banjir", "Sampah"}, false},
		{"json list", `["Banjir","Lingkungan"]`, []string{"Banjir", "Lingkungan"}, false},
		{"json unicode escape", `["Air Bersih & Sanitasi"]`, []string{"Air Bersih & Sanitasi"}, false},
		{"bare words", "[Banjir, Perkotaan / Permukiman]", []string{"Banjir", "Perkotaan / Permukiman"}, false},
		{"escaped quote", `['Kid\'s Health']`, []string{"Kid's Health"}, false},
		{"trailing comma", "['Banjir',]", []string{"Banjir"}, false},
		{"empty list", "[]", []string{}, false},
		{"surrounding whitespace", "  [ 'Energi' ]  ", []string{"Energi"}, false},
		{"blank", "   ", nil, true},
		{"not a list", "Banjir", nil, true},
		{"unterminated quote", "['Banjir]", nil, true},
		{"missing comma", "['Banjir' 'Sampah']", nil, true},
		{"empty item", "['Banjir',,'Sampah']", nil, true},
		{"code is not evaluated", "[__import__('os').system('x')]", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFallsBackToSingleLabel(t *testing.T) {
	before := testutil.ToFloat64(metrics.LabelParseFallbacks)

	got, degraded := Resolve("Banjir")
	assert.True(t, degraded)
	assert.Equal(t, []string{"Banjir"}, got)

	got, degraded = Resolve("['Banjir'")
	assert.True(t, degraded)
	assert.Equal(t, []string{"['Banjir'"}, got)

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.LabelParseFallbacks))

	got, degraded = Resolve("['Sampah']")
	assert.False(t, degraded)
	assert.Equal(t, []string{"Sampah"}, got)

	got, degraded = Resolve("  ")
	assert.False(t, degraded)
	assert.Nil(t, got)
}

func TestFormatRoundTrip(t *testing.T) {
	list := []string{"Banjir", "Air Bersih & Sanitasi", `it's \ odd`}
	s := Format(list)
	assert.Equal(t, `['Banjir', 'Air Bersih & Sanitasi', 'it\'s \\ odd']`, s)

	got, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, list, got)

	assert.Equal(t, "[]", Format(nil))
}

func TestLookupAndDisplay(t *testing.T) {
	c, ok := Lookup("Banjir")
	assert.True(t, ok)
	assert.Equal(t, "🌊", c.Emoji)
	assert.Equal(t, "🌊 Banjir", Display("Banjir"))

	c, ok = Lookup("Antariksa")
	assert.False(t, ok)
	assert.Equal(t, DefaultColor, c.Color)
	assert.Equal(t, "Antariksa", Display("Antariksa"))

	assert.Len(t, Taxonomy(), 23)
}

func TestDistinct(t *testing.T) {
	got := Distinct([]string{"Sampah", "Banjir"}, []string{" Banjir", ""}, nil)
	assert.Equal(t, []string{"Banjir", "Sampah"}, got)
}
