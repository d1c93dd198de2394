package skilltree_test

import (
	"testing"

	"github.com/meikuraledutech/skilltree"
	"github.com/stretchr/testify/assert"
)

func TestEdgeOptions(t *testing.T) {
	p := skilltree.DefaultPalette()

	tests := []struct {
		name           string
		source, target bool
		wantAnimated   bool
		wantColor      string
	}{
		{"locked to locked", false, false, false, skilltree.DefaultDullColor},
		{"locked to unlocked", false, true, false, skilltree.DefaultDullColor},
		{"unlocked to locked", true, false, true, skilltree.DefaultActiveColor},
		{"unlocked to unlocked", true, true, false, skilltree.DefaultActiveColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.EdgeOptions(tt.source, tt.target)

			assert.Equal(t, tt.wantAnimated, got.Animated)
			assert.Equal(t, tt.wantColor, got.Style.Stroke)
			assert.Equal(t, 2, got.Style.StrokeWidth)
			assert.Equal(t, skilltree.Marker{
				Type:   skilltree.MarkerArrowClosed,
				Width:  20,
				Height: 20,
				Color:  tt.wantColor,
			}, got.MarkerEnd)
			assert.Equal(t, got, p.EdgeOptions(tt.source, tt.target), "derivation is deterministic")
		})
	}
}
