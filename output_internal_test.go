package wlr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestMode(t *testing.T) {
	tests := []struct {
		name  string
		modes []Mode
		best  Mode
		ok    bool
	}{
		{name: "Empty"},
		{
			name:  "Preferred",
			modes: []Mode{{Width: 1920, Height: 1080, Refresh: 60000}, {Width: 800, Height: 600, Preferred: true}},
			best:  Mode{Width: 800, Height: 600, Preferred: true},
			ok:    true,
		},
		{
			name:  "Largest",
			modes: []Mode{{Width: 1280, Height: 720}, {Width: 2560, Height: 1440}, {Width: 1920, Height: 1080}},
			best:  Mode{Width: 2560, Height: 1440},
			ok:    true,
		},
		{
			name:  "Refresh",
			modes: []Mode{{Width: 2560, Height: 1440, Refresh: 60000}, {Width: 2560, Height: 1440, Refresh: 144000}},
			best:  Mode{Width: 2560, Height: 1440, Refresh: 144000},
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := bestMode(tt.modes)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.best, best)
		})
	}
}
