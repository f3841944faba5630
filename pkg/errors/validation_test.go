package errors

import (
	"math"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "heatmap", false},
		{"valid with dash", "row-dendrogram", false},
		{"valid with dot", "ax.1", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"slash", "main/left", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 1.5, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize("size", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRatios(t *testing.T) {
	tests := []struct {
		name    string
		ratios  []float64
		spacing []float64
		wantErr bool
	}{
		{"single", []float64{1}, nil, false},
		{"two with spacing", []float64{1, 2}, []float64{0.05}, false},
		{"three", []float64{1, 1, 1}, []float64{0.1, 0.1}, false},

		{"empty", nil, nil, true},
		{"zero ratio", []float64{1, 0}, []float64{0.1}, true},
		{"negative ratio", []float64{-1, 1}, []float64{0.1}, true},
		{"missing spacing", []float64{1, 1}, nil, true},
		{"too much spacing", []float64{1, 1, 1}, []float64{0.5, 0.5}, true},
		{"negative spacing", []float64{1, 1}, []float64{-0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRatios(tt.ratios, tt.spacing)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRatios() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRatios) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidRatios)
			}
		})
	}
}

func TestValidateBreakpoints(t *testing.T) {
	tests := []struct {
		name    string
		bps     []int
		n       int
		wantErr bool
	}{
		{"none", nil, 10, false},
		{"one", []int{5}, 10, false},
		{"several", []int{2, 5, 9}, 10, false},

		{"zero", []int{0}, 10, true},
		{"at end", []int{10}, 10, true},
		{"duplicate", []int{3, 3}, 10, true},
		{"unsorted", []int{5, 2}, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBreakpoints(tt.bps, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBreakpoints(%v, %d) error = %v, wantErr %v", tt.bps, tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePermutation(t *testing.T) {
	tests := []struct {
		name    string
		index   []int
		n       int
		wantErr bool
	}{
		{"identity", []int{0, 1, 2}, 3, false},
		{"reversed", []int{2, 1, 0}, 3, false},

		{"short", []int{0, 1}, 3, true},
		{"duplicate", []int{0, 0, 1}, 3, true},
		{"out of range", []int{0, 1, 3}, 3, true},
		{"negative", []int{-1, 0, 1}, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePermutation(tt.index, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePermutation(%v) error = %v, wantErr %v", tt.index, err, tt.wantErr)
			}
		})
	}
}
