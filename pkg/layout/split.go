package layout

import (
	"math"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// chunks is the split of one panel axis, in reading order. ratios and
// anchors are fractions of the panel length and, with spacing, cover it.
type chunks struct {
	ratios  []float64
	anchors []float64
}

// expandSpacing broadcasts a single value to every gap. nil means no gaps.
func expandSpacing(spacing []float64, gaps int) []float64 {
	out := make([]float64, gaps)
	if len(spacing) == 1 {
		for i := range out {
			out[i] = spacing[0]
		}
		return out
	}
	if len(spacing) == gaps {
		copy(out, spacing)
		return out
	}
	if len(spacing) == 0 {
		return out
	}
	return spacing // wrong length, rejected by validation
}

// splitAxis normalizes ratios so that chunks and spacing fill [0, 1].
// groups, when given, merges consecutive chunks: group i spans
// floor(groups[i]/Σgroups·count) chunks and the spacing between them.
func splitAxis(ratios, spacing []float64, groups []float64) (chunks, error) {
	spacing = expandSpacing(spacing, len(ratios)-1)
	if err := errors.ValidateRatios(ratios, spacing); err != nil {
		return chunks{}, err
	}

	var total, gaps float64
	for _, r := range ratios {
		total += r
	}
	for _, s := range spacing {
		gaps += s
	}
	canvas := 1 - gaps
	norm := make([]float64, len(ratios))
	for i, r := range ratios {
		norm[i] = r / total * canvas
	}

	if groups == nil {
		out := chunks{ratios: norm, anchors: make([]float64, len(norm))}
		var start float64
		for i, r := range norm {
			out.anchors[i] = start
			start += r
			if i < len(spacing) {
				start += spacing[i]
			}
		}
		return out, nil
	}

	counts, err := groupCounts(groups, len(ratios))
	if err != nil {
		return chunks{}, err
	}
	out := chunks{}
	var start float64
	ix := 0
	for gi, g := range counts {
		length := 0.0
		for j := ix; j < ix+g; j++ {
			length += norm[j]
			if j < ix+g-1 {
				length += spacing[j]
			}
		}
		out.ratios = append(out.ratios, length)
		out.anchors = append(out.anchors, start)
		start += length
		if gi < len(counts)-1 {
			start += spacing[ix+g-1]
		}
		ix += g
	}
	return out, nil
}

func groupCounts(groups []float64, count int) ([]int, error) {
	var sum float64
	for _, g := range groups {
		if g <= 0 || math.IsNaN(g) {
			return nil, errors.New(errors.ErrCodeInvalidRatios, "group ratios must be positive, got %v", groups)
		}
		sum += g
	}
	counts := make([]int, len(groups))
	n := 0
	for i, g := range groups {
		counts[i] = int(math.Floor(g / sum * float64(count)))
		if counts[i] == 0 {
			return nil, errors.New(errors.ErrCodeInvalidRatios, "cannot group %d chunks with ratios %v", count, groups)
		}
		n += counts[i]
	}
	if n != count {
		return nil, errors.New(errors.ErrCodeInvalidRatios, "cannot group %d chunks with ratios %v", count, groups)
	}
	return counts, nil
}
