package svg

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/matzehuels/crossboard/pkg/layout"
)

// DefaultDPI is the pixel density of the output.
const DefaultDPI = 72.0

const regionCSS = `
    .region-debug { fill: none; stroke: #d33; stroke-width: 0.5; stroke-dasharray: 3 2; }
    .region-label { font: 7px monospace; fill: #d33; }
    .dendrogram { fill: none; stroke: #333; stroke-linecap: square; }
    .dendrogram.meta { stroke: #888; }
    .dendrogram.divider { stroke: #aaa; stroke-dasharray: 2 2; }
    text { font-family: Helvetica, Arial, sans-serif; }`

// Option configures a Canvas.
type Option func(*Canvas)

func WithDPI(dpi float64) Option        { return func(c *Canvas) { c.dpi = dpi } }
func WithDebug() Option                 { return func(c *Canvas) { c.debug = true } }
func WithBackground(fill string) Option { return func(c *Canvas) { c.background = fill } }
func WithStroke(px float64) Option      { return func(c *Canvas) { c.stroke = px } }

// Canvas is an in-memory SVG document and a [layout.Surface].
type Canvas struct {
	width, height float64
	dpi           float64
	stroke        float64
	debug         bool
	background    string
	regions       []*Region
	byKey         map[string]*Region
}

// New creates an empty canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		dpi:    DefaultDPI,
		stroke: 1,
		byKey:  make(map[string]*Region),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSize implements layout.Surface. Sizes are in inches.
func (c *Canvas) SetSize(w, h float64) {
	c.width, c.height = w, h
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (w, h float64) {
	return c.width * c.dpi, c.height * c.dpi
}

// Place implements layout.Surface. Placing an existing key replaces the
// region and drops what was drawn into it.
func (c *Canvas) Place(key string, r layout.Rect) layout.Region {
	reg := &Region{key: key, rect: r, canvas: c}
	if old, ok := c.byKey[key]; ok {
		for i, o := range c.regions {
			if o == old {
				c.regions[i] = reg
			}
		}
	} else {
		c.regions = append(c.regions, reg)
	}
	c.byKey[key] = reg
	return reg
}

// Region returns the region placed under key.
func (c *Canvas) Region(key string) (*Region, bool) {
	r, ok := c.byKey[key]
	return r, ok
}

// Keys returns region keys in placement order.
func (c *Canvas) Keys() []string {
	keys := make([]string, len(c.regions))
	for i, r := range c.regions {
		keys[i] = r.key
	}
	return keys
}

// Bytes renders the document.
func (c *Canvas) Bytes() []byte {
	var buf bytes.Buffer
	w, h := c.Size()
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", regionCSS)
	if c.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", attr(c.background))
	}
	for _, r := range c.regions {
		r.write(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteTo writes the rendered document to w.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// Region is one placed panel chunk.
type Region struct {
	key    string
	rect   layout.Rect
	canvas *Canvas
	elems  []string
}

// Key returns the region key, "layout/panel/index".
func (r *Region) Key() string { return r.key }

// Bounds implements layout.Region.
func (r *Region) Bounds() layout.Rect { return r.rect }

// Elements returns the number of drawn elements.
func (r *Region) Elements() int { return len(r.elems) }

// px converts region-local coordinates to document pixels.
func (r *Region) px(u, v float64) (x, y float64) {
	w, h := r.canvas.Size()
	x0 := r.rect.X * w
	y0 := (1 - r.rect.Y - r.rect.H) * h
	return x0 + u*r.rect.W*w, y0 + (1-v)*r.rect.H*h
}

// span converts a region-local extent to pixels.
func (r *Region) span(du, dv float64) (w, h float64) {
	cw, ch := r.canvas.Size()
	return du * r.rect.W * cw, dv * r.rect.H * ch
}

// DrawLine implements layout.LineDrawer.
func (r *Region) DrawLine(xs, ys []float64, class string) {
	n := min(len(xs), len(ys))
	if n < 2 {
		return
	}
	pts := make([]string, n)
	for i := 0; i < n; i++ {
		x, y := r.px(xs[i], ys[i])
		pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	r.elems = append(r.elems, fmt.Sprintf(`<polyline class="%s" points="%s" stroke-width="%.2f"/>`,
		attr(class), strings.Join(pts, " "), r.canvas.stroke))
}

// FillRect draws a filled rectangle with its bottom-left corner at (x, y).
func (r *Region) FillRect(x, y, w, h float64, fill, class string) {
	px, py := r.px(x, y+h)
	pw, ph := r.span(w, h)
	r.elems = append(r.elems, fmt.Sprintf(`<rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
		attr(class), px, py, pw, ph, attr(fill)))
}

// Anchor is the horizontal alignment of text.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// TextOptions style a label.
type TextOptions struct {
	Anchor Anchor
	// Size is the font size in points. Zero means 8.
	Size float64
	// Rotate turns the label counter-clockwise by degrees.
	Rotate float64
	Class  string
}

// Text draws s at (x, y), vertically centered.
func (r *Region) Text(x, y float64, s string, opts TextOptions) {
	px, py := r.px(x, y)
	size := opts.Size
	if size == 0 {
		size = 8
	}
	size *= r.canvas.dpi / 72
	anchor := opts.Anchor
	if anchor == "" {
		anchor = AnchorStart
	}
	transform := ""
	if opts.Rotate != 0 {
		transform = fmt.Sprintf(` transform="rotate(%.1f %.2f %.2f)"`, -opts.Rotate, px, py)
	}
	r.elems = append(r.elems, fmt.Sprintf(`<text class="%s" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="%s" dominant-baseline="middle"%s>%s</text>`,
		attr(opts.Class), px, py, size, anchor, transform, html.EscapeString(s)))
}

func (r *Region) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <g id="%s">`+"\n", attr(r.key))
	for _, e := range r.elems {
		buf.WriteString("    ")
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	if r.canvas.debug {
		x, y := r.px(0, 1)
		w, h := r.span(1, 1)
		fmt.Fprintf(buf, `    <rect class="region-debug" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n", x, y, w, h)
		fmt.Fprintf(buf, `    <text class="region-label" x="%.2f" y="%.2f">%s</text>`+"\n", x+2, y+8, html.EscapeString(r.key))
	}
	buf.WriteString("  </g>\n")
}

func attr(s string) string { return html.EscapeString(s) }

var (
	_ layout.Surface    = (*Canvas)(nil)
	_ layout.LineDrawer = (*Region)(nil)
)
