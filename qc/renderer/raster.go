package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kegliz/qalloc/qc/circuit"
	"github.com/kegliz/qalloc/qc/gate"
)

// Raster rasterizes a circuit straight onto an image.RGBA using hand-written
// primitives (lines, circles, rectangles) instead of a vector graphics
// library. Single-qubit gates are drawn as a filled box whose color encodes
// the gate, labelled with the gate's symbol in the golang.org/x/image
// basicfont bitmap face.
type Raster struct{ Cell float64 }

// NewRenderer returns a Raster with the given cell size in pixels.
func NewRenderer(cellPx int) Raster { return Raster{Cell: float64(cellPx)} }

var boxColors = map[string]color.RGBA{
	"H": {173, 216, 230, 255}, // light blue
	"X": {255, 182, 193, 255}, // light pink
	"Y": {255, 218, 185, 255}, // peach
	"Z": {200, 200, 255, 255}, // lavender
	"S": {200, 255, 200, 255}, // light green
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func (r Raster) Render(c circuit.Circuit) (image.Image, error) {
	steps := c.MaxStep() + 1
	if steps < 1 {
		steps = 1
	}
	w := int(float64(steps) * r.Cell)
	h := int(float64(c.Qubits()) * r.Cell)
	if h <= 0 {
		h = int(r.Cell)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, 0, 0, w, h, white)

	for i := 0; i < c.Qubits(); i++ {
		y := int(r.y(i))
		drawLine(img, 0, y, w-1, y, black)
	}

	for _, op := range c.Operations() {
		switch op.G.Name() {
		case "H", "X", "Y", "Z", "S":
			r.drawBoxGate(img, op)
			continue
		}

		switch op.G.Name() {
		case "CNOT":
			r.drawControlTarget(img, op, true)
		case "CZ":
			r.drawControlTarget(img, op, false)
		case "FREDKIN":
			r.drawFredkin(img, op)
		case "SWAP":
			r.drawSwap(img, op)
		case "TOFFOLI":
			r.drawToffoli(img, op)
		case "MEASURE":
			r.drawMeasurement(img, op)
		default:
			if g, ok := op.G.(gate.Gate); ok && g.QubitSpan() == 1 {
				r.drawBoxGate(img, op)
			} else {
				return nil, fmt.Errorf("renderer: unsupported or unknown gate type %q", op.G.Name())
			}
		}
	}

	return img, nil
}

func (r Raster) Save(path string, c circuit.Circuit) error {
	img, err := r.Render(c)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func (r Raster) x(step int) float64 { return float64(step)*r.Cell + r.Cell/2 }
func (r Raster) y(line int) float64 { return float64(line)*r.Cell + r.Cell/2 }

func (r Raster) drawBoxGate(img *image.RGBA, op circuit.Operation) {
	if op.Line < 0 {
		return
	}
	cx, cy := int(r.x(op.TimeStep)), int(r.y(op.Line))
	size := int(r.Cell * .7)
	fill := boxColors[op.G.Name()]
	if fill.A == 0 {
		fill = white
	}
	fillRect(img, cx-size/2, cy-size/2, size, size, fill)
	strokeRect(img, cx-size/2, cy-size/2, size, size, black)
	drawTextCentered(img, cx, cy, black, op.G.DrawSymbol())
}

func (r Raster) drawControlTarget(img *image.RGBA, op circuit.Operation, plusTarget bool) {
	if len(op.Qubits) != 2 {
		return
	}
	x := int(r.x(op.TimeStep))
	ctrlY, tgtY := int(r.y(op.Qubits[0])), int(r.y(op.Qubits[1]))
	fillCircle(img, x, ctrlY, int(r.Cell*0.12), black)
	drawLine(img, x, ctrlY, x, tgtY, black)
	if plusTarget {
		rad := int(r.Cell * 0.18)
		strokeCircle(img, x, tgtY, rad, black)
		drawLine(img, x-rad, tgtY, x+rad, tgtY, black)
		drawLine(img, x, tgtY-rad, x, tgtY+rad, black)
	} else {
		fillCircle(img, x, tgtY, int(r.Cell*0.12), black)
	}
}

func (r Raster) drawToffoli(img *image.RGBA, op circuit.Operation) {
	if len(op.Qubits) != 3 {
		return
	}
	x := int(r.x(op.TimeStep))
	c1, c2, t := op.Qubits[0], op.Qubits[1], op.Qubits[2]
	y1, y2, yt := int(r.y(c1)), int(r.y(c2)), int(r.y(t))
	fillCircle(img, x, y1, int(r.Cell*0.12), black)
	fillCircle(img, x, y2, int(r.Cell*0.12), black)
	drawLine(img, x, minInt(y1, y2, yt), x, maxInt(y1, y2, yt), black)
	rad := int(r.Cell * 0.18)
	strokeCircle(img, x, yt, rad, black)
	drawLine(img, x-rad, yt, x+rad, yt, black)
	drawLine(img, x, yt-rad, x, yt+rad, black)
}

func (r Raster) drawFredkin(img *image.RGBA, op circuit.Operation) {
	if len(op.Qubits) != 3 {
		return
	}
	x := int(r.x(op.TimeStep))
	ctrl, t1, t2 := op.Qubits[0], op.Qubits[1], op.Qubits[2]
	yc, y1, y2 := int(r.y(ctrl)), int(r.y(t1)), int(r.y(t2))
	fillCircle(img, x, yc, int(r.Cell*0.12), black)
	drawLine(img, x, minInt(yc, y1, y2), x, maxInt(yc, y1, y2), black)
	r.drawCross(img, x, y1)
	r.drawCross(img, x, y2)
}

func (r Raster) drawSwap(img *image.RGBA, op circuit.Operation) {
	if len(op.Qubits) != 2 {
		return
	}
	x := int(r.x(op.TimeStep))
	y1, y2 := int(r.y(op.Qubits[0])), int(r.y(op.Qubits[1]))
	r.drawCross(img, x, y1)
	r.drawCross(img, x, y2)
	drawLine(img, x, y1, x, y2, black)
}

func (r Raster) drawCross(img *image.RGBA, x, y int) {
	d := int(r.Cell * 0.18)
	drawLine(img, x-d, y-d, x+d, y+d, black)
	drawLine(img, x-d, y+d, x+d, y-d, black)
}

func (r Raster) drawMeasurement(img *image.RGBA, op circuit.Operation) {
	if op.Line < 0 {
		return
	}
	x, y := int(r.x(op.TimeStep)), int(r.y(op.Line))
	rad := int(r.Cell * 0.25)
	strokeCircle(img, x, y, rad, black)
	drawLine(img, x, y, x+int(float64(rad)*0.8), y-int(float64(rad)*0.8), black)
	drawTextCentered(img, x+rad+6, y-rad/2, black, "M")
}

// drawTextCentered renders txt centered on (cx, cy) using the basicfont
// bitmap face, grounded on the teacher's internal/qrender drawTextAroundCenter.
func drawTextCentered(img *image.RGBA, cx, cy int, col color.Color, txt string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	corrX := fixed.I(cx) - d.MeasureString(txt)/2
	bounds, _ := d.BoundString(txt)
	textHeight := bounds.Max.Y - bounds.Min.Y
	corrY := fixed.I(cy + textHeight.Ceil()/2 - 1)
	d.Dot = fixed.Point26_6{X: corrX, Y: corrY}
	d.DrawString(txt)
}

// --- raster primitives ---

func fillRect(img *image.RGBA, x, y, w, h int, c color.Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			img.Set(px, py, c)
		}
	}
}

func strokeRect(img *image.RGBA, x, y, w, h int, c color.Color) {
	drawLine(img, x, y, x+w, y, c)
	drawLine(img, x, y+h, x+w, y+h, c)
	drawLine(img, x, y, x, y+h, c)
	drawLine(img, x+w, y, x+w, y+h, c)
}

// drawLine rasterizes a straight line with Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// strokeCircle rasterizes a circle outline via the midpoint circle algorithm.
func strokeCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	x, y, d := radius, 0, 1-radius
	for x >= y {
		plotOctants(img, cx, cy, x, y, c)
		y++
		if d <= 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

func plotOctants(img *image.RGBA, cx, cy, x, y int, c color.Color) {
	pts := [][2]int{{x, y}, {y, x}, {-x, y}, {-y, x}, {x, -y}, {y, -x}, {-x, -y}, {-y, -x}}
	for _, p := range pts {
		img.Set(cx+p[0], cy+p[1], c)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(vars ...int) int {
	m := vars[0]
	for _, v := range vars[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(vars ...int) int {
	m := vars[0]
	for _, v := range vars[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
