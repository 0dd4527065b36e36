package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/history"
)

const (
	// Divisions is the number of equal steps between 0 and the nice max.
	Divisions = 5

	// zeroScale stands in for a zero maximum so the scale stays positive
	// and gridline labels stay readable.
	zeroScale = 1

	// minNormal is the smallest normal float64. Log10 misreports the
	// exponent of anything smaller.
	minNormal = 0x1p-1022

	markerRadius = 4.5
	labelSize    = 11
	titleSize    = 12

	tooltipLayout = "Jan 02, 2006, 03:04 PM"
	dateLayout    = "Jan 02"
)

// NiceMax rounds raw up to the nearest 1, 2, 5 or 10 times a power of ten.
// Zero, negative, subnormal and non-finite inputs yield a scale of 1.
func NiceMax(raw float64) float64 {
	if !(raw >= minNormal) || math.IsInf(raw, 0) {
		raw = zeroScale
	}
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	mantissa := raw / base

	var nice float64
	switch {
	case mantissa <= 1:
		nice = 1
	case mantissa <= 2:
		nice = 2
	case mantissa <= 5:
		nice = 5
	default:
		nice = 10
	}
	if out := nice * base; out > 0 && !math.IsInf(out, 0) {
		return out
	}
	return zeroScale
}

// clamp enforces the weights Series guarantees: finite and non-negative.
func clamp(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func message(vp Viewport, text string) Plan {
	return Plan{
		Width:  vp.Width,
		Height: vp.Height,
		Empty:  true,
		Texts:  []Text{{X: 20, Y: 30, Value: text, Size: titleSize, Role: RoleMessage}},
	}
}

// Render lays out series as a line chart titled label. An empty label or
// series produces a plan holding a single message. Negative or non-finite
// weights are clamped to 0.
func Render(series []history.Point, label string, vp Viewport) Plan {
	if label == "" {
		return message(vp, "Pick an exercise to see progress…")
	}
	if len(series) == 0 {
		return message(vp, fmt.Sprintf("No data yet for %s.", label))
	}

	loc := vp.Location
	if loc == nil {
		loc = time.UTC
	}

	rawMax := 0.0
	for _, p := range series {
		rawMax = max(rawMax, clamp(p.TopWeight))
	}
	niceMax := NiceMax(rawMax)

	innerW, innerH := vp.innerWidth(), vp.innerHeight()
	xs := func(i int) float64 {
		if len(series) == 1 {
			return vp.PadLeft + innerW/2
		}
		return vp.PadLeft + float64(i)*innerW/float64(len(series)-1)
	}
	ys := func(v float64) float64 {
		return vp.PadTop + innerH*(1-v/niceMax)
	}

	plan := Plan{Width: vp.Width, Height: vp.Height, NiceMax: niceMax}

	for i := 0; i <= Divisions; i++ {
		value := niceMax / Divisions * float64(i)
		y := ys(value)
		width := 1.0
		if i == Divisions {
			width = 2
		}
		plan.Lines = append(plan.Lines, Line{X1: vp.PadLeft, Y1: y, X2: vp.Width - vp.PadRight, Y2: y, Width: width, Role: RoleGrid})
		plan.Texts = append(plan.Texts, Text{X: 6, Y: y + 4, Value: gridLabel(value, niceMax), Size: labelSize, Role: RoleGridLabel})
	}

	var d strings.Builder
	for i, p := range series {
		x, y := xs(i), ys(clamp(p.TopWeight))
		if i == 0 {
			d.WriteString("M ")
		} else {
			d.WriteString(" L ")
		}
		d.WriteString(num(x) + " " + num(y))

		ts := p.Timestamp.In(loc)
		plan.Texts = append(plan.Texts, Text{
			X: x - 18, Y: vp.Height - vp.PadBottom + 20,
			Value: ts.Format(dateLayout), Size: labelSize, Role: RoleDateLabel,
		})

		weight := clamp(p.TopWeight)
		when := ts.Format(tooltipLayout)
		plan.Markers = append(plan.Markers, Marker{
			X: x, Y: y, Radius: markerRadius,
			WorkoutID: p.WorkoutID,
			Tooltip: Tooltip{
				When:   when,
				Weight: weight,
				Reps:   p.RepsAtTop,
				Text:   fmt.Sprintf("%s: %s kg × %d reps", when, num(weight), p.RepsAtTop),
			},
		})
	}
	plan.Paths = []Path{{D: d.String(), Width: 2.5, Role: RoleSeries}}

	bottom := vp.Height - vp.PadBottom
	plan.Lines = append(plan.Lines,
		Line{X1: vp.PadLeft, Y1: vp.PadTop, X2: vp.PadLeft, Y2: bottom, Width: 1.5, Role: RoleAxis},
		Line{X1: vp.PadLeft, Y1: bottom, X2: vp.Width - vp.PadRight, Y2: bottom, Width: 1.5, Role: RoleAxis},
	)
	plan.Texts = append(plan.Texts, Text{X: vp.PadLeft, Y: 14, Value: label, Size: titleSize, Bold: true, Role: RoleTitle})

	return plan
}

// gridLabel formats a gridline value. Whole numbers are rounded; scales
// below 5 keep decimals so labels stay distinct.
func gridLabel(v, niceMax float64) string {
	if niceMax >= Divisions {
		return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}

// num formats a coordinate or weight without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
