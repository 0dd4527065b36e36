// Package svg materializes a chart.Plan as an SVG document.
package svg

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/claude/liftlog/internal/chart"
)

// Theme holds the colors used per primitive role.
type Theme struct {
	Grid, Axis, Label, Title, Series, MarkerStroke string
}

// DarkTheme matches the dark dashboard the charts were designed for.
var DarkTheme = Theme{
	Grid:         "#1b2030",
	Axis:         "#2a3245",
	Label:        "#637089",
	Title:        "#cfe6ff",
	Series:       "#6dd3fb",
	MarkerStroke: "#0b0c10",
}

func (t Theme) stroke(r chart.Role) string {
	switch r {
	case chart.RoleAxis:
		return t.Axis
	case chart.RoleSeries:
		return t.Series
	}
	return t.Grid
}

func (t Theme) fill(r chart.Role) string {
	if r == chart.RoleTitle {
		return t.Title
	}
	return t.Label
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Encode writes plan as a standalone SVG element using DarkTheme. Markers
// carry a data-workout-id attribute and a <title> with the tooltip text.
func Encode(w io.Writer, plan chart.Plan) error {
	return EncodeTheme(w, plan, DarkTheme)
}

// EncodeTheme is Encode with explicit colors.
func EncodeTheme(w io.Writer, plan chart.Plan, t Theme) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		f(plan.Width), f(plan.Height), f(plan.Width), f(plan.Height))

	for _, l := range plan.Lines {
		fmt.Fprintf(bw, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" class="%s"/>`+"\n",
			f(l.X1), f(l.Y1), f(l.X2), f(l.Y2), t.stroke(l.Role), f(l.Width), l.Role)
	}
	for _, p := range plan.Paths {
		fmt.Fprintf(bw, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round" class="%s"/>`+"\n",
			escape(p.D), t.stroke(p.Role), f(p.Width), p.Role)
	}
	for _, m := range plan.Markers {
		fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="1.5" data-workout-id="%s"><title>%s</title></circle>`+"\n",
			f(m.X), f(m.Y), f(m.Radius), t.Series, t.MarkerStroke, escape(m.WorkoutID), escape(m.Tooltip.Text))
	}
	for _, tx := range plan.Texts {
		weight := "normal"
		if tx.Bold {
			weight = "bold"
		}
		fmt.Fprintf(bw, `<text x="%s" y="%s" fill="%s" font-size="%s" font-weight="%s" class="%s">%s</text>`+"\n",
			f(tx.X), f(tx.Y), t.fill(tx.Role), f(tx.Size), weight, tx.Role, escape(tx.Value))
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}
