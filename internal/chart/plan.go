// Package chart turns a progression series into backend-neutral drawing
// primitives in a virtual coordinate space.
package chart

import "time"

// Viewport is the logical canvas: total size and the padding around the
// plotting area. Location selects the time zone for date labels; nil
// means UTC.
type Viewport struct {
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	PadLeft   float64        `json:"pad_left"`
	PadRight  float64        `json:"pad_right"`
	PadTop    float64        `json:"pad_top"`
	PadBottom float64        `json:"pad_bottom"`
	Location  *time.Location `json:"-"`
}

// DefaultViewport is a 720×260 canvas with room for the y labels on the
// left and the date labels below.
func DefaultViewport() Viewport {
	return Viewport{Width: 720, Height: 260, PadLeft: 46, PadRight: 16, PadTop: 16, PadBottom: 32}
}

func (v Viewport) innerWidth() float64  { return v.Width - v.PadLeft - v.PadRight }
func (v Viewport) innerHeight() float64 { return v.Height - v.PadTop - v.PadBottom }

// Role says what a primitive depicts so backends can style it.
type Role string

const (
	RoleGrid      Role = "grid"
	RoleAxis      Role = "axis"
	RoleGridLabel Role = "grid_label"
	RoleDateLabel Role = "date_label"
	RoleTitle     Role = "title"
	RoleSeries    Role = "series"
	RoleMessage   Role = "message"
)

// Line is a straight segment.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Width float64 `json:"width"`
	Role  Role    `json:"role"`
}

// Path is a polyline in SVG path syntax ("M x y L x y ...").
type Path struct {
	D     string  `json:"d"`
	Width float64 `json:"width"`
	Role  Role    `json:"role"`
}

// Tooltip describes what to show when a marker is hovered.
type Tooltip struct {
	When   string  `json:"when"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Text   string  `json:"text"`
}

// Marker is one data point. WorkoutID refers back to the source workout so
// a host can highlight it on click.
type Marker struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Tooltip   Tooltip `json:"tooltip"`
	WorkoutID string  `json:"workout_id"`
}

// Text is a label anchored at its baseline start.
type Text struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value string  `json:"value"`
	Size  float64 `json:"size"`
	Bold  bool    `json:"bold,omitempty"`
	Role  Role    `json:"role"`
}

// Plan is everything needed to draw one chart. Empty is set when the plan
// only carries an informational message.
type Plan struct {
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	NiceMax float64  `json:"nice_max"`
	Lines   []Line   `json:"lines"`
	Paths   []Path   `json:"paths"`
	Markers []Marker `json:"markers"`
	Texts   []Text   `json:"texts"`
	Empty   bool     `json:"empty"`
}
