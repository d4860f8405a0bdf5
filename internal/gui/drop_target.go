//go:build !nogui

package gui

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var (
	accentColor = color.NRGBA{R: 255, G: 165, B: 0, A: 255}
	idleColor   = color.NRGBA{R: 98, G: 98, B: 98, A: 255}
)

const (
	idleStroke  = 2
	hoverStroke = 4
)

// DropTarget is a bordered region whose stroke highlights while a drop
// gesture hovers it. A slow pulse of its background runs independently.
type DropTarget struct {
	widget.BaseWidget

	mu       sync.RWMutex
	hovering bool

	border *canvas.Rectangle
	glow   *canvas.Rectangle
	label  *widget.Label
	pulse  *fyne.Animation
}

// NewDropTarget creates an idle drop target showing hint
func NewDropTarget(hint string) *DropTarget {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = idleColor
	border.StrokeWidth = idleStroke
	border.CornerRadius = 8

	glow := canvas.NewRectangle(color.NRGBA{R: accentColor.R, G: accentColor.G, B: accentColor.B, A: 8})
	glow.CornerRadius = 8

	label := widget.NewLabelWithStyle(hint, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	d := &DropTarget{border: border, glow: glow, label: label}
	d.pulse = fyne.NewAnimation(2*time.Second, func(f float32) {
		d.glow.FillColor = color.NRGBA{R: accentColor.R, G: accentColor.G, B: accentColor.B, A: uint8(8 + 32*f)}
		d.glow.Refresh()
	})
	d.pulse.AutoReverse = true
	d.pulse.RepeatCount = fyne.AnimationRepeatForever
	d.ExtendBaseWidget(d)
	return d
}

func (d *DropTarget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(d.glow, d.border, container.NewCenter(d.label)))
}

func (d *DropTarget) MinSize() fyne.Size {
	d.ExtendBaseWidget(d)
	return d.BaseWidget.MinSize().Max(fyne.NewSize(320, 200))
}

// SetHovering switches the highlight on or off
func (d *DropTarget) SetHovering(hovering bool) {
	d.mu.Lock()
	d.hovering = hovering
	d.mu.Unlock()

	if hovering {
		d.border.StrokeColor = accentColor
		d.border.StrokeWidth = hoverStroke
	} else {
		d.border.StrokeColor = idleColor
		d.border.StrokeWidth = idleStroke
	}
	d.border.Refresh()
}

func (d *DropTarget) Hovering() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hovering
}

// SetHint replaces the text shown inside the target
func (d *DropTarget) SetHint(text string) {
	d.label.SetText(text)
}

func (d *DropTarget) Hint() string {
	return d.label.Text
}

// BorderColor returns the current stroke colour
func (d *DropTarget) BorderColor() color.Color {
	return d.border.StrokeColor
}

// StartAmbient starts the background pulse
func (d *DropTarget) StartAmbient() {
	d.pulse.Start()
}

// StopAmbient stops the background pulse
func (d *DropTarget) StopAmbient() {
	d.pulse.Stop()
}
