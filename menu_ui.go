package main

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Menu is the overlay opened with Escape.
type Menu struct {
	UI   *ebitenui.UI
	grid *widget.Text
}

// SetGrid updates the grid size label.
func (m *Menu) SetGrid(rows, cols int) {
	m.grid.Label = fmt.Sprintf("Grid %d x %d", rows, cols)
}

// NewMenu builds a centered panel with board controls. Buttons use colored
// nine-slices and the built-in basic font, so no theme assets are needed.
func NewMenu(g *Game) *Menu {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered, widget.WidgetOpts.MinSize(96, 24)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	row := func(children ...*widget.Button) *widget.Container {
		c := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			)),
			widget.ContainerOpts.WidgetOpts(centered),
		)
		for _, child := range children {
			c.AddChild(child)
		}
		return c
	}

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)
	grid := widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(button("Resume", func() { g.menuOpen = false }))
	panel.AddChild(button("Restart", func() {
		g.menuOpen = false
		g.restart()
	}))
	panel.AddChild(grid)
	panel.AddChild(row(
		button("Rows -", func() { g.resizeGrid(-1, 0) }),
		button("Rows +", func() { g.resizeGrid(1, 0) }),
	))
	panel.AddChild(row(
		button("Cols -", func() { g.resizeGrid(0, -1) }),
		button("Cols +", func() { g.resizeGrid(0, 1) }),
	))
	panel.AddChild(button("Next image", func() {
		g.menuOpen = false
		g.nextImage()
	}))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	m := &Menu{UI: &ebitenui.UI{Container: root}, grid: grid}
	m.SetGrid(g.rows, g.cols)
	return m
}
