package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the per-frame pointer and keyboard state the game reacts to.
type Input struct {
	// MouseX/Y are the pointer position in canvas pixels.
	MouseX float64
	MouseY float64
	// Inside is true while the pointer is over the window.
	Inside bool
	// Moved is true when the pointer position changed since the last frame.
	Moved bool
	// Left is true on the frame the pointer left the window.
	Left bool
	// ClickPressed is true on the frame the left mouse button was pressed.
	ClickPressed bool

	MenuPressed    bool
	RestartPressed bool
	NextPressed    bool
	PastePressed   bool

	width, height int
	prevX, prevY  float64
	prevInside    bool
}

func NewInput() *Input {
	return &Input{}
}

// SetBounds records the layout size used for the inside-window test.
func (i *Input) SetBounds(w, h int) {
	i.width = w
	i.height = h
}

// Update polls the mouse and keyboard.
func (i *Input) Update() {
	mx, my := ebiten.CursorPosition()
	i.MouseX = float64(mx)
	i.MouseY = float64(my)

	i.Inside = ebiten.IsFocused() &&
		mx >= 0 && my >= 0 && mx < i.width && my < i.height
	i.Left = i.prevInside && !i.Inside
	i.Moved = i.Inside && (!i.prevInside || i.MouseX != i.prevX || i.MouseY != i.prevY)

	i.prevX, i.prevY = i.MouseX, i.MouseY
	i.prevInside = i.Inside

	i.ClickPressed = i.Inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	i.MenuPressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	i.RestartPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.NextPressed = inpututil.IsKeyJustPressed(ebiten.KeyN)

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	i.PastePressed = ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV)
}
