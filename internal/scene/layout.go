package scene

import "simlibrary/internal/canvas"

// Logical scene geometry in canvas pixels.
const (
	Width  = 600
	Height = 800

	GroundHeight = 40
	GroundY      = Height - GroundHeight

	FloorHeight = 120
	FloorWidth  = 500
	FloorX      = 50

	ElevatorX         = 5
	ElevatorWidth     = 40
	ElevatorCarHeight = 80

	shelfWidth   = 120
	shelfHeight  = 60
	shelfTop     = 40
	shelfInset   = 30
	shelfSpacing = (FloorWidth - 2*shelfInset - 3*shelfWidth) / 2
)

// FloorY is the top edge of the floor at creation index i (0 = oldest,
// drawn lowest). The build slot sits at FloorY(len(floors)). Every pass
// that positions against a floor uses this function.
func FloorY(i int) float64 {
	return float64(GroundY - (i+1)*FloorHeight)
}

// FloorRect is the full band of floor i.
func FloorRect(i int) canvas.Rect {
	return canvas.Rect{X: FloorX, Y: FloorY(i), W: FloorWidth, H: FloorHeight}
}

// CarY is the top of an elevator car riding from the ground to a floor
// whose top is destY. progress is clamped to [0,1].
func CarY(progress, destY float64) float64 {
	progress = clamp01(progress)
	ground := float64(GroundY)
	return ground - progress*(ground-destY) - ElevatorCarHeight
}

// shelfRect is the slot of shelf i on a floor whose top is y.
func shelfRect(y float64, i int) canvas.Rect {
	return canvas.Rect{
		X: FloorX + shelfInset + float64(i*(shelfWidth+shelfSpacing)),
		Y: y + shelfTop,
		W: shelfWidth,
		H: shelfHeight,
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
