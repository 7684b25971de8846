package entity

// FaceBox область лица в кадре
type FaceBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// Shift сдвигает область на (dx, dy)
func (b FaceBox) Shift(dx, dy int) FaceBox {
	b.X += dx
	b.Y += dy
	return b
}

// Square расширяет область до квадрата по большей стороне, сохраняя центр.
// Нечётная разница добавляется справа или снизу.
func (b FaceBox) Square() FaceBox {
	diff := b.Height - b.Width
	switch {
	case diff > 0:
		delta := diff / 2
		b.X -= delta
		b.Width += diff
	case diff < 0:
		delta := -diff / 2
		b.Y -= delta
		b.Height -= diff
	}
	return b
}

// Clamp обрезает область по границам кадра
func (b FaceBox) Clamp(frameWidth, frameHeight int) FaceBox {
	right := b.X + b.Width
	bottom := b.Y + b.Height
	if b.X < 0 {
		b.X = 0
	}
	if b.Y < 0 {
		b.Y = 0
	}
	if right > frameWidth {
		right = frameWidth
	}
	if bottom > frameHeight {
		bottom = frameHeight
	}
	b.Width = maxInt(right-b.X, 0)
	b.Height = maxInt(bottom-b.Y, 0)
	return b
}

// Empty сообщает, что область нулевой площади
func (b FaceBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
