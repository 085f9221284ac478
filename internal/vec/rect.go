package vec

// Rect — прямоугольник в мировых координатах (левый нижний угол + размеры)
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// SetSize задаёт квадратный размер, сохраняя левый нижний угол
func (r *Rect) SetSize(size float32) *Rect {
	r.Width = size
	r.Height = size
	return r
}

// SetCenter сдвигает прямоугольник так, чтобы его центр оказался в (x, y)
func (r *Rect) SetCenter(x, y float32) *Rect {
	r.X = x - r.Width/2
	r.Y = y - r.Height/2
	return r
}

// Centered создаёт квадрат со стороной size с центром в (x, y)
func Centered(x, y, size float32) Rect {
	r := Rect{}
	r.SetSize(size).SetCenter(x, y)
	return r
}

// Overlaps проверяет пересечение двух прямоугольников (касание не считается)
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Contains проверяет, лежит ли точка внутри прямоугольника
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}
