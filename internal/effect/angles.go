package effect

import "math"

// Табличные синус и косинус по градусам. Значения округлены до float32,
// поэтому шаг цепи одинаков на всех архитектурах.
const (
	sinBits  = 14
	sinMask  = ^(-1 << sinBits)
	sinCount = sinMask + 1

	degFull    = 360.0
	degToIndex = sinCount / degFull
)

var sinTable = buildSinTable()

func buildSinTable() [sinCount]float32 {
	var table [sinCount]float32
	for i := 0; i < sinCount; i++ {
		table[i] = float32(math.Sin((float64(i) + 0.5) / sinCount * 2 * math.Pi))
	}
	for deg := 0; deg < 360; deg += 90 {
		table[int(float64(deg)*degToIndex)&sinMask] = float32(math.Sin(float64(deg) * math.Pi / 180))
	}
	return table
}

// sinDeg возвращает синус угла в градусах
func sinDeg(deg float32) float32 {
	return sinTable[int(deg*degToIndex)&sinMask]
}

// cosDeg возвращает косинус угла в градусах
func cosDeg(deg float32) float32 {
	return sinTable[int((deg+90)*degToIndex)&sinMask]
}

// trnsx возвращает проекцию отрезка длины length под углом deg на ось X
func trnsx(deg, length float32) float32 {
	return float32(length * cosDeg(deg))
}

// trnsy возвращает проекцию отрезка длины length под углом deg на ось Y
func trnsy(deg, length float32) float32 {
	return float32(length * sinDeg(deg))
}
