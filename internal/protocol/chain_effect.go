// Package protocol описывает сетевые сообщения симуляции и их кодирование.
package protocol

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// EventCreateChainEffect — тип конверта шины для CreateChainEffect
const EventCreateChainEffect = "CreateChainEffect"

// Номера полей CreateChainEffect
const (
	fieldSeed   protowire.Number = 1
	fieldTeam   protowire.Number = 2
	fieldColor  protowire.Number = 3
	fieldDamage protowire.Number = 4
	fieldX      protowire.Number = 5
	fieldY      protowire.Number = 6
	fieldAngle  protowire.Number = 7
	fieldHops   protowire.Number = 8
)

// ErrMalformed — сообщение не соответствует формату
var ErrMalformed = errors.New("protocol: повреждённое сообщение")

// CreateChainEffect — единственное сообщение о цепном эффекте.
// Несёт только сид и скалярные параметры; путь каждый участник вычисляет сам.
type CreateChainEffect struct {
	Seed   int32
	Team   uint8
	Color  uint32 // RGBA8888
	Damage float32
	X, Y   float32
	Angle  float32 // градусы
	Hops   int32
}

// Marshal кодирует сообщение в формат protobuf
func (m *CreateChainEffect) Marshal() []byte {
	b := make([]byte, 0, 40)
	b = protowire.AppendTag(b, fieldSeed, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(m.Seed)))
	b = protowire.AppendTag(b, fieldTeam, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Team))
	b = protowire.AppendTag(b, fieldColor, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, m.Color)
	b = appendFloat(b, fieldDamage, m.Damage)
	b = appendFloat(b, fieldX, m.X)
	b = appendFloat(b, fieldY, m.Y)
	b = appendFloat(b, fieldAngle, m.Angle)
	b = protowire.AppendTag(b, fieldHops, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(m.Hops)))
	return b
}

func appendFloat(b []byte, num protowire.Number, v float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// Unmarshal разбирает сообщение. Неизвестные поля пропускаются.
func (m *CreateChainEffect) Unmarshal(data []byte) error {
	*m = CreateChainEffect{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: тег: %v", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case typ == protowire.VarintType && (num == fieldSeed || num == fieldTeam || num == fieldHops):
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("%w: поле %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case fieldSeed:
				m.Seed = int32(protowire.DecodeZigZag(v))
			case fieldTeam:
				if v > math.MaxUint8 {
					return fmt.Errorf("%w: команда %d вне диапазона", ErrMalformed, v)
				}
				m.Team = uint8(v)
			case fieldHops:
				m.Hops = int32(v)
			}
		case typ == protowire.Fixed32Type && num >= fieldColor && num <= fieldAngle:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return fmt.Errorf("%w: поле %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case fieldColor:
				m.Color = v
			case fieldDamage:
				m.Damage = math.Float32frombits(v)
			case fieldX:
				m.X = math.Float32frombits(v)
			case fieldY:
				m.Y = math.Float32frombits(v)
			case fieldAngle:
				m.Angle = math.Float32frombits(v)
			}
		case num >= fieldSeed && num <= fieldHops:
			return fmt.Errorf("%w: поле %d с типом %d", ErrMalformed, num, typ)
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("%w: поле %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return nil
}

// String возвращает краткое описание сообщения
func (m *CreateChainEffect) String() string {
	return fmt.Sprintf("chain seed=%d team=%d dmg=%.1f at (%.1f,%.1f) angle=%.1f hops=%d",
		m.Seed, m.Team, m.Damage, m.X, m.Y, m.Angle, m.Hops)
}
