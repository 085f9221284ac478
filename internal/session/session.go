// Package session хранит состояние игровой сессии, общее для всех создателей эффектов.
package session

import (
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrSeedsExhausted — все неотрицательные сиды сессии уже выданы
var ErrSeedsExhausted = errors.New("session: seeds exhausted")

// Session — владелец счётчика сидов эффектов.
// Каждый созданный эффект получает следующий сид; сиды не повторяются в пределах сессии.
type Session struct {
	ID        uuid.UUID
	Solo      bool // одиночная игра: создатель эффекта — единственный получатель
	StartedAt time.Time

	lastSeed atomic.Int32
}

// New создаёт сессию
func New(solo bool) *Session {
	return &Session{
		ID:        uuid.New(),
		Solo:      solo,
		StartedAt: time.Now().UTC(),
	}
}

// NextSeed возвращает следующий сид, начиная с 0.
// Счётчик не переполняется: после math.MaxInt32 выданных сидов возвращается ErrSeedsExhausted.
func (s *Session) NextSeed() (int32, error) {
	for {
		n := s.lastSeed.Load()
		if n == math.MaxInt32 {
			return 0, ErrSeedsExhausted
		}
		if s.lastSeed.CompareAndSwap(n, n+1) {
			return n, nil
		}
	}
}

// Seeds возвращает количество выданных сидов
func (s *Session) Seeds() int32 {
	return s.lastSeed.Load()
}
