// Package rng содержит детерминированный генератор псевдослучайных чисел.
//
// Генератор обязан выдавать одну и ту же последовательность для одного сида
// на всех участниках сессии (сервер, клиенты, реплей), поэтому math/rand не
// используется: алгоритм зафиксирован здесь и совпадает с генератором клиента.
package rng

import "math"

// Rand — xorshift128+ с инициализацией через финализатор murmur3.
// Не потокобезопасен: принадлежит потоку симуляции.
type Rand struct {
	seed0 uint64
	seed1 uint64
}

// New создаёт генератор с указанным сидом
func New(seed int64) *Rand {
	r := &Rand{}
	r.SetSeed(seed)
	return r
}

// SetSeed переинициализирует состояние генератора
func (r *Rand) SetSeed(seed int64) {
	if seed == 0 {
		seed = math.MinInt64
	}
	r.seed0 = murmurHash3(uint64(seed))
	r.seed1 = murmurHash3(r.seed0)
}

// Uint64 возвращает следующие 64 бита последовательности
func (r *Rand) Uint64() uint64 {
	s1 := r.seed0
	s0 := r.seed1
	r.seed0 = s0
	s1 ^= s1 << 23
	r.seed1 = s1 ^ s0 ^ (s1 >> 17) ^ (s0 >> 26)
	return r.seed1 + s0
}

// Int63 возвращает неотрицательное 63-битное число
func (r *Rand) Int63() int64 {
	return int64(r.Uint64() >> 1)
}

// Float32 возвращает число в [0, 1) с 24 битами мантиссы
func (r *Rand) Float32() float32 {
	return float32(r.Uint64()>>40) * (1.0 / (1 << 24))
}

// Range возвращает число в [-amount, amount)
func (r *Rand) Range(amount float32) float32 {
	return float32(r.Float32()*amount*2) - amount
}

// Intn возвращает число в [0, n). Паникует при n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn с неположительным n")
	}
	return int(r.Uint64() % uint64(n))
}

func murmurHash3(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
