package build

import (
	"fmt"

	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/block"
)

// Kind — вид транзакции стройки
type Kind uint8

const (
	KindConstruct Kind = iota + 1
	KindDeconstruct
)

// String возвращает имя вида транзакции
func (k Kind) String() string {
	switch k {
	case KindConstruct:
		return "construct"
	case KindDeconstruct:
		return "deconstruct"
	default:
		return fmt.Sprintf("kind#%d", k)
	}
}

// Payload — состояние транзакции, прикреплённое к заглушке.
// Ровно один из двух видов: стройка (previous → result) или разбор (target).
type Payload struct {
	kind     Kind
	previous *block.Block
	result   *block.Block
	target   *block.Block
}

// Construct создаёт нагрузку стройки
func Construct(previous, result *block.Block) *Payload {
	return &Payload{kind: KindConstruct, previous: previous, result: result}
}

// Deconstruct создаёт нагрузку разбора
func Deconstruct(target *block.Block) *Payload {
	return &Payload{kind: KindDeconstruct, target: target}
}

// Kind возвращает вид транзакции
func (p *Payload) Kind() Kind {
	return p.kind
}

// Previous возвращает блок, стоявший до начала стройки. Паникует для разбора.
func (p *Payload) Previous() *block.Block {
	p.must(KindConstruct)
	return p.previous
}

// Result возвращает строящийся блок. Паникует для разбора.
func (p *Payload) Result() *block.Block {
	p.must(KindConstruct)
	return p.result
}

// Target возвращает разбираемый блок. Паникует для стройки.
func (p *Payload) Target() *block.Block {
	p.must(KindDeconstruct)
	return p.target
}

func (p *Payload) must(kind Kind) {
	if p.kind != kind {
		panic(fmt.Sprintf("build: нагрузка вида %s, ожидался %s", p.kind, kind))
	}
}

// String возвращает краткое описание транзакции
func (p *Payload) String() string {
	if p.kind == KindDeconstruct {
		return fmt.Sprintf("deconstruct %s", p.target)
	}
	return fmt.Sprintf("construct %s -> %s", p.previous, p.result)
}

// PayloadOf возвращает нагрузку транзакции клетки, если она есть
func PayloadOf(t *world.Tile) (*Payload, bool) {
	p, ok := t.Payload().(*Payload)
	return p, ok && p != nil
}
