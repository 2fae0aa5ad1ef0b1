package carousel

import (
	"reflect"
	"sync"
)

// Pool recycles cells by reuse identifier.
type Pool struct {
	mu        sync.Mutex
	factories map[string]CellFactory
	free      map[string][]Cell
	owner     map[Cell]string
}

func NewPool() *Pool {
	return &Pool{
		factories: make(map[string]CellFactory),
		free:      make(map[string][]Cell),
		owner:     make(map[Cell]string),
	}
}

// Register binds a factory to a reuse identifier, replacing any earlier one.
// Cells already pooled under that identifier are dropped.
func (p *Pool) Register(factory CellFactory, reuseID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, cell := range p.free[reuseID] {
		delete(p.owner, cell)
	}
	delete(p.free, reuseID)

	if factory == nil {
		delete(p.factories, reuseID)
		return
	}
	p.factories[reuseID] = factory
}

// Dequeue returns a recycled cell or builds a new one. It returns nil for an
// unregistered identifier.
func (p *Pool) Dequeue(reuseID string) Cell {
	p.mu.Lock()
	defer p.mu.Unlock()

	if free := p.free[reuseID]; len(free) > 0 {
		cell := free[len(free)-1]
		p.free[reuseID] = free[:len(free)-1]
		return cell
	}

	factory, ok := p.factories[reuseID]
	if !ok {
		return nil
	}
	cell := factory()
	if cell != nil && trackable(cell) {
		p.owner[cell] = reuseID
	}
	return cell
}

// Recycle hands a cell back for reuse. Cells the pool did not create are
// ignored.
func (p *Pool) Recycle(cell Cell) {
	if cell == nil || !trackable(cell) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	reuseID, ok := p.owner[cell]
	if !ok {
		return
	}
	for _, c := range p.free[reuseID] {
		if c == cell {
			return
		}
	}
	p.free[reuseID] = append(p.free[reuseID], cell)
}

// Free reports how many cells wait for reuse under an identifier.
func (p *Pool) Free(reuseID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free[reuseID])
}

// Only comparable cells can be tracked as map keys.
func trackable(cell Cell) bool {
	return reflect.TypeOf(cell).Comparable()
}
