package service

// InspirationPickerCap bounds the inspiration picker during selection
const InspirationPickerCap = 2

// Picker is a bounded multi-select. A cap of 0 means no bound.
// Adding past the cap is a no-op; removal is always allowed.
type Picker[K comparable] struct {
	cap      int
	order    []K
	selected map[K]struct{}
}

// NewPicker creates an empty picker with the given cap
func NewPicker[K comparable](cap int) *Picker[K] {
	if cap < 0 {
		cap = 0
	}
	return &Picker[K]{cap: cap, selected: make(map[K]struct{})}
}

// NewInspirationPicker creates the two-slot inspiration picker
func NewInspirationPicker() *Picker[int] {
	return NewPicker[int](InspirationPickerCap)
}

// NewSparkPicker creates the uncapped spark picker
func NewSparkPicker() *Picker[int] {
	return NewPicker[int](0)
}

// Toggle flips id and reports whether it is selected afterwards
func (p *Picker[K]) Toggle(id K) bool {
	if _, ok := p.selected[id]; ok {
		delete(p.selected, id)
		for i, v := range p.order {
			if v == id {
				p.order = append(p.order[:i], p.order[i+1:]...)
				break
			}
		}
		return false
	}

	if p.Full() {
		return false
	}
	p.selected[id] = struct{}{}
	p.order = append(p.order, id)
	return true
}

// Reset replaces the selection with initial, keeping at most cap items
func (p *Picker[K]) Reset(initial []K) {
	p.order = nil
	p.selected = make(map[K]struct{}, len(initial))
	for _, id := range initial {
		if _, ok := p.selected[id]; ok {
			continue
		}
		if p.Full() {
			break
		}
		p.selected[id] = struct{}{}
		p.order = append(p.order, id)
	}
}

func (p *Picker[K]) Contains(id K) bool {
	_, ok := p.selected[id]
	return ok
}

// Selected returns the selection in the order items were added
func (p *Picker[K]) Selected() []K {
	out := make([]K, len(p.order))
	copy(out, p.order)
	return out
}

func (p *Picker[K]) Len() int {
	return len(p.order)
}

func (p *Picker[K]) Cap() int {
	return p.cap
}

// Full reports whether another add would be rejected
func (p *Picker[K]) Full() bool {
	return p.cap > 0 && len(p.order) >= p.cap
}
