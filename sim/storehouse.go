package sim

// Storehouse is a terminal node that archives every package it receives.
type Storehouse struct {
	id        ElementID
	stockpile Stockpile
}

// NewStorehouse creates a storehouse. A nil stockpile defaults to a LIFO
// PackageQueue.
func NewStorehouse(id ElementID, stockpile Stockpile) *Storehouse {
	if stockpile == nil {
		stockpile = NewPackageQueue(LIFO)
	}
	return &Storehouse{id: id, stockpile: stockpile}
}

func (s *Storehouse) ID() ElementID { return s.id }
func (s *Storehouse) Ref() NodeRef  { return StorehouseRef(s.id) }

// ReceivePackage archives p.
func (s *Storehouse) ReceivePackage(p Package) {
	s.stockpile.Push(p)
}

// Items returns the archived packages oldest first.
func (s *Storehouse) Items() []Package {
	return s.stockpile.Items()
}

// Stockpile returns the underlying archive.
func (s *Storehouse) Stockpile() Stockpile {
	return s.stockpile
}
