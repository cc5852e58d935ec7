package mock

import "github.com/fwojciec/pagesnap"

var _ pagesnap.Differ = (*Differ)(nil)

// Differ is a mock implementation of pagesnap.Differ.
type Differ struct {
	HasChangedFn func(prev, next pagesnap.Snapshot) bool
}

func (d *Differ) HasChanged(prev, next pagesnap.Snapshot) bool {
	return d.HasChangedFn(prev, next)
}
