package carousel

// Cell is a reusable view handle produced by the host. The carousel only
// toggles its selected state; drawing it is up to the renderer.
type Cell interface {
	SetSelected(selected, animated bool)
}

// CellFactory creates a fresh cell for a reuse identifier.
type CellFactory func() Cell

// DataSource is the required part of the host contract.
type DataSource interface {
	// NumberOfItems returns the current real item count. It may change
	// between calls; the carousel picks up changes on ReloadData.
	NumberOfItems(c *Carousel) int
	// CellForItem returns a configured cell for a logical index. Hosts
	// normally obtain it from c.DequeueCell.
	CellForItem(index int, c *Carousel) Cell
	// SizeForItem returns the rendered size of a logical index.
	SizeForItem(index int, c *Carousel) (width, height float64)
}

// DefaultIndexer supplies the index to center on the first load.
type DefaultIndexer interface {
	DefaultIndex(c *Carousel) int
}

// SelectedIndexer supplies the index the host wants centered right now.
type SelectedIndexer interface {
	SelectedIndex(c *Carousel) int
}

// SelectObserver is notified once per new centered cell.
type SelectObserver interface {
	UserDidSelectCell(cell Cell, index int, c *Carousel)
}

// DeselectObserver is notified when a selected cell stops being selected.
type DeselectObserver interface {
	UserDidDeselectCell(cell Cell, index int, c *Carousel)
}

// SelectionMode decides where the carousel takes its target index from after
// a reload.
type SelectionMode int

const (
	// DefaultIndexOnce centers the host's default index on the first load and
	// afterwards only re-snaps to the nearest cell.
	DefaultIndexOnce SelectionMode = iota
	// FollowSelectedIndex asks the host for its selected index after every
	// reload.
	FollowSelectedIndex
)

func (m SelectionMode) String() string {
	switch m {
	case DefaultIndexOnce:
		return "default-index-once"
	case FollowSelectedIndex:
		return "follow-selected-index"
	default:
		return "unknown"
	}
}

// targetIndex asks the host for the index to center. Missing capabilities
// fall back to 0.
func (c *Carousel) targetIndex() int {
	if c.opts.mode == FollowSelectedIndex {
		if s, ok := c.host.(SelectedIndexer); ok {
			return s.SelectedIndex(c)
		}
	}
	if d, ok := c.host.(DefaultIndexer); ok {
		return d.DefaultIndex(c)
	}
	if s, ok := c.host.(SelectedIndexer); ok {
		return s.SelectedIndex(c)
	}
	return 0
}

func (c *Carousel) notifySelected(cell Cell, slot int) {
	if obs, ok := c.host.(SelectObserver); ok {
		obs.UserDidSelectCell(cell, c.logical(slot), c)
	}
}

func (c *Carousel) notifyDeselected(cell Cell, slot int) {
	if obs, ok := c.host.(DeselectObserver); ok {
		obs.UserDidDeselectCell(cell, c.logical(slot), c)
	}
}
