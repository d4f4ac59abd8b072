package stock

import (
	"sort"

	"gmail-stock-notifier/internal/shop"
)

type Transition int

const (
	None Transition = iota
	BackInStock
	OutOfStock
)

func (t Transition) String() string {
	switch t {
	case BackInStock:
		return "back-in-stock"
	case OutOfStock:
		return "out-of-stock"
	default:
		return "none"
	}
}

// Alert is a stock transition observed for a tracked product.
type Alert struct {
	Product    shop.Product
	Transition Transition
	Previous   int
}

// Detector remembers the last quantity seen per tracked product and reports
// edges between empty and non-empty stock. It is owned by a single poll loop
// and is not safe for concurrent use.
type Detector struct {
	// product ID -> tracked
	tracked map[int]bool

	// product ID -> last observed quantity
	lastQuantity map[int]int
}

func NewDetector(ids []int) *Detector {
	tracked := make(map[int]bool, len(ids))
	for _, id := range ids {
		tracked[id] = true
	}
	return &Detector{
		tracked:      tracked,
		lastQuantity: make(map[int]int, len(ids)),
	}
}

func (d *Detector) IsTracked(id int) bool {
	return d.tracked[id]
}

// TrackedIDs returns the tracked product IDs in ascending order.
func (d *Detector) TrackedIDs() []int {
	ids := make([]int, 0, len(d.tracked))
	for id := range d.tracked {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LastQuantity returns the stored quantity for id and whether one was ever recorded.
func (d *Detector) LastQuantity(id int) (int, bool) {
	quantity, ok := d.lastQuantity[id]
	return quantity, ok
}

// Observe compares quantity against the stored value for id (0 when unseen),
// stores quantity and returns the resulting transition. Untracked ids are
// ignored.
func (d *Detector) Observe(id, quantity int) Transition {
	if !d.tracked[id] {
		return None
	}
	if quantity < 0 {
		quantity = 0
	}

	previous := d.lastQuantity[id]
	d.lastQuantity[id] = quantity

	switch {
	case previous == 0 && quantity > 0:
		return BackInStock
	case previous > 0 && quantity == 0:
		return OutOfStock
	default:
		return None
	}
}

// Detect observes every tracked product in products and returns the alerts
// in input order. Tracked products absent from the list keep their stored
// quantity.
func (d *Detector) Detect(products []shop.Product) []Alert {
	var alerts []Alert
	for _, product := range products {
		if !d.tracked[product.ID] {
			continue
		}
		previous := d.lastQuantity[product.ID]
		transition := d.Observe(product.ID, product.Quantity)
		if transition == None {
			continue
		}
		alerts = append(alerts, Alert{
			Product:    product,
			Transition: transition,
			Previous:   previous,
		})
	}
	return alerts
}
