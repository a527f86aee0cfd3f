package cart

type Status string

const (
	StatusActive  Status = "active"
	StatusOrdered Status = "ordered"
)

type Cart struct {
	ID     int64
	UserID int64
	Status Status
	Items  []Item
}

type Item struct {
	ID        int64
	ProductID int64
	Quantity  int64
}

type DetailedItem struct {
	Item
	ProductName  string
	ProductPrice float64
}

type DetailedCart struct {
	ID     int64
	UserID int64
	Items  []DetailedItem
}

func (c *DetailedCart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.ProductPrice * float64(item.Quantity)
	}
	return total
}
