package cart

import "github.com/shopspring/decimal"

// Item is one cart line joined with live catalog data. The price shown here is
// informational; checkout freezes whatever the price is when it runs.
type Item struct {
	BookID    int             `json:"bookId"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	ImagePath string          `json:"imagePath,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

type Cart struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func newCart(items []Item) Cart {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if items == nil {
		items = []Item{}
	}
	return Cart{Items: items, Total: total}
}
