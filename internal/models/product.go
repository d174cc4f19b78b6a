package models

// Rating is the aggregate customer rating of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is one catalog entry as served by the upstream endpoint.
// Products are read-only once decoded.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// FirstN returns at most n products from the front of products,
// preserving order. The result shares the backing array.
func FirstN(products []Product, n int) []Product {
	if n <= 0 {
		return nil
	}
	if n > len(products) {
		n = len(products)
	}
	return products[:n]
}
