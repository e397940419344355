package models

// Product represents a catalog product as returned by the storefront API.
// UnitPrice is the current discounted price; the client never caches or
// invents a price of its own.
type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Image          string  `json:"image,omitempty"`
	Category       string  `json:"category,omitempty"`
	UnitPrice      float64 `json:"unitPrice"`
	AvailableStock int     `json:"availableStock"`
	AvgRating      float64 `json:"avgRating,omitempty"`
	NumReviews     int     `json:"numReviews,omitempty"`
}

// ProductDetail is the response of GET /user/products/{id}.
type ProductDetail struct {
	Product Product  `json:"product"`
	Reviews []Review `json:"reviews"`
}

// Category represents a product category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
