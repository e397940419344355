package models

// CartItem is one product's presence in the cart. Quantity zero means the
// line is absent; the service removes such lines from the snapshot.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the authoritative cart snapshot returned by the storefront API.
// Item order is server-supplied and carries no pricing meaning.
type Cart struct {
	Items []CartItem `json:"items"`
}

// UpdateCartRequest is the body of POST /user/cart. Quantity zero removes
// the line server-side.
type UpdateCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}
