package models

// Wishlist is the response of GET /user/wishlist.
type Wishlist struct {
	Products []Product `json:"products"`
}

// WishlistRequest is the body of POST and DELETE /user/wishlist.
type WishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}
