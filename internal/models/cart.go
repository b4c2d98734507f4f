package models

// CartLine pairs a product with a positive quantity. The full product record is
// embedded so a stored cart can be rendered without the catalog.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
