package models

// Product is a product record as returned by the catalogue API.
// Only the slug is used to build its canonical page.
type Product struct {
	Slug string `json:"slug"`
}

// ProductList is the body of GET /api/product/list.
type ProductList struct {
	Products []Product `json:"products"`
}
