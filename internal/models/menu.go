package models

// MenuItem is one purchasable entry of the catalog. Index is the 1-based
// number the operator types when ordering.
type MenuItem struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}
