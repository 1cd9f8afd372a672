package entity

// Company is a tracked brokerage firm. The crawler only reads companies.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
