package model

import "time"

type Cart struct {
	BaseModel
	ClientID string     `db:"client_id" json:"client_id"`
	Lines    []CartLine `db:"-" json:"lines"`
}

type CartLine struct {
	ID        string    `db:"id" json:"id"`
	CartID    string    `db:"cart_id" json:"cart_id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	AddedAt   time.Time `db:"added_at" json:"added_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
