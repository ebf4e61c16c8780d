package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Brand       string             `bson:"brand" json:"brand"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Off         float64            `bson:"off" json:"off"`
	Img         string             `bson:"img" json:"img"`
	Description string             `bson:"description" json:"description"`
}

type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	IsAdmin   bool                 `bson:"isAdmin" json:"isAdmin"`
	Favorites []primitive.ObjectID `bson:"favorites" json:"favorites"`
}

// Address is the shipping form captured at checkout.
type Address struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Email   string `bson:"email" json:"email"`
	Country string `bson:"country" json:"country"`
	City    string `bson:"city" json:"city"`
	Address string `bson:"address" json:"address"`
}

// LineItem is a snapshot of a product at purchase time. ProductID is kept
// as the client sent it and may not resolve to a product any more.
type LineItem struct {
	ProductID string   `bson:"productId" json:"productId"`
	Name      string   `bson:"name" json:"name"`
	Price     float64  `bson:"price" json:"price"`
	Quantity  int      `bson:"quantity" json:"quantity"`
	Product   *Product `bson:"-" json:"product,omitempty"`
}

type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Items     []LineItem         `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	Address   Address            `bson:"address" json:"address"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int64     `json:"page"`
	Pages    int64     `json:"pages"`
}

// ProductFilter narrows a catalog listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	Brand    string
}

// Facets lists the distinct categories and brands in the catalog.
type Facets struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}
