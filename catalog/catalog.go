// Package catalog holds the reward-catalog entities partners redeem points on.
package catalog

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	FileName  string `json:"fileName"`
	Position  int    `json:"position"`
}

// Price is one append-only price point; the newest row per product is current.
type Price struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Points    float64 `json:"points"`
}

type Banner struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ImageFile string `json:"imageFile"`
	LinkURL   string `json:"linkUrl,omitempty"`
	Position  int    `json:"position"`
}

type SizeChart struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	Label     string `json:"label"`
	ImageFile string `json:"imageFile"`
}
