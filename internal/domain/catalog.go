package domain

type Image struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

type Category struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	IsActive  int     `json:"is_active"`
	Image     *string `json:"image"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type Product struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description"`
	Price           float64    `json:"price"`
	CustomTailoring int        `json:"custom_tailoring"`
	Visitor         int        `json:"visitor"`
	OrdersCount     int        `json:"orders_count"`
	Colors          []string   `json:"colors"`
	Sizes           []float64  `json:"sizes"`
	Images          []Image    `json:"images"`
	Videos          []string   `json:"videos"`
	Categories      []Category `json:"categories,omitempty"`
}

// CategoryWithProducts is a home-page category block.
type CategoryWithProducts struct {
	Category
	Products []Product `json:"products"`
}

type PageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Page is the paginated envelope used by the catalog API.
type Page[T any] struct {
	Data  []T       `json:"data"`
	Links PageLinks `json:"links"`
	Meta  PageMeta  `json:"meta"`
}

type Home struct {
	LatestProducts     Page[Product]              `json:"latest_products"`
	MostPopularProduct Page[Product]              `json:"most_popular_product"`
	MostOrderedProduct Page[Product]              `json:"most_ordered_product"`
	Categories         Page[CategoryWithProducts] `json:"category_with_its_product"`
}

// ShopSettings carries storefront-wide contact and pricing settings.
type ShopSettings struct {
	WhatsApp       string `json:"whatsapp"`
	Facebook       string `json:"facebook"`
	Instagram      string `json:"instagram"`
	ContactUsEmail string `json:"contact_us_email"`
	WholesaleAt    int    `json:"wholesale_at"`
}
