package storeapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"boutique-storefront/internal/domain"
)

const (
	defaultPage    = 1
	defaultPerPage = 15
)

// ListParams pages through product listings. Zero values use the defaults.
type ListParams struct {
	Page    int
	PerPage int
	Query   string
}

func (p ListParams) values() url.Values {
	page := p.Page
	if page <= 0 {
		page = defaultPage
	}
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))
	if q := strings.TrimSpace(p.Query); q != "" {
		v.Set("q", q)
	}
	return v
}

// HomeParams selects the page of each home-page section.
type HomeParams struct {
	LatestPage  int
	PopularPage int
	OrderedPage int
	PerPage     int
}

func (p HomeParams) values() url.Values {
	v := url.Values{}
	set := func(k string, n int) {
		if n > 0 {
			v.Set(k, strconv.Itoa(n))
		}
	}
	set("latest_page", p.LatestPage)
	set("popular_page", p.PopularPage)
	set("ordered_page", p.OrderedPage)
	set("per_page", p.PerPage)
	return v
}

// SearchParams is the body and paging of POST /search.
type SearchParams struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

func (c *Client) Home(ctx context.Context, p HomeParams) (*domain.Home, error) {
	var home domain.Home
	if err := c.get(ctx, "/", p.values(), &home); err != nil {
		return nil, err
	}
	return &home, nil
}

func (c *Client) Products(ctx context.Context, p ListParams) (*domain.Page[domain.Product], error) {
	var page domain.Page[domain.Product]
	if err := c.get(ctx, "/products", p.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var resp struct {
		Data domain.Product `json:"data"`
	}
	if err := c.get(ctx, "/products/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp struct {
		Data []domain.Category `json:"data"`
	}
	if err := c.get(ctx, "/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ActiveCategories walks every categories page and keeps the active ones.
func (c *Client) ActiveCategories(ctx context.Context) ([]domain.Category, error) {
	var all []domain.Category
	lastPage := 1
	for page := 1; page <= lastPage; page++ {
		var resp domain.Page[domain.Category]
		q := url.Values{"page": []string{strconv.Itoa(page)}}
		if err := c.get(ctx, "/categories", q, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if page == 1 && resp.Meta.LastPage > 1 {
			lastPage = resp.Meta.LastPage
		}
	}

	active := make([]domain.Category, 0, len(all))
	for _, cat := range all {
		if cat.IsActive == 1 {
			active = append(active, cat)
		}
	}
	return active, nil
}

func (c *Client) CategoryProducts(ctx context.Context, categoryID string, p ListParams) (*domain.Page[domain.Product], error) {
	var page domain.Page[domain.Product]
	path := "/categories/" + url.PathEscape(categoryID) + "/products"
	if err := c.get(ctx, path, p.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Search(ctx context.Context, p SearchParams) (*domain.Page[domain.Product], error) {
	body := map[string]string{"search": p.Search}
	if p.Category != "" {
		body["category"] = p.Category
	}
	q := ListParams{Page: p.Page, PerPage: p.PerPage}.values()

	var resp struct {
		Products domain.Page[domain.Product] `json:"products"`
	}
	if err := c.post(ctx, "/search", q, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Products, nil
}
