package backend

import (
	"context"
	"net/http"

	"glsalliance/models"
)

// ListCategories fetches the flat export category list.
func (c *Client) ListCategories(ctx context.Context) ([]models.CategoryRow, error) {
	const endpoint = "categories.list"
	raw, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     "/categories",
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []models.CategoryRow `json:"data"`
	}
	if err := decode(endpoint, categoriesV2, raw, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []models.CategoryRow{}
	}
	return out.Data, nil
}
