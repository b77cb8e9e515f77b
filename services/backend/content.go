package backend

import (
	"context"
	"net/http"

	"glsalliance/models"
)

func (c *Client) getData(ctx context.Context, endpoint, path string, rs *responseSchema, out interface{}) error {
	raw, err := c.do(ctx, call{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     path,
	})
	if err != nil {
		return err
	}
	return decode(endpoint, rs, raw, out)
}

func (c *Client) Conferences(ctx context.Context) ([]models.Conference, error) {
	var out struct {
		Data []models.Conference `json:"data"`
	}
	if err := c.getData(ctx, "content.conferences", "/conferences", conferencesV1, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ContactDetails(ctx context.Context) (*models.ContactDetails, error) {
	var out struct {
		Data models.ContactDetails `json:"data"`
	}
	if err := c.getData(ctx, "content.contact_details", "/contact-details", contactDetailsV1, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) HomeHeroes(ctx context.Context) ([]models.HomeHero, error) {
	var out struct {
		Data []models.HomeHero `json:"data"`
	}
	if err := c.getData(ctx, "content.home_heroes", "/home-heroes", dataArrayV1, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out struct {
		Data []models.Testimonial `json:"data"`
	}
	if err := c.getData(ctx, "content.testimonials", "/testimonials", dataArrayV1, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
