package api

import (
	"context"
	"fmt"
	"net/url"
)

// Equations lists the available nutrition equations.
func (c *Client) Equations(ctx context.Context) ([]Equation, error) {
	var out []Equation
	if err := c.getJSON(ctx, "/nutritions/equations/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Calculations lists the caller's stored equation runs.
func (c *Client) Calculations(ctx context.Context) ([]Calculation, error) {
	var out []Calculation
	if err := c.getJSON(ctx, "/nutritions/calculations/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DrugCategories lists the drug categories.
func (c *Client) DrugCategories(ctx context.Context) ([]DrugCategory, error) {
	var out []DrugCategory
	if err := c.getJSON(ctx, "/nutritions/drug-categories/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Drugs lists the drugs in a category.
func (c *Client) Drugs(ctx context.Context, categoryID int) ([]Drug, error) {
	var out []Drug
	if err := c.getJSON(ctx, fmt.Sprintf("/nutritions/drugs/%d", categoryID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchDrugs searches drugs by name.
func (c *Client) SearchDrugs(ctx context.Context, query string) ([]Drug, error) {
	var out []Drug
	path := "/nutritions/drugs/?search=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DrugDetails fetches one drug by ID.
func (c *Client) DrugDetails(ctx context.Context, id int) (*Drug, error) {
	var out Drug
	if err := c.getJSON(ctx, fmt.Sprintf("/nutritions/drug-details/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
