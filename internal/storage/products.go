package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kasa/internal/core"
)

func (r *Repository) CreateProduct(ctx context.Context, p core.Product) (core.Product, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, category, unit_price, stock_quantity) VALUES (?, ?, ?, ?)`,
		p.Name, p.Category, p.UnitPrice.String(), p.StockQuantity)
	if err != nil {
		return core.Product{}, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Product{}, fmt.Errorf("product id: %w", err)
	}
	p.ID = id
	return p, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, unit_price, stock_quantity FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Product{}, core.ErrNotFound
	}
	if err != nil {
		return core.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, unit_price, stock_quantity FROM products ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) UpdateProduct(ctx context.Context, p core.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, category = ?, unit_price = ?, stock_quantity = ? WHERE id = ?`,
		p.Name, p.Category, p.UnitPrice.String(), p.StockQuantity, p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return requireRow(res, p.ID)
}

func scanProduct(row rowScanner) (core.Product, error) {
	var (
		p     core.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &price, &p.StockQuantity); err != nil {
		return core.Product{}, err
	}
	unitPrice, err := parseStoredAmount(price)
	if err != nil {
		return core.Product{}, err
	}
	p.UnitPrice = unitPrice
	return p, nil
}
