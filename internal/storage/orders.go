package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kasa/internal/core"
)

// CreateOrder inserts the order with its items and decrements stock for
// each referenced product, all in one transaction.
func (r *Repository) CreateOrder(ctx context.Context, order core.SalesOrder) (core.SalesOrder, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sales_orders (member_id, order_date, payment_status, payment_method, total_amount)
			 VALUES (?, ?, ?, ?, ?)`,
			order.MemberID, formatDate(order.OrderDate), string(order.PaymentStatus),
			order.PaymentMethod, order.TotalAmount.String())
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		orderID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("order id: %w", err)
		}
		order.ID = orderID

		for i := range order.Items {
			item := &order.Items[i]
			res, err := tx.ExecContext(ctx,
				`INSERT INTO sales_order_items (order_id, product_id, product_name, quantity, unit_price, line_total)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				orderID, item.ProductID, item.Name, item.Quantity,
				item.UnitPrice.String(), item.LineTotal.String())
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			itemID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("order item id: %w", err)
			}
			item.ID = itemID

			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET stock_quantity = stock_quantity - ? WHERE id = ?`,
				item.Quantity, item.ProductID); err != nil {
				return fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return core.SalesOrder{}, err
	}

	slog.InfoContext(ctx, "Sales order created",
		"order_id", order.ID,
		"member_id", order.MemberID,
		"items", len(order.Items),
		"total", core.FormatAmount(order.TotalAmount))
	return order, nil
}

// MarkOrderPaid flips the order to paid and posts the sale to the ledger
// in the same transaction. Returns core.ErrAlreadyPaid when the order was
// paid before.
func (r *Repository) MarkOrderPaid(ctx context.Context, orderID int64, method string, payDate time.Time) (core.LedgerEntry, error) {
	var entry core.LedgerEntry
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var (
			memberID int64
			status   string
			total    string
		)
		err := tx.QueryRowContext(ctx,
			`SELECT member_id, payment_status, total_amount FROM sales_orders WHERE id = ?`, orderID).
			Scan(&memberID, &status, &total)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load order %d: %w", orderID, err)
		}
		if core.PaymentStatus(status) == core.Paid {
			return core.ErrAlreadyPaid
		}

		amount, err := parseStoredAmount(total)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE sales_orders SET payment_status = ?, payment_method = ? WHERE id = ?`,
			string(core.Paid), method, orderID); err != nil {
			return fmt.Errorf("mark order %d paid: %w", orderID, err)
		}

		entry, err = core.EntryFromEvent(core.LedgerEvent{
			Kind:          core.KindMerchSale,
			Date:          payDate,
			Amount:        amount,
			MemberID:      &memberID,
			Category:      "satış",
			Project:       "genel",
			Description:   fmt.Sprintf("sales order #%d", orderID),
			Source:        "sales",
			ReferenceType: core.RefSalesOrder,
			ReferenceID:   orderID,
		})
		if err != nil {
			return err
		}

		id, posted, err := appendLedgerTx(ctx, tx, entry)
		if err != nil {
			return err
		}
		if !posted {
			// event already logged by an earlier attempt; nothing to redo
			return nil
		}
		entry.ID = id
		return nil
	})
	if err != nil {
		return core.LedgerEntry{}, err
	}
	return entry, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (core.SalesOrder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, member_id, order_date, payment_status, payment_method, total_amount
		   FROM sales_orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SalesOrder{}, core.ErrNotFound
	}
	if err != nil {
		return core.SalesOrder{}, fmt.Errorf("get order %d: %w", id, err)
	}
	items, err := r.listOrderItems(ctx, "WHERE order_id = ?", id)
	if err != nil {
		return core.SalesOrder{}, err
	}
	order.Items = items
	return order, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]core.SalesOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, order_date, payment_status, payment_method, total_amount
		   FROM sales_orders ORDER BY order_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []core.SalesOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ListAllOrderItems returns every sold item row, for the inventory view.
func (r *Repository) ListAllOrderItems(ctx context.Context) ([]core.SalesOrderItem, error) {
	return r.listOrderItems(ctx, "")
}

func (r *Repository) listOrderItems(ctx context.Context, where string, args ...any) ([]core.SalesOrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, product_name, quantity, unit_price, line_total FROM sales_order_items `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []core.SalesOrderItem
	for rows.Next() {
		var (
			it        core.SalesOrderItem
			unitPrice string
			lineTotal string
		)
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Quantity, &unitPrice, &lineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if it.UnitPrice, err = parseStoredAmount(unitPrice); err != nil {
			return nil, err
		}
		if it.LineTotal, err = parseStoredAmount(lineTotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row rowScanner) (core.SalesOrder, error) {
	var (
		o         core.SalesOrder
		orderDate string
		status    string
		total     string
	)
	if err := row.Scan(&o.ID, &o.MemberID, &orderDate, &status, &o.PaymentMethod, &total); err != nil {
		return core.SalesOrder{}, err
	}
	date, err := parseDate(orderDate)
	if err != nil {
		return core.SalesOrder{}, err
	}
	o.OrderDate = date
	o.PaymentStatus = core.PaymentStatus(status)
	amount, err := parseStoredAmount(total)
	if err != nil {
		return core.SalesOrder{}, err
	}
	o.TotalAmount = amount
	return o, nil
}
