package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
)

func (r *restaurantRepository) Create(ctx context.Context, rest model.Restaurant) (*model.Restaurant, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `INSERT INTO restaurants (name, category, lat, lng) VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRow(ctx, query, rest.Name, rest.Category, rest.Location.Lat, rest.Location.Lng).Scan(&rest.ID); err != nil {
			return err
		}

		for i := range rest.Menu {
			item := &rest.Menu[i]
			item.RestaurantID = rest.ID
			if err := insertMenuItemTx(ctx, tx, item); err != nil {
				return err
			}
		}

		for i, rule := range rest.PricingRules {
			if err := insertPricingRuleTx(ctx, tx, rest.ID, i, rule); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &rest, nil
}

func insertMenuItemTx(ctx context.Context, tx pgx.Tx, item *model.MenuItem) error {
	const query = `INSERT INTO menu_items (restaurant_id, name, description, base_price, currency)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return tx.QueryRow(ctx, query, item.RestaurantID, item.Name, item.Description, item.BasePrice, item.Currency).Scan(&item.ID)
}

func insertPricingRuleTx(ctx context.Context, tx pgx.Tx, restaurantID int64, position int, rule model.PricingRule) error {
	const query = `INSERT INTO pricing_rules (restaurant_id, rule_type, strategy, value, position)
                   VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.Exec(ctx, query, restaurantID, rule.Type, rule.Strategy, rule.Value, position)
	return err
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	const query = `SELECT id, name, category, lat, lng FROM restaurants WHERE id=$1`
	var rest model.Restaurant
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&rest.ID, &rest.Name, &rest.Category, &rest.Location.Lat, &rest.Location.Lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if rest.Menu, err = r.menuItems(ctx, id); err != nil {
		return nil, err
	}
	if rest.PricingRules, err = r.pricingRules(ctx, id); err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *restaurantRepository) List(ctx context.Context, limit int) ([]model.Restaurant, error) {
	const query = `SELECT id, name, category, lat, lng FROM restaurants ORDER BY id LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Restaurant
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Category, &rest.Location.Lat, &rest.Location.Lng); err != nil {
			return nil, err
		}
		result = append(result, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *restaurantRepository) AddMenuItem(ctx context.Context, restaurantID int64, item model.MenuItem) (*model.MenuItem, error) {
	if err := r.ensureExists(ctx, restaurantID); err != nil {
		return nil, err
	}

	item.RestaurantID = restaurantID
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return insertMenuItemTx(ctx, tx, &item)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &item, nil
}

func (r *restaurantRepository) ReplacePricingRules(ctx context.Context, restaurantID int64, rules []model.PricingRule) error {
	if err := r.ensureExists(ctx, restaurantID); err != nil {
		return err
	}

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM pricing_rules WHERE restaurant_id=$1`, restaurantID); err != nil {
			return err
		}
		for i, rule := range rules {
			if err := insertPricingRuleTx(ctx, tx, restaurantID, i, rule); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *restaurantRepository) ensureExists(ctx context.Context, id int64) error {
	var found int64
	err := r.storage.pool.QueryRow(ctx, `SELECT id FROM restaurants WHERE id=$1`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	return err
}

func (r *restaurantRepository) menuItems(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	const query = `SELECT id, restaurant_id, name, description, base_price, currency
                   FROM menu_items WHERE restaurant_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.BasePrice, &item.Currency); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *restaurantRepository) pricingRules(ctx context.Context, restaurantID int64) ([]model.PricingRule, error) {
	const query = `SELECT id, restaurant_id, rule_type, strategy, value, position
                   FROM pricing_rules WHERE restaurant_id=$1 ORDER BY position, id`
	rows, err := r.storage.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []model.PricingRule
	for rows.Next() {
		var rule model.PricingRule
		if err := rows.Scan(&rule.ID, &rule.RestaurantID, &rule.Type, &rule.Strategy, &rule.Value, &rule.Position); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}
