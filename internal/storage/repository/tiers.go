package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chefhub/internal/models"
)

// GetActiveTier возвращает активный тариф по ID.
// Возвращает ErrNotFound, если тариф отсутствует или отключен.
func (s *Storage) GetActiveTier(ctx context.Context, id int) (*models.Tier, error) {
	const op = "storage.GetActiveTier"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_usd, active
			  FROM subscription_tiers
			  WHERE id = $1 AND active = TRUE`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Tier
	if err := row.Scan(&result.ID, &result.Name, &result.Description,
		&result.PriceUSD, &result.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListActiveTiers возвращает все активные тарифы каталога.
func (s *Storage) ListActiveTiers(ctx context.Context) ([]*models.Tier, error) {
	const op = "storage.ListActiveTiers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_usd, active
			  FROM subscription_tiers
			  WHERE active = TRUE
			  ORDER BY price_usd`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Tier
	for rows.Next() {
		var item models.Tier
		if err := rows.Scan(&item.ID, &item.Name, &item.Description,
			&item.PriceUSD, &item.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
