package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chefhub/internal/models"
)

// CreateTransaction вставляет новую платежную транзакцию и возвращает её ID.
func (s *Storage) CreateTransaction(ctx context.Context, tr models.PaymentTransaction) (int, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_transactions (user_uid, subscription_id, amount_usd,
			      currency, status, payment_method, wompi_link_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		tr.UserUID, tr.SubscriptionID, tr.AmountUSD, tr.Currency, tr.Status,
		tr.PaymentMethod, tr.WompiLinkID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindPendingTransactionByLinkID возвращает транзакцию в статусе pending
// по идентификатору платежной ссылки. Возвращает ErrNotFound, если такой
// транзакции нет — в том числе при повторной доставке вебхука по уже
// завершенной транзакции.
func (s *Storage) FindPendingTransactionByLinkID(ctx context.Context, linkID string) (*models.PaymentTransaction, error) {
	const op = "storage.FindPendingTransactionByLinkID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, subscription_id, amount_usd, currency, status,
			      payment_method, wompi_link_id, wompi_reference, error_message,
			      created_at, updated_at
			  FROM payment_transactions
			  WHERE wompi_link_id = $1 AND status = $2`
	row := s.DB.QueryRowContext(ctx, query, linkID, models.TransactionStatusPending)

	var result models.PaymentTransaction
	var subscriptionID sql.NullInt64
	var reference, errorMessage sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.UserUID, &subscriptionID, &result.AmountUSD,
		&result.Currency, &result.Status, &result.PaymentMethod, &result.WompiLinkID,
		&reference, &errorMessage, &result.CreatedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subscriptionID.Valid {
		id := int(subscriptionID.Int64)
		result.SubscriptionID = &id
	}
	if reference.Valid {
		result.WompiReference = &reference.String
	}
	if errorMessage.Valid {
		result.ErrorMessage = &errorMessage.String
	}
	if updatedAt.Valid {
		result.UpdatedAt = &updatedAt.Time
	}
	return &result, nil
}

// ApproveTransaction в одной транзакции базы данных переводит подписку
// в статус active, а платежную транзакцию — в статус approved, записывая
// номер-референс шлюза. Срок действия подписки отсчитывается от момента
// подтверждения оплаты.
func (s *Storage) ApproveTransaction(ctx context.Context, subscriptionID int, linkID, reference string) error {
	const op = "storage.ApproveTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	subQuery := `UPDATE subscriptions
			     SET status = $1,
			         start_date = CURRENT_DATE,
			         end_date = CURRENT_DATE + INTERVAL '1 year',
			         updated_at = now()
			     WHERE id = $2`
	res, err := tx.ExecContext(ctx, subQuery, models.SubscriptionStatusActive, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: subscription %d: %w", op, subscriptionID, ErrNotFound)
	}

	trQuery := `UPDATE payment_transactions
			    SET status = $1, wompi_reference = $2, updated_at = now()
			    WHERE wompi_link_id = $3 AND status = $4`
	res, err = tx.ExecContext(ctx, trQuery, models.TransactionStatusApproved,
		reference, linkID, models.TransactionStatusPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: transaction %s: %w", op, linkID, ErrNotFound)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkTransactionFailed переводит транзакцию в терминальный статус неудачи
// с текстом причины. Подписка при этом не изменяется.
func (s *Storage) MarkTransactionFailed(ctx context.Context, linkID, status, reason string) error {
	const op = "storage.MarkTransactionFailed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_transactions
			  SET status = $1, error_message = $2, updated_at = now()
			  WHERE wompi_link_id = $3`
	_, err := s.DB.ExecContext(ctx, query, status, reason, linkID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTransactionsByUser возвращает платежные транзакции пользователя
// с пагинацией, новые первыми.
func (s *Storage) ListTransactionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.PaymentTransaction, error) {
	const op = "storage.ListTransactionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, subscription_id, amount_usd, currency, status,
			      payment_method, wompi_link_id, wompi_reference, error_message,
			      created_at, updated_at
			  FROM payment_transactions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PaymentTransaction
	for rows.Next() {
		var item models.PaymentTransaction
		var subscriptionID sql.NullInt64
		var reference, errorMessage sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.UserUID, &subscriptionID, &item.AmountUSD,
			&item.Currency, &item.Status, &item.PaymentMethod, &item.WompiLinkID,
			&reference, &errorMessage, &item.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if subscriptionID.Valid {
			id := int(subscriptionID.Int64)
			item.SubscriptionID = &id
		}
		if reference.Valid {
			item.WompiReference = &reference.String
		}
		if errorMessage.Valid {
			item.ErrorMessage = &errorMessage.String
		}
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
