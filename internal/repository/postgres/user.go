package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/codemap-billing/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type UserRepository struct {
	db querier
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, clerk_user_id, email, stripe_customer_id, plan, is_active, billing_end_date,
			  token_savings, context_requests, created_at, updated_at`

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE clerk_user_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by external id: %w", err)
	}

	return user, nil
}

// UpsertByExternalID relies on the unique key, so concurrent first logins
// converge on one row. An empty email keeps the stored one.
func (r *UserRepository) UpsertByExternalID(ctx context.Context, externalID, email string) (model.User, error) {
	query := `INSERT INTO users (clerk_user_id, email)
			  VALUES ($1, $2)
			  ON CONFLICT (clerk_user_id) DO UPDATE
			  SET email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			      updated_at = GREATEST(users.updated_at, now())
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, externalID, email))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UpdateByExternalID(ctx context.Context, externalID string, update model.UserUpdate) (model.User, error) {
	if update.IsEmpty() {
		return r.FindByExternalID(ctx, externalID)
	}

	query, args := buildUpdate(externalID, update)

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// buildUpdate renders update as one UPDATE statement. The customer id is
// only written while unset; updated_at never moves backwards.
func buildUpdate(externalID string, update model.UserUpdate) (string, []any) {
	var (
		sets []string
		args []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.PaymentCustomerID != nil {
		sets = append(sets, "stripe_customer_id = COALESCE(stripe_customer_id, "+arg(*update.PaymentCustomerID)+")")
	}
	if s := update.Subscription; s != nil {
		sets = append(sets,
			"plan = "+arg(string(s.Plan)),
			"is_active = "+arg(s.IsActive),
			"billing_end_date = "+arg(s.BillingEndDate),
		)
	}
	if u := update.Usage; u != nil {
		sets = append(sets,
			"token_savings = "+arg(u.TokenSavings),
			"context_requests = "+arg(u.ContextRequests),
		)
	}
	sets = append(sets, "updated_at = GREATEST(updated_at, now())")

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE clerk_user_id = ` + arg(externalID) +
		` RETURNING ` + userColumns

	return query, args
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user       model.User
		customerID *string
		plan       string
		endDate    *time.Time
	)

	err := row.Scan(
		&user.ID, &user.ExternalID, &user.Email, &customerID, &plan, &user.IsActive, &endDate,
		&user.TokenSavings, &user.ContextRequests, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	if customerID != nil {
		user.PaymentCustomerID = *customerID
	}
	user.Plan = model.Plan(plan)
	if endDate != nil {
		utc := endDate.UTC()
		user.BillingEndDate = &utc
	}

	return user, nil
}
