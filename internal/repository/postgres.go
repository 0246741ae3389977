// Package repository содержит хранилище сохранённого ввода в PostgreSQL.
// Хранилище опционально: без него формы просто не предзаполняются.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ageha-live/liver-front/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound возвращается, если для сеанса нет сохранённых данных.
var ErrNotFound = errors.New("saved input not found")

// TransferInputs — последние введённые значения формы заявки на вывод.
type TransferInputs struct {
	PhoneNumber          string
	InvoiceRegisteredNum string
}

// PostgresRepository предоставляет доступ к хранилищу сохранённого ввода.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// SaveTransferInputs сохраняет ввод формы заявки для сеанса.
func (r *PostgresRepository) SaveTransferInputs(ctx context.Context, subject string, inputs TransferInputs) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transfer_inputs (subject, phone_number, invoice_registered_num)
		 VALUES ($1, $2, $3)`,
		subject, inputs.PhoneNumber, inputs.InvoiceRegisteredNum,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return fmt.Errorf("save transfer inputs: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE transfer_inputs
		 SET phone_number = $2, invoice_registered_num = $3, updated_at = now()
		 WHERE subject = $1`,
		subject, inputs.PhoneNumber, inputs.InvoiceRegisteredNum,
	)
	if err != nil {
		return fmt.Errorf("update transfer inputs: %w", err)
	}
	return nil
}

// GetTransferInputs возвращает сохранённый ввод формы заявки для сеанса.
func (r *PostgresRepository) GetTransferInputs(ctx context.Context, subject string) (*TransferInputs, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT phone_number, invoice_registered_num FROM transfer_inputs WHERE subject = $1`,
		subject,
	)

	var inputs TransferInputs
	err := row.Scan(&inputs.PhoneNumber, &inputs.InvoiceRegisteredNum)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transfer inputs: %w", err)
	}

	return &inputs, nil
}

// SetCachedUserInfo запоминает последние известные имя и остаток баллов сеанса.
func (r *PostgresRepository) SetCachedUserInfo(ctx context.Context, subject string, info model.LoggedInUserInfo) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_info_cache (subject, name, point_num)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (subject) DO UPDATE SET name = $2, point_num = $3, updated_at = now()`,
		subject, info.Name, info.PointNum,
	)
	if err != nil {
		return fmt.Errorf("set cached user info: %w", err)
	}
	return nil
}

// GetCachedUserInfo возвращает последние известные имя и остаток баллов сеанса.
func (r *PostgresRepository) GetCachedUserInfo(ctx context.Context, subject string) (*model.LoggedInUserInfo, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT name, point_num FROM user_info_cache WHERE subject = $1`,
		subject,
	)

	var info model.LoggedInUserInfo
	err := row.Scan(&info.Name, &info.PointNum)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cached user info: %w", err)
	}

	return &info, nil
}
