// Package storage is the SQLite ledger backend. It implements the same
// ports as the Google Sheets adapter so the bot can run fully local, with
// the sync worker mirroring rows to a spreadsheet when configured.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	ports "github.com/HimanshuSingh-966/PayLog/internal/ledger"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.Gateway = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) AppendTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, direction, wallet, amount, description, balance_total, balance_wallet, category, merchant)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		core.FormatDate(t.Date), string(t.Direction), string(t.Wallet),
		t.Amount.String(), t.Description,
		t.BalanceTotal.String(), t.BalanceWallet.String(),
		t.Category, t.Merchant)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"description", t.Description,
		"amount", t.Amount.String(),
		"wallet", string(t.Wallet),
		"direction", string(t.Direction))
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, direction, wallet, amount, description, balance_total, balance_wallet, category, merchant
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var dateStr, direction, wallet, amount, balTotal, balWallet string
		var t core.Transaction
		if err := rows.Scan(&dateStr, &direction, &wallet, &amount, &t.Description, &balTotal, &balWallet, &t.Category, &t.Merchant); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, err
		}
		t.Direction = core.Direction(direction)
		t.Wallet = core.Wallet(wallet)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		if t.BalanceTotal, err = decimal.NewFromString(balTotal); err != nil {
			return nil, fmt.Errorf("parse balance_total %q: %w", balTotal, err)
		}
		if t.BalanceWallet, err = decimal.NewFromString(balWallet); err != nil {
			return nil, fmt.Errorf("parse balance_wallet %q: %w", balWallet, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteLastTransaction(ctx context.Context) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = (SELECT MAX(id) FROM transactions)`)
	if err != nil {
		return fmt.Errorf("delete last transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("ledger is empty")
	}
	return nil
}

func (r *SQLiteRepository) AppendLending(ctx context.Context, rec core.LendingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	returnDate := ""
	if !rec.ReturnDate.IsZero() {
		returnDate = core.FormatDate(rec.ReturnDate)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lending (date, person, amount, status, description, return_date, return_to)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		core.FormatDate(rec.Date), rec.Person, rec.Amount.String(),
		string(rec.Status), rec.Description, returnDate, string(rec.ReturnTo))
	if err != nil {
		return fmt.Errorf("insert lending: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListLending(ctx context.Context) ([]core.LendingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, person, amount, status, description, return_date, return_to
		FROM lending ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query lending: %w", err)
	}
	defer rows.Close()

	var out []core.LendingRecord
	for rows.Next() {
		var dateStr, amount, status, returnDate, returnTo string
		var rec core.LendingRecord
		if err := rows.Scan(&dateStr, &rec.Person, &amount, &status, &rec.Description, &returnDate, &returnTo); err != nil {
			return nil, fmt.Errorf("scan lending: %w", err)
		}
		if rec.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, err
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		rec.Status = core.LendingStatus(status)
		if rec.ReturnDate, err = core.ParseDate(returnDate); err != nil {
			return nil, err
		}
		rec.ReturnTo = core.Wallet(returnTo)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarkReturned flips the lending row at the given ledger position. Rows are
// addressed by position rather than id so every backend shares the matching
// semantics of the ports.
func (r *SQLiteRepository) MarkReturned(ctx context.Context, index int, returnDate time.Time, returnTo core.Wallet) error {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM lending ORDER BY id LIMIT 1 OFFSET ?`, index).Scan(&id)
	if err == sql.ErrNoRows {
		return errors.New("lending index out of range")
	}
	if err != nil {
		return fmt.Errorf("locate lending row: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE lending SET status = ?, return_date = ?, return_to = ?
		WHERE id = ? AND status = ?`,
		string(core.StatusReturned), core.FormatDate(returnDate), string(returnTo),
		id, string(core.StatusLent))
	if err != nil {
		return fmt.Errorf("update lending row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("lending record already returned")
	}
	return nil
}

// LastTransactionID returns the id of the newest transaction row, used by
// the AMQP sync path to reference what was just appended.
func (r *SQLiteRepository) LastTransactionID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM transactions`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("query last transaction id: %w", err)
	}
	return id, nil
}

// GetTransaction fetches one row by id for the sync worker.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var dateStr, direction, wallet, amount, balTotal, balWallet string
	var t core.Transaction
	err := r.db.QueryRowContext(ctx, `
		SELECT date, direction, wallet, amount, description, balance_total, balance_wallet, category, merchant
		FROM transactions WHERE id = ?`, id).
		Scan(&dateStr, &direction, &wallet, &amount, &t.Description, &balTotal, &balWallet, &t.Category, &t.Merchant)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	if t.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Transaction{}, err
	}
	t.Direction = core.Direction(direction)
	t.Wallet = core.Wallet(wallet)
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.BalanceTotal, err = decimal.NewFromString(balTotal); err != nil {
		return core.Transaction{}, err
	}
	if t.BalanceWallet, err = decimal.NewFromString(balWallet); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
