package repo

import (
	"context"

	dom "github.com/andradm/Journal-project/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntryRepo provides journal entry persistence.
type EntryRepo interface {
	Create(ctx context.Context, e dom.Entry) (dom.Entry, error)
	GetByID(ctx context.Context, id int64) (dom.Entry, error)
	// ListRecent returns the newest entries across all users, entry date first.
	ListRecent(ctx context.Context, limit int) ([]dom.Entry, error)
	// ListRecentByOwner returns the owner's newest entries by creation time.
	ListRecentByOwner(ctx context.Context, userID int64, limit int) ([]dom.Entry, error)
	// Update overwrites the editable fields. The owner column is never touched.
	Update(ctx context.Context, id int64, e dom.Entry) (dom.Entry, error)
	Delete(ctx context.Context, id int64) error
}

// PGEntryRepo implements EntryRepo with Postgres.
type PGEntryRepo struct {
	db *pgxpool.Pool
}

// NewPGEntryRepo returns a new PGEntryRepo.
func NewPGEntryRepo(db *pgxpool.Pool) *PGEntryRepo {
	return &PGEntryRepo{db: db}
}

func (r *PGEntryRepo) Create(ctx context.Context, e dom.Entry) (dom.Entry, error) {
	query := `
		INSERT INTO entries (user_id, title, time_spent, content, resources, entry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, title, time_spent, content, resources, entry_date, created_at`
	var out dom.Entry
	err := r.db.QueryRow(ctx, query,
		e.UserID, e.Title, e.TimeSpent, e.Content, e.Resources, e.EntryDate,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.TimeSpent, &out.Content,
		&out.Resources, &out.EntryDate, &out.CreatedAt,
	)
	return out, err
}

func (r *PGEntryRepo) GetByID(ctx context.Context, id int64) (dom.Entry, error) {
	query := `
		SELECT id, user_id, title, time_spent, content, resources, entry_date, created_at
		FROM entries WHERE id = $1`
	var e dom.Entry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Title, &e.TimeSpent, &e.Content,
		&e.Resources, &e.EntryDate, &e.CreatedAt,
	)
	return e, err
}

func (r *PGEntryRepo) ListRecent(ctx context.Context, limit int) ([]dom.Entry, error) {
	query := `
		SELECT id, user_id, title, time_spent, content, resources, entry_date, created_at
		FROM entries ORDER BY entry_date DESC, created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PGEntryRepo) ListRecentByOwner(ctx context.Context, userID int64, limit int) ([]dom.Entry, error) {
	query := `
		SELECT id, user_id, title, time_spent, content, resources, entry_date, created_at
		FROM entries WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PGEntryRepo) Update(ctx context.Context, id int64, e dom.Entry) (dom.Entry, error) {
	query := `
		UPDATE entries SET title = $2, time_spent = $3, content = $4, resources = $5, entry_date = $6
		WHERE id = $1
		RETURNING id, user_id, title, time_spent, content, resources, entry_date, created_at`
	var out dom.Entry
	err := r.db.QueryRow(ctx, query,
		id, e.Title, e.TimeSpent, e.Content, e.Resources, e.EntryDate,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.TimeSpent, &out.Content,
		&out.Resources, &out.EntryDate, &out.CreatedAt,
	)
	return out, err
}

func (r *PGEntryRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	return err
}

func scanEntries(rows pgx.Rows) ([]dom.Entry, error) {
	var list []dom.Entry
	for rows.Next() {
		var e dom.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.TimeSpent, &e.Content,
			&e.Resources, &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
