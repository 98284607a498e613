package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bumpbox-be/internal/logger"

	"go.uber.org/zap"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const itemColumns = `
	id,
	title,
	price,
	condition,
	description,
	category,
	image_url,
	seller_id,
	seller_name,
	availability,
	COALESCE(locker_id, '')
`

func (r *postgresRepository) ListItems(ctx context.Context, filter ItemFilter) ([]*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListItems"),
	)

	query := "SELECT" + itemColumns + "FROM items"

	where := []string{}
	args := []interface{}{}

	if filter.Category != nil && *filter.Category != "" {
		where = append(where, fmt.Sprintf("LOWER(category) = LOWER($%d)", len(args)+1))
		args = append(args, *filter.Category)
	}
	if filter.Availability != nil && *filter.Availability != "" {
		where = append(where, fmt.Sprintf("availability = $%d", len(args)+1))
		args = append(args, string(*filter.Availability))
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY position ASC"

	log.Debug("executing ListItems query", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan item", zap.Error(err))
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *postgresRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+itemColumns+"FROM items WHERE id = $1", id)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *postgresRepository) ListLockers(ctx context.Context) ([]*Locker, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, address, city, hours, distance
		FROM lockers
		ORDER BY position ASC
	`)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query lockers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lockers := []*Locker{}
	for rows.Next() {
		l, err := scanLocker(rows)
		if err != nil {
			return nil, err
		}
		lockers = append(lockers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lockers, nil
}

func (r *postgresRepository) GetLocker(ctx context.Context, id string) (*Locker, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, address, city, hours, distance
		FROM lockers
		WHERE id = $1
	`, id)

	l, err := scanLocker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLockerNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*Item, error) {
	var it Item
	var condition, availability string
	err := s.Scan(
		&it.ID,
		&it.Title,
		&it.Price,
		&condition,
		&it.Description,
		&it.Category,
		&it.ImageURL,
		&it.SellerID,
		&it.SellerName,
		&availability,
		&it.LockerID,
	)
	if err != nil {
		return nil, err
	}
	it.Condition = Condition(condition)
	it.Availability = Availability(availability)
	return &it, nil
}

func scanLocker(s scanner) (*Locker, error) {
	var l Locker
	var distance sql.NullString
	if err := s.Scan(&l.ID, &l.Name, &l.Address, &l.City, &l.Hours, &distance); err != nil {
		return nil, err
	}
	if distance.Valid {
		l.Distance = &distance.String
	}
	return &l, nil
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT MIN(category)
		FROM items
		GROUP BY LOWER(category)
		ORDER BY MIN(position) ASC
	`)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query categories",
			zap.String("layer", "repository"),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
