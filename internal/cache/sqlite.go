package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"marketmonitor/internal/model"
	"marketmonitor/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Store backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Put creates or overwrites the snapshot for url, stamping it with the
// current time.
func (s *SQLite) Put(ctx context.Context, url string, listing *model.Listing) error {
	if err := listing.Validate(); err != nil {
		return err
	}

	var bidCount sql.NullInt64
	if listing.BidCount != nil {
		bidCount = sql.NullInt64{Int64: int64(*listing.BidCount), Valid: true}
	}

	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO listings (url, marketplace, item_name, listing_id, title, price, post_url,
		                       image, location, seller, condition, description,
		                       auction_end_time, time_remaining, bid_count, lot_number, auction_id,
		                       observed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		     marketplace = excluded.marketplace,
		     item_name = excluded.item_name,
		     listing_id = excluded.listing_id,
		     title = excluded.title,
		     price = excluded.price,
		     post_url = excluded.post_url,
		     image = excluded.image,
		     location = excluded.location,
		     seller = excluded.seller,
		     condition = excluded.condition,
		     description = excluded.description,
		     auction_end_time = excluded.auction_end_time,
		     time_remaining = excluded.time_remaining,
		     bid_count = excluded.bid_count,
		     lot_number = excluded.lot_number,
		     auction_id = excluded.auction_id,
		     observed_at = excluded.observed_at`,
		model.NormalizeURL(url), listing.Marketplace, listing.ItemName, listing.ID,
		listing.Title, listing.Price, listing.PostURL, listing.Image, listing.Location,
		listing.Seller, listing.Condition, listing.Description,
		listing.AuctionEndTime, listing.TimeRemaining, bidCount,
		listing.LotNumber, listing.AuctionID, now,
	)
	if err != nil {
		return fmt.Errorf("put listing: %w", err)
	}
	return nil
}

// Get returns the last-known snapshot for url, or nil when absent.
func (s *SQLite) Get(ctx context.Context, url string) (*model.Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT marketplace, item_name, listing_id, title, price, post_url,
		        image, location, seller, condition, description,
		        auction_end_time, time_remaining, bid_count, lot_number, auction_id
		 FROM listings WHERE url = ?`,
		model.NormalizeURL(url),
	)

	var l model.Listing
	var bidCount sql.NullInt64
	err := row.Scan(&l.Marketplace, &l.ItemName, &l.ID, &l.Title, &l.Price, &l.PostURL,
		&l.Image, &l.Location, &l.Seller, &l.Condition, &l.Description,
		&l.AuctionEndTime, &l.TimeRemaining, &bidCount, &l.LotNumber, &l.AuctionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	if bidCount.Valid {
		v := int(bidCount.Int64)
		l.BidCount = &v
	}
	return &l, nil
}

// Evict removes every entry recorded for the given marketplace.
func (s *SQLite) Evict(ctx context.Context, marketplace string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM listings WHERE marketplace = ?`, marketplace)
	if err != nil {
		return fmt.Errorf("evict listings: %w", err)
	}
	return nil
}
