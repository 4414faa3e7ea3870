package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wayfarer/paperfeed/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guid TEXT UNIQUE,
		title TEXT,
		link TEXT,
		authors TEXT,
		abstract TEXT,
		published TEXT,
		feed_source TEXT,
		relevance_score INTEGER,
		keywords_matched TEXT,
		fetched_date TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_articles_fetched_date ON articles(fetched_date);
	CREATE INDEX IF NOT EXISTS idx_articles_relevance_score ON articles(relevance_score);
	`
	_, err := db.Exec(schema)
	return err
}

// Exists reports whether an article with the given GUID is stored.
func (s *SQLiteStorage) Exists(ctx context.Context, guid string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM articles WHERE guid = ?`, guid,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert stores the article. A duplicate GUID is a no-op that returns false;
// the first stored row is never overwritten.
func (s *SQLiteStorage) Insert(ctx context.Context, article *models.Article) (bool, error) {
	if article.FetchedDate.IsZero() {
		article.FetchedDate = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO articles
		 (guid, title, link, authors, abstract, published,
		  feed_source, relevance_score, keywords_matched, fetched_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.GUID, article.Title, article.Link, article.Authors,
		article.Abstract, article.Published, article.FeedSource,
		article.RelevanceScore, article.KeywordsText(), article.FetchedDate,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if id, err := result.LastInsertId(); err == nil {
		article.ID = id
	}
	return true, nil
}

// Query returns stored articles matching opts, most recently fetched first,
// higher relevance first among ties.
func (s *SQLiteStorage) Query(ctx context.Context, opts QueryOptions) ([]*models.Article, error) {
	query := `SELECT id, guid, title, link, authors, abstract, published,
	          feed_source, relevance_score, keywords_matched, fetched_date
	          FROM articles WHERE relevance_score >= ?`
	args := []interface{}{opts.MinScore}

	if !opts.Since.IsZero() {
		query += ` AND fetched_date >= ?`
		args = append(args, opts.Since)
	}
	query += ` ORDER BY fetched_date DESC, relevance_score DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		var a models.Article
		var keywords string
		if err := rows.Scan(&a.ID, &a.GUID, &a.Title, &a.Link, &a.Authors,
			&a.Abstract, &a.Published, &a.FeedSource, &a.RelevanceScore,
			&keywords, &a.FetchedDate); err != nil {
			return nil, err
		}
		a.KeywordsMatched = models.SplitKeywords(keywords)
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

// Count returns the total number of stored articles.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
