package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/boggdan95/photo-to-post/internal/config"
	"github.com/boggdan95/photo-to-post/internal/logging"
	"github.com/boggdan95/photo-to-post/internal/post"
)

// Store manages post persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	cfg    *config.Config
	logger *slog.Logger
}

// Open initializes or connects to the post database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.BaseDir, "posts.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, cfg: cfg, logger: logging.NewNop()}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// SetLogger attaches a logger used for quarantine and repair warnings.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = logging.NewNop()
	}
	s.logger = logger
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add inserts a new post. An empty ID is generated from the creation time.
func (s *Store) Add(ctx context.Context, p *post.Post) (*post.Post, error) {
	if p == nil {
		return nil, errors.New("post is nil")
	}
	now := time.Now()
	if strings.TrimSpace(p.ID) == "" {
		p.ID = post.NewID(now)
	}
	if p.Stage == "" {
		p.Stage = post.StageDraft
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.CreatedAt = now.UTC()
	p.UpdatedAt = now.UTC()

	photosJSON, hashtagsJSON, err := marshalPayloads(p)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO posts (
            id, stage, country, city, location_display, photo_count,
            photos_json, caption_text, caption_hashtags,
            suggested_date, suggested_time, scheduled_at, published_at,
            instagram_post_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Stage,
		p.Country,
		nullableString(p.City),
		nullableString(p.LocationDisplay),
		p.PhotoCount,
		nullableString(photosJSON),
		nullableString(p.Caption.Text),
		nullableString(hashtagsJSON),
		nullableStringPtr(p.Schedule.SuggestedDate),
		nullableStringPtr(p.Schedule.SuggestedTime),
		nullableTime(p.Schedule.ScheduledAt),
		nullableTime(p.Schedule.PublishedAt),
		nullableString(p.InstagramPostID),
		p.CreatedAt.Format(time.RFC3339Nano),
		p.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return s.GetByID(ctx, p.ID)
}

// GetByID fetches a post by identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*post.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// List returns posts filtered by stage set (or all posts when no stage is
// provided), ordered by ID. IDs embed the creation timestamp, so ID order is
// discovery order. Rows failing validation are quarantined with a warning
// rather than returned.
func (s *Store) List(ctx context.Context, stages ...post.Stage) ([]*post.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + postColumns + ` FROM posts`
	orderClause := ` ORDER BY id`

	if len(stages) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(stages))
		args := make([]any, len(stages))
		for i, stage := range stages {
			args[i] = stage
		}
		query := baseQuery + ` WHERE stage IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*post.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			s.logger.Warn("quarantined invalid post record",
				logging.String(logging.FieldPostID, p.ID),
				logging.Error(err),
			)
			continue
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Update persists changes to an existing post without moving it between stages.
func (s *Store) Update(ctx context.Context, p *post.Post) error {
	if p == nil {
		return errors.New("post is nil")
	}
	p.UpdatedAt = time.Now().UTC()

	photosJSON, hashtagsJSON, err := marshalPayloads(p)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE posts
         SET stage = ?, country = ?, city = ?, location_display = ?, photo_count = ?,
             photos_json = ?, caption_text = ?, caption_hashtags = ?,
             suggested_date = ?, suggested_time = ?, scheduled_at = ?, published_at = ?,
             instagram_post_id = ?, updated_at = ?
         WHERE id = ?`,
		p.Stage,
		p.Country,
		nullableString(p.City),
		nullableString(p.LocationDisplay),
		p.PhotoCount,
		nullableString(photosJSON),
		nullableString(p.Caption.Text),
		nullableString(hashtagsJSON),
		nullableStringPtr(p.Schedule.SuggestedDate),
		nullableStringPtr(p.Schedule.SuggestedTime),
		nullableTime(p.Schedule.ScheduledAt),
		nullableTime(p.Schedule.PublishedAt),
		nullableString(p.InstagramPostID),
		p.UpdatedAt.Format(time.RFC3339Nano),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	return nil
}

// Exec runs a raw statement against the post database. Reserved for
// maintenance tooling and tests.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// OccupiedDates returns the number of scheduled posts per suggested date.
func (s *Store) OccupiedDates(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT suggested_date, COUNT(1) FROM posts
         WHERE stage = ? AND suggested_date IS NOT NULL
         GROUP BY suggested_date`,
		post.StageScheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("occupied dates: %w", err)
	}
	defer rows.Close()

	occupied := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		occupied[date] = count
	}
	return occupied, rows.Err()
}

// Stats returns a count of posts grouped by stage.
func (s *Store) Stats(ctx context.Context) (map[post.Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stage, COUNT(1) FROM posts GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("post stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[post.Stage]int)
	for rows.Next() {
		var stage post.Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		stats[stage] = count
	}
	return stats, rows.Err()
}

const postColumns = "id, stage, country, city, location_display, photo_count, photos_json, caption_text, caption_hashtags, suggested_date, suggested_time, scheduled_at, published_at, instagram_post_id, created_at, updated_at"

func scanPost(scanner interface{ Scan(dest ...any) error }) (*post.Post, error) {
	var (
		id              string
		stageStr        string
		country         sql.NullString
		city            sql.NullString
		locationDisplay sql.NullString
		photoCount      sql.NullInt64
		photosJSON      sql.NullString
		captionText     sql.NullString
		captionHashtags sql.NullString
		suggestedDate   sql.NullString
		suggestedTime   sql.NullString
		scheduledRaw    sql.NullString
		publishedRaw    sql.NullString
		instagramPostID sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&stageStr,
		&country,
		&city,
		&locationDisplay,
		&photoCount,
		&photosJSON,
		&captionText,
		&captionHashtags,
		&suggestedDate,
		&suggestedTime,
		&scheduledRaw,
		&publishedRaw,
		&instagramPostID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	p := &post.Post{
		ID:              id,
		Stage:           post.Stage(stageStr),
		Country:         country.String,
		City:            city.String,
		LocationDisplay: locationDisplay.String,
		PhotoCount:      int(photoCount.Int64),
		InstagramPostID: instagramPostID.String,
	}
	p.Caption.Text = captionText.String

	if photosJSON.Valid && photosJSON.String != "" {
		if err := json.Unmarshal([]byte(photosJSON.String), &p.Photos); err != nil {
			return nil, fmt.Errorf("decode photos for %s: %w", id, err)
		}
	}
	if captionHashtags.Valid && captionHashtags.String != "" {
		if err := json.Unmarshal([]byte(captionHashtags.String), &p.Caption.Hashtags); err != nil {
			return nil, fmt.Errorf("decode hashtags for %s: %w", id, err)
		}
	}

	if suggestedDate.Valid {
		value := suggestedDate.String
		p.Schedule.SuggestedDate = &value
	}
	if suggestedTime.Valid {
		value := suggestedTime.String
		p.Schedule.SuggestedTime = &value
	}
	if scheduledRaw.Valid {
		if parsed, err := parseTimeString(scheduledRaw.String); err == nil {
			p.Schedule.ScheduledAt = &parsed
		}
	}
	if publishedRaw.Valid {
		if parsed, err := parseTimeString(publishedRaw.String); err == nil {
			p.Schedule.PublishedAt = &parsed
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		p.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		p.UpdatedAt = updated
	}
	return p, nil
}

func marshalPayloads(p *post.Post) (photosJSON, hashtagsJSON string, err error) {
	if len(p.Photos) > 0 {
		data, err := json.Marshal(p.Photos)
		if err != nil {
			return "", "", fmt.Errorf("marshal photos: %w", err)
		}
		photosJSON = string(data)
	}
	if len(p.Caption.Hashtags) > 0 {
		data, err := json.Marshal(p.Caption.Hashtags)
		if err != nil {
			return "", "", fmt.Errorf("marshal hashtags: %w", err)
		}
		hashtagsJSON = string(data)
	}
	return photosJSON, hashtagsJSON, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableStringPtr(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
