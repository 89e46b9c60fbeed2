// Package store provides the SQLite-backed persistence for the
// reference notification server.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/AzerQ/sed-notifications/internal/domain"
	"github.com/AzerQ/sed-notifications/internal/settings"
)

// ErrNotFound indicates that a requested record does not exist.
var ErrNotFound = errors.New("record not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	type        TEXT NOT NULL,
	subtype     TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	author      TEXT NOT NULL DEFAULT '',
	date        TEXT NOT NULL,
	read        INTEGER NOT NULL DEFAULT 0,
	starred     INTEGER NOT NULL DEFAULT 0,
	card_url    TEXT NOT NULL DEFAULT '',
	delegate    INTEGER NOT NULL DEFAULT 0,
	actions     TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_date ON notifications(date);

CREATE TABLE IF NOT EXISTS toast_settings (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_settings (
	user_id  TEXT PRIMARY KEY,
	document TEXT NOT NULL
);
`

// Store is a SQLite-backed notification store.
type Store struct {
	db *sql.DB
}

// Open creates a store at the provided path, creating the schema on
// first use. Use ":memory:" for an ephemeral store.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("store: db path cannot be empty")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("store: create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Create inserts a notification and returns it with its assigned ID.
func (s *Store) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.Actions == nil {
		n.Actions = []domain.NotificationAction{}
	}
	actions, err := json.Marshal(n.Actions)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("store: marshal actions: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (title, type, subtype, description, author, date, read, starred, card_url, delegate, actions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Title, string(n.Type), n.Subtype, n.Description, n.Author, n.Date,
		boolToInt(n.Read), boolToInt(n.Starred), n.CardURL, boolToInt(n.Delegate), string(actions),
	)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("store: insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Notification{}, fmt.Errorf("store: last insert id: %w", err)
	}
	n.ID = id
	return n, nil
}

// GetByID retrieves a single notification.
func (s *Store) GetByID(ctx context.Context, id int64) (domain.Notification, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM notifications WHERE id = ?", id)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, ErrNotFound
	}
	return n, err
}

// List returns one page of notifications matching the filter, newest
// first, together with the total count for the same filter. Set
// unreadOnly to restrict to read = 0.
func (s *Store) List(ctx context.Context, req domain.PageRequest, unreadOnly bool) (domain.Page, error) {
	req = req.Normalize()

	clauses, args := filterClauses(req.Filter)
	if unreadOnly {
		clauses = append(clauses, "read = 0")
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications"+where, args...).Scan(&total); err != nil {
		return domain.Page{}, fmt.Errorf("store: count notifications: %w", err)
	}

	totalPages := domain.TotalPagesFor(total, req.PageSize)
	page := domain.ClampPage(req.Page, totalPages)
	offset := (page - 1) * req.PageSize

	query := selectColumns + " FROM notifications" + where +
		" ORDER BY date DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, req.PageSize, offset)...)
	if err != nil {
		return domain.Page{}, fmt.Errorf("store: query notifications: %w", err)
	}
	defer rows.Close()

	data := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return domain.Page{}, err
		}
		data = append(data, n)
	}
	if err := rows.Err(); err != nil {
		return domain.Page{}, fmt.Errorf("store: iterate notifications: %w", err)
	}

	return domain.Page{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// MarkRead sets read = 1 for the given ID. Marking an already-read or
// unknown notification succeeds; the operation is idempotent.
func (s *Store) MarkRead(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("store: mark read: %w", err)
	}
	return nil
}

// MarkManyRead sets read = 1 for all given IDs in one transaction.
func (s *Store) MarkManyRead(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin mark many: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?")
	if err != nil {
		return fmt.Errorf("store: prepare mark many: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("store: mark %d read: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit mark many: %w", err)
	}
	return nil
}

// SetRead flips the read flag either way and returns the updated row.
func (s *Store) SetRead(ctx context.Context, id int64, read bool) (domain.Notification, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = ? WHERE id = ?", boolToInt(read), id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("store: set read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Notification{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE read = 0").Scan(&count); err != nil {
		return 0, fmt.Errorf("store: unread count: %w", err)
	}
	return count, nil
}

// GetToastSettings returns the persisted toast settings, or defaults
// when nothing was saved yet.
func (s *Store) GetToastSettings(ctx context.Context) (settings.ToastSettings, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM toast_settings WHERE id = 1").Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.DefaultToastSettings(), nil
	}
	if err != nil {
		return settings.ToastSettings{}, fmt.Errorf("store: get toast settings: %w", err)
	}
	var ts settings.ToastSettings
	if err := json.Unmarshal([]byte(doc), &ts); err != nil {
		return settings.ToastSettings{}, fmt.Errorf("store: decode toast settings: %w", err)
	}
	return ts, nil
}

// SaveToastSettings upserts the toast settings document.
func (s *Store) SaveToastSettings(ctx context.Context, ts settings.ToastSettings) error {
	doc, err := json.Marshal(ts)
	if err != nil {
		return fmt.Errorf("store: encode toast settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO toast_settings (id, document) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document`, string(doc))
	if err != nil {
		return fmt.Errorf("store: save toast settings: %w", err)
	}
	return nil
}

// GetUserSettings returns the settings document for a user.
func (s *Store) GetUserSettings(ctx context.Context, userID string) (settings.UserNotificationSettings, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM user_settings WHERE user_id = ?", userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.UserNotificationSettings{}, ErrNotFound
	}
	if err != nil {
		return settings.UserNotificationSettings{}, fmt.Errorf("store: get user settings: %w", err)
	}
	var us settings.UserNotificationSettings
	if err := json.Unmarshal([]byte(doc), &us); err != nil {
		return settings.UserNotificationSettings{}, fmt.Errorf("store: decode user settings: %w", err)
	}
	return us, nil
}

// SaveUserSettings upserts a user's settings document.
func (s *Store) SaveUserSettings(ctx context.Context, us settings.UserNotificationSettings) error {
	doc, err := json.Marshal(us)
	if err != nil {
		return fmt.Errorf("store: encode user settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, document) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET document = excluded.document`, us.UserID, string(doc))
	if err != nil {
		return fmt.Errorf("store: save user settings: %w", err)
	}
	return nil
}

const selectColumns = "SELECT id, title, type, subtype, description, author, date, read, starred, card_url, delegate, actions"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (domain.Notification, error) {
	var (
		n       domain.Notification
		typ     string
		read    int
		starred int
		deleg   int
		actions string
	)
	err := row.Scan(&n.ID, &n.Title, &typ, &n.Subtype, &n.Description, &n.Author,
		&n.Date, &read, &starred, &n.CardURL, &deleg, &actions)
	if err != nil {
		return domain.Notification{}, err
	}
	n.Type = domain.NotificationType(typ)
	n.Read = read != 0
	n.Starred = starred != 0
	n.Delegate = deleg != 0
	if err := json.Unmarshal([]byte(actions), &n.Actions); err != nil {
		return domain.Notification{}, fmt.Errorf("store: decode actions: %w", err)
	}
	return n, nil
}

func filterClauses(f domain.Filter) ([]string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Subtype != "" {
		clauses = append(clauses, "subtype = ?")
		args = append(args, f.Subtype)
	}
	if f.Author != "" {
		clauses = append(clauses, "author = ?")
		args = append(args, f.Author)
	}
	if f.DateFrom != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, f.DateTo)
	}
	return clauses, args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
