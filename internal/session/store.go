package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
)

// Store is the credential store: the single owner of persisted session state.
// Token getters report absent on any underlying storage failure instead of
// surfacing an error; callers only ever see a missing token.
type Store interface {
	// SaveTokens overwrites both tokens and their expiries in one write. A
	// token and its expiry are never persisted separately.
	SaveTokens(pair api.TokenPair) error
	AccessToken() (api.Token, bool)
	RefreshToken() (api.Token, bool)

	SaveUser(u api.UserProfile) error
	User() (api.UserProfile, bool)

	// IsLoggedIn reports whether an access token value is present. Expiry is
	// deliberately not checked here; an expired token is the refresh path's
	// problem, not a logged-out state.
	IsLoggedIn() bool

	// Clear erases all session fields. IsLoggedIn reports false afterwards.
	Clear() error
}

// credentials is the encrypted-at-rest session blob. Writing the whole blob
// in one statement is what makes token+expiry updates atomic.
type credentials struct {
	Tokens api.TokenPair    `json:"tokens"`
	User   *api.UserProfile `json:"user,omitempty"`
}

// SQLiteStore implements Store using SQLite with the credential blob
// encrypted via AES-GCM. It also tracks which announcements the feed poller
// has already surfaced.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
}

// NewSQLiteStore opens (or creates) the store at dbPath. The encryptionKey
// is used to encrypt and decrypt the credential blob.
func NewSQLiteStore(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Set file permissions (only works on creation)
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		// Ignore error if file doesn't exist yet
	}

	store := &SQLiteStore{
		db:            db,
		encryptionKey: encryptionKey,
	}

	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS credentials (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		encrypted TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create credentials table: %w", err)
	}

	seenQuery := `
	CREATE TABLE IF NOT EXISTS seen_announcements (
		announcement_id INTEGER PRIMARY KEY,
		seen_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(seenQuery); err != nil {
		return fmt.Errorf("failed to create seen_announcements table: %w", err)
	}

	return nil
}

// load reads and decrypts the credential blob. Any failure is logged and
// reported as "no credentials"; a broken store must not take the caller down.
func (s *SQLiteStore) load() (credentials, bool) {
	var encrypted string
	err := s.db.QueryRow("SELECT encrypted FROM credentials WHERE id = 1").Scan(&encrypted)
	if err == sql.ErrNoRows {
		return credentials{}, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to read credentials, treating as absent")
		return credentials{}, false
	}

	plaintext, err := Decrypt(encrypted, s.encryptionKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to decrypt credentials, treating as absent")
		return credentials{}, false
	}

	var creds credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal credentials, treating as absent")
		return credentials{}, false
	}

	return creds, true
}

func (s *SQLiteStore) save(creds credentials) error {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	encrypted, err := Encrypt(plaintext, s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO credentials (id, encrypted, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			encrypted = excluded.encrypted,
			updated_at = excluded.updated_at
	`, encrypted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}

// SaveTokens overwrites the persisted token pair, leaving the profile intact.
func (s *SQLiteStore) SaveTokens(pair api.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, _ := s.load()
	creds.Tokens = pair
	return s.save(creds)
}

// AccessToken returns the stored access token, if any.
func (s *SQLiteStore) AccessToken() (api.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.load()
	if !ok || !creds.Tokens.Access.Present() {
		return api.Token{}, false
	}
	return creds.Tokens.Access, true
}

// RefreshToken returns the stored refresh token, if any.
func (s *SQLiteStore) RefreshToken() (api.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.load()
	if !ok || !creds.Tokens.Refresh.Present() {
		return api.Token{}, false
	}
	return creds.Tokens.Refresh, true
}

// SaveUser overwrites the persisted profile, leaving tokens intact.
func (s *SQLiteStore) SaveUser(u api.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, _ := s.load()
	creds.User = &u
	return s.save(creds)
}

// User returns the stored profile, if any.
func (s *SQLiteStore) User() (api.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.load()
	if !ok || creds.User == nil {
		return api.UserProfile{}, false
	}
	return *creds.User, true
}

// IsLoggedIn reports whether an access token value is stored.
func (s *SQLiteStore) IsLoggedIn() bool {
	_, ok := s.AccessToken()
	return ok
}

// Clear erases the session. Seen-announcement tracking is device state, not
// session state, and survives logout.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM credentials"); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IsAnnouncementSeen reports whether the poller already surfaced this
// announcement.
func (s *SQLiteStore) IsAnnouncementSeen(id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM seen_announcements WHERE announcement_id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query seen announcement: %w", err)
	}
	return n > 0, nil
}

// MarkAnnouncementSeen records an announcement as surfaced.
func (s *SQLiteStore) MarkAnnouncementSeen(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO seen_announcements (announcement_id, seen_at)
		VALUES (?, ?)
		ON CONFLICT(announcement_id) DO NOTHING
	`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark announcement seen: %w", err)
	}
	return nil
}

// PruneSeenAnnouncements drops seen entries older than maxAge.
func (s *SQLiteStore) PruneSeenAnnouncements(maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	_, err := s.db.Exec("DELETE FROM seen_announcements WHERE seen_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune seen announcements: %w", err)
	}
	return nil
}
