package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Ensure sqlcipher driver is registered.
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/focusd/focus_mon/internal/domain"
)

const secretsDBName = "secrets.db"

// Well-known secret keys.
const (
	SecretAssessAPIKey   = "assess_api_key"
	SecretAssessEndpoint = "assess_endpoint"
	SecretAssessModel    = "assess_model"
)

// EncryptedSecretStore implements domain.SecretStore using a SQLCipher
// encrypted SQLite database. It holds credentials for the assessment
// service; check history never touches disk.
type EncryptedSecretStore struct {
	db     *sql.DB
	dbPath string
}

// NewEncryptedSecretStore opens (or creates) the encrypted secrets
// database. The key is used as the SQLCipher passphrase via PRAGMA key.
func NewEncryptedSecretStore(dataDir string, key []byte) (*EncryptedSecretStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, secretsDBName)
	keyHex := hex.EncodeToString(key)

	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, keyHex)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open encrypted database: %w", err)
	}

	// A ping with a wrong key fails here rather than on first query.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to encrypted database: %w", err)
	}

	store := &EncryptedSecretStore{db: db, dbPath: dbPath}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return store, nil
}

func (s *EncryptedSecretStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS secrets (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetSecret retrieves a secret by key.
func (s *EncryptedSecretStore) GetSecret(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM secrets WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("secret %q not found", key)
	}
	return value, err
}

// SetSecret stores a secret, replacing any previous value.
func (s *EncryptedSecretStore) SetSecret(key, value string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO secrets (key, value, created_at) VALUES (?, ?, ?)`,
		key, value, now)
	return err
}

// GetAllSecrets returns all stored secrets.
func (s *EncryptedSecretStore) GetAllSecrets() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM secrets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	secrets := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		secrets[k] = v
	}
	return secrets, rows.Err()
}

// Path returns the database file path.
func (s *EncryptedSecretStore) Path() string {
	return s.dbPath
}

// Close releases the database connection.
func (s *EncryptedSecretStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure EncryptedSecretStore implements domain.SecretStore.
var _ domain.SecretStore = (*EncryptedSecretStore)(nil)
