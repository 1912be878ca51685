package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"book-catalog/internal/models"
	"book-catalog/internal/util"

	"github.com/google/uuid"
	"github.com/thejerf/abtime"
)

const (
	fileSuffix = ".json"
	tmpSuffix  = fileSuffix + ".tmp"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidID       = errors.New("invalid session id")
)

// FileStoreSettings tune a FileStore. Zero values are replaced by
// defaults in NewFileStore.
type FileStoreSettings struct {
	// Inactivity timeout measured from the record's UpdatedAt.
	Timeout time.Duration
	abtime.AbstractTime
	// When set, session files are encrypted at rest.
	Sealer *util.Sealer
}

// FileStore keeps one file per session in a directory. Session ids are
// UUIDs, so they map to file names without escaping.
type FileStore struct {
	dir string
	*FileStoreSettings

	lock sync.Mutex
}

func NewFileStore(dir string, settings *FileStoreSettings) *FileStore {
	if settings == nil {
		settings = &FileStoreSettings{}
	}
	if settings.Timeout <= 0 {
		settings.Timeout = time.Hour
	}
	if settings.AbstractTime == nil {
		settings.AbstractTime = abtime.NewRealTime()
	}
	return &FileStore{dir: dir, FileStoreSettings: settings}
}

func (fs *FileStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidID
	}
	return filepath.Join(fs.dir, id+fileSuffix), nil
}

func (fs *FileStore) expired(rec models.SessionRecord) bool {
	return rec.UpdatedAt.Add(fs.Timeout).Before(fs.Now())
}

// Get returns the live record for id. Missing and expired sessions both
// yield ErrSessionNotFound; expired files are removed on the way.
func (fs *FileStore) Get(id string) (models.SessionRecord, error) {
	filename, err := fs.path(id)
	if err != nil {
		return models.SessionRecord{}, ErrSessionNotFound
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	rec, err := fs.readLocked(filename)
	if err != nil {
		return models.SessionRecord{}, err
	}
	if rec.ID != id {
		// a file that claims another id is never handed out
		return models.SessionRecord{}, fmt.Errorf("session file %s: id mismatch", id)
	}
	if fs.expired(rec) {
		_ = os.Remove(filename)
		return models.SessionRecord{}, ErrSessionNotFound
	}
	return rec, nil
}

// Put writes rec, stamping UpdatedAt (and CreatedAt on first write).
func (fs *FileStore) Put(rec *models.SessionRecord) error {
	filename, err := fs.path(rec.ID)
	if err != nil {
		return err
	}

	now := fs.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if fs.Sealer != nil {
		if b, err = fs.Sealer.Seal(b); err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.MkdirAll(fs.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := strings.TrimSuffix(filename, fileSuffix) + tmpSuffix
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (fs *FileStore) Delete(id string) error {
	filename, err := fs.path(id)
	if err != nil {
		return nil
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Prune removes expired and unreadable session files, plus temp files
// left by an interrupted Put, and returns how many were removed.
func (fs *FileStore) Prune() (int, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		filename := filepath.Join(fs.dir, e.Name())
		// Put holds the lock until its rename, so any temp file here is stale
		if strings.HasSuffix(e.Name(), tmpSuffix) {
			if err := os.Remove(filename); err == nil {
				removed++
			}
			continue
		}
		if !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		rec, err := fs.readLocked(filename)
		if err == nil && !fs.expired(rec) {
			continue
		}
		if err := os.Remove(filename); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (fs *FileStore) readLocked(filename string) (models.SessionRecord, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.SessionRecord{}, ErrSessionNotFound
		}
		return models.SessionRecord{}, fmt.Errorf("read session: %w", err)
	}
	if fs.Sealer != nil {
		if b, err = fs.Sealer.Open(b); err != nil {
			return models.SessionRecord{}, fmt.Errorf("open session: %w", err)
		}
	}
	var rec models.SessionRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return models.SessionRecord{}, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}
