package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"book-catalog/internal/models"
	"book-catalog/internal/util"

	"github.com/go-test/deep"
	"github.com/google/uuid"
	"github.com/thejerf/abtime"
)

func getFileStore(t *testing.T, sealer *util.Sealer) (*FileStore, *abtime.ManualTime) {
	t.Helper()
	manTime := abtime.NewManual()
	fs := NewFileStore(t.TempDir(), &FileStoreSettings{
		Timeout:      time.Hour,
		AbstractTime: manTime,
		Sealer:       sealer,
	})
	return fs, manTime
}

func TestFileStore_PutGet(t *testing.T) {
	fs, _ := getFileStore(t, nil)

	rec := models.SessionRecord{ID: uuid.NewString(), IsAuthenticated: true, User: "alice"}
	if err := fs.Put(&rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("Put did not stamp timestamps")
	}

	got, err := fs.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := deep.Equal(got, rec); diff != nil {
		t.Error(diff)
	}
}

func TestFileStore_Expiry(t *testing.T) {
	fs, manTime := getFileStore(t, nil)

	rec := models.SessionRecord{ID: uuid.NewString(), IsAuthenticated: true, User: "alice"}
	if err := fs.Put(&rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	manTime.Advance(30 * time.Minute)
	if _, err := fs.Get(rec.ID); err != nil {
		t.Fatalf("session should still be live: %v", err)
	}

	// touching resets the inactivity window
	if err := fs.Put(&rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	manTime.Advance(45 * time.Minute)
	if _, err := fs.Get(rec.ID); err != nil {
		t.Fatalf("touched session should still be live: %v", err)
	}

	manTime.Advance(2 * time.Hour)
	if _, err := fs.Get(rec.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired Get error = %v, want ErrSessionNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(fs.dir, rec.ID+fileSuffix)); !os.IsNotExist(err) {
		t.Error("expired session file was not removed")
	}
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	fs, _ := getFileStore(t, nil)

	for _, id := range []string{"", "../etc/passwd", "not-a-uuid"} {
		if _, err := fs.Get(id); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrSessionNotFound", id, err)
		}
		rec := models.SessionRecord{ID: id}
		if err := fs.Put(&rec); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Put(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestFileStore_Delete(t *testing.T) {
	fs, _ := getFileStore(t, nil)

	rec := models.SessionRecord{ID: uuid.NewString()}
	if err := fs.Put(&rec); err != nil {
		t.Fatal(err)
	}
	if err := fs.Delete(rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Get(rec.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := fs.Delete(rec.ID); err != nil {
		t.Errorf("second Delete error = %v, want nil", err)
	}
}

func TestFileStore_Prune(t *testing.T) {
	fs, manTime := getFileStore(t, nil)

	old := models.SessionRecord{ID: uuid.NewString()}
	if err := fs.Put(&old); err != nil {
		t.Fatal(err)
	}
	manTime.Advance(50 * time.Minute)
	fresh := models.SessionRecord{ID: uuid.NewString()}
	if err := fs.Put(&fresh); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fs.dir, uuid.NewString()+fileSuffix), []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}

	manTime.Advance(20 * time.Minute)
	n, err := fs.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("Prune removed %d, want 2 (expired + unreadable)", n)
	}
	if _, err := fs.Get(fresh.ID); err != nil {
		t.Errorf("fresh session pruned: %v", err)
	}
}

func TestFileStore_Prune_MissingDir(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope"), nil)
	if n, err := fs.Prune(); err != nil || n != 0 {
		t.Errorf("Prune = %d, %v; want 0, nil", n, err)
	}
}

func TestFileStore_Encrypted(t *testing.T) {
	sealer, err := util.NewSealer("at-rest-key")
	if err != nil {
		t.Fatal(err)
	}
	fs, _ := getFileStore(t, sealer)

	rec := models.SessionRecord{ID: uuid.NewString(), IsAuthenticated: true, User: "alice"}
	if err := fs.Put(&rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(fs.dir, rec.ID+fileSuffix))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "alice") {
		t.Error("session file stores the username in clear text")
	}

	got, err := fs.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.User != "alice" || !got.IsAuthenticated {
		t.Errorf("decrypted record = %+v", got)
	}

	// a store with another key cannot read it
	other, _ := util.NewSealer("other-key")
	fs.Sealer = other
	if _, err := fs.Get(rec.ID); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get with wrong key error = %v, want decrypt error", err)
	}
}

func TestFileStore_Prune_StaleTempFiles(t *testing.T) {
	fs, _ := getFileStore(t, nil)

	live := models.SessionRecord{ID: uuid.NewString()}
	if err := fs.Put(&live); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(fs.dir, uuid.NewString()+tmpSuffix)
	if err := os.WriteFile(stale, []byte(`{"id":`), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := fs.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d, want 1", n)
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stale temp file still present: %v", err)
	}
	if _, err := fs.Get(live.ID); err != nil {
		t.Errorf("live session pruned: %v", err)
	}
}
