package tokencache

import (
	"compress/gzip"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"

	"github.com/tangomine/tangomine/internal/model"
)

const (
	// mtimeIndexFile is the name of the mtime index inside the cache
	// directory.
	mtimeIndexFile = "mtime_index.json"

	// blobExt is the extension of cache blob files.
	blobExt = ".json.gz"

	// keySeparator separates normalized text from the fingerprint in
	// the hashed key material. NUL cannot occur in either part.
	keySeparator = "\x00"
)

// Entry is one persisted tokenization result.
type Entry struct {
	// Fingerprint is the tokenizer configuration the tokens were
	// produced under.
	Fingerprint string `json:"tokenizer_fingerprint"`

	// CreatedAt is when the entry was written, in UTC.
	CreatedAt time.Time `json:"created_at"`

	// TokenCount duplicates len(Tokens) for cheap inspection.
	TokenCount int `json:"token_count"`

	// Tokens is the full token sequence for the normalized text.
	Tokens []model.Token `json:"tokens"`
}

// mtimeEntry is one mtime-index record.
type mtimeEntry struct {
	// MtimeNs is the source file's modification time in nanoseconds.
	MtimeNs int64 `json:"mtime_ns"`

	// Hash is the content key recorded for the file at that mtime.
	Hash string `json:"hash"`
}

// Cache is a content-addressable store of tokenization results with an
// mtime-keyed shortcut index.
//
// A Cache is not safe for concurrent mutation: a single run owns it
// exclusively. Concurrent Put calls for distinct texts are harmless
// (distinct keys, idempotent bytes) but the mtime index must only be
// touched from one goroutine.
type Cache struct {
	// dir is the cache directory holding blobs and the mtime index.
	dir string

	// fingerprint binds every key this cache computes to one tokenizer
	// configuration.
	fingerprint string

	// logger is used for structured logging.
	logger *slog.Logger

	// mtimeIndex maps absolute source paths to their shortcut records.
	mtimeIndex map[string]mtimeEntry

	// dirty is true when the in-memory index has unflushed changes.
	dirty bool
}

// Option is a function that configures a Cache.
type Option func(*Cache)

// WithLogger sets a custom logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New opens the cache rooted at dir, creating the directory if needed,
// and loads the mtime index. An unreadable index is discarded and the
// cache starts with an empty one; the blob store remains usable.
func New(dir, fingerprint string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	c := &Cache{
		dir:         dir,
		fingerprint: fingerprint,
		mtimeIndex:  make(map[string]mtimeEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.loadMtimeIndex()

	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Normalize returns the canonical form of raw corpus text: line endings
// collapsed to LF and Unicode normalized to NFKC. Keys are always
// computed over normalized text so byte-level variations of the same
// content share one entry.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFKC.String(text)
}

// Key computes the content key for text under this cache's fingerprint.
func (c *Cache) Key(text string) string {
	sum := blake2b.Sum256([]byte(Normalize(text) + keySeparator + c.fingerprint))
	return hex.EncodeToString(sum[:])
}

// Put persists tokens for text and returns the content key.
// Writing over an existing key is allowed and produces identical bytes,
// so Put is idempotent.
func (c *Cache) Put(text string, tokens []model.Token) (string, error) {
	key := c.Key(text)
	entry := Entry{
		Fingerprint: c.fingerprint,
		CreatedAt:   time.Now().UTC(),
		TokenCount:  len(tokens),
		Tokens:      tokens,
	}

	f, err := os.OpenFile(c.blobPath(key), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("create cache blob: %w", err)
	}

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(&entry); err != nil {
		zw.Close()
		f.Close()
		return "", fmt.Errorf("encode cache blob: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("finish cache blob: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close cache blob: %w", err)
	}

	return key, nil
}

// LoadByHash reads the entry stored under key. A missing blob returns
// false. An undecodable blob is deleted and returns false: corruption
// is a forced cache miss, never an error.
func (c *Cache) LoadByHash(key string) (*Entry, bool) {
	path := c.blobPath(key)

	f, err := os.Open(path) //nolint:gosec // Path is derived from a hex hash inside the cache dir
	if err != nil {
		return nil, false
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		c.discardCorrupt(path, err)
		return nil, false
	}

	var entry Entry
	err = json.NewDecoder(zr).Decode(&entry)
	zr.Close()
	f.Close()
	if err != nil {
		c.discardCorrupt(path, err)
		return nil, false
	}

	return &entry, true
}

// HashByMtime returns the content key recorded for path at exactly the
// given modification time. This is a pure shortcut: the returned key
// must still resolve through LoadByHash.
func (c *Cache) HashByMtime(path string, mtimeNs int64) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	e, ok := c.mtimeIndex[abs]
	if !ok || e.MtimeNs != mtimeNs {
		return "", false
	}
	return e.Hash, true
}

// PutByMtime persists tokens for text and records the mtime shortcut
// for path. The shortcut is skipped (with the entry still written) when
// the path cannot be resolved to an absolute path.
func (c *Cache) PutByMtime(path string, mtimeNs int64, text string, tokens []model.Token) (string, error) {
	key, err := c.Put(text, tokens)
	if err != nil {
		return "", err
	}

	c.RecordMtime(path, mtimeNs, key)
	return key, nil
}

// RecordMtime records the mtime shortcut for path pointing at an
// existing content key. It only touches the in-memory index; callers
// that write blobs concurrently use Put from workers and record the
// shortcuts single-threaded afterwards. Unresolvable paths are skipped.
func (c *Cache) RecordMtime(path string, mtimeNs int64, key string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		c.logger.Debug("skipping mtime record for unresolvable path",
			"path", path, "error", err)
		return
	}

	c.mtimeIndex[abs] = mtimeEntry{MtimeNs: mtimeNs, Hash: key}
	c.dirty = true
}

// FlushMtimeIndex rewrites the index file from memory when it has
// unflushed changes. Callers should invoke it before process exit; a
// missed flush only costs re-hashing on the next run.
func (c *Cache) FlushMtimeIndex() error {
	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c.mtimeIndex, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mtime index: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, mtimeIndexFile), data, 0600); err != nil {
		return fmt.Errorf("write mtime index: %w", err)
	}

	c.dirty = false
	return nil
}

// Stats returns the number of blobs in the store and their total size
// in bytes.
func (c *Cache) Stats() (int, int64, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read cache directory: %w", err)
	}

	count := 0
	var bytes int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), blobExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		count++
		bytes += info.Size()
	}

	return count, bytes, nil
}

// Prune deletes blobs recorded under a different tokenizer fingerprint,
// plus any blob that no longer decodes. Changing the fingerprint orphans
// old entries silently; Prune is the explicit cleanup for them. Index
// records pointing at removed blobs are dropped as well.
func (c *Cache) Prune() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), blobExt) {
			continue
		}

		key := strings.TrimSuffix(e.Name(), blobExt)
		entry, ok := c.LoadByHash(key)
		if !ok {
			// LoadByHash already deleted the corrupt blob.
			removed++
			continue
		}
		if entry.Fingerprint == c.fingerprint {
			continue
		}

		if err := os.Remove(c.blobPath(key)); err != nil {
			c.logger.Debug("failed to remove orphaned blob", "key", key, "error", err)
			continue
		}
		removed++
	}

	// Drop index records whose blob is gone so the shortcut never
	// points into the void.
	for path, e := range c.mtimeIndex {
		if _, err := os.Stat(c.blobPath(e.Hash)); os.IsNotExist(err) {
			delete(c.mtimeIndex, path)
			c.dirty = true
		}
	}
	if err := c.FlushMtimeIndex(); err != nil {
		return removed, err
	}

	return removed, nil
}

// blobPath returns the file path for a content key.
func (c *Cache) blobPath(key string) string {
	return filepath.Join(c.dir, key+blobExt)
}

// loadMtimeIndex reads the index file into memory. Any failure leaves
// the cache with an empty index.
func (c *Cache) loadMtimeIndex() {
	data, err := os.ReadFile(filepath.Join(c.dir, mtimeIndexFile))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Debug("failed to read mtime index, starting empty", "error", err)
		}
		return
	}

	if err := json.Unmarshal(data, &c.mtimeIndex); err != nil {
		c.logger.Debug("discarding unreadable mtime index", "error", err)
		c.mtimeIndex = make(map[string]mtimeEntry)
	}
}

// discardCorrupt removes an undecodable blob so the next run
// re-tokenizes instead of failing.
func (c *Cache) discardCorrupt(path string, err error) {
	c.logger.Debug("discarding corrupt cache blob", "path", path, "error", err)
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		c.logger.Debug("failed to remove corrupt blob", "path", path, "error", rmErr)
	}
}
