package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Record is a value stored in a Collection. Identity must be unique within a
// collection.
type Record interface {
	Identity() uint64
}

// Collection is a set of records persisted in one JSON file.
//
// Records cross the collection boundary as deep copies: records returned by
// Snapshot or FindByID, and records given to Upsert, UpsertAll or ReplaceAll,
// never share slices, maps or pointers with the collection's memory. Copies go
// through the JSON codec, so a field only survives if it survives the file.
type Collection[T Record] struct {
	path   string
	order  Order[T]
	perm   fs.FileMode
	logger *log.Logger

	mu      sync.Mutex
	records []T
	data    []byte // encoding of records
}

type options struct {
	perm   fs.FileMode
	logger *log.Logger
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger used to report created and saved files.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithPerm sets the permission of the backing file, 0644 by default.
func WithPerm(perm fs.FileMode) Option { return func(o *options) { o.perm = perm } }

// Open loads the collection stored at path.
//
// A missing file is created, together with its parent directories, and the
// collection starts empty. An existing empty file is an empty collection. Any
// other content must decode entirely.
//
// A nil order sorts records by descending identity.
func Open[T Record](path string, order Order[T], opts ...Option) (*Collection[T], error) {
	o := options{perm: 0o644, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if order == nil {
		order = ByIDDesc[T]()
	}
	c := &Collection[T]{
		path:   path,
		order:  order,
		perm:   o.perm,
		logger: o.logger,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := c.create(); err != nil {
			return nil, &Error{Kind: KindFilesystem, Op: "open", Path: path, Err: err}
		}
		return c, nil
	}
	if err != nil {
		return nil, &Error{Kind: KindFilesystem, Op: "open", Path: path, Err: err}
	}

	records, err := decode[T](data)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Op: "open", Path: path, Err: err}
	}
	if err := c.load(records); err != nil {
		return nil, &Error{Kind: KindEncode, Op: "open", Path: path, Err: err}
	}
	return c, nil
}

// create makes an empty backing file and its missing parent directories.
func (c *Collection[T]) create() error {
	if dir := filepath.Dir(c.path); dir != "." {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("cannot create folder: %w", err)
			}
			c.logger.Printf("create-collection-folder name=%q", dir)
		}
	}
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE, c.perm)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	c.logger.Printf("create-collection-file name=%q", c.path)
	return nil
}

// Path returns the backing file name.
func (c *Collection[T]) Path() string { return c.path }

// Snapshot returns a deep copy of all records, in collection order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	records, err := decode[T](c.data)
	if err != nil {
		// data always comes out of a successful encode and decode round trip.
		panic(fmt.Sprintf("store: cannot copy snapshot of %q: %v", c.path, err))
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// IsEmpty reports whether the collection holds no record.
func (c *Collection[T]) IsEmpty() bool { return c.Len() == 0 }

// FindByID returns the record with the given identity.
//
// It scans the whole collection: O(n) in the number of records.
func (c *Collection[T]) FindByID(id uint64) (record T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.records, id); i >= 0 {
		record, err := clone(c.records[i])
		if err != nil {
			panic(fmt.Sprintf("store: cannot copy record %d of %q: %v", id, c.path, err))
		}
		return record, true
	}
	return record, false
}

// Upsert replaces the record with the same identity, or adds it, then saves
// the collection.
func (c *Collection[T]) Upsert(record T) error {
	return c.mutate("upsert", func(records []T) []T {
		return upsert(records, record)
	})
}

// UpsertAll is like Upsert for a batch of records, saving only once.
func (c *Collection[T]) UpsertAll(batch []T) error {
	return c.mutate("upsert", func(records []T) []T {
		for _, r := range batch {
			records = upsert(records, r)
		}
		return records
	})
}

// DeleteByID removes the record with the given identity, if any, then saves
// the collection.
func (c *Collection[T]) DeleteByID(id uint64) error {
	return c.mutate("delete", func(records []T) []T {
		return slices.DeleteFunc(records, func(r T) bool { return r.Identity() == id })
	})
}

// ReplaceAll replaces every record of the collection, then saves it. When
// several records share an identity, the last one wins.
func (c *Collection[T]) ReplaceAll(records []T) error {
	return c.mutate("replace", func([]T) []T {
		return dedupe(records)
	})
}

// Reload discards the in-memory records and reads the backing file again.
//
// A missing file is only accepted when the collection is empty: losing the
// file while records are held in memory is reported as ErrConsistency, and the
// records are kept.
func (c *Collection[T]) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		if len(c.records) == 0 {
			return nil
		}
		return &Error{
			Kind: KindConsistency,
			Op:   "reload",
			Path: c.path,
			Err:  fmt.Errorf("file is missing but %d records are in memory", len(c.records)),
		}
	}
	if err != nil {
		return &Error{Kind: KindFilesystem, Op: "reload", Path: c.path, Err: err}
	}
	records, err := decode[T](data)
	if err != nil {
		return &Error{Kind: KindDecode, Op: "reload", Path: c.path, Err: err}
	}
	if err := c.load(records); err != nil {
		return &Error{Kind: KindEncode, Op: "reload", Path: c.path, Err: err}
	}
	return nil
}

// mutate applies f to a scratch copy of the records, saves the result and
// only then makes it visible.
//
// The visible records are decoded back from the saved bytes: they hold no
// reference to the records given by the caller, and equal the file content.
func (c *Collection[T]) mutate(op string, f func([]T) []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := f(slices.Clone(c.records))
	c.order.sort(next)

	data, err := encode(next)
	if err != nil {
		return &Error{Kind: KindEncode, Op: op, Path: c.path, Err: err}
	}
	saved, err := decode[T](data)
	if err != nil {
		return &Error{Kind: KindEncode, Op: op, Path: c.path, Err: fmt.Errorf("records do not decode back: %w", err)}
	}
	if err := writeFileAtomic(c.path, data, c.perm); err != nil {
		return &Error{Kind: KindFilesystem, Op: op, Path: c.path, Err: err}
	}
	c.records, c.data = saved, data
	c.logger.Printf("save-collection-file name=%q records=%d", c.path, len(saved))
	return nil
}

// load replaces the records with records read from disk, enforcing identity
// uniqueness and collection order.
func (c *Collection[T]) load(records []T) error {
	records = dedupe(records)
	c.order.sort(records)
	data, err := encode(records)
	if err != nil {
		return err
	}
	c.records, c.data = records, data
	return nil
}

// clone returns a deep copy of record.
func clone[T any](record T) (T, error) {
	var out T
	data, err := json.Marshal(record)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}

func indexOf[T Record](records []T, id uint64) int {
	return slices.IndexFunc(records, func(r T) bool { return r.Identity() == id })
}

func upsert[T Record](records []T, record T) []T {
	if i := indexOf(records, record.Identity()); i >= 0 {
		records[i] = record
		return records
	}
	return append(records, record)
}

// dedupe returns a new slice where each identity appears once, holding the
// last record seen for it.
func dedupe[T Record](records []T) []T {
	seen := make(map[uint64]int, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		if i, ok := seen[r.Identity()]; ok {
			out[i] = r
			continue
		}
		seen[r.Identity()] = len(out)
		out = append(out, r)
	}
	return out
}
