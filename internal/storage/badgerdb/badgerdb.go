// Package badgerdb keeps records as JSON documents in an embedded badger
// database. Keys are "<collection>/<ksuid>"; listings are ordered by creation
// time.
package badgerdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/VitaminP8/blogql/internal/storage"
)

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string, logger *zap.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger.Named("badger").Sugar()})
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger at %q", dir)
	}
	return db, nil
}

// New returns a Store over db. Closing the store closes db.
func New(db *badger.DB) *storage.Store {
	return storage.NewStore(
		NewUserBadgerStorage(db),
		NewPostBadgerStorage(db),
		NewCommentBadgerStorage(db),
		db.Close,
	)
}

// badgerLogger adapts zap to badger.Logger.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

type collection struct {
	db     *badger.DB
	prefix string
}

func newCollection(db *badger.DB, name string) collection {
	return collection{db: db, prefix: name + "/"}
}

func newID() string {
	return ksuid.New().String()
}

func now() time.Time {
	return time.Now().UTC()
}

// checkRef accepts an empty reference or a well formed id.
func checkRef(id string) error {
	if id == "" {
		return nil
	}
	return checkID(id)
}

func checkID(id string) error {
	if _, err := ksuid.Parse(id); err != nil {
		return storage.ErrInvalidID
	}
	return nil
}

func (c collection) key(id string) []byte {
	return []byte(c.prefix + id)
}

func (c collection) get(txn *badger.Txn, id string, v interface{}) error {
	if err := checkID(id); err != nil {
		return err
	}

	item, err := txn.Get(c.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return storage.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "could not read %s%s", c.prefix, id)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func (c collection) put(txn *badger.Txn, id string, v interface{}) error {
	val, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "could not encode document")
	}
	return errors.Wrapf(txn.Set(c.key(id), val), "could not write %s%s", c.prefix, id)
}

func (c collection) delete(txn *badger.Txn, id string) error {
	return errors.Wrapf(txn.Delete(c.key(id)), "could not delete %s%s", c.prefix, id)
}

// update runs fn in a read-write transaction. A transaction aborted with
// badger.ErrConflict is rerun against fresh state until it commits or ctx is
// done, so concurrent writers to one document end up last-write-wins. Every
// conflict means another writer committed, so the loop always makes progress.
// fn must not keep state across calls.
func (c collection) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for {
		err := c.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrapf(ctxErr, "could not commit to %s", c.prefix)
		}
	}
}

// scan calls fn with every document value in key order.
func (c collection) scan(txn *badger.Txn, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(c.prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
