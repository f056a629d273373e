package postgres

import (
	"strconv"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"

	"github.com/VitaminP8/blogql/internal/storage"
)

// Open connects with the given gorm dialect ("postgres" or "sqlite3") and
// migrates the three tables.
func Open(dialect, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to the database")
	}
	db.LogMode(false)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&userRow{}, &postRow{}, &commentRow{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

// New wraps an open connection. Closing the store closes db.
func New(db *gorm.DB) *storage.Store {
	return storage.NewStore(
		NewUserPostgresStorage(db),
		NewPostPostgresStorage(db),
		NewCommentPostgresStorage(db),
		db.Close,
	)
}

func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, storage.ErrInvalidID
	}
	return uint(n), nil
}

// parseRef converts a reference column. An empty reference is stored as NULL.
func parseRef(id string) (*uint, error) {
	if id == "" {
		return nil, nil
	}
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatRef(id *uint) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

// lookupErr maps gorm's not-found error onto storage.ErrNotFound.
func lookupErr(err error, msg string) error {
	if gorm.IsRecordNotFoundError(err) {
		return storage.ErrNotFound
	}
	return errors.Wrap(err, msg)
}
