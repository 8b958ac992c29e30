// Package testutil provides an in-memory database with the production schema.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"anoa.com/blogfeed/internal/bootstrap"
	"anoa.com/blogfeed/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns a migrated SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.Migrate(db))
	return db
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateGroup inserts a group with an explicit slug.
func CreateGroup(t *testing.T, db *gorm.DB, title, slug string) *entity.Group {
	t.Helper()
	g := &entity.Group{Title: title, Slug: slug, Description: "description"}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreatePost inserts a post published at pubDate.
func CreatePost(t *testing.T, db *gorm.DB, author *entity.User, group *entity.Group, text string, pubDate time.Time) *entity.Post {
	t.Helper()
	p := &entity.Post{Text: text, AuthorID: author.ID, PubDate: pubDate.UTC()}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, db.Omit("Author", "Group").Create(p).Error)
	return p
}

// Clock is a manually advanced time source.
type Clock struct {
	now atomic.Int64
}

func NewClock(start time.Time) *Clock {
	c := &Clock{}
	c.now.Store(start.UnixNano())
	return c
}

func (c *Clock) Now() time.Time {
	return time.Unix(0, c.now.Load()).UTC()
}

// Tick advances the clock by d and returns the new time.
func (c *Clock) Tick(d time.Duration) time.Time {
	return time.Unix(0, c.now.Add(int64(d))).UTC()
}
