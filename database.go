package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type database struct {
	db *gorm.DB
}

func newDatabase(path string) (*database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&Play{}, &Playlist{})
	if err != nil {
		return nil, err
	}

	return &database{
		db: db,
	}, nil
}

func (d *database) Close() error {
	return nil
}

func (d *database) CreatePlay(ctx context.Context, play *Play) error {
	if play.CreatedAt.IsZero() {
		play.CreatedAt = time.Now()
	}
	return d.db.WithContext(ctx).Create(play).Error
}

func (d *database) CountPlays(ctx context.Context) (int64, error) {
	var count int64
	return count, d.db.WithContext(ctx).Model(&Play{}).Count(&count).Error
}

func (d *database) TotalSeconds(ctx context.Context) (int64, error) {
	var total int64
	return total, d.db.WithContext(ctx).Model(&Play{}).
		Select("COALESCE(SUM(seconds), 0)").
		Scan(&total).Error
}

// TopArtist returns the most played artist, or empty when nothing has been
// logged yet.
func (d *database) TopArtist(ctx context.Context) (string, error) {
	var artist string
	err := d.db.WithContext(ctx).Model(&Play{}).
		Select("artist").
		Where("artist <> ''").
		Group("artist").
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "COUNT(*) DESC"}}).
		Limit(1).
		Scan(&artist).Error
	return artist, err
}

func (d *database) GetPlays(ctx context.Context, offset, limit int) ([]*Play, error) {
	var plays []*Play
	return plays, d.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Offset(offset).Limit(limit).
		Find(&plays).Error
}

func (d *database) CreatePlaylist(ctx context.Context, name string) (*Playlist, error) {
	playlist := &Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	return playlist, d.db.WithContext(ctx).Create(playlist).Error
}

func (d *database) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	var playlist *Playlist
	return playlist, d.db.WithContext(ctx).First(&playlist, "id = ?", id).Error
}

func (d *database) GetPlaylists(ctx context.Context) ([]*Playlist, error) {
	var playlists []*Playlist
	return playlists, d.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}}).
		Find(&playlists).Error
}

func (d *database) CountPlaylists(ctx context.Context) (int64, error) {
	var count int64
	return count, d.db.WithContext(ctx).Model(&Playlist{}).Count(&count).Error
}
