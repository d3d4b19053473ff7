package activity

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"gorm.io/gorm"
)

type Store interface {
	Insert(ctx context.Context, a *Activity) error
	Recent(ctx context.Context, limit int) ([]FeedItem, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, a *Activity) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

type feedRow struct {
	Activity
	ActorFirstName  *string
	ActorLastName   *string
	ActorEmail      *string
	TargetFirstName *string
	TargetLastName  *string
	TargetEmail     *string
}

func (s *GormStore) Recent(ctx context.Context, limit int) ([]FeedItem, error) {
	var rows []feedRow
	err := s.db.WithContext(ctx).Table("activities AS a").
		Select(`a.*,
			actor.first_name AS actor_first_name, actor.last_name AS actor_last_name, actor.email AS actor_email,
			target.first_name AS target_first_name, target.last_name AS target_last_name, target.email AS target_email`).
		Joins("LEFT JOIN users AS actor ON actor.id = a.user_id").
		Joins("LEFT JOIN users AS target ON target.id = a.target_user_id").
		Order("a.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	items := make([]FeedItem, 0, len(rows))
	for _, r := range rows {
		item := FeedItem{
			Activity: r.Activity,
			UserName: models.DisplayName(deref(r.ActorFirstName), deref(r.ActorLastName), deref(r.ActorEmail)),
		}
		if r.TargetUserID != nil && r.TargetEmail != nil {
			name := models.DisplayName(deref(r.TargetFirstName), deref(r.TargetLastName), *r.TargetEmail)
			item.TargetUserName = &name
		}
		items = append(items, item)
	}
	return items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
