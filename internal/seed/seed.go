// Package seed loads the demo user fixture into an empty or partly seeded database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed users.yaml
var defaultFixture []byte

type UserFixture struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Role      string `yaml:"role"`
	Status    string `yaml:"status"`
	Manager   string `yaml:"manager"`
}

type Fixture struct {
	Users []UserFixture `yaml:"users"`
}

type Result struct {
	Created int
	Skipped int
}

// Default is the embedded demo fixture.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// Parse decodes and checks a fixture. Managers must appear before their reports.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	seen := make(map[string]bool, len(f.Users))
	for i := range f.Users {
		u := &f.Users[i]
		u.Email = strings.ToLower(strings.TrimSpace(u.Email))
		u.Manager = strings.ToLower(strings.TrimSpace(u.Manager))
		if u.Email == "" {
			return nil, fmt.Errorf("user %d: email is required", i)
		}
		if seen[u.Email] {
			return nil, fmt.Errorf("user %s: duplicate email", u.Email)
		}
		if u.Role == "" {
			u.Role = string(models.RoleEmployee)
		}
		if !models.Role(u.Role).Valid() {
			return nil, fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
		}
		if u.Status == "" {
			u.Status = string(models.StatusActive)
		}
		if u.Manager != "" && !seen[u.Manager] {
			return nil, fmt.Errorf("user %s: manager %s must be listed earlier", u.Email, u.Manager)
		}
		seen[u.Email] = true
	}
	return &f, nil
}

// Apply inserts the fixture users in one transaction. Existing emails are
// left untouched; passwordHash, when set, is given to every new user.
func Apply(ctx context.Context, db *gorm.DB, f *Fixture, passwordHash *string, now time.Time) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]uuid.UUID, len(f.Users))
		for _, fu := range f.Users {
			u := models.User{
				ID:           uuid.New(),
				Email:        fu.Email,
				FirstName:    fu.FirstName,
				LastName:     fu.LastName,
				PasswordHash: passwordHash,
				Role:         models.Role(fu.Role),
				Status:       models.UserStatus(fu.Status),
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if fu.Manager != "" {
				managerID := ids[fu.Manager]
				u.ManagerID = &managerID
			}

			ins := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
				Omit("Manager").Create(&u)
			if ins.Error != nil {
				return fmt.Errorf("insert %s: %w", fu.Email, ins.Error)
			}
			if ins.RowsAffected == 0 {
				res.Skipped++
				var existing models.User
				if err := tx.Select("id").Where("email = ?", fu.Email).Take(&existing).Error; err != nil {
					return fmt.Errorf("load existing %s: %w", fu.Email, err)
				}
				ids[fu.Email] = existing.ID
				continue
			}
			res.Created++
			ids[fu.Email] = u.ID
		}
		return nil
	})
	return res, err
}
