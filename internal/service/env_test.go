package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kommerce/shop/internal/models"
	"github.com/kommerce/shop/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.RefreshToken{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(newTestDB(t))
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Quantity:    100,
		Category:    "laptop",
		Images:      []models.ProductImage{{URL: "https://img.example/" + name, PublicID: "img_" + name}},
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	u := &models.User{
		Username:     "tester",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

// recordingPublisher captures domain events so tests can assert on them.
type recordingPublisher struct {
	events []map[string]interface{}
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event interface{}) error {
	m, _ := event.(map[string]interface{})
	m["_topic"] = topic
	p.events = append(p.events, m)
	return nil
}
