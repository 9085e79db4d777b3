// Command seeder loads a demo catalog and the demo accounts into the
// configured databases. Running it twice is safe: catalog documents are
// upserted by id and existing accounts are left alone.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"buildmart-storefront/configs"
	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"
	"buildmart-storefront/pkg/database"
	"buildmart-storefront/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "password123"

var categories = []models.Category{
	{ID: "cat-cement", Name: "시멘트/레미탈", Slug: "cement", Order: 1, Level: 1},
	{ID: "cat-steel", Name: "철근/철물", Slug: "steel", Order: 2, Level: 1},
	{ID: "cat-tile", Name: "타일", Slug: "tile", Order: 3, Level: 1},
	{ID: "cat-insulation", Name: "단열재", Slug: "insulation", Order: 4, Level: 1},
	{ID: "cat-paint", Name: "페인트", Slug: "paint", Order: 5, Level: 1},
	{ID: "cat-tools", Name: "공구", Slug: "tools", Order: 6, Level: 1},
}

type seedProduct struct {
	id, name, category, manufacturer string
	price, businessPrice            int64
	stock                           int
}

var products = []seedProduct{
	{"prd-001", "포틀랜드 시멘트 40kg", "cat-cement", "쌍용C&E", 8500, 7800, 320},
	{"prd-002", "레미탈 25kg", "cat-cement", "한일시멘트", 6200, 0, 540},
	{"prd-003", "방수 몰탈 20kg", "cat-cement", "벽산", 14500, 13200, 0},
	{"prd-004", "이형철근 D10 8m", "cat-steel", "현대제철", 12000, 11000, 1200},
	{"prd-005", "이형철근 D13 8m", "cat-steel", "현대제철", 19800, 18500, 860},
	{"prd-006", "결속선 20kg", "cat-steel", "동국제강", 42000, 0, 75},
	{"prd-007", "포세린 타일 600x600", "cat-tile", "대림바스", 3200, 2900, 4000},
	{"prd-008", "욕실 벽타일 300x600", "cat-tile", "계림요업", 2100, 0, 2600},
	{"prd-009", "압출법 단열재 50T", "cat-insulation", "벽산", 11800, 10500, 430},
	{"prd-010", "글라스울 보온판 50T", "cat-insulation", "KCC", 9600, 0, 0},
	{"prd-011", "수성 내부 페인트 18L", "cat-paint", "노루페인트", 68000, 61000, 140},
	{"prd-012", "외부용 방수 페인트 16L", "cat-paint", "삼화페인트", 89000, 0, 60},
	{"prd-013", "충전 임팩 드라이버", "cat-tools", "계양", 159000, 149000, 35},
	{"prd-014", "레이저 레벨기", "cat-tools", "보쉬", 248000, 0, 12},
}

type seedUser struct {
	email, name, phone, role, userType string
	business                           *models.BusinessInfo
}

var users = []seedUser{
	{email: "user1@example.com", name: "홍길동", phone: "010-1234-5678", role: "user", userType: "individual"},
	{
		email: "business1@example.com", name: "김건설", phone: "010-2345-6789", role: "business", userType: "business",
		business: &models.BusinessInfo{
			BusinessNumber:     "123-45-67890",
			BusinessName:       "건설자재 유한회사",
			RepresentativeName: "김건설",
			Address:            "서울시 강남구 테헤란로 123",
			Status:             "approved",
		},
	},
	{email: "admin@example.com", name: "관리자", phone: "010-3456-7890", role: "admin", userType: "individual"},
}

func main() {
	config := configs.LoadConfig()

	zlog, err := logger.New(config.Server.Mode, config.Log.Level)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.NewDatabase(config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to databases", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx, &models.User{}, &models.Address{}, &models.Order{}, &models.Inquiry{}, &models.StateRecord{}); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	categoryRepo := repositories.NewCategoryRepository(db.MongoDB)
	productRepo := repositories.NewProductRepository(db.MongoDB)
	reviewRepo := repositories.NewReviewRepository(db.MongoDB)
	userRepo := repositories.NewUserRepository(db.Postgres)

	for i := range categories {
		if err := categoryRepo.Upsert(ctx, &categories[i]); err != nil {
			zlog.Fatal("Failed to seed category", zap.String("id", categories[i].ID), zap.Error(err))
		}
	}
	zlog.Info("Seeded categories", zap.Int("count", len(categories)))

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, sp := range products {
		product := models.Product{
			ID:           sp.id,
			Name:         sp.name,
			Description:  sp.manufacturer + " " + sp.name,
			Price:        sp.price,
			Images:       []string{"/images/products/" + sp.id + ".jpg"},
			CategoryID:   sp.category,
			Manufacturer: sp.manufacturer,
			Stock:        sp.stock,
			Status:       "active",
			CreatedAt:    base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if sp.businessPrice > 0 {
			bp := sp.businessPrice
			product.BusinessPrice = &bp
		}
		if sp.stock == 0 {
			product.Status = "out_of_stock"
		}
		if err := productRepo.Upsert(ctx, &product); err != nil {
			zlog.Fatal("Failed to seed product", zap.String("id", sp.id), zap.Error(err))
		}
	}
	zlog.Info("Seeded products", zap.Int("count", len(products)))

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		zlog.Fatal("Failed to hash demo password", zap.Error(err))
	}

	var reviewer *models.User
	for _, su := range users {
		user, err := userRepo.GetByEmail(ctx, su.email)
		if errors.Is(err, repositories.ErrNotFound) {
			user = &models.User{
				ID:           uuid.New(),
				Email:        su.email,
				Name:         su.name,
				Phone:        su.phone,
				PasswordHash: string(hash),
				Role:         su.role,
				UserType:     su.userType,
				BusinessInfo: su.business,
			}
			if err := userRepo.Create(ctx, user); err != nil {
				zlog.Fatal("Failed to seed user", zap.String("email", su.email), zap.Error(err))
			}
			zlog.Info("Seeded user", zap.String("email", su.email), zap.String("role", su.role))
		} else if err != nil {
			zlog.Fatal("Failed to look up user", zap.String("email", su.email), zap.Error(err))
		}
		if reviewer == nil {
			reviewer = user
		}
	}

	seedReviews(ctx, zlog, reviewRepo, productRepo, reviewer)
}

// seedReviews rates the first few products once each, skipping products that
// already have reviews.
func seedReviews(ctx context.Context, zlog *zap.Logger, reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository, reviewer *models.User) {
	ratings := map[string]int{"prd-001": 5, "prd-004": 4, "prd-007": 5, "prd-011": 3}
	for productID, rating := range ratings {
		stats, err := reviewRepo.Stats(ctx, productID)
		if err != nil {
			zlog.Fatal("Failed to read review stats", zap.String("product_id", productID), zap.Error(err))
		}
		if stats.Count > 0 {
			continue
		}

		now := time.Now()
		review := &models.Review{
			ID:         uuid.NewString(),
			ProductID:  productID,
			UserID:     reviewer.ID.String(),
			UserName:   reviewer.Name,
			Rating:     rating,
			Content:    "현장에서 잘 사용했습니다.",
			IsVerified: false,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := reviewRepo.Create(ctx, review); err != nil {
			zlog.Fatal("Failed to seed review", zap.String("product_id", productID), zap.Error(err))
		}
		if err := productRepo.UpdateRating(ctx, productID, float64(rating), 1); err != nil {
			zlog.Fatal("Failed to update rating", zap.String("product_id", productID), zap.Error(err))
		}
	}
	zlog.Info("Seeded reviews")
}
