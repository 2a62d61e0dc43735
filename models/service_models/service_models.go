package service_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/shared_models"
)

var ErrServiceNotFound = errors.New("service not found")

// Category groups services (Cleaning, Electrical, Tutoring, ...).
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Subcategory narrows a Category (Cleaning → Deep Cleaning, ...).
type Subcategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Service is a single offering by a freelancer.
type Service struct {
	ID            uuid.UUID   `json:"id"`
	FreelancerID  uuid.UUID   `json:"freelancer_id"`
	CategoryID    uuid.UUID   `json:"category_id"`
	SubcategoryID pgtype.UUID `json:"subcategory_id,omitempty"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Price         float64     `json:"price"`
	Duration      int         `json:"duration"` // minutes
	IsActive      bool        `json:"is_active"`
	IsApproved    bool        `json:"is_approved"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewService builds a Service with generated ID and timestamps. New services
// start active but unapproved; admin approval makes them bookable.
func NewService(freelancerID, categoryID uuid.UUID, title, description string, price float64, duration int) (*Service, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for service: %w", err)
	}
	now := time.Now()
	return &Service{
		ID:           id,
		FreelancerID: freelancerID,
		CategoryID:   categoryID,
		Title:        title,
		Description:  description,
		Price:        price,
		Duration:     duration,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CreateService inserts a new service record.
func CreateService(ctx context.Context, db *pgxpool.Pool, service *Service) (*Service, error) {
	logger.InfoLogger.Infof("Attempting to create service '%s' for freelancer %s", service.Title, service.FreelancerID)

	query := `
		INSERT INTO services (
			id, freelancer_id, category_id, subcategory_id, title, description,
			price, duration, is_active, is_approved, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		service.ID, service.FreelancerID, service.CategoryID, service.SubcategoryID,
		service.Title, service.Description, service.Price, service.Duration,
		service.IsActive, service.IsApproved, service.CreatedAt, service.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert service '%s': %v", service.Title, err)
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	service.ID = insertedID
	logger.InfoLogger.Infof("Service %s created", service.ID)
	return service, nil
}

// GetServiceByID fetches a service by its ID.
func GetServiceByID(ctx context.Context, db *pgxpool.Pool, serviceID uuid.UUID) (*Service, error) {
	service := &Service{}
	query := `
		SELECT id, freelancer_id, category_id, subcategory_id, title,
		       COALESCE(description, ''), price, duration, is_active, is_approved,
		       created_at, updated_at
		FROM services
		WHERE id = $1`

	err := db.QueryRow(ctx, query, serviceID).Scan(
		&service.ID, &service.FreelancerID, &service.CategoryID, &service.SubcategoryID,
		&service.Title, &service.Description, &service.Price, &service.Duration,
		&service.IsActive, &service.IsApproved, &service.CreatedAt, &service.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch service %s: %v", serviceID, err)
		return nil, fmt.Errorf("database error fetching service: %w", err)
	}
	return service, nil
}

// ListServices returns active approved services, optionally filtered by
// category, with pagination.
func ListServices(ctx context.Context, db *pgxpool.Pool, categoryID uuid.UUID, page, limit int) ([]Service, int, error) {
	offset := (page - 1) * limit

	baseQuery := `
		SELECT id, freelancer_id, category_id, subcategory_id, title,
		       COALESCE(description, ''), price, duration, is_active, is_approved,
		       created_at, updated_at
		FROM services
		WHERE is_active AND is_approved`
	countQuery := `SELECT COUNT(*) FROM services WHERE is_active AND is_approved`

	var args []interface{}
	if categoryID != uuid.Nil {
		baseQuery += " AND category_id = $1"
		countQuery += " AND category_id = $1"
		args = append(args, categoryID)
	}

	var totalCount int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		logger.ErrorLogger.Errorf("Failed to count services: %v", err)
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	query := fmt.Sprintf("%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		baseQuery, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch services: %v", err)
		return nil, 0, fmt.Errorf("failed to fetch services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(
			&s.ID, &s.FreelancerID, &s.CategoryID, &s.SubcategoryID,
			&s.Title, &s.Description, &s.Price, &s.Duration,
			&s.IsActive, &s.IsApproved, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			logger.ErrorLogger.Errorf("Failed to scan service row: %v", err)
			return nil, 0, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}

	return services, totalCount, nil
}

// ApproveService marks a service approved. Admin only, enforced by routing.
func ApproveService(ctx context.Context, db *pgxpool.Pool, serviceID uuid.UUID) error {
	cmdTag, err := db.Exec(ctx,
		`UPDATE services SET is_approved = TRUE, updated_at = $2 WHERE id = $1`,
		serviceID, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to approve service %s: %v", serviceID, err)
		return fmt.Errorf("failed to approve service: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	logger.InfoLogger.Infof("Service %s approved", serviceID)
	return nil
}

// ListCategories returns all active categories ordered by name.
func ListCategories(ctx context.Context, db *pgxpool.Pool) ([]Category, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), is_active, created_at
		FROM categories
		WHERE is_active
		ORDER BY name`)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch categories: %v", err)
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// ListSubcategories returns the active subcategories of a category.
func ListSubcategories(ctx context.Context, db *pgxpool.Pool, categoryID uuid.UUID) ([]Subcategory, error) {
	rows, err := db.Query(ctx, `
		SELECT id, category_id, name, is_active, created_at
		FROM subcategories
		WHERE category_id = $1 AND is_active
		ORDER BY name`, categoryID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch subcategories for category %s: %v", categoryID, err)
		return nil, fmt.Errorf("failed to fetch subcategories: %w", err)
	}
	defer rows.Close()

	var subcategories []Subcategory
	for rows.Next() {
		var s Subcategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subcategories = append(subcategories, s)
	}
	return subcategories, nil
}

// CreateSubcategory inserts a new subcategory. Admin only, enforced by
// routing.
func CreateSubcategory(ctx context.Context, db *pgxpool.Pool, categoryID uuid.UUID, name string) (*Subcategory, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for subcategory: %w", err)
	}
	subcategory := &Subcategory{
		ID:         id,
		CategoryID: categoryID,
		Name:       name,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	_, err = db.Exec(ctx, `
		INSERT INTO subcategories (id, category_id, name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		subcategory.ID, subcategory.CategoryID, subcategory.Name, subcategory.IsActive, subcategory.CreatedAt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert subcategory '%s': %v", name, err)
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}
	return subcategory, nil
}

// CreateCategory inserts a new category. Admin only, enforced by routing.
func CreateCategory(ctx context.Context, db *pgxpool.Pool, name, description string) (*Category, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for category: %w", err)
	}
	category := &Category{
		ID:          id,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	_, err = db.Exec(ctx, `
		INSERT INTO categories (id, name, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.Name, category.Description, category.IsActive, category.CreatedAt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert category '%s': %v", name, err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}
