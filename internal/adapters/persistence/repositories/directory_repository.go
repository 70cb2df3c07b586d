package repositories

import (
	"context"
	"errors"

	"clinicsales/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// regionRepository implements RegionRepository interface
type regionRepository struct {
	db *gorm.DB
}

// NewRegionRepository creates a new region repository
func NewRegionRepository(db *gorm.DB) RegionRepository {
	return &regionRepository{db: db}
}

// Create creates a new region
func (r *regionRepository) Create(ctx context.Context, region *models.Region) error {
	return r.db.WithContext(ctx).Create(region).Error
}

// GetByID gets a region by ID
func (r *regionRepository) GetByID(ctx context.Context, id uint) (*models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).First(&region, id).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

// List lists all regions
func (r *regionRepository) List(ctx context.Context) ([]*models.Region, error) {
	var regions []*models.Region
	err := r.db.WithContext(ctx).Order("name ASC").Find(&regions).Error
	return regions, err
}

// Update updates a region
func (r *regionRepository) Update(ctx context.Context, region *models.Region) error {
	return r.db.WithContext(ctx).Save(region).Error
}

// Delete soft deletes a region
func (r *regionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Region{}, id).Error
}

// clinicRepository implements ClinicRepository interface
type clinicRepository struct {
	db *gorm.DB
}

// NewClinicRepository creates a new clinic repository
func NewClinicRepository(db *gorm.DB) ClinicRepository {
	return &clinicRepository{db: db}
}

// Create creates a new clinic
func (r *clinicRepository) Create(ctx context.Context, clinic *models.Clinic) error {
	return r.db.WithContext(ctx).Create(clinic).Error
}

// GetByID gets a clinic by ID with its region
func (r *clinicRepository) GetByID(ctx context.Context, id uint) (*models.Clinic, error) {
	var clinic models.Clinic
	err := r.db.WithContext(ctx).Preload("Region").First(&clinic, id).Error
	if err != nil {
		return nil, err
	}
	return &clinic, nil
}

// RegionOf resolves a clinic to its region, nil when the clinic is unknown
func (r *clinicRepository) RegionOf(ctx context.Context, clinicID uint) (*uint, error) {
	var clinic models.Clinic
	err := r.db.WithContext(ctx).Select("region_id").First(&clinic, clinicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	region := clinic.RegionID
	return &region, nil
}

// List lists active clinics, optionally restricted to a region
func (r *clinicRepository) List(ctx context.Context, regionID *uint) ([]*models.Clinic, error) {
	var clinics []*models.Clinic
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if regionID != nil {
		q = q.Where("region_id = ?", *regionID)
	}
	err := q.Order("name ASC").Find(&clinics).Error
	return clinics, err
}

// ListAll lists all clinics including inactive
func (r *clinicRepository) ListAll(ctx context.Context) ([]*models.Clinic, error) {
	var clinics []*models.Clinic
	err := r.db.WithContext(ctx).Preload("Region").Order("name ASC").Find(&clinics).Error
	return clinics, err
}

// Update updates a clinic
func (r *clinicRepository) Update(ctx context.Context, clinic *models.Clinic) error {
	return r.db.WithContext(ctx).Save(clinic).Error
}

// Delete soft deletes a clinic
func (r *clinicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Clinic{}, id).Error
}
