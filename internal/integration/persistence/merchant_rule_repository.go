package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// merchantRuleRepository implements the adapter.MerchantRuleRepository interface.
type merchantRuleRepository struct {
	db *gorm.DB
}

// NewMerchantRuleRepository creates a new merchant rule repository instance.
func NewMerchantRuleRepository(db *gorm.DB) adapter.MerchantRuleRepository {
	return &merchantRuleRepository{
		db: db,
	}
}

// Create creates a new merchant rule in the database.
func (r *merchantRuleRepository) Create(ctx context.Context, rule *entity.MerchantRule) error {
	result := r.db.WithContext(ctx).Create(model.MerchantRuleFromEntity(rule))
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domainerror.ErrMerchantRuleExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a merchant rule by its ID.
func (r *merchantRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MerchantRule, error) {
	var ruleModel model.MerchantRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrMerchantRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindAll retrieves rules ordered by descending priority.
func (r *merchantRuleRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.MerchantRule, error) {
	var ruleModels []model.MerchantRuleModel
	query := r.db.WithContext(ctx).Model(&model.MerchantRuleModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	result := query.Order("priority DESC, created_at ASC").Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.MerchantRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToEntity()
	}
	return rules, nil
}

// ExistsByPattern checks if a rule with the pattern exists.
func (r *merchantRuleRepository) ExistsByPattern(ctx context.Context, pattern string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.MerchantRuleModel{}).
		Where("pattern = ?", pattern).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// MaxPriority returns the highest priority in use.
func (r *merchantRuleRepository) MaxPriority(ctx context.Context) (int, error) {
	var maxPriority *int
	result := r.db.WithContext(ctx).
		Model(&model.MerchantRuleModel{}).
		Select("MAX(priority)").
		Scan(&maxPriority)
	if result.Error != nil {
		return 0, result.Error
	}
	if maxPriority == nil {
		return 0, nil
	}
	return *maxPriority, nil
}

// Count returns the total number of rules.
func (r *merchantRuleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.MerchantRuleModel{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// Delete removes a merchant rule.
func (r *merchantRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.MerchantRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrMerchantRuleNotFound
	}
	return nil
}
