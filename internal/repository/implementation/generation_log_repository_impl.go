package implementation

import (
	"context"
	"errors"

	"docpanel-be/internal/entity"
	"docpanel-be/internal/mapper"
	"docpanel-be/internal/model"
	"docpanel-be/internal/repository/contract"
	"docpanel-be/internal/repository/specification"

	"gorm.io/gorm"
)

type GenerationLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationLogMapper
}

func NewGenerationLogRepository(db *gorm.DB) contract.GenerationLogRepository {
	return &GenerationLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationLogMapper(),
	}
}

func (r *GenerationLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationLogRepositoryImpl) Create(ctx context.Context, log *entity.GenerationLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *GenerationLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationLog, error) {
	var m model.GenerationLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *GenerationLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationLog, error) {
	var models []*model.GenerationLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *GenerationLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GenerationLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
