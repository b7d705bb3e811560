package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CrudRepository stores one catalog table. Models with a gorm.DeletedAt field are soft deleted.
type CrudRepository[T any] struct {
	db       *gorm.DB
	preloads []string
}

func NewCrudRepository[T any](db *gorm.DB, preloads ...string) *CrudRepository[T] {
	return &CrudRepository[T]{db: db, preloads: preloads}
}

func (r *CrudRepository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *CrudRepository[T]) List(ctx context.Context, page, limit int) ([]T, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	var out []T
	err := r.query(ctx).Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, 0, mapError(err)
	}
	return out, total, nil
}

func (r *CrudRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var v T
	if err := r.query(ctx).First(&v, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

func (r *CrudRepository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, mapError(err)
	}
	return cnt > 0, nil
}

func (r *CrudRepository[T]) Create(ctx context.Context, v *T) error {
	return mapError(r.db.WithContext(ctx).Create(v).Error)
}

// Update overwrites every column of the live row identified by v's primary key.
func (r *CrudRepository[T]) Update(ctx context.Context, v *T) error {
	res := r.db.WithContext(ctx).Model(v).
		Select("*").
		Omit("id", "created_at", "deleted_at", clause.Associations).
		Updates(v)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CrudRepository[T]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
