package store

import (
	"context"
	"errors"
	"fmt"

	"kas/models"

	"gorm.io/gorm"
)

// GormStore 基于 gorm 的关系型存储（MySQL / PostgreSQL）
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储，表结构由调用方负责迁移
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB 返回底层连接
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) List(ctx context.Context, r *DateRange) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{})
	if r != nil {
		query = query.Where("tanggal >= ? AND tanggal <= ?", r.Start, r.End)
	}

	var list []models.Transaction
	if err := query.Order("tanggal DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询交易失败: %w", err)
	}
	return list, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询交易失败: %w", err)
	}
	return &tx, nil
}

func (s *GormStore) Create(ctx context.Context, tx *models.Transaction) error {
	tx.ID = 0
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("创建交易失败: %w", err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, id uint, f models.TransactionFields) (*models.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"tanggal":        f.Date,
		"nama_keperluan": f.Description,
		"kategori":       f.Category,
		"nominal":        f.Amount,
	}
	if err := s.db.WithContext(ctx).Model(tx).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新交易失败: %w", err)
	}

	tx.Apply(f)
	return tx, nil
}

func (s *GormStore) Delete(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("删除交易失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) DeleteMatching(ctx context.Context, description string, category models.Category) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("nama_keperluan = ? AND kategori = ?", description, category).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, fmt.Errorf("删除交易失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
