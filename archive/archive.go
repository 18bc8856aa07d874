package archive

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"auto_apply_go/model"
)

// 投递状态流转：未投递 -> 已投递 / 已过滤 / 投递失败
const (
	DeliveryPending  = "未投递"
	DeliveryApplied  = "已投递"
	DeliveryFiltered = "已过滤"
	DeliveryFailed   = "投递失败"
)

// Archive 职位归档库，把每轮搜索到的职位快照落到 MySQL 便于复盘
// nil 实例表示归档未启用，所有方法直接空操作
type Archive struct {
	db  *gorm.DB
	log *logrus.Logger
}

// Open 连接归档库并迁移表结构
func Open(dsn string, logger *logrus.Logger) (*Archive, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("归档库连接失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取归档库连接失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&model.PostingArchiveEntity{}); err != nil {
		return nil, fmt.Errorf("归档库迁移失败: %w", err)
	}

	logger.Info("归档库连接成功")
	return &Archive{db: db, log: logger}, nil
}

// SavePosting 归档职位快照，已存在的 (平台, 职位ID) 不重复写入
func (a *Archive) SavePosting(p model.Posting) error {
	if a == nil {
		return nil
	}

	var existing model.PostingArchiveEntity
	result := a.db.Where("platform = ? AND posting_id = ?", p.Platform, p.ID).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	entity := model.NewPostingArchive(p, DeliveryPending)
	if err := a.db.Create(entity).Error; err != nil {
		return err
	}
	a.log.Debugf("已归档职位: %s", p)
	return nil
}

// UpdateDeliveryStatus 更新归档职位的投递状态
func (a *Archive) UpdateDeliveryStatus(p model.Posting, status string) error {
	if a == nil {
		return nil
	}

	result := a.db.Model(&model.PostingArchiveEntity{}).
		Where("platform = ?", p.Platform).
		Where("posting_id = ?", p.ID).
		Updates(map[string]interface{}{
			"delivery_status": status,
			"updated_at":      time.Now(),
		})
	return result.Error
}

// CountByStatus 统计指定投递状态的归档职位数
func (a *Archive) CountByStatus(status string) (int64, error) {
	if a == nil {
		return 0, nil
	}

	var count int64
	result := a.db.Model(&model.PostingArchiveEntity{}).
		Where("delivery_status = ?", status).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// Close 关闭归档库连接
func (a *Archive) Close() {
	if a == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
