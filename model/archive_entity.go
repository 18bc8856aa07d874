package model

import (
	"strings"
	"time"
)

// PostingArchiveEntity 职位归档实体类
// 以 (platform, posting_id) 唯一确定一条职位快照
type PostingArchiveEntity struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Platform       string    `gorm:"column:platform;uniqueIndex:uk_platform_posting"`
	PostingID      string    `gorm:"column:posting_id;uniqueIndex:uk_platform_posting"`
	JobName        string    `gorm:"column:job_name"`
	CompanyName    string    `gorm:"column:company_name"`
	Salary         string    `gorm:"column:salary"`
	Location       string    `gorm:"column:location"`
	Tags           string    `gorm:"column:tags"` // 逗号拼接的标签列表
	HrName         string    `gorm:"column:hr_name"`
	JobUrl         string    `gorm:"column:job_url"`
	DeliveryStatus string    `gorm:"column:delivery_status"` // 默认 未投递 / 已投递 / 已过滤 / 投递失败
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (PostingArchiveEntity) TableName() string {
	return "posting_archive"
}

// NewPostingArchive 由职位快照构建归档实体
func NewPostingArchive(p Posting, status string) *PostingArchiveEntity {
	now := time.Now()
	return &PostingArchiveEntity{
		Platform:       p.Platform,
		PostingID:      p.ID,
		JobName:        p.Title,
		CompanyName:    p.Company,
		Salary:         p.Salary,
		Location:       p.Location,
		Tags:           strings.Join(p.Tags, ","),
		HrName:         p.HrName,
		JobUrl:         p.URL,
		DeliveryStatus: status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
