package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Status 投递记录状态
type Status string

const (
	StatusApplied Status = "applied"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
)

// ParseStatus 解析投递状态字符串
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusApplied, StatusRead, StatusReplied:
		return Status(raw), nil
	}
	return "", fmt.Errorf("未知的投递状态: %q", raw)
}

// 默认的HR已读不回判定天数
const defaultNoReplyDays = 7

// AppliedRecord 已投递职位记录
type AppliedRecord struct {
	Title      string    `json:"job_name"`
	Company    string    `json:"company"`
	HrName     string    `json:"hr_name,omitempty"`
	Salary     string    `json:"salary,omitempty"`
	URL        string    `json:"url,omitempty"`
	Platform   string    `json:"platform,omitempty"`
	ApplyTime  time.Time `json:"apply_time"`
	Status     Status    `json:"status"`
	UpdateTime time.Time `json:"update_time,omitempty"`
}

// HrRecord HR联系记录
type HrRecord struct {
	Name         string     `json:"name,omitempty"`
	FirstContact time.Time  `json:"first_contact"`
	LastContact  time.Time  `json:"last_contact"`
	ContactCount int        `json:"contact_count"`
	Replied      bool       `json:"replied"`
	ReplyTime    *time.Time `json:"reply_time,omitempty"`
}

// blacklistFile 黑名单文件结构
type blacklistFile struct {
	Companies []string `json:"companies"`
	HrIDs     []string `json:"hr_ids"`
}

// dailyStat 单日投递统计
type dailyStat struct {
	ApplyCount int `json:"apply_count"`
}

// Store 本地簿记存储
// 四个JSON文件 + 内存缓存：已投递职位、黑名单、HR联系记录、每日统计
// 单进程单写者，每次变更先落盘（临时文件+重命名）再更新缓存
// 使用前必须先调用 Load
type Store struct {
	dataDir string
	log     *logrus.Logger
	now     func() time.Time

	appliedFile   string
	blacklistFile string
	hrFile        string
	statsFile     string

	applied    map[string]*AppliedRecord
	appliedIDs map[string]struct{}
	companies  map[string]struct{}
	hrIDs      map[string]struct{}
	hrRecords  map[string]*HrRecord
	dailyStats map[string]*dailyStat
}

// NewStore 创建存储实例，dataDir 不存在时会在 Load 时创建
func NewStore(dataDir string, logger *logrus.Logger) *Store {
	return &Store{
		dataDir:       dataDir,
		log:           logger,
		now:           time.Now,
		appliedFile:   filepath.Join(dataDir, "applied_jobs.json"),
		blacklistFile: filepath.Join(dataDir, "blacklist.json"),
		hrFile:        filepath.Join(dataDir, "hr_records.json"),
		statsFile:     filepath.Join(dataDir, "daily_stats.json"),
		applied:       make(map[string]*AppliedRecord),
		appliedIDs:    make(map[string]struct{}),
		companies:     make(map[string]struct{}),
		hrIDs:         make(map[string]struct{}),
		hrRecords:     make(map[string]*HrRecord),
		dailyStats:    make(map[string]*dailyStat),
	}
}

// Load 加载全部簿记文件到内存缓存
// 文件不存在按空状态处理，JSON损坏才算错误
func (s *Store) Load() error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}

	if _, err := loadJSON(s.appliedFile, &s.applied); err != nil {
		return err
	}
	for id := range s.applied {
		s.appliedIDs[id] = struct{}{}
	}

	var bl blacklistFile
	if _, err := loadJSON(s.blacklistFile, &bl); err != nil {
		return err
	}
	for _, c := range bl.Companies {
		s.companies[c] = struct{}{}
	}
	for _, id := range bl.HrIDs {
		s.hrIDs[id] = struct{}{}
	}

	if _, err := loadJSON(s.hrFile, &s.hrRecords); err != nil {
		return err
	}
	if _, err := loadJSON(s.statsFile, &s.dailyStats); err != nil {
		return err
	}

	s.log.Infof("簿记数据加载完成: 已投递 %d, 公司黑名单 %d, HR黑名单 %d, HR记录 %d",
		len(s.applied), len(s.companies), len(s.hrIDs), len(s.hrRecords))
	return nil
}

// ==================== 已投递职位 ====================

// IsApplied 检查职位是否已投递，O(1)查询
func (s *Store) IsApplied(postingID string) bool {
	_, ok := s.appliedIDs[postingID]
	return ok
}

// RecordApplied 记录已投递职位（幂等：重复记录覆盖元数据，集合中仍只有一条）
// 先落盘后更新缓存，落盘失败时缓存保持原状
func (s *Store) RecordApplied(postingID string, rec AppliedRecord) error {
	rec.ApplyTime = s.now()
	rec.Status = StatusApplied

	prev, existed := s.applied[postingID]
	s.applied[postingID] = &rec
	if err := s.saveJSON(s.appliedFile, s.applied); err != nil {
		if existed {
			s.applied[postingID] = prev
		} else {
			delete(s.applied, postingID)
		}
		return err
	}

	s.appliedIDs[postingID] = struct{}{}
	return nil
}

// UpdateAppliedStatus 更新投递记录状态（applied/read/replied）
// 未知的职位ID只记日志，不算错误
func (s *Store) UpdateAppliedStatus(postingID string, status Status) error {
	rec, ok := s.applied[postingID]
	if !ok {
		s.log.Debugf("更新状态时未找到投递记录: %s", postingID)
		return nil
	}

	rec.Status = status
	rec.UpdateTime = s.now()
	return s.saveJSON(s.appliedFile, s.applied)
}

// ==================== 黑名单 ====================

// IsCompanyBlacklisted 检查公司是否在黑名单
func (s *Store) IsCompanyBlacklisted(company string) bool {
	_, ok := s.companies[company]
	return ok
}

// AddCompanyToBlacklist 添加公司到黑名单，已存在时不重复写盘
func (s *Store) AddCompanyToBlacklist(company string) error {
	if _, ok := s.companies[company]; ok {
		return nil
	}
	s.companies[company] = struct{}{}
	return s.saveBlacklist()
}

// IsHrBlacklisted 检查HR是否在黑名单
func (s *Store) IsHrBlacklisted(hrID string) bool {
	_, ok := s.hrIDs[hrID]
	return ok
}

// AddHrToBlacklist 添加HR到黑名单，已存在时不重复写盘
func (s *Store) AddHrToBlacklist(hrID string) error {
	if _, ok := s.hrIDs[hrID]; ok {
		return nil
	}
	s.hrIDs[hrID] = struct{}{}
	return s.saveBlacklist()
}

func (s *Store) saveBlacklist() error {
	bl := blacklistFile{
		Companies: sortedKeys(s.companies),
		HrIDs:     sortedKeys(s.hrIDs),
	}
	return s.saveJSON(s.blacklistFile, bl)
}

// ==================== HR 记录 ====================

// RecordHrContact 记录一次HR联系
// 首次联系初始化记录后计数置1，后续每次联系计数+1并刷新最后联系时间
func (s *Store) RecordHrContact(hrID, name string) error {
	rec, ok := s.hrRecords[hrID]
	if !ok {
		rec = &HrRecord{
			Name:         name,
			FirstContact: s.now(),
			ContactCount: 0,
			Replied:      false,
		}
		s.hrRecords[hrID] = rec
	}
	rec.ContactCount++
	rec.LastContact = s.now()
	return s.saveJSON(s.hrFile, s.hrRecords)
}

// MarkHrReplied 标记HR已回复（单向，不会撤销）
func (s *Store) MarkHrReplied(hrID string) error {
	rec, ok := s.hrRecords[hrID]
	if !ok {
		s.log.Debugf("标记回复时未找到HR记录: %s", hrID)
		return nil
	}
	if rec.Replied {
		return nil
	}

	rec.Replied = true
	t := s.now()
	rec.ReplyTime = &t
	return s.saveJSON(s.hrFile, s.hrRecords)
}

// HasHrContact 是否联系过该HR
func (s *Store) HasHrContact(hrID string) bool {
	_, ok := s.hrRecords[hrID]
	return ok
}

// IsHrNoReply 检查HR是否已读不回：有联系记录、未回复、且距最后联系已满指定天数
// 没有记录的HR返回 false，不惩罚陌生HR
func (s *Store) IsHrNoReply(hrID string, days int) bool {
	if days <= 0 {
		days = defaultNoReplyDays
	}

	rec, ok := s.hrRecords[hrID]
	if !ok {
		return false
	}
	if rec.Replied {
		return false
	}

	elapsed := int(s.now().Sub(rec.LastContact).Hours() / 24)
	return elapsed >= days
}

// ==================== 每日统计 ====================

// TodayApplyCount 获取今日（本地日历日）投递数量
func (s *Store) TodayApplyCount() int {
	st, ok := s.dailyStats[s.today()]
	if !ok {
		return 0
	}
	return st.ApplyCount
}

// IncrementTodayApplyCount 今日投递计数+1，返回增加后的值
// 新日期首次计数从0初始化后加1
func (s *Store) IncrementTodayApplyCount() (int, error) {
	today := s.today()
	st, ok := s.dailyStats[today]
	if !ok {
		st = &dailyStat{}
		s.dailyStats[today] = st
	}

	st.ApplyCount++
	if err := s.saveJSON(s.statsFile, s.dailyStats); err != nil {
		st.ApplyCount--
		return 0, err
	}
	return st.ApplyCount, nil
}

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}

// ==================== 文件读写 ====================

// loadJSON 读取JSON文件，文件不存在返回 false 且不报错
func loadJSON(path string, dst interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("读取 %s 失败: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("解析 %s 失败: %w", filepath.Base(path), err)
	}
	return true, nil
}

// saveJSON 原子写入：先写临时文件再重命名覆盖
func (s *Store) saveJSON(path string, data interface{}) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("替换 %s 失败: %w", filepath.Base(path), err)
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
