package apply

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"auto_apply_go/archive"
	"auto_apply_go/config"
	"auto_apply_go/filter"
	"auto_apply_go/model"
	"auto_apply_go/platform"
	"auto_apply_go/storage"
	"auto_apply_go/utils"
)

// Stats 单轮投递统计
type Stats struct {
	Success int
	Failed  int
	Skipped int
}

// Orchestrator 投递编排器，串联 搜索 -> 过滤 -> 排序 -> 投递 全流程
// 配额判断全部依赖 Store 的当日计数，失败职位不做负面记录，下轮重试
type Orchestrator struct {
	store        *storage.Store
	archive      *archive.Archive
	weekendLimit int
	log          *logrus.Logger

	now      func() time.Time
	sleep    func(minSeconds, maxSeconds int)
	stopOnce sync.Once
	stopChan chan struct{}
}

func New(store *storage.Store, arch *archive.Archive, weekendLimit int, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		store:        store,
		archive:      arch,
		weekendLimit: weekendLimit,
		log:          logger,
		now:          time.Now,
		sleep:        utils.SleepRandom,
		stopChan:     make(chan struct{}),
	}
}

// Stop 请求提前结束投递，当前职位处理完后生效
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		close(o.stopChan)
	})
}

// Stopped 是否已收到停止请求
func (o *Orchestrator) Stopped() bool {
	select {
	case <-o.stopChan:
		return true
	default:
		return false
	}
}

// RunPlatform 执行单个平台的完整投递流程
func (o *Orchestrator) RunPlatform(p platform.Platform, cfg *config.PlatformConfig) Stats {
	postings := platform.SearchAllKeywords(p, cfg.Search.Keywords, platform.KeywordPause, o.log)
	if len(postings) == 0 {
		o.log.Warn("未找到任何职位，请检查搜索条件或Cookie是否有效")
		return Stats{}
	}

	for _, posting := range postings {
		if err := o.archive.SavePosting(posting); err != nil {
			o.log.Warnf("归档职位失败: %v", err)
		}
	}

	f := filter.New(&cfg.Filter, o.store, o.log)
	kept := f.FilterPostings(postings)
	o.archiveFiltered(postings, kept)

	if len(kept) == 0 {
		o.log.Info("过滤后没有可投递的职位")
		return Stats{}
	}

	ranked := f.RankByPriority(kept)
	stats := o.RunBatch(p, &cfg.Apply, ranked)

	o.log.Info("========================================")
	o.log.Infof("平台 %s 投递统计:", p.Name())
	o.log.Infof("  成功: %d", stats.Success)
	o.log.Infof("  失败: %d", stats.Failed)
	o.log.Infof("  跳过: %d", stats.Skipped)
	o.log.Infof("  今日累计: %d", o.store.TodayApplyCount())
	o.log.Info("========================================")

	if o.archive != nil {
		if n, err := o.archive.CountByStatus(archive.DeliveryApplied); err == nil {
			o.log.Infof("归档库累计已投递: %d", n)
		}
	}
	return stats
}

// archiveFiltered 把被过滤掉的职位标记为 已过滤
func (o *Orchestrator) archiveFiltered(all, kept []model.Posting) {
	keptKeys := make(map[string]struct{}, len(kept))
	for _, p := range kept {
		keptKeys[p.Key()] = struct{}{}
	}
	for _, p := range all {
		if _, ok := keptKeys[p.Key()]; ok {
			continue
		}
		if err := o.archive.UpdateDeliveryStatus(p, archive.DeliveryFiltered); err != nil {
			o.log.Warnf("更新归档状态失败: %v", err)
		}
	}
}

// RunBatch 批量投递职位，受单批上限和当日上限约束
// 超出本批配额的职位计入 Skipped，留待下一轮处理
func (o *Orchestrator) RunBatch(p platform.Platform, cfg *config.ApplyConfig, postings []model.Posting) Stats {
	var stats Stats

	today := o.store.TodayApplyCount()
	if today >= cfg.DailyLimit {
		o.log.Warnf("今日已达投递上限 (%d)，停止投递", cfg.DailyLimit)
		return stats
	}

	remaining := cfg.BatchLimit
	if r := cfg.DailyLimit - today; r < remaining {
		remaining = r
	}
	if o.weekendLimit > 0 && isWeekend(o.now()) {
		if o.weekendLimit < remaining {
			remaining = o.weekendLimit
		}
		o.log.Infof("周末模式，本次投递上限: %d", remaining)
	}

	o.log.Infof("今日已投递 %d 个，本次最多投递 %d 个", today, remaining)

	batch := postings
	if len(batch) > remaining {
		stats.Skipped = len(batch) - remaining
		batch = batch[:remaining]
	}

	for i, posting := range batch {
		if o.Stopped() {
			o.log.Warn("收到停止请求，提前结束本轮投递")
			stats.Skipped += len(batch) - i
			break
		}

		o.log.Infof("[%d/%d] 投递: %s - %s", i+1, len(batch), posting.Title, posting.Company)

		ok, err := p.ApplyToPosting(posting)
		switch {
		case err != nil:
			stats.Failed++
			o.log.Errorf("投递异常: %s - %v", posting.Title, err)
			o.archiveStatus(posting, archive.DeliveryFailed)
		case !ok:
			stats.Failed++
			o.log.Warnf("投递失败: %s", posting.Title)
			o.archiveStatus(posting, archive.DeliveryFailed)
		default:
			stats.Success++
			o.recordSuccess(posting)
			o.log.Infof("投递成功: %s", posting.Title)
		}

		if i < len(batch)-1 {
			o.sleep(cfg.IntervalMin, cfg.IntervalMax)
		}
	}

	o.log.Infof("投递完成: 成功 %d, 失败 %d, 跳过 %d", stats.Success, stats.Failed, stats.Skipped)
	return stats
}

// recordSuccess 投递成功后的簿记：投递记录、HR联系记录、当日计数、归档状态
func (o *Orchestrator) recordSuccess(posting model.Posting) {
	rec := storage.AppliedRecord{
		Title:    posting.Title,
		Company:  posting.Company,
		HrName:   posting.HrName,
		Salary:   posting.Salary,
		URL:      posting.URL,
		Platform: posting.Platform,
	}
	if err := o.store.RecordApplied(posting.Key(), rec); err != nil {
		o.log.Errorf("保存投递记录失败: %v", err)
	}

	// 列表页大多拿不到HR姓名，能拿到时记一笔联系
	if posting.HrName != "" {
		if err := o.store.RecordHrContact(posting.HrName, posting.HrName); err != nil {
			o.log.Errorf("保存HR联系记录失败: %v", err)
		}
	}

	if _, err := o.store.IncrementTodayApplyCount(); err != nil {
		o.log.Errorf("更新当日投递计数失败: %v", err)
	}

	o.archiveStatus(posting, archive.DeliveryApplied)
}

func (o *Orchestrator) archiveStatus(posting model.Posting, status string) {
	if err := o.archive.UpdateDeliveryStatus(posting, status); err != nil {
		o.log.Warnf("更新归档状态失败: %v", err)
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
