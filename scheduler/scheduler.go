package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"auto_apply_go/config"
)

// Scheduler 定时任务调度器，按配置的每日时间点触发投递流程
type Scheduler struct {
	cron *cron.Cron
	cfg  *config.ScheduleConfig
	job  func()
	log  *logrus.Logger
}

func New(cfg *config.ScheduleConfig, job func(), logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		cfg:  cfg,
		job:  job,
		log:  logger,
	}
}

// Setup 注册全部定时任务，返回成功注册的数量
// 无效的时间串只告警跳过，不影响其余任务
func (s *Scheduler) Setup() int {
	if !s.cfg.Enabled {
		s.log.Info("定时任务未启用")
		return 0
	}

	added := 0
	for _, timeStr := range s.cfg.Times {
		spec, err := CronSpec(timeStr, s.cfg.WorkdaysOnly)
		if err != nil {
			s.log.Errorf("无效的时间格式 %q: %v", timeStr, err)
			continue
		}

		ts := timeStr
		if _, err := s.cron.AddFunc(spec, func() { s.wrappedJob(ts) }); err != nil {
			s.log.Errorf("添加定时任务 %q 失败: %v", timeStr, err)
			continue
		}

		suffix := ""
		if s.cfg.WorkdaysOnly {
			suffix = " (仅工作日)"
		}
		s.log.Infof("已添加定时任务: %s%s", timeStr, suffix)
		added++
	}
	return added
}

// CronSpec 把 "HH:MM" 转成五段 cron 表达式
func CronSpec(timeStr string, workdaysOnly bool) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("期望 HH:MM 格式")
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", fmt.Errorf("小时解析失败: %w", err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("分钟解析失败: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("时间超出范围: %02d:%02d", hour, minute)
	}

	if workdaysOnly {
		return fmt.Sprintf("%d %d * * 1-5", minute, hour), nil
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// wrappedJob 包装单次执行，panic和异常只记日志，不影响后续调度
func (s *Scheduler) wrappedJob(timeStr string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("定时任务 %s 执行panic: %v", timeStr, r)
		}
	}()

	s.log.Info("==================================================")
	s.log.Infof("定时任务开始执行: %s", timeStr)
	s.log.Info("==================================================")

	s.job()

	s.log.Infof("定时任务 %s 执行完成", timeStr)
}

// Start 启动调度器，任务在cron自己的goroutine中触发
func (s *Scheduler) Start() {
	if len(s.cron.Entries()) == 0 {
		s.log.Warn("没有配置任何定时任务")
		return
	}
	s.log.Info("定时调度器启动，等待执行...")
	s.cron.Start()
}

// Stop 停止调度器并等待进行中的任务结束
// 投递间隔最长60秒，90秒等不到说明任务卡死，不再阻塞退出
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(90 * time.Second):
		s.log.Warn("等待进行中的定时任务超时")
	}
	s.log.Info("调度器已停止")
}
