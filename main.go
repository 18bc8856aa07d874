package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"auto_apply_go/ai"
	"auto_apply_go/apply"
	"auto_apply_go/archive"
	"auto_apply_go/browser"
	"auto_apply_go/config"
	"auto_apply_go/platform"
	bossplatform "auto_apply_go/platform/boss"
	liepinplatform "auto_apply_go/platform/liepin"
	"auto_apply_go/scheduler"
	"auto_apply_go/storage"
	"auto_apply_go/utils"
)

// Application 应用程序实例，持有全部长生命周期资源
type Application struct {
	cfg          *config.GlobalConfig
	log          *logrus.Logger
	store        *storage.Store
	archive      *archive.Archive
	greeter      *ai.Greeter
	engine       browser.Engine
	orchestrator *apply.Orchestrator
}

// NewApplication 初始化簿记、归档库和浏览器引擎
func NewApplication(cfg *config.GlobalConfig, logger *logrus.Logger, headless bool) (*Application, error) {
	store := storage.NewStore(cfg.DataDir, logger)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("加载簿记数据失败: %w", err)
	}

	// 归档库是可选的观测设施，连不上只降级告警
	var arch *archive.Archive
	if cfg.Archive.Enabled && cfg.Archive.DSN != "" {
		var err error
		arch, err = archive.Open(cfg.Archive.DSN, logger)
		if err != nil {
			logger.Warnf("归档库不可用，本次运行跳过归档: %v", err)
			arch = nil
		}
	}

	engine, err := browser.NewEngine(cfg.Browser.Engine, headless, logger)
	if err != nil {
		return nil, err
	}
	if err := engine.Start(); err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	return &Application{
		cfg:          cfg,
		log:          logger,
		store:        store,
		archive:      arch,
		greeter:      ai.NewGreeter(&cfg.AI, logger),
		engine:       engine,
		orchestrator: apply.New(store, arch, cfg.Schedule.WeekendLimit, logger),
	}, nil
}

// RunOnce 对所有启用的平台执行一轮完整投递
func (app *Application) RunOnce() {
	start := time.Now()

	for _, name := range app.cfg.Platforms {
		if app.orchestrator.Stopped() {
			app.log.Warn("收到停止请求，跳过剩余平台")
			break
		}
		app.runPlatform(name)
	}

	app.log.Infof("本轮执行耗时: %s", utils.FormatDuration(start, time.Now()))
}

// runPlatform 单个平台的一轮投递，任何前置条件缺失只跳过该平台
func (app *Application) runPlatform(name string) {
	pcfg, ok := app.cfg.GetPlatform(name)
	if !ok {
		app.log.Warnf("平台 %s 未配置，跳过", name)
		return
	}

	cookiePath := config.CookieFile(name)
	cookies, err := browser.LoadCookies(cookiePath, browser.CookieDomain(name))
	if err != nil {
		app.log.Errorf("读取 %s 失败: %v", cookiePath, err)
		return
	}
	if len(cookies) == 0 {
		app.log.Warnf("请先在 %s 中配置 Cookie，跳过平台 %s", cookiePath, name)
		app.log.Warn("获取方式：浏览器登录后 F12 -> Application -> Cookies")
		return
	}

	page, err := app.engine.NewPage(cookies)
	if err != nil {
		app.log.Errorf("创建页面失败: %v", err)
		return
	}
	defer page.Close()

	p := app.newPlatform(name, page, pcfg)
	if p == nil {
		return
	}

	app.log.Info("==================================================")
	app.log.Infof("开始平台 %s 的投递流程", name)
	app.log.Info("==================================================")
	app.orchestrator.RunPlatform(p, pcfg)
}

func (app *Application) newPlatform(name string, page browser.Page, pcfg *config.PlatformConfig) platform.Platform {
	switch name {
	case "boss":
		return bossplatform.New(page, pcfg, app.cfg.Greetings, app.greeter, app.cfg.LogsDir, app.log)
	case "liepin":
		return liepinplatform.New(page, pcfg, app.cfg.Greetings, app.greeter, app.cfg.LogsDir, app.log)
	default:
		app.log.Warnf("不支持的平台: %s", name)
		return nil
	}
}

// Close 释放浏览器和归档库
func (app *Application) Close() {
	if app.engine != nil {
		if err := app.engine.Close(); err != nil {
			app.log.Errorf("关闭浏览器失败: %v", err)
		}
	}
	app.archive.Close()
	app.log.Info("应用程序已退出")
}

// newLogger 同时输出到控制台和按日期命名的日志文件
func newLogger(level, logsDir string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if lvl, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}

	if err := os.MkdirAll(logsDir, 0o755); err == nil {
		logPath := filepath.Join(logsDir, time.Now().Format("2006-01-02")+".log")
		if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logger.SetOutput(io.MultiWriter(os.Stdout, file))
		}
	}
	return logger
}

func main() {
	scheduleMode := flag.Bool("schedule", false, "启动定时任务模式")
	headless := flag.Bool("headless", false, "无头模式运行（不显示浏览器窗口）")
	flag.Parse()

	// .env 是可选的，用于注入 AI_API_KEY / ARCHIVE_DSN 等敏感配置
	_ = godotenv.Load()

	cfg, err := config.InitConfig()
	if err != nil {
		logrus.Fatalf("初始化配置失败: %v", err)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogsDir)
	logger.Info("==================================================")
	logger.Info("自动投递工具启动")
	logger.Info("==================================================")

	app, err := NewApplication(cfg, logger, cfg.Browser.Headless || *headless)
	if err != nil {
		logger.Fatalf("初始化失败: %v", err)
	}
	defer app.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	if *scheduleMode {
		sched := scheduler.New(&cfg.Schedule, app.RunOnce, logger)
		if sched.Setup() == 0 {
			logger.Warn("没有可用的定时任务，退出")
			return
		}
		sched.Start()

		sig := <-sigChan
		logger.Infof("接收到信号: %v，开始优雅关闭...", sig)
		// 先置停止标志让进行中的批次尽快收尾，再等调度器退出
		app.orchestrator.Stop()
		sched.Stop()
		return
	}

	// 立即执行一次，支持信号中断
	done := make(chan struct{})
	go func() {
		app.RunOnce()
		close(done)
	}()

	select {
	case <-done:
	case sig := <-sigChan:
		logger.Infof("接收到信号: %v，开始优雅关闭...", sig)
		app.orchestrator.Stop()
		<-done
	}
}
