package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// 全局配置结构体
type GlobalConfig struct {
	Platforms []string       `mapstructure:"platforms"`
	Browser   BrowserConfig  `mapstructure:"browser"`
	Boss      PlatformConfig `mapstructure:"boss"`
	Liepin    PlatformConfig `mapstructure:"liepin"`
	Greetings []string       `mapstructure:"greetings"`
	Schedule  ScheduleConfig `mapstructure:"schedule"`
	AI        AIConfig       `mapstructure:"ai"`
	Archive   ArchiveConfig  `mapstructure:"archive"`
	DataDir   string         `mapstructure:"data_dir"`
	LogsDir   string         `mapstructure:"logs_dir"`
	LogLevel  string         `mapstructure:"log_level"`
}

// 浏览器配置
type BrowserConfig struct {
	Engine   string `mapstructure:"engine"`   // playwright 或 chromedp
	Headless bool   `mapstructure:"headless"` // 无头模式
}

// 单平台配置
type PlatformConfig struct {
	Search SearchConfig `mapstructure:"search"`
	Filter FilterConfig `mapstructure:"filter"`
	Apply  ApplyConfig  `mapstructure:"apply"`
}

// 搜索配置
type SearchConfig struct {
	City       string   `mapstructure:"city"`
	Salary     string   `mapstructure:"salary"`
	Experience string   `mapstructure:"experience"`
	Degree     string   `mapstructure:"degree"`
	Keywords   []string `mapstructure:"keywords"`
}

// 过滤配置
type FilterConfig struct {
	CompanyBlacklist        []string `mapstructure:"company_blacklist"`
	CompanyKeywordBlacklist []string `mapstructure:"company_keyword_blacklist"`
	MustInclude             []string `mapstructure:"must_include"`
	MustExclude             []string `mapstructure:"must_exclude"`
	MinSalaryStart          int      `mapstructure:"min_salary_start"`
	MinSalaryMax            int      `mapstructure:"min_salary_max"`
}

// 投递配置
type ApplyConfig struct {
	BatchLimit  int `mapstructure:"batch_limit"`
	DailyLimit  int `mapstructure:"daily_limit"`
	IntervalMin int `mapstructure:"interval_min"`
	IntervalMax int `mapstructure:"interval_max"`
}

// 定时任务配置
type ScheduleConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Times        []string `mapstructure:"times"`
	WorkdaysOnly bool     `mapstructure:"workdays_only"`
	WeekendLimit int      `mapstructure:"weekend_limit"`
}

// AI 配置
type AIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Prompt  string `mapstructure:"prompt"`
}

// 归档库配置
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// InitConfig 初始化配置
func InitConfig() (*GlobalConfig, error) {
	// 设置 Viper 配置
	viper.SetConfigName("config") // 配置文件名称（不带扩展名）
	viper.SetConfigType("yaml")   // 配置文件类型
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置文件到结构体
	var config GlobalConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	return &config, nil
}

// applyEnvOverrides 敏感配置优先从环境变量读取（配合 .env 文件）
func (c *GlobalConfig) applyEnvOverrides() {
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("ARCHIVE_DSN"); v != "" {
		c.Archive.DSN = v
	}
}

// applyDefaults 统一在加载时补默认值，运行期不再判空
func (c *GlobalConfig) applyDefaults() {
	if len(c.Platforms) == 0 {
		c.Platforms = []string{"boss"}
	}
	if c.Browser.Engine == "" {
		c.Browser.Engine = "playwright"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.LogsDir == "" {
		c.LogsDir = "logs"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Schedule.WeekendLimit == 0 {
		c.Schedule.WeekendLimit = 10
	}

	c.Boss.applyDefaults()
	c.Liepin.applyDefaults()
}

func (p *PlatformConfig) applyDefaults() {
	if p.Filter.MinSalaryStart == 0 {
		p.Filter.MinSalaryStart = 20
	}
	if p.Filter.MinSalaryMax == 0 {
		p.Filter.MinSalaryMax = 35
	}
	if p.Apply.BatchLimit == 0 {
		p.Apply.BatchLimit = 20
	}
	if p.Apply.DailyLimit == 0 {
		p.Apply.DailyLimit = 50
	}
	if p.Apply.IntervalMin == 0 {
		p.Apply.IntervalMin = 30
	}
	if p.Apply.IntervalMax == 0 {
		p.Apply.IntervalMax = 60
	}
}

// GetPlatform 按名称取平台配置，未配置的平台返回 false
func (c *GlobalConfig) GetPlatform(name string) (*PlatformConfig, bool) {
	switch name {
	case "boss":
		return &c.Boss, true
	case "liepin":
		return &c.Liepin, true
	default:
		return nil, false
	}
}

// CookieFile 各平台Cookie文件路径
// boss 使用历史遗留的 cookie.txt，其余平台使用 cookie_<平台>.txt
func CookieFile(platform string) string {
	if platform == "boss" {
		return "cookie.txt"
	}
	return fmt.Sprintf("cookie_%s.txt", platform)
}
