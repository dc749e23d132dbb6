package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Selection SelectionConfig `mapstructure:"selection"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP 服务配置（桌面壳通过本地 HTTP 调用）
type ServerConfig struct {
	Host      string     `mapstructure:"host"`
	Port      int        `mapstructure:"port"`
	BodyLimit int64      `mapstructure:"body_limit"` // 请求体上限（字节）
	CORS      CORSConfig `mapstructure:"cors"`
}

// Addr 监听地址
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// 支持的数据库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig 数据库配置
// 默认使用本地嵌入式 SQLite；postgres 用于多终端共享部署
type DatabaseConfig struct {
	Driver            string `mapstructure:"driver"`
	Path              string `mapstructure:"path"` // SQLite 文件路径
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	Name              string `mapstructure:"name"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	SSLMode           string `mapstructure:"sslmode"`
	Timezone          string `mapstructure:"timezone"`
	MaxOpenConns      int    `mapstructure:"max_open_conns"`
	MaxIdleConns      int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime   int    `mapstructure:"conn_max_lifetime"` // 分钟
	SeedSampleExperts bool   `mapstructure:"seed_sample_experts"`
}

// DSN 生成连接字符串
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
		)
	}
	// mattn/go-sqlite3 参数：外键必须显式开启，否则级联删除不生效
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", filepath.ToSlash(c.Path))
}

// RedisConfig Redis 配置（可选：用于分布式锁、Token 黑名单、登录限流）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 操作员认证配置
// 单机桌面场景默认关闭；开启后所有 /api/v1 接口需要 Bearer Token
type AuthConfig struct {
	Enabled        bool           `mapstructure:"enabled"`
	JWTSecret      string         `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration  `mapstructure:"access_token_ttl"`
	Operator       OperatorConfig `mapstructure:"operator"`
}

// OperatorConfig 操作员账号（密码为 bcrypt 哈希）
type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// SelectionConfig 抽取流程配置
type SelectionConfig struct {
	LockTTL  time.Duration `mapstructure:"lock_ttl"`  // 单个需求锁的最长持有时间
	LockWait time.Duration `mapstructure:"lock_wait"` // 获取锁的最长等待时间
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 17420)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173", "app://."})

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "data/experts.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "expert_selection")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.seed_sample_experts", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.access_token_ttl", "8h")
	v.SetDefault("auth.operator.username", "admin")

	v.SetDefault("selection.lock_ttl", "30s")
	v.SetDefault("selection.lock_wait", "5s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("EXPERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("配置校验失败: db.path 不能为空")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("配置校验失败: 不支持的数据库驱动 %q", c.Database.Driver)
	}
	if c.Auth.Enabled {
		if len(c.Auth.JWTSecret) < 16 {
			return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
		}
		if c.Auth.Operator.PasswordHash == "" {
			return fmt.Errorf("配置校验失败: auth.operator.password_hash 不能为空")
		}
	}
	if c.Selection.LockTTL <= 0 {
		return fmt.Errorf("配置校验失败: selection.lock_ttl 必须大于 0")
	}
	return nil
}
