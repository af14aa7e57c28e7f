package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"PaperChat/internal/llm"
	"PaperChat/internal/platform/arxiv"
)

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" yaml:"addr"`                       // 监听地址，如 :8000
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"` // CORS 白名单
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // 数据库文件路径
}

// DownloadConfig 下载配置
type DownloadConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"` // PDF 保存目录
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug/info/warn/error
	File  string `mapstructure:"file" yaml:"file"`   // 日志文件，空则只输出到终端
}

// AppConfig 应用总配置
type AppConfig struct {
	Env      string         `mapstructure:"env" yaml:"env"` // 运行环境:dev/prod
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Arxiv    arxiv.Config   `mapstructure:"arxiv" yaml:"arxiv"` // arXiv 平台配置
	LLM      llm.Config     `mapstructure:"llm" yaml:"llm"`     // 对话模型配置
}

func dataDir() string {
	homedir, _ := os.UserHomeDir()
	return filepath.Join(homedir, ".paperchat")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "prod")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.path", filepath.Join(dataDir(), "data", "paperchat.db"))
	v.SetDefault("download.dir", filepath.Join(dataDir(), "pdfs"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("arxiv.use_api", true)
	v.SetDefault("arxiv.proxy", "")
	v.SetDefault("arxiv.step", 50)
	v.SetDefault("arxiv.timeout", 30)
	v.SetDefault("arxiv.max_results", 25)
	v.SetDefault("arxiv.api_base", "https://export.arxiv.org/api/query")
	v.SetDefault("arxiv.web_base", "https://arxiv.org/search/advanced")

	v.SetDefault("llm.base_url", "https://api.deepseek.com")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.api_key", "")
}

// Load 加载配置文件，可额外传入目录或具体文件路径
// 找不到配置文件时会在用户目录下生成一份示例配置
func Load(configPaths ...string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configDir := filepath.Join(dataDir(), "config")

	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath(configDir)

	for _, p := range configPaths {
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
			v.SetConfigFile(p)
		} else {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix("PCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在，创建示例配置文件
		if err := CreateExampleConfig(); err != nil {
			return nil, fmt.Errorf("创建示例配置文件失败: %w", err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}

	if err := cfg.Arxiv.Validate(); err != nil {
		return nil, fmt.Errorf("arxiv 配置不合法: %w", err)
	}

	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("llm 配置不合法: %w", err)
	}

	return cfg, nil
}

// CreateExampleConfig 在用户目录下生成示例配置文件，已存在则跳过
func CreateExampleConfig() error {
	configDir := filepath.Join(dataDir(), "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	configFile := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configFile); err == nil {
		return nil
	}

	exampleContent := `# PaperChat 配置文件
# 请根据你的需求修改以下配置

# HTTP 服务配置
server:
  addr: ":8000"
  allowed_origins:
    - "http://localhost:5173"

# 对话模型配置（OpenAI 兼容 API）
llm:
  base_url: "https://api.deepseek.com"
  model: "deepseek-chat"
  api_key: "your-api-key-here"   # 请替换为你的 API Key

# arXiv 平台配置
arxiv:
  use_api: true      # true 走官方 API，false 抓网页
  proxy: ""          # 代理地址，如 http://127.0.0.1:7890
  timeout: 30
  max_results: 25

# 数据库配置
database:
  path: ""   # 留空使用默认位置 ~/.paperchat/data/paperchat.db

# 下载配置
download:
  dir: ""    # 留空使用默认位置 ~/.paperchat/pdfs

# 日志配置
log:
  level: "info"
  file: ""
`

	if err := os.WriteFile(configFile, []byte(exampleContent), 0644); err != nil {
		return fmt.Errorf("写入示例配置失败: %w", err)
	}
	return nil
}
