package core

import (
	"fmt"
	"sync"

	"PaperChat/internal/platform"
)

// Name 平台的唯一标识，例如："arxiv"
// New 构造具体平台实例的工厂函数；入参与出参严格使用 platform 包中的类型
// DefaultConfig 返回该平台的一个可用默认配置（实现 platform.Config）

type Provider struct {
	Name string

	New func(cfg platform.Config) (platform.Platform, error)

	DefaultConfig func() platform.Config
}

var (
	regMu    sync.RWMutex
	registry = map[string]Provider{}
)

func Register(p Provider) error {
	if p.Name == "" {
		return fmt.Errorf("provider 的名字不能为空")
	}
	if p.New == nil || p.DefaultConfig == nil {
		return fmt.Errorf("provider %s 的配置不正确", p.Name)
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := registry[p.Name]; exists {
		return fmt.Errorf("provider %s 已经注册过了", p.Name)
	}
	registry[p.Name] = p
	return nil
}

func MustRegister(p Provider) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

func Get(name string) (Provider, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// NewPlatform 按名字构造平台实例，cfg 为 nil 时使用默认配置
func NewPlatform(name string, cfg platform.Config) (platform.Platform, error) {
	prov, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("未知或未实现的平台: %s", name)
	}
	if cfg == nil {
		cfg = prov.DefaultConfig()
	}
	return prov.New(cfg)
}
