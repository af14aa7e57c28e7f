package core

import (
	"context"

	"PaperChat/internal/models"
	"PaperChat/internal/platform"
	"PaperChat/pkg/logger"
)

// PlatformFetcher 把注册表里的平台包装成编排层需要的候选获取器
type PlatformFetcher struct {
	plat platform.Platform
}

func NewPlatformFetcher(name string, cfg platform.Config) (*PlatformFetcher, error) {
	plat, err := NewPlatform(name, cfg)
	if err != nil {
		return nil, err
	}
	return &PlatformFetcher{plat: plat}, nil
}

func (f *PlatformFetcher) Search(ctx context.Context, query string, maxResults int) ([]*models.Paper, error) {
	res, err := f.plat.Search(ctx, platform.Query{Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, err
	}
	logger.Debug("[%s] 返回 %d 篇候选", f.plat.Name(), len(res.Papers))
	return res.Papers, nil
}
