package core

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"
)

// NewHTTPClient 创建一个通用的 HTTP 客户端
// - timeoutSec: 整体超时时间（秒），<=0 时取 30
// - proxy: 代理地址，例如 "http://127.0.0.1:7890"，留空则不设置代理
// arXiv 适配器和 PDF 下载器共用该构造器，各自决定超时参数
func NewHTTPClient(timeoutSec int, proxy string) *http.Client {
	if timeoutSec <= 0 {
		timeoutSec = 30
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		TLSHandshakeTimeout:   30 * time.Second,
		ResponseHeaderTimeout: time.Duration(timeoutSec) * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   time.Duration(timeoutSec) * time.Second,
		Transport: transport,
	}
}
