package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PaperChat/internal/core"
	"PaperChat/internal/models"
	"PaperChat/internal/platform"
	"PaperChat/pkg/logger"
)

type Adapter struct {
	config     *Config
	httpClient *http.Client
}

func NewAdapter(config *Config) (*Adapter, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := core.NewHTTPClient(config.Timeout, config.Proxy)

	return &Adapter{
		config:     config,
		httpClient: client,
	}, nil
}

func (a *Adapter) Name() string { return "arxiv" }

func (a *Adapter) GetConfig() platform.Config { return a.config }

func (a *Adapter) Search(ctx context.Context, q platform.Query) (platform.Result, error) {
	if strings.TrimSpace(q.Query) == "" {
		return platform.Result{}, fmt.Errorf("检索词不能为空")
	}
	if q.MaxResults <= 0 {
		q.MaxResults = a.config.MaxResults
	}
	if a.config.UseAPI {
		return a.searchViaAPI(ctx, q)
	}
	return a.searchViaWeb(ctx, q)
}

// searchViaAPI 使用官方 API 搜索，按相关性降序（分页直到凑够 MaxResults）
func (a *Adapter) searchViaAPI(ctx context.Context, q platform.Query) (platform.Result, error) {
	searchQuery := buildAPIQuery(q.Query)

	pageSize := a.config.Step
	if pageSize > 200 {
		pageSize = 200 // arXiv API 单次最大 200
	}

	var allPapers []*models.Paper
	totalFound := 0
	start := 0

	for {
		remaining := q.MaxResults - len(allPapers)
		if remaining <= 0 {
			break
		}
		currentPageSize := pageSize
		if remaining < pageSize {
			currentPageSize = remaining
		}

		params := url.Values{}
		params.Add("search_query", searchQuery)
		params.Add("start", fmt.Sprintf("%d", start))
		params.Add("max_results", fmt.Sprintf("%d", currentPageSize))
		params.Add("sortBy", "relevance")
		params.Add("sortOrder", "descending")

		apiURL := a.config.APIBase + "?" + params.Encode()
		logger.Debug("[arXiv] API 请求: start=%d, max=%d", start, currentPageSize)

		content, err := a.request(ctx, apiURL)
		if err != nil {
			return platform.Result{}, fmt.Errorf("API request failed: %w", err)
		}

		papers, total, err := ParseAtomFeed(content)
		if err != nil {
			return platform.Result{}, fmt.Errorf("failed to parse API response: %w", err)
		}

		if totalFound == 0 {
			totalFound = total
		}

		allPapers = append(allPapers, papers...)

		if len(papers) == 0 || len(allPapers) >= totalFound {
			break
		}

		start += len(papers)
		time.Sleep(1000 * time.Millisecond) // 防止触发 429
	}

	logger.Info("[arXiv] API 检索完成，共 %d 篇候选（总命中 %d）", len(allPapers), totalFound)
	return platform.Result{Total: totalFound, Papers: allPapers}, nil
}

// searchViaWeb 使用网页高级搜索，网页模式单页最小 50，取回后按 MaxResults 截断
func (a *Adapter) searchViaWeb(ctx context.Context, q platform.Query) (platform.Result, error) {
	webURL := a.buildWebQuery(q)

	content, err := a.request(ctx, webURL)
	if err != nil {
		return platform.Result{}, fmt.Errorf("web request failed: %w", err)
	}

	papers, totalFound, err := ParseSearchHTML(content)
	if err != nil {
		return platform.Result{}, fmt.Errorf("failed to parse web response: %w", err)
	}

	if len(papers) > q.MaxResults {
		papers = papers[:q.MaxResults]
	}

	logger.Info("[arXiv] Web 检索完成，共 %d 篇候选（总命中 %d）", len(papers), totalFound)
	return platform.Result{Total: totalFound, Papers: papers}, nil
}

// buildAPIQuery 构建 API 查询字符串，多词短语加引号做整体匹配
func buildAPIQuery(query string) string {
	query = strings.TrimSpace(query)
	if strings.Contains(query, " ") {
		return fmt.Sprintf(`all:"%s"`, query)
	}
	return fmt.Sprintf("all:%s", query)
}

func (a *Adapter) buildWebQuery(q platform.Query) string {
	params := url.Values{}
	params.Add("advanced", "1")

	kw := strings.TrimSpace(q.Query)
	if strings.Contains(kw, " ") && !(strings.HasPrefix(kw, `"`) && strings.HasSuffix(kw, `"`)) {
		kw = fmt.Sprintf(`"%s"`, kw)
	}
	params.Add("terms-0-term", kw)
	params.Add("terms-0-field", "all")

	params.Add("classification-include_cross_list", "include")
	params.Add("abstracts", "show")

	pageSize := q.MaxResults
	if pageSize < 50 {
		pageSize = 50 // arXiv web 最小 50
	}
	params.Add("size", fmt.Sprintf("%d", pageSize))
	params.Add("order", "-announced_date_first")

	webURL := a.config.WebBase + "?" + params.Encode()
	logger.Debug("[arXiv] 构建的 URL: %s", webURL)
	return webURL
}

func (a *Adapter) request(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < 2 {
				time.Sleep(time.Duration(1<<attempt) * time.Second)
				continue
			}
			break
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("HTTP error: %d", resp.StatusCode)
			if attempt < 2 {
				time.Sleep(time.Duration(1<<attempt) * time.Second)
				continue
			}
			break
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read response: %w", err)
		}
		return string(body), nil
	}
	return "", lastErr
}
