package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"PaperChat/db"
	"PaperChat/internal/core"
	"PaperChat/internal/models"
	"PaperChat/pkg/logger"
)

// 下载 PDF 的整体超时（秒），论文体积可能到几十 MB
const downloadTimeoutSec = 60

// 文件名里的非法字符
var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Downloader 论文 PDF 下载器
// 文件名由 arxiv_id + 标题确定性生成，已存在的文件视为下载成功，
// 不会重复拉取；store 可以为 nil，此时只落盘不登记
type Downloader struct {
	dir        string
	httpClient *http.Client
	store      db.DownloadStore
}

// Result 单次下载的结果
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FilePath string `json:"file_path,omitempty"`
}

func New(dir string, proxy string, store db.DownloadStore) *Downloader {
	if dir == "" {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".paperchat", "pdfs")
	}
	return &Downloader{
		dir:        dir,
		httpClient: core.NewHTTPClient(downloadTimeoutSec, proxy),
		store:      store,
	}
}

// DownloadPDF 下载一篇论文的 PDF
// 下载失败不返回 error，而是在 Result 里说明，方便透传给前端展示
func (d *Downloader) DownloadPDF(ctx context.Context, arxivID, title, pdfURL string) (*Result, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return nil, fmt.Errorf("创建下载目录失败: %w", err)
	}

	filename := buildFilename(arxivID, title)
	filePath := filepath.Join(d.dir, filename)

	// 已存在就直接算成功
	if info, err := os.Stat(filePath); err == nil {
		d.record(arxivID, title, filePath, info.Size())
		return &Result{
			Success:  true,
			Message:  "论文已存在，无需重复下载。",
			FilePath: filePath,
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建下载请求失败: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		logger.Warn("下载失败: %s: %v", pdfURL, err)
		return &Result{Success: false, Message: fmt.Sprintf("下载失败：%v", err)}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Result{Success: false, Message: fmt.Sprintf("下载失败：HTTP %d", resp.StatusCode)}, nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("创建文件失败: %w", err)
	}
	written, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil || closeErr != nil {
		os.Remove(filePath) // 半截文件不留
		if err == nil {
			err = closeErr
		}
		return &Result{Success: false, Message: fmt.Sprintf("下载失败：%v", err)}, nil
	}

	logger.Info("下载完成: %s (%d bytes)", filename, written)
	d.record(arxivID, title, filePath, written)

	return &Result{
		Success:  true,
		Message:  fmt.Sprintf("下载成功：%s", filename),
		FilePath: filePath,
	}, nil
}

// List 列出已下载的论文，优先走登记表，没有配置时退回扫目录
func (d *Downloader) List() ([]*models.DownloadedPaper, error) {
	if d.store != nil {
		return d.store.List()
	}

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var papers []*models.DownloadedPaper
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		papers = append(papers, &models.DownloadedPaper{
			Title:        strings.TrimSuffix(e.Name(), ".pdf"),
			FilePath:     filepath.Join(d.dir, e.Name()),
			FileSize:     info.Size(),
			DownloadedAt: info.ModTime(),
		})
	}
	return papers, nil
}

func (d *Downloader) record(arxivID, title, filePath string, size int64) {
	if d.store == nil {
		return
	}
	err := d.store.Record(&models.DownloadedPaper{
		ArxivID:  arxivID,
		Title:    title,
		FilePath: filePath,
		FileSize: size,
	})
	if err != nil {
		logger.Warn("登记下载记录失败: %v", err)
	}
}

// buildFilename 生成确定性的文件名：<id>_<标题>.pdf
// id 中的点和斜杠换成下划线，标题去掉非法字符并截断到 100 字符
func buildFilename(arxivID, title string) string {
	safeID := strings.NewReplacer("/", "_", ".", "_").Replace(arxivID)
	return fmt.Sprintf("%s_%s.pdf", safeID, sanitizeFilename(title))
}

func sanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
