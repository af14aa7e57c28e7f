package models

import (
	"strings"
	"time"
)

// Paper 统一的论文数据模型，对应一条 arXiv 搜索结果
// RelevanceScore / RelevanceReason 在排序前为 nil，由 Ranker 填充；
// 跨轮次只通过调用方回传 current_papers 来延续
type Paper struct {
	ArxivID         string   `json:"arxiv_id"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract"`
	Published       string   `json:"published"` // YYYY-MM-DD，字典序即时间序
	Categories      []string `json:"categories"`
	PDFURL          string   `json:"pdf_url"`
	RelevanceScore  *float64 `json:"relevance_score"`
	RelevanceReason *string  `json:"relevance_reason"`
}

// AuthorsCSV 返回以逗号分隔的作者名
func (p *Paper) AuthorsCSV() string {
	return strings.Join(p.Authors, ", ")
}

// CategoriesCSV 返回以逗号分隔的类别
func (p *Paper) CategoriesCSV() string {
	return strings.Join(p.Categories, ", ")
}

// DownloadedPaper 已下载到本地的论文记录
type DownloadedPaper struct {
	ArxivID      string    `json:"arxiv_id"`
	Title        string    `json:"title"`
	FilePath     string    `json:"file_path"`
	FileSize     int64     `json:"file_size"`
	DownloadedAt time.Time `json:"downloaded_at"`
}
