package server

import (
	"PaperChat/internal/models"
)

// ChatRequest 一轮对话请求，历史和当前列表都由前端带上来，服务端不存会话
type ChatRequest struct {
	Message       string               `json:"message" binding:"required"`
	History       []models.ChatMessage `json:"history"`
	CurrentPapers []*models.Paper      `json:"current_papers"`
}

// ChatResponse 一轮对话的结果
type ChatResponse struct {
	Reply       string          `json:"reply"`
	Papers      []*models.Paper `json:"papers"`
	SearchQuery *string         `json:"search_query"`
}

// DownloadRequest 下载请求
type DownloadRequest struct {
	ArxivID string `json:"arxiv_id" binding:"required"`
	Title   string `json:"title" binding:"required"`
	PDFURL  string `json:"pdf_url" binding:"required"`
}

// DownloadResponse 下载结果
type DownloadResponse struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	FilePath *string `json:"file_path"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}
