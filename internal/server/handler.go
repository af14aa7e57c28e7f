package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"PaperChat/internal/chat"
	"PaperChat/internal/models"
	"PaperChat/pkg/download"
	"PaperChat/pkg/logger"
)

// Handler HTTP 请求处理器，会话状态完全由请求携带
type Handler struct {
	orchestrator *chat.Orchestrator
	downloader   *download.Downloader
}

func NewHandler(orchestrator *chat.Orchestrator, downloader *download.Downloader) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		downloader:   downloader,
	}
}

// Chat 处理一轮对话
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "请求格式不正确: " + err.Error()})
		return
	}

	result, err := h.orchestrator.ProcessTurn(c.Request.Context(), req.Message, req.History, req.CurrentPapers)
	if err != nil {
		var parseErr *chat.IntentParseError
		if errors.As(err, &parseErr) {
			logger.Error("意图解析失败，原始输出: %s", parseErr.Raw)
		} else {
			logger.Error("对话处理失败: %v", err)
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := ChatResponse{
		Reply:  result.Reply,
		Papers: result.Papers,
	}
	if result.SearchQuery != "" {
		q := result.SearchQuery
		resp.SearchQuery = &q
	}
	// 空列表序列化成 []，前端不用判 null
	if resp.Papers == nil {
		resp.Papers = []*models.Paper{}
	}
	c.JSON(http.StatusOK, resp)
}

// Download 下载一篇论文的 PDF
func (h *Handler) Download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "请求格式不正确: " + err.Error()})
		return
	}

	result, err := h.downloader.DownloadPDF(c.Request.Context(), req.ArxivID, req.Title, req.PDFURL)
	if err != nil {
		logger.Error("下载论文失败: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := DownloadResponse{
		Success: result.Success,
		Message: result.Message,
	}
	if result.FilePath != "" {
		p := result.FilePath
		resp.FilePath = &p
	}
	c.JSON(http.StatusOK, resp)
}

// ListDownloads 列出已下载的论文
func (h *Handler) ListDownloads(c *gin.Context) {
	papers, err := h.downloader.List()
	if err != nil {
		logger.Error("获取下载列表失败: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if papers == nil {
		papers = []*models.DownloadedPaper{}
	}
	c.JSON(http.StatusOK, papers)
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
