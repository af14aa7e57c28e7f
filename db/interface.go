package db

import (
	"PaperChat/internal/models"
)

// DownloadStore 已下载论文的登记表
// 为 postgreSql 保留一下接口，理论上本地服务用 sqlite 就够了
type DownloadStore interface {
	Record(d *models.DownloadedPaper) error

	List() ([]*models.DownloadedPaper, error)

	Close() error
}
