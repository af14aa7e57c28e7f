package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"PaperChat/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	db *sql.DB
}

func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("无法创建目录，请检查权限问题: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("无法打开数据库，请检查权限问题: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}

	sqlDB := &DB{db: db}

	if err := sqlDB.initTable(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库创建失败: %w", err)
	}

	return sqlDB, nil
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) initTable() error {
	schema := `
CREATE TABLE IF NOT EXISTS downloads (
  arxiv_id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  file_path TEXT NOT NULL,
  file_size INTEGER NOT NULL,
  downloaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_downloads_time ON downloads(downloaded_at);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Record 登记一次下载，重复下载同一篇时覆盖旧记录
func (d *DB) Record(p *models.DownloadedPaper) error {
	query := `
	INSERT INTO downloads (arxiv_id, title, file_path, file_size, downloaded_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(arxiv_id) DO UPDATE SET
		title = excluded.title,
		file_path = excluded.file_path,
		file_size = excluded.file_size,
		downloaded_at = CURRENT_TIMESTAMP
	`

	_, err := d.db.Exec(query, p.ArxivID, p.Title, p.FilePath, p.FileSize)
	return err
}

// List 按下载时间倒序返回全部记录
func (d *DB) List() ([]*models.DownloadedPaper, error) {
	rows, err := d.db.Query(`
	SELECT arxiv_id, title, file_path, file_size, downloaded_at
	FROM downloads
	ORDER BY downloaded_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []*models.DownloadedPaper
	for rows.Next() {
		p := &models.DownloadedPaper{}
		var ts string
		if err := rows.Scan(&p.ArxivID, &p.Title, &p.FilePath, &p.FileSize, &ts); err != nil {
			return nil, err
		}
		if t, err := time.Parse("2006-01-02 15:04:05", ts); err == nil {
			p.DownloadedAt = t
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
