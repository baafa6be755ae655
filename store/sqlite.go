package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kas/models"

	_ "modernc.org/sqlite"
)

// 定长 UTC 格式，保证按字符串比较即按时间比较
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// SQLiteStore 基于单文件 sqlite 的存储，无需外部数据库
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 打开（必要时创建）sqlite 文件并执行迁移
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开 sqlite 数据库失败: %w", err)
	}
	// sqlite 写入串行化
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接 sqlite 数据库失败: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(sqliteTimeLayout, s, time.UTC)
}

const selectColumns = `SELECT id, tanggal, nama_keperluan, kategori, nominal, created_at FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		tx              models.Transaction
		date, createdAt string
		category        string
	)
	if err := row.Scan(&tx.ID, &date, &tx.Description, &category, &tx.Amount, &createdAt); err != nil {
		return tx, err
	}
	var err error
	if tx.Date, err = parseTime(date); err != nil {
		return tx, fmt.Errorf("解析交易日期失败: %w", err)
	}
	if tx.CreatedAt, err = parseTime(createdAt); err != nil {
		return tx, fmt.Errorf("解析创建时间失败: %w", err)
	}
	tx.Category = models.Category(category)
	return tx, nil
}

func (s *SQLiteStore) List(ctx context.Context, r *DateRange) ([]models.Transaction, error) {
	query := selectColumns
	var args []any
	if r != nil {
		query += ` WHERE tanggal >= ? AND tanggal <= ?`
		args = append(args, formatTime(r.Start), formatTime(r.End))
	}
	query += ` ORDER BY tanggal DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询交易失败: %w", err)
	}
	defer rows.Close()

	list := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("查询交易失败: %w", err)
	}
	return list, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询交易失败: %w", err)
	}
	return &tx, nil
}

func (s *SQLiteStore) Create(ctx context.Context, tx *models.Transaction) error {
	tx.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (tanggal, nama_keperluan, kategori, nominal, created_at) VALUES (?, ?, ?, ?, ?)`,
		formatTime(tx.Date), tx.Description, string(tx.Category), tx.Amount, formatTime(tx.CreatedAt))
	if err != nil {
		return fmt.Errorf("创建交易失败: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("获取交易 ID 失败: %w", err)
	}
	tx.ID = uint(id)
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, id uint, f models.TransactionFields) (*models.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET tanggal = ?, nama_keperluan = ?, kategori = ?, nominal = ? WHERE id = ?`,
		formatTime(f.Date), f.Description, string(f.Category), f.Amount, id)
	if err != nil {
		return nil, fmt.Errorf("更新交易失败: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id uint) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("删除交易失败: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) DeleteMatching(ctx context.Context, description string, category models.Category) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE nama_keperluan = ? AND kategori = ?`,
		description, string(category))
	if err != nil {
		return 0, fmt.Errorf("删除交易失败: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
