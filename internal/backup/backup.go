// Package backup uploads nightly database snapshots to S3-compatible
// storage. A snapshot is taken with VACUUM INTO, so the live database stays
// untouched while the copy is made.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3 target and schedule configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	DBPath    string
	Hour      int // UTC hour of the nightly run
}

// Enabled reports whether the config is complete enough to upload.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Status describes the manager's last run.
type Status struct {
	Enabled    bool       `json:"enabled"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// Manager runs the nightly snapshot loop.
type Manager struct {
	mu     sync.RWMutex
	cfg    Config
	db     *sql.DB
	client s3Client
	log    *slog.Logger
	status Status

	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config, db *sql.DB, log *slog.Logger) *Manager {
	m := &Manager{
		cfg: cfg,
		db:  db,
		log: log.With("component", "backup"),
	}
	if cfg.Enabled() {
		m.client = newS3Client(cfg)
		m.status.Enabled = true
	}
	return m
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start begins the schedule loop. A no-op when the config is incomplete.
func (m *Manager) Start(ctx context.Context) {
	if !m.cfg.Enabled() {
		m.log.Info("backups disabled, no bucket configured")
		return
	}

	m.mu.Lock()
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().UTC()
				if now.Hour() != m.cfg.Hour || now.Minute() != 0 {
					continue
				}
				if err := m.Run(ctx); err != nil {
					m.log.Error("nightly backup failed", "error", err)
				}
			}
		}
	}()
}

// Stop gracefully stops the loop.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Status returns the last run outcome.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Run takes a snapshot and uploads it. Callable directly for on-demand
// backups.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("backup not configured")
	}

	timestamp := time.Now().UTC().Format("2006-01-02T150405Z")
	key := fmt.Sprintf("snapshots/eclat-%s.db", timestamp)
	snapshot := filepath.Join(os.TempDir(), fmt.Sprintf("eclat-snapshot-%s.db", timestamp))
	defer os.Remove(snapshot)

	// VACUUM INTO writes a consistent copy without blocking writers.
	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		m.recordError(err)
		return fmt.Errorf("vacuum into: %w", err)
	}

	file, err := os.Open(snapshot)
	if err != nil {
		m.recordError(err)
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		m.recordError(err)
		return fmt.Errorf("stat snapshot: %w", err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(stat.Size()),
	})
	if err != nil {
		m.recordError(err)
		return fmt.Errorf("upload to s3: %w", err)
	}

	now := time.Now().UTC()
	m.mu.Lock()
	m.status.LastBackup = &now
	m.status.LastError = ""
	m.mu.Unlock()

	m.log.Info("backup uploaded", "key", key, "bytes", stat.Size())
	return nil
}

func (m *Manager) recordError(err error) {
	m.mu.Lock()
	m.status.LastError = err.Error()
	m.mu.Unlock()
}
