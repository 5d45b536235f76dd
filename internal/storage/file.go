package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"eos-mcp/internal/analytics"
)

// FileRecorder archives reports as JSON lines.
type FileRecorder struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure report dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to init report file: %w", err)
	}
	_ = f.Close()
	return &FileRecorder{path: path, now: time.Now}, nil
}

// OpenFileRecorder opens an existing archive without creating anything.
// A missing archive yields an error wrapping fs.ErrNotExist.
func OpenFileRecorder(path string) (*FileRecorder, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open report archive: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open report archive: %s is a directory", path)
	}
	return &FileRecorder{path: path, now: time.Now}, nil
}

func (r *FileRecorder) Path() string { return r.path }

func (r *FileRecorder) AppendReport(report *analytics.Report) (ReportRecord, error) {
	rec := ReportRecord{
		ID:         uuid.NewString(),
		RecordedAt: r.now().UTC(),
		Report:     report,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("open append: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return ReportRecord{}, fmt.Errorf("encode append: %w", err)
	}
	return rec, nil
}

// LoadReports reads every archived report. Lines that fail to decode are skipped.
func (r *FileRecorder) LoadReports() ([]ReportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open read: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	s := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	s.Buffer(buf, 10*1024*1024)
	var records []ReportRecord
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec ReportRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return records, nil
}
