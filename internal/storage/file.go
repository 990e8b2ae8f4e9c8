package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "playout/pkg/logx"
)

// fileStore is a dependency-free persistence backend.
//
// Files:
//   - <prefix>.loads.jsonl (append-only JSON Lines, one record per load)
type fileStore struct {
	log logx.Logger

	mu sync.Mutex

	loadsPath string
	loadsFile *os.File
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	loadsPath := prefix + ".loads.jsonl"
	lf, err := os.OpenFile(loadsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &fileStore{
		log:       log,
		loadsPath: loadsPath,
		loadsFile: lf,
	}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadsFile != nil {
		err := s.loadsFile.Close()
		s.loadsFile = nil
		return err
	}
	return nil
}

func (s *fileStore) AppendLoad(ctx context.Context, e LoadEntry) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadsFile == nil {
		return errors.New("loads file closed")
	}
	return json.NewEncoder(s.loadsFile).Encode(e)
}

func (s *fileStore) RecentLoads(ctx context.Context, n int) ([]LoadEntry, error) {
	_ = ctx
	if n <= 0 {
		n = 20
	}

	s.mu.Lock()
	path := s.loadsPath
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	// The history file stays small (one line per day-load), so a full scan
	// keeping the last n entries is fine.
	var out []LoadEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e LoadEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			s.log.Debug("skipping corrupt history line", logx.Err(err))
			continue
		}
		out = append(out, e)
		if len(out) > n {
			out = out[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
