package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// JSONLZstdWriter appends JSON lines to zstd compressed shards of at most
// shardSize lines each: <dir>/<prefix>-00000.jsonl.zst, <prefix>-00001...
type JSONLZstdWriter struct {
	dir       string
	prefix    string
	shardSize int

	mu    sync.Mutex
	lines int
	shard int
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
}

func NewJSONLZstdWriter(dir, prefix string, shardSize int) *JSONLZstdWriter {
	if shardSize <= 0 {
		shardSize = 1000
	}
	return &JSONLZstdWriter{
		dir:       dir,
		prefix:    prefix,
		shardSize: shardSize,
		shard:     -1,
	}
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil || w.lines >= w.shardSize {
		if err := w.rotateLocked(); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.lines += 1
	return nil
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) rotateLocked() error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	w.shard += 1
	f, err := os.OpenFile(w.pathForShard(w.shard), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.lines = 0
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		err1 = w.w.Flush()
	}
	if w.enc != nil {
		if err := w.enc.Close(); err1 == nil {
			err1 = err
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err1 == nil {
			err1 = err
		}
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForShard(shard int) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%05d.jsonl.zst", w.prefix, shard))
}

// Shards lists the shard files written under dir with the prefix, in order
func Shards(dir, prefix string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, prefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadShard calls fn with every line of a shard
func ReadShard(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line += 1
		if err := fn(sc.Bytes()); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	return sc.Err()
}

// ReadRecords decodes every record of a shard
func ReadRecords(path string, fn func(Record) error) error {
	return ReadShard(path, func(line []byte) error {
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return err
		}
		return fn(r)
	})
}

// JSONLSink writes records to one shard series per task
type JSONLSink struct {
	dir       string
	shardSize int

	mu      sync.Mutex
	writers map[string]*JSONLZstdWriter
}

var _ Sink = &JSONLSink{}

func NewJSONLSink(dir string, shardSize int) *JSONLSink {
	return &JSONLSink{
		dir:       dir,
		shardSize: shardSize,
		writers:   make(map[string]*JSONLZstdWriter),
	}
}

func (s *JSONLSink) Write(r Record) error {
	s.mu.Lock()
	w, ok := s.writers[r.Task]
	if !ok {
		w = NewJSONLZstdWriter(s.dir, r.Task, s.shardSize)
		s.writers[r.Task] = w
	}
	s.mu.Unlock()
	return w.Write(r)
}

func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	for _, w := range s.writers {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
