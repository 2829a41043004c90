// FileCache provides read access to source files through memory-mapped regions.
//
// Sources handed to the parser are slices of the mapping, so repeated imports
// of the same module cost one open+mmap per process. Files stay mapped until
// Invalidate or Close; callers holding a slice past either must copy it.
//
// Safety Features:
//   - Optional MaxFiles and MaxMemoryMB limits
//   - Fallback to os.ReadFile when mmap fails
//   - Thread-safe with sync.RWMutex (parallel reads, exclusive loads)
package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides memory-mapped file access.
//
// Thread-safe: Multiple goroutines can call methods concurrently.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// Read returns the full contents of filePath. The slice aliases the
	// mapping and is valid until Invalidate(filePath) or Close.
	Read(filePath string) ([]byte, error)

	// Invalidate unmaps filePath so the next access reloads it from disk.
	// It reports whether the file was cached.
	Invalidate(filePath string) bool

	// Size returns number of currently cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases resources.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles is the maximum number of files to keep cached; 0 is unlimited.
	MaxFiles int

	// MaxMemoryMB limits mapped virtual memory (not resident RAM); 0 is unlimited.
	MaxMemoryMB int

	// EnableMetrics determines whether to track cache statistics.
	EnableMetrics bool

	// Logger for warnings; nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns limits that comfortably fit a component library.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:      10000,
		MaxMemoryMB:   2048,
		EnableMetrics: true,
	}
}

// UnboundedFileCacheConfig returns a config with no limits, for tests and small trees.
func UnboundedFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		EnableMetrics: true,
	}
}

// MappedFile represents a memory-mapped file.
type MappedFile struct {
	// Path is the path the file was loaded from.
	Path string

	// Data is the mapped region; nil for empty files.
	Data mmap.MMap

	// File is kept open for the lifetime of the mapping; nil for fallback entries.
	File *os.File

	// Size is the file size in bytes.
	Size int64

	// MappedAt is when this file was first mapped.
	MappedAt time.Time

	// fallback marks data read with os.ReadFile, which must not be unmapped.
	fallback bool
}

// FileCacheStats tracks cache performance metrics.
type FileCacheStats struct {
	// FilesLoaded is the total number of files loaded (cumulative).
	FilesLoaded int64

	// FilesCached is the current number of cached files.
	FilesCached int

	// CacheHits is the number of successful cache lookups (cumulative).
	CacheHits int64

	// CacheMisses is the number of lookups that failed to load a file (cumulative).
	CacheMisses int64

	// MmapFailures is the number of files read through the fallback path (cumulative).
	MmapFailures int64

	// Invalidations is the number of files dropped by Invalidate (cumulative).
	Invalidations int64

	// TotalMappedMB is the virtual memory currently mapped.
	TotalMappedMB float64
}

// NewFileCache creates a new FileCache. A nil config selects DefaultFileCacheConfig().
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &fileCacheImpl{
		config: config,
		cache:  make(map[string]*MappedFile),
		logger: logger,
	}
}

type fileCacheImpl struct {
	config *FileCacheConfig
	logger *slog.Logger

	cache map[string]*MappedFile
	mu    sync.RWMutex

	stats   FileCacheStats
	statsMu sync.Mutex
}

// Get returns the mapped file or loads it on first access.
func (fc *fileCacheImpl) Get(filePath string) (*MappedFile, error) {
	fc.mu.RLock()
	mf, ok := fc.cache[filePath]
	fc.mu.RUnlock()
	if ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if mf, ok := fc.cache[filePath]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if err := fc.checkLimitsLocked(stat.Size()); err != nil {
		fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, err
	}

	mf, err = fc.loadFile(filePath)
	if err != nil {
		fc.record(func(s *FileCacheStats) { s.CacheMisses++ })
		return nil, err
	}

	fc.cache[filePath] = mf
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })

	return mf, nil
}

// Read returns the whole file as a byte slice aliasing the mapping.
func (fc *fileCacheImpl) Read(filePath string) ([]byte, error) {
	mf, err := fc.Get(filePath)
	if err != nil {
		return nil, err
	}
	if len(mf.Data) == 0 {
		return []byte{}, nil
	}
	return mf.Data, nil
}

// checkLimitsLocked verifies that a file of newFileSize bytes fits. Requires mu held.
func (fc *fileCacheImpl) checkLimitsLocked(newFileSize int64) error {
	if fc.config.MaxFiles > 0 && len(fc.cache) >= fc.config.MaxFiles {
		return fmt.Errorf("FileCache limit reached: %d files (limit: %d files)",
			len(fc.cache), fc.config.MaxFiles)
	}

	if fc.config.MaxMemoryMB > 0 && newFileSize > 0 {
		currentMB := fc.totalMappedMBLocked()
		totalMB := currentMB + float64(newFileSize)/(1024*1024)
		if totalMB >= float64(fc.config.MaxMemoryMB) {
			return fmt.Errorf("FileCache memory limit reached: %.2f MB (limit: %d MB)",
				totalMB, fc.config.MaxMemoryMB)
		}
	}

	return nil
}

// loadFile opens and maps a file, falling back to os.ReadFile if mmap fails.
func (fc *fileCacheImpl) loadFile(filePath string) (*MappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%q is a directory", filePath)
	}

	// mmap rejects zero-length mappings.
	if stat.Size() == 0 {
		return &MappedFile{Path: filePath, File: file, MappedAt: time.Now()}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback",
			"file", filePath,
			"size", stat.Size(),
			"error", err)
		file.Close()

		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })

		return &MappedFile{
			Path:     filePath,
			Data:     mmap.MMap(raw),
			Size:     int64(len(raw)),
			MappedAt: time.Now(),
			fallback: true,
		}, nil
	}

	return &MappedFile{
		Path:     filePath,
		Data:     data,
		File:     file,
		Size:     stat.Size(),
		MappedAt: time.Now(),
	}, nil
}

// Invalidate unmaps and forgets filePath.
func (fc *fileCacheImpl) Invalidate(filePath string) bool {
	fc.mu.Lock()
	mf, ok := fc.cache[filePath]
	delete(fc.cache, filePath)
	fc.mu.Unlock()

	if !ok {
		return false
	}
	if err := release(mf); err != nil {
		fc.logger.Warn("failed to release file", "path", filePath, "error", err)
	}
	fc.record(func(s *FileCacheStats) { s.Invalidations++ })
	return true
}

// Size returns number of currently cached files.
func (fc *fileCacheImpl) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.cache)
}

// Stats returns current cache metrics.
func (fc *fileCacheImpl) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.cache)
	mappedMB := fc.totalMappedMBLocked()
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()

	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = mappedMB
	return stats
}

func (fc *fileCacheImpl) totalMappedMBLocked() float64 {
	var total int64
	for _, mf := range fc.cache {
		total += mf.Size
	}
	return float64(total) / (1024 * 1024)
}

// Close unmaps all files and releases resources.
func (fc *fileCacheImpl) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.cache {
		if err := release(mf); err != nil {
			fc.logger.Warn("failed to release file", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("release %q: %w", path, err))
		}
	}
	fc.cache = make(map[string]*MappedFile)

	fc.statsMu.Lock()
	fc.logger.Debug("FileCache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"cache_misses", fc.stats.CacheMisses,
		"mmap_failures", fc.stats.MmapFailures)
	fc.statsMu.Unlock()

	return errors.Join(errs...)
}

// release unmaps a file's region and closes its descriptor.
func release(mf *MappedFile) error {
	var errs []error
	if mf.Data != nil && !mf.fallback {
		if err := mf.Data.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
	}
	if mf.File != nil {
		if err := mf.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (fc *fileCacheImpl) record(update func(*FileCacheStats)) {
	if !fc.config.EnableMetrics {
		return
	}
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}
