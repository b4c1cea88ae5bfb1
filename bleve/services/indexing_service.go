package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

type IndexingServiceInterface interface {
	IndexDocument(indexName, id string, document interface{}) error
	BulkIndexDocuments(indexName string, documents map[string]interface{}) error
	DeleteDocument(indexName, id string) error
	SearchIndex(indexName string, q query.Query, size, from int) (*bleve.SearchResult, error)
	GetDocument(indexName, id string) (map[string]interface{}, error)
	DeleteIndex(indexName string) error
	IndexExists(indexName string) (bool, error)
	DeleteAllIndices() error
	Close() error
}

// IndexingService owns the open bleve indexes. With an empty basePath the
// indexes live in memory only.
type IndexingService struct {
	mu       sync.Mutex
	indexes  map[string]bleve.Index
	logger   *zap.Logger
	basePath string
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexingService{
		indexes:  make(map[string]bleve.Index),
		logger:   logger,
		basePath: basePath,
	}
}

func (s *IndexingService) indexPath(indexName string) string {
	return filepath.Join(s.basePath, indexName+".bleve")
}

func (s *IndexingService) getOrCreateIndex(indexName string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[indexName]; ok {
		return idx, nil
	}

	mapping := bleve.NewIndexMapping()

	var (
		idx bleve.Index
		err error
	)
	if s.basePath == "" {
		idx, err = bleve.NewMemOnly(mapping)
	} else {
		fullPath := s.indexPath(indexName)
		idx, err = bleve.Open(fullPath)
		if err != nil {
			idx, err = bleve.New(fullPath, mapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", indexName, err)
	}

	s.indexes[indexName] = idx
	return idx, nil
}

// SearchIndex runs q and returns every stored field of each hit.
func (s *IndexingService) SearchIndex(indexName string, q query.Query, size, from int) (*bleve.SearchResult, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.String("index", indexName), zap.Error(err))
		return nil, err
	}

	searchRequest := bleve.NewSearchRequestOptions(q, size, from, false)
	searchRequest.Fields = []string{"*"}

	searchResult, err := idx.Search(searchRequest)
	if err != nil {
		s.logger.Error("Search failed", zap.String("index", indexName), zap.Error(err))
		return nil, err
	}
	return searchResult, nil
}

func (s *IndexingService) IndexDocument(indexName, id string, document interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.String("index", indexName), zap.Error(err))
		return err
	}

	if err := idx.Index(id, document); err != nil {
		s.logger.Error("Failed to index document", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Debug("Indexed document", zap.String("index", indexName), zap.String("id", id))
	return nil
}

func (s *IndexingService) BulkIndexDocuments(indexName string, documents map[string]interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.String("index", indexName), zap.Error(err))
		return err
	}

	batch := idx.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			s.logger.Error("Failed to add doc to batch", zap.String("id", id), zap.Error(err))
			return err
		}
	}

	if err := idx.Batch(batch); err != nil {
		s.logger.Error("Failed to execute batch", zap.String("index", indexName), zap.Error(err))
		return err
	}

	s.logger.Info("Bulk indexed documents", zap.String("index", indexName), zap.Int("count", len(documents)))
	return nil
}

func (s *IndexingService) DeleteDocument(indexName, id string) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		return err
	}

	if err := idx.Delete(id); err != nil {
		s.logger.Error("Failed to delete document", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// GetDocument returns the stored fields of one document.
func (s *IndexingService) GetDocument(indexName, id string) (map[string]interface{}, error) {
	searchResult, err := s.SearchIndex(indexName, bleve.NewDocIDQuery([]string{id}), 1, 0)
	if err != nil {
		return nil, err
	}
	if len(searchResult.Hits) == 0 {
		return nil, fmt.Errorf("document %s not found in %s", id, indexName)
	}
	return searchResult.Hits[0].Fields, nil
}

func (s *IndexingService) DeleteIndex(indexName string) error {
	s.mu.Lock()
	idx, exists := s.indexes[indexName]
	delete(s.indexes, indexName)
	s.mu.Unlock()

	if exists {
		if err := idx.Close(); err != nil {
			return fmt.Errorf("failed to close index %s: %w", indexName, err)
		}
	}
	if s.basePath == "" {
		return nil
	}

	if err := os.RemoveAll(s.indexPath(indexName)); err != nil {
		s.logger.Error("Failed to delete index files", zap.String("index", indexName), zap.Error(err))
		return fmt.Errorf("failed to delete index files: %w", err)
	}

	s.logger.Info("Deleted index", zap.String("index", indexName))
	return nil
}

func (s *IndexingService) IndexExists(indexName string) (bool, error) {
	if s.basePath == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.indexes[indexName]
		return ok, nil
	}
	_, err := os.Stat(s.indexPath(indexName))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// DeleteAllIndices drops every open index and any index directory left on disk.
func (s *IndexingService) DeleteAllIndices() error {
	s.mu.Lock()
	names := make([]string, 0, len(s.indexes))
	for name := range s.indexes {
		names = append(names, name)
	}
	s.mu.Unlock()

	var failed int
	for _, name := range names {
		if err := s.DeleteIndex(name); err != nil {
			failed++
		}
	}

	if s.basePath != "" {
		files, err := filepath.Glob(filepath.Join(s.basePath, "*.bleve"))
		if err != nil {
			return fmt.Errorf("failed to scan index directory: %w", err)
		}
		for _, file := range files {
			if err := os.RemoveAll(file); err != nil {
				failed++
				continue
			}
			s.logger.Info("Deleted orphaned index files", zap.String("index", strings.TrimSuffix(filepath.Base(file), ".bleve")))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d indices could not be deleted", failed)
	}
	return nil
}

func (s *IndexingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for name, idx := range s.indexes {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close index %s: %w", name, err)
		}
		delete(s.indexes, name)
	}
	return firstErr
}
