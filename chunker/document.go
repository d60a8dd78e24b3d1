package chunker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sevigo/chunker/schema"
)

// DocumentSplitter runs a chunker over whole documents, producing one
// document per chunk with position metadata merged into the original
// metadata.
type DocumentSplitter struct {
	chunker Chunker
	logger  *slog.Logger
}

// NewDocumentSplitter wraps a chunker for document pipelines.
func NewDocumentSplitter(c Chunker, logger *slog.Logger) (*DocumentSplitter, error) {
	if c == nil {
		return nil, errors.New("chunker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentSplitter{
		chunker: c,
		logger:  logger.With("component", "document_splitter"),
	}, nil
}

// SplitDocuments chunks each document's content. A document that cannot be
// split is kept whole rather than failing the batch.
func (s *DocumentSplitter) SplitDocuments(ctx context.Context, docs []schema.Document) ([]schema.Document, error) {
	finalDocs := make([]schema.Document, 0, len(docs))
	for _, doc := range docs {
		records, err := s.chunker.ChunkRecords(doc.PageContent)
		if err != nil {
			s.logger.WarnContext(ctx, "could not split document, keeping original",
				"source", doc.Metadata["source"], "error", err)
			finalDocs = append(finalDocs, doc)
			continue
		}
		for _, record := range records {
			metadata := make(map[string]any, len(doc.Metadata)+3)
			for k, v := range doc.Metadata {
				metadata[k] = v
			}
			metadata["start_index"] = record.StartIndex
			metadata["end_index"] = record.EndIndex
			metadata["token_count"] = record.TokenCount
			finalDocs = append(finalDocs, schema.NewDocument(record.Text, metadata))
		}
	}
	return finalDocs, nil
}
