package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sequence"
)

// SequenceService exposes folio sequences for inspection
type SequenceService struct {
	allocator *sequence.Allocator
}

// NewSequenceService creates a new SequenceService over a non-transactional store
func NewSequenceService(store sequence.Store, policy sequence.Policy) *SequenceService {
	return &SequenceService{allocator: sequence.NewAllocator(store, policy, nil)}
}

// Peek returns the last number issued for the sequence. Nothing is consumed.
func (s *SequenceService) Peek(ctx context.Context, tenantID uuid.UUID, documentType, prefix string) (*SequenceResponse, error) {
	docType, err := sequence.ParseDocumentType(documentType)
	if err != nil {
		return nil, err
	}
	folio, err := s.allocator.Peek(ctx, tenantID, docType, prefix)
	if err != nil {
		return nil, err
	}
	return &SequenceResponse{
		DocumentType: folio.DocumentType.String(),
		Prefix:       folio.Prefix,
		LastNumber:   folio.Number,
		LastFolio:    folio.Value,
	}, nil
}
