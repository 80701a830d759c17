package document

import (
	"context"
	"fmt"

	documenterrors "go-pfund/internal/document/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=document_service.go -destination=mock/document_service_mock.go -package=mock

// Checker is the document-completeness collaborator consulted before a
// request may enter the approval stage.
type Checker interface {
	IsComplete(ctx context.Context, domain string, requestID uuid.UUID) (bool, []string, error)
}

type Service interface {
	Checker
	Attach(ctx context.Context, domain string, requestID, uploadedBy uuid.UUID, docType, fileName string) (RequestDocument, error)
	List(ctx context.Context, domain string, requestID uuid.UUID) ([]RequestDocument, error)
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("document.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.service")
	}
	return &service{repo: repo, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Attach(ctx context.Context, domain string, requestID, uploadedBy uuid.UUID, docType, fileName string) (RequestDocument, error) {
	if !IsKnownType(domain, docType) {
		return RequestDocument{}, documenterrors.ErrUnknownDocType
	}

	d := RequestDocument{
		ID:         uuid.New(),
		RequestID:  requestID,
		Domain:     domain,
		DocType:    docType,
		FileName:   fileName,
		UploadedBy: uploadedBy,
	}
	if err := s.repo.Create(ctx, &d); err != nil {
		s.logger.Error("attach document failed",
			zap.String("request_id", requestID.String()),
			zap.String("doc_type", docType),
			zap.Error(err),
		)
		return RequestDocument{}, err
	}

	s.logger.Info("document attached",
		zap.String("request_id", requestID.String()),
		zap.String("doc_type", docType),
	)
	return d, nil
}

func (s *service) List(ctx context.Context, domain string, requestID uuid.UUID) ([]RequestDocument, error) {
	return s.repo.FindByRequest(ctx, requestID, domain)
}

type completeness struct {
	complete bool
	missing  []string
}

// IsComplete compares uploaded document types against the domain checklist.
// Concurrent checks for the same request are deduplicated via singleflight.
func (s *service) IsComplete(ctx context.Context, domain string, requestID uuid.UUID) (bool, []string, error) {
	key := fmt.Sprintf("doccheck:%s:%s", domain, requestID)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		uploaded, err := s.repo.ListTypes(ctx, requestID, domain)
		if err != nil {
			return nil, err
		}

		have := make(map[string]struct{}, len(uploaded))
		for _, t := range uploaded {
			have[t] = struct{}{}
		}

		var missing []string
		for _, t := range RequiredTypes(domain) {
			if _, ok := have[t]; !ok {
				missing = append(missing, t)
			}
		}
		return completeness{complete: len(missing) == 0, missing: missing}, nil
	})
	if err != nil {
		return false, nil, err
	}

	result := v.(completeness)
	return result.complete, result.missing, nil
}
