package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/application/importer"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConflictMode controls what a batch import does with a record whose SKU
// already exists in the catalog
type ConflictMode string

const (
	// ConflictModeUpdate merges the record into the existing product
	ConflictModeUpdate ConflictMode = "update"
	// ConflictModeSkip leaves the existing product untouched
	ConflictModeSkip ConflictMode = "skip"
	// ConflictModeFail aborts the batch on the first existing SKU
	ConflictModeFail ConflictMode = "fail"
)

// IsValid reports whether the mode is one of the known modes
func (m ConflictMode) IsValid() bool {
	switch m {
	case ConflictModeUpdate, ConflictModeSkip, ConflictModeFail:
		return true
	default:
		return false
	}
}

// ImportRequest is one batch of product payloads
type ImportRequest struct {
	Language     string                 `json:"language"`
	ConflictMode ConflictMode           `json:"conflict_mode"`
	SkipBroken   bool                   `json:"skip_broken_records"`
	Products     []importer.ProductData `json:"products" binding:"required"`
}

// ImportService runs product batches through the import pipeline, applying
// the conflict mode and collecting broken records instead of aborting when
// the caller asks for it.
type ImportService struct {
	importer    *importer.Importer
	products    productExistenceChecker
	maxBatch    int
	errorBudget int
	log         *zap.Logger
}

type productExistenceChecker interface {
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
}

// NewImportService creates an import service. maxBatch bounds the records
// accepted per request, errorBudget the broken records kept per run.
func NewImportService(imp *importer.Importer, products productExistenceChecker, maxBatch, errorBudget int, log *zap.Logger) *ImportService {
	if maxBatch <= 0 {
		maxBatch = 1000
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportService{importer: imp, products: products, maxBatch: maxBatch, errorBudget: errorBudget, log: log}
}

// ImportProducts processes one batch and reports what happened per record
func (s *ImportService) ImportProducts(ctx context.Context, tenantID uuid.UUID, req ImportRequest) (*importer.ImportRunResult, error) {
	if len(req.Products) == 0 {
		return nil, shared.NewValidationError("products", "Batch contains no records")
	}
	if len(req.Products) > s.maxBatch {
		return nil, shared.NewValidationError("products", "Batch exceeds the maximum record count")
	}
	mode := req.ConflictMode
	if mode == "" {
		mode = ConflictModeUpdate
	}
	if !mode.IsValid() {
		return nil, shared.NewValidationError("conflict_mode", "Unknown conflict mode: "+string(mode))
	}
	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}

	scope := importer.Scope{TenantID: tenantID, Language: language}
	result := &importer.ImportRunResult{TotalRecords: len(req.Products)}
	broken := importer.NewErrorCollection(s.errorBudget)

	for index, data := range req.Products {
		skipped, created, err := s.importOne(ctx, scope, mode, data)
		if err != nil {
			if mode == ConflictModeFail && errors.Is(err, errSKUConflict) {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with SKU "+skuOf(data)+" already exists")
			}
			if !req.SkipBroken {
				return nil, err
			}
			broken.Add(importer.BrokenRecord{
				Index:  index,
				SKU:    skuOf(data),
				Reason: err.Error(),
				Data:   rawOf(data),
			})
			continue
		}
		switch {
		case skipped:
			result.SkippedCount++
		case created:
			result.CreatedCount++
		default:
			result.UpdatedCount++
		}
	}

	broken.ApplyTo(result)
	return result, nil
}

var errSKUConflict = errors.New("sku already exists")

func (s *ImportService) importOne(ctx context.Context, scope importer.Scope, mode ConflictMode, data importer.ProductData) (skipped, created bool, err error) {
	if sku, ok := data.SKU.Get(); ok && mode != ConflictModeUpdate {
		exists, err := s.products.ExistsBySKU(ctx, scope.TenantID, strings.ToUpper(sku))
		if err != nil {
			return false, false, err
		}
		if exists {
			if mode == ConflictModeSkip {
				return true, false, nil
			}
			return false, false, errSKUConflict
		}
	}

	run := s.importer.Product(scope, data)
	if err := run.Process(ctx); err != nil {
		return false, false, err
	}
	return false, run.Created, nil
}

func skuOf(data importer.ProductData) string {
	if sku, ok := data.SKU.Get(); ok {
		return strings.ToUpper(sku)
	}
	return ""
}

func rawOf(data importer.ProductData) json.RawMessage {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return raw
}
