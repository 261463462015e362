package services

import (
	"context"
	"fmt"
	"io"

	"github.com/yungbote/promptsheet-backend/internal/platform/apierr"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
	"github.com/yungbote/promptsheet-backend/internal/sheets"
	"github.com/yungbote/promptsheet-backend/internal/validation"
)

type SheetReport struct {
	Sheets     sheets.SheetSet   `json:"sheets"`
	Order      []string          `json:"order,omitempty"`
	Validation validation.Result `json:"validation"`
}

type SheetService interface {
	// ValidateWorkbook parses an .xlsx upload and validates it.
	ValidateWorkbook(ctx context.Context, r io.Reader) (*SheetReport, error)
	ValidateSet(ctx context.Context, set sheets.SheetSet) *SheetReport
	WriteExample(ctx context.Context, w io.Writer) error
}

type sheetService struct {
	log *logger.Logger
}

func NewSheetService(log *logger.Logger) SheetService {
	return &sheetService{log: log.With("service", "SheetService")}
}

func (s *sheetService) ValidateWorkbook(ctx context.Context, r io.Reader) (*SheetReport, error) {
	set, order, err := sheets.ReadWorkbook(r)
	if err != nil {
		return nil, apierr.BadRequest("invalid_workbook", err)
	}
	rep := s.ValidateSet(ctx, set)
	rep.Order = order
	return rep, nil
}

func (s *sheetService) ValidateSet(ctx context.Context, set sheets.SheetSet) *SheetReport {
	if set == nil {
		set = sheets.SheetSet{}
	}
	res := validation.ValidateSheets(set)
	if !res.Status {
		s.log.Debug("Sheet set failed validation", "sheets", len(set), "messages", len(res.Message))
	}
	return &SheetReport{Sheets: set, Validation: res}
}

func (s *sheetService) WriteExample(ctx context.Context, w io.Writer) error {
	if err := sheets.WriteWorkbook(w, sheets.ExampleSet(), sheets.ExampleOrder); err != nil {
		return fmt.Errorf("write example workbook: %w", err)
	}
	return nil
}
