package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/product/domain"
	"github.com/xuri/excelize/v2"
)

var ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")

// ImportColumns is the expected header of an inventory spreadsheet.
var ImportColumns = []string{"name", "category", "price", "stock", "reorderLevel", "supplier"}

type ImportResult struct {
	Created     []domain.Product `json:"created"`
	SkippedRows []int            `json:"skippedRows"` // 1-based spreadsheet row numbers
}

// Importer bulk-creates products from the first sheet of an xlsx workbook.
type Importer struct {
	products ProductService
}

func NewImporter(ps ProductService) *Importer {
	return &Importer{products: ps}
}

func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}
	defer xlsx.Close()

	sheets := xlsx.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidSpreadsheet)
	}
	rows, err := xlsx.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}

	result := &ImportResult{Created: []domain.Product{}, SkippedRows: []int{}}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		in, err := parseImportRow(row)
		if err != nil {
			logger.Warn("Import: skipping row %d: %v", i+1, err)
			result.SkippedRows = append(result.SkippedRows, i+1)
			continue
		}
		p, err := im.products.CreateProduct(ctx, in)
		if err != nil {
			logger.Warn("Import: row %d rejected: %v", i+1, err)
			result.SkippedRows = append(result.SkippedRows, i+1)
			continue
		}
		result.Created = append(result.Created, *p)
	}
	return result, nil
}

func parseImportRow(row []string) (domain.ProductInput, error) {
	if len(row) < len(ImportColumns) {
		return domain.ProductInput{}, fmt.Errorf("expected %d columns, got %d", len(ImportColumns), len(row))
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return domain.ProductInput{}, fmt.Errorf("price: %w", err)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return domain.ProductInput{}, fmt.Errorf("stock: %w", err)
	}
	reorder, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil {
		return domain.ProductInput{}, fmt.Errorf("reorderLevel: %w", err)
	}
	in := domain.ProductInput{
		Name:         row[0],
		Category:     row[1],
		Price:        price,
		Stock:        stock,
		ReorderLevel: reorder,
		Supplier:     row[5],
	}
	return in, in.Validate()
}
