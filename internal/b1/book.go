// Package b1 reads the B1 salary review workbook: one sheet per block, a header
// row and then one row per position with its average and median monthly salary.
package b1

import (
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/aggregate"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

const (
	colPosition = iota
	colAvg
	colMedian
)

// Book holds the blocks of a loaded workbook
type Book struct {
	path   string
	blocks []models.Block
}

// Empty returns a book without blocks
func Empty() *Book {
	return &Book{}
}

// Open reads every sheet of the workbook at path as a block, in sheet order.
// Empty sheets are skipped.
func Open(path string) (*Book, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.StorageError("B1 workbook not found: "+path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.StorageError("open B1 workbook", err)
	}
	defer f.Close()

	book := &Book{path: path}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.StorageError("read sheet "+sheet, err)
		}
		block := parseSheet(sheet, rows)
		if len(block.Positions) == 0 {
			continue
		}
		book.blocks = append(book.blocks, block)
	}
	return book, nil
}

// Path returns the workbook the book was read from
func (b *Book) Path() string {
	return b.path
}

// Blocks lists block names in workbook order
func (b *Book) Blocks() []models.BlockRef {
	out := make([]models.BlockRef, len(b.blocks))
	for i, block := range b.blocks {
		out[i] = models.BlockRef{Name: block.Name}
	}
	return out
}

// Block returns the block at index
func (b *Book) Block(index int) (*models.Block, error) {
	if index < 0 || index >= len(b.blocks) {
		return nil, errors.NotFound("Block")
	}
	block := b.blocks[index]
	block.Positions = append([]models.Position(nil), block.Positions...)
	return &block, nil
}

// Summary computes block metrics over the display salary of each position,
// skipping positions without one
func Summary(block models.Block) aggregate.SummaryMetrics {
	values := make([]float64, 0, len(block.Positions))
	for _, p := range block.Positions {
		if v, ok := p.MonthlySalary.Display(); ok {
			values = append(values, v)
		}
	}
	return aggregate.ComputeSummary(values)
}

func parseSheet(name string, rows [][]string) models.Block {
	block := models.Block{Name: strings.TrimSpace(name), Positions: []models.Position{}}
	if len(rows) < 2 {
		return block
	}

	for _, row := range rows[1:] {
		position := strings.TrimSpace(cell(row, colPosition))
		if position == "" {
			continue
		}
		block.Positions = append(block.Positions, models.Position{
			Name: position,
			MonthlySalary: models.MonthlySalary{
				Avg:    parseAmount(cell(row, colAvg)),
				Median: parseAmount(cell(row, colMedian)),
			},
		})
	}
	return block
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseAmount reads "93 808,50"-style amounts; empty or unparsable cells are absent
func parseAmount(s string) *float64 {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "₽", "", ",", ".").Replace(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
