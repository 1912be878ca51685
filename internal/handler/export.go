package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"book-catalog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Books"

var exportHeaders = []string{"ID", "Title", "Author ID", "Author"}

// ExportHandler 导出图书目录
type ExportHandler struct {
	Books *BookHandler
}

func NewExportHandler(books *BookHandler) *ExportHandler {
	return &ExportHandler{Books: books}
}

func exportRow(v BookView) []string {
	return []string{v.Book.ID, v.Book.Title, v.Book.AuthorID, v.Author.Name}
}

func exportFilename(ext string) string {
	return fmt.Sprintf("books_%s.%s", time.Now().Format("20060102"), ext)
}

// ExportCSV GET /export/books.csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	views, _, err := h.Books.catalog()
	if err != nil {
		log.Printf("export csv: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("csv")))

	// UTF-8 BOM（让 Excel 正确识别非 ASCII 书名）
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeaders)
	for _, v := range views {
		_ = writer.Write(exportRow(v))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("export csv: %v", err)
	}
}

// ExportXLSX GET /export/books.xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	views, _, err := h.Books.catalog()
	if err != nil {
		log.Printf("export xlsx: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	f, err := buildWorkbook(views)
	if err != nil {
		log.Printf("export xlsx: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("xlsx")))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("export xlsx: %v", err)
	}
}

// buildWorkbook 生成单个工作表：表头 + 每本书一行
func buildWorkbook(views []BookView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, title := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for idx, v := range views {
		row := exportRow(v)
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", "B", 40)
	_ = f.SetColWidth(exportSheet, "C", "C", 38)
	_ = f.SetColWidth(exportSheet, "D", "D", 25)
	return f, nil
}
