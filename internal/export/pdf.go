// Package export 将绘本排版为 PDF
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"coloringbook/internal/model"
)

const (
	attribution = "Created with Story Coloring Book"
	fontFamily  = "Helvetica"
	margin      = 20.0
)

// RenderPDF 渲染绘本：封面、故事正文（有段落时）、涂色页清单（有提示词时）
func RenderPDF(book model.Book) ([]byte, error) {
	pdf := layout(book)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func layout(book model.Book) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(book.Title, true)
	pdf.SetCreator(attribution, true)

	// 核心字体只支持 cp1252，UTF-8 文本需要转换
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	writeCover(pdf, tr, book)
	if len(book.Paragraphs) > 0 {
		writeStory(pdf, tr, book.Paragraphs)
	}
	if len(book.Prompts) > 0 {
		writePrompts(pdf, tr, book.Prompts)
	}
	return pdf
}

func writeCover(pdf *fpdf.Fpdf, tr func(string) string, book model.Book) {
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()
	pdf.SetY(pageH / 3)

	title := strings.TrimSpace(book.Title)
	if title == "" {
		title = "My Coloring Book"
	}
	pdf.SetFont(fontFamily, "B", 28)
	pdf.MultiCell(0, 12, tr(title), "", "C", false)

	if tagline := strings.TrimSpace(book.Tagline); tagline != "" {
		pdf.Ln(6)
		pdf.SetFont(fontFamily, "I", 16)
		pdf.MultiCell(0, 8, tr(tagline), "", "C", false)
	}

	if age := strings.TrimSpace(book.AgeRange); age != "" {
		pdf.Ln(4)
		pdf.SetFont(fontFamily, "", 12)
		pdf.MultiCell(0, 6, tr("Ages "+age), "", "C", false)
	}

	pdf.Ln(20)
	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(0, 6, tr(attribution), "", "C", false)
}

func writeStory(pdf *fpdf.Fpdf, tr func(string) string, paragraphs []string) {
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 20)
	pdf.MultiCell(0, 10, tr("The Story"), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 13)
	for _, p := range paragraphs {
		pdf.MultiCell(0, 7, tr(p), "", "L", false)
		pdf.Ln(4)
	}
}

func writePrompts(pdf *fpdf.Fpdf, tr func(string) string, prompts []model.PagePrompt) {
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 20)
	pdf.MultiCell(0, 10, tr("Coloring Pages"), "", "L", false)
	pdf.Ln(4)

	for _, p := range prompts {
		pdf.SetFont(fontFamily, "B", 13)
		pdf.MultiCell(0, 7, fmt.Sprintf("Page %d", p.Page), "", "L", false)
		pdf.SetFont(fontFamily, "", 12)
		pdf.MultiCell(0, 6, tr(p.Prompt), "", "L", false)
		pdf.Ln(3)
	}
}
