package extract

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"baliance.com/gooxml/document"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"gridchat/internal/models"
)

// CharLimit bounds extracted text before it enters the prompt.
const CharLimit = 200000

const sheetSeparator = "\n\n====================\n\n"

var blankLines = regexp.MustCompile(`\n\s*\n`)

// textExtensions are read verbatim as UTF-8.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".csv": true, ".json": true, ".xml": true,
	".yaml": true, ".yml": true, ".html": true, ".css": true, ".log": true,
	".go": true, ".js": true, ".ts": true, ".py": true, ".java": true,
	".c": true, ".cpp": true, ".h": true, ".sql": true, ".sh": true,
}

// Extractor converts uploaded files into prompt-ready text.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the wrapped text content of the file. It never fails hard:
// parse errors degrade to diagnostic strings so the message pipeline keeps
// going, and a missing path yields an empty result. Images are not handled
// here; the pipeline inlines them as binary content instead.
func (e *Extractor) Extract(file *models.UploadedFile) string {
	if file == nil || file.Path == "" {
		return ""
	}

	name := file.OriginalName
	if name == "" {
		name = filepath.Base(file.Path)
	}
	ext := strings.ToLower(filepath.Ext(name))
	mimeType := file.MimeType

	var (
		content     string
		displayType string
		err         error
	)

	switch {
	case ext == ".pdf" || mimeType == "application/pdf":
		content, err = extractPDF(file.Path)
		displayType = "PDF"
	case ext == ".docx" || ext == ".doc" || strings.Contains(mimeType, "word"):
		content, err = extractWordDocument(file.Path)
		if err != nil {
			content, err = ooxmlText(file.Path)
			displayType = "DOCX (generic)"
		} else {
			displayType = "DOCX"
		}
	case ext == ".xlsx" || ext == ".xls" || strings.Contains(mimeType, "spreadsheet"):
		content, displayType, err = extractWorkbook(file.Path)
	case ext == ".pptx" || ext == ".ppt" || strings.Contains(mimeType, "presentation"):
		content, err = ooxmlText(file.Path)
		displayType = "PPTX"
	default:
		content, err = readTextFile(file.Path, ext, mimeType)
		displayType = "CODE/TEXT"
	}

	if err != nil {
		log.Printf("extract %s failed: %v", name, err)
		return fmt.Sprintf("\n[SYSTEM ERROR: failed to read file %s. %v]", name, err)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Sprintf("\n[SYSTEM INFO: file %s empty or unreadable.]\n", name)
	}
	return wrap(name, displayType, content)
}

func wrap(name, displayType, content string) string {
	if len(content) > CharLimit {
		content = content[:CharLimit]
	}
	return fmt.Sprintf("\n\n[FILE START: %s (%s)]\n%s\n[FILE END]\n", name, displayType, content)
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return blankLines.ReplaceAllString(string(raw), "\n"), nil
}

func extractWordDocument(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// extractWorkbook renders every sheet as tab-delimited text with a
// [SHEET: name] marker. Sheets that serialize to nothing are skipped.
func extractWorkbook(path string) (string, string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return "", "", fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	var parts []string
	for _, sheet := range sheets {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			continue
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		body := strings.TrimSpace(strings.Join(lines, "\n"))
		if body == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[SHEET: %s]\n%s", sheet, body))
	}
	displayType := fmt.Sprintf("EXCEL (%d sheets)", len(sheets))
	return strings.Join(parts, sheetSeparator), displayType, nil
}

func readTextFile(path, ext, mimeType string) (string, error) {
	if !textExtensions[ext] && !strings.HasPrefix(mimeType, "text/") && mimeType != "" &&
		mimeType != "application/json" && mimeType != "application/octet-stream" {
		return "", fmt.Errorf("unsupported file type %s", mimeType)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(raw), nil
}
