package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Document extraction discriminators.
const (
	ExtractText           = "text"
	ExtractTables         = "tables"
	ExtractMetadata       = "metadata"
	ExtractStructuredData = "structured_data"
)

// DocumentInput is the document_processor parameter shape. Document is
// either inline HTML markup or the path of a local HTML file.
type DocumentInput struct {
	Document       string `json:"document" jsonschema_description:"Inline HTML markup or the path of a local HTML document"`
	ExtractionType string `json:"extractionType" jsonschema_description:"What to extract: text, tables, metadata, or structured_data"`
}

// TextResult is the readable article content of a document.
type TextResult struct {
	Title   string `json:"title,omitempty"`
	Text    string `json:"text"`
	Excerpt string `json:"excerpt,omitempty"`
	Length  int    `json:"length"`
}

// Table is one extracted table: the header row (if present) and data rows.
type Table struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows"`
}

// TablesResult lists every table found in the document.
type TablesResult struct {
	Count  int     `json:"count"`
	Tables []Table `json:"tables"`
}

// MetadataResult carries document title, description, and meta tags.
type MetadataResult struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Language    string            `json:"language,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// StructuredDataResult lists the JSON-LD blocks embedded in the document.
type StructuredDataResult struct {
	Count int   `json:"count"`
	Items []any `json:"items"`
}

// NewDocumentProcessor builds the document_processor tool definition.
// Parsing is delegated to goquery and go-readability; this tool's
// contract is the extraction-type to result-shape mapping.
func NewDocumentProcessor() (*Definition, error) {
	return New(
		"document_processor",
		"Extract content from HTML business documents: readable text, "+
			"tables, metadata, and embedded structured data (JSON-LD).",
		func(_ context.Context, input DocumentInput) (any, error) {
			return ProcessDocument(input)
		},
	)
}

// ProcessDocument dispatches on the extractionType discriminator.
func ProcessDocument(input DocumentInput) (any, error) {
	markup, err := resolveDocument(input.Document)
	if err != nil {
		return nil, err
	}

	switch input.ExtractionType {
	case ExtractText:
		return extractText(markup)
	case ExtractTables:
		return extractTables(markup)
	case ExtractMetadata:
		return extractMetadata(markup)
	case ExtractStructuredData:
		return extractStructuredData(markup)
	default:
		return nil, &ToolError{
			ErrorType: "UnknownExtraction",
			Message:   fmt.Sprintf("unknown extraction type %q", input.ExtractionType),
		}
	}
}

// resolveDocument returns the HTML markup for a document reference.
// Inline markup is detected by a leading angle bracket; anything else
// is treated as a local file path.
func resolveDocument(document string) (string, error) {
	if document == "" {
		return "", &ToolError{ErrorType: "InvalidArguments", Message: "document must not be empty"}
	}
	if strings.HasPrefix(strings.TrimSpace(document), "<") {
		return document, nil
	}

	data, err := os.ReadFile(document)
	if err != nil {
		return "", &ToolError{
			ErrorType: "DocumentNotFound",
			Message:   fmt.Sprintf("failed to read document %q: %v", document, err),
		}
	}
	return string(data), nil
}

// extractText pulls readable article content via go-readability,
// falling back to stripped body text when the readability pass finds
// nothing (e.g., fragment markup without an article structure).
func extractText(markup string) (*TextResult, error) {
	article, err := readability.FromReader(strings.NewReader(markup), &url.URL{})
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		text := strings.TrimSpace(article.TextContent)
		return &TextResult{
			Title:   article.Title,
			Text:    text,
			Excerpt: article.Excerpt,
			Length:  len(text),
		}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &ToolError{ErrorType: "ParseFailure", Message: fmt.Sprintf("failed to parse document: %v", err)}
	}

	text := strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
	return &TextResult{
		Title:  doc.Find("title").First().Text(),
		Text:   text,
		Length: len(text),
	}, nil
}

// extractTables converts every <table> to headers plus data rows.
func extractTables(markup string) (*TablesResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &ToolError{ErrorType: "ParseFailure", Message: fmt.Sprintf("failed to parse document: %v", err)}
	}

	tables := make([]Table, 0)
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		var table Table

		sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
			headers := cellText(row.Find("th"))
			if len(headers) > 0 && table.Headers == nil {
				table.Headers = headers
				return
			}
			if cells := cellText(row.Find("td")); len(cells) > 0 {
				table.Rows = append(table.Rows, cells)
			}
		})

		if table.Headers != nil || len(table.Rows) > 0 {
			tables = append(tables, table)
		}
	})

	return &TablesResult{Count: len(tables), Tables: tables}, nil
}

// cellText collects trimmed text from a cell selection.
func cellText(cells *goquery.Selection) []string {
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}

// extractMetadata collects the title, description, language, and all
// named meta tags.
func extractMetadata(markup string) (*MetadataResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &ToolError{ErrorType: "ParseFailure", Message: fmt.Sprintf("failed to parse document: %v", err)}
	}

	result := &MetadataResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Meta:  make(map[string]string),
	}

	if lang, ok := doc.Find("html").Attr("lang"); ok {
		result.Language = lang
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			name, ok = sel.Attr("property")
		}
		content, hasContent := sel.Attr("content")
		if !ok || !hasContent {
			return
		}
		result.Meta[name] = content
		if name == "description" {
			result.Description = content
		}
	})

	return result, nil
}

// extractStructuredData parses application/ld+json script blocks.
// Malformed blocks are skipped rather than failing the whole document.
func extractStructuredData(markup string) (*StructuredDataResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &ToolError{ErrorType: "ParseFailure", Message: fmt.Sprintf("failed to parse document: %v", err)}
	}

	items := make([]any, 0)
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var item any
		if err := json.Unmarshal([]byte(sel.Text()), &item); err == nil {
			items = append(items, item)
		}
	})

	return &StructuredDataResult{Count: len(items), Items: items}, nil
}
