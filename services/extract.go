package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// Extraction error taxonomy. All three are recoverable: the caller aborts
// the review attempt, never the session.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtractionFailure = errors.New("document text extraction failed")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
)

const extractionTimeout = 20 * time.Second

// ExtractText converts an uploaded binary into plain text. The format is
// chosen by file extension; anything outside pdf/doc/docx is rejected
// before a parser runs.
func ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".doc", ".docx":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmptyDocument
	}

	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		var text string
		var err error
		if ext == ".pdf" {
			text, err = extractPDF(data)
		} else {
			text, err = extractDOCX(data)
		}
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: extraction timed out", ErrExtractionFailure)
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", ErrEmptyDocument
		}
		return text, nil
	}
}

// extractPDF concatenates the page text of a PDF in document order. The
// parser panics on some corrupt inputs, so calls are fenced with recover.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtractionFailure, r)
		}
	}()

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailure, rerr)
	}
	plain, rerr := reader.GetPlainText()
	if rerr != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailure, rerr)
	}
	var sb strings.Builder
	if _, rerr := io.Copy(&sb, plain); rerr != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailure, rerr)
	}
	return sb.String(), nil
}

// extractDOCX concatenates paragraph and table text in document order.
// Legacy .doc uploads go through the same parser; the ones that are not
// actually OOXML surface as an extraction failure.
func extractDOCX(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtractionFailure, r)
		}
	}()

	doc, rerr := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailure, rerr)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			sb.WriteString(fmt.Sprint(item))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
