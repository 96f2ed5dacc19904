package invoice

import (
	"bytes"
	"fmt"
	"io"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of a PDF held in r.
func ExtractText(r io.ReaderAt, size int64) (string, error) {
	rd, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: open: %v", ErrUnreadablePDF, err)
	}
	return plainText(rd)
}

// ExtractTextFile opens the PDF at path and returns its plain text.
func ExtractTextFile(path string) (string, error) {
	f, rd, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open: %v", ErrUnreadablePDF, err)
	}
	defer f.Close()
	return plainText(rd)
}

func plainText(rd *pdf.Reader) (string, error) {
	rc, err := rd.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: extract text: %v", ErrUnreadablePDF, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return "", fmt.Errorf("%w: read text: %v", ErrUnreadablePDF, err)
	}
	return buf.String(), nil
}

// ParsePDF extracts the text of an uploaded PDF and parses it.
func ParsePDF(r io.ReaderAt, size int64) (*Invoice, error) {
	text, err := ExtractText(r, size)
	if err != nil {
		return nil, err
	}
	return ParseText(text)
}

// ParsePDFFile is ParsePDF for a file on disk.
func ParsePDFFile(path string) (*Invoice, error) {
	text, err := ExtractTextFile(path)
	if err != nil {
		return nil, err
	}
	return ParseText(text)
}
