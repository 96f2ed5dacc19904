package api

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/bher20/tariffmanager/internal/compare"
	"github.com/bher20/tariffmanager/internal/invoice"
	"github.com/bher20/tariffmanager/internal/tariff"
)

const maxInvoiceSize = 10 << 20

// InvoiceResponse is a parsed invoice, plus a recommendation when the
// caller asked for one.
type InvoiceResponse struct {
	Invoice        *invoice.Invoice        `json:"invoice"`
	Recommendation *compare.Recommendation `json:"recommendation,omitempty"`
}

// ParseInvoice reads the customer's current invoice. It accepts a
// multipart upload in field "file", a raw application/pdf body, or the
// extracted text as text/plain. With compare=true the parsed usage is
// compared against the catalog right away.
// @Summary Parse invoice
// @Tags Invoices
// @Accept multipart/form-data
// @Accept application/pdf
// @Accept plain
// @Produce json
// @Param file formData file false "Invoice PDF"
// @Param compare query bool false "Run a comparison with the parsed usage"
// @Param segment query string false "Customer segment for the comparison (default residential)"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} APIError
// @Security BearerAuth
// @Router /invoices/parse [post]
func (h *Handler) ParseInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.readInvoice(w, r)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	resp := InvoiceResponse{Invoice: inv}
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("compare")); ok {
		seg := h.segment
		if s := r.URL.Query().Get("segment"); s != "" {
			seg = tariff.Segment(s)
		}
		rec, err := h.compare.Evaluate(r.Context(), compare.Request{
			Type:            inv.Type,
			CustomerSegment: seg,
			CurrentBill:     inv.Total,
			Consumption:     inv.Consumption(),
			Regulated:       h.regulated,
		})
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
		resp.Recommendation = rec
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) readInvoice(w http.ResponseWriter, r *http.Request) (*invoice.Invoice, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	r.Body = http.MaxBytesReader(w, r.Body, maxInvoiceSize)

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxInvoiceSize); err != nil {
			return nil, badRequest("invalid multipart body: " + err.Error())
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, badRequest("missing form file \"file\"")
		}
		defer f.Close()
		return invoice.ParsePDF(f, hdr.Size)

	case "application/pdf":
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, badRequest("read body: " + err.Error())
		}
		return invoice.ParsePDF(bytes.NewReader(data), int64(len(data)))

	case "text/plain", "":
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, badRequest("read body: " + err.Error())
		}
		return invoice.ParseText(string(data))
	}
	return nil, badRequest("unsupported content type " + mediaType)
}

func badRequest(detail string) error {
	return &APIError{Type: ErrorTypeBadRequest, Title: http.StatusText(http.StatusBadRequest), Status: http.StatusBadRequest, Detail: detail}
}
