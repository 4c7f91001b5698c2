package handlers

import (
	"fmt"
	"net/http"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	receiptService *services.ReceiptService
	exportService  *services.ExportService
}

func NewReceiptHandler(receiptService *services.ReceiptService, exportService *services.ExportService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, exportService: exportService}
}

// VoidRequest carries the reason a receipt is voided
type VoidRequest struct {
	Reason string `json:"reason"`
}

func receiptFilter(c *gin.Context) services.ReceiptFilter {
	return services.ReceiptFilter{
		Type:          c.Query("type"),
		Search:        c.Query("search"),
		IncludeVoided: c.Query("includeVoided") == "true",
		Page:          queryInt(c, "page", 1),
		Limit:         queryInt(c, "limit", 10),
	}
}

// @Summary List Receipts
// @Description Get a paginated list of receipts, newest first. Voided receipts are hidden unless includeVoided=true.
// @Tags Receipts
// @Produce json
// @Param type query string false "OFFICIAL_RECEIPT or COLLECTION_RECEIPT"
// @Param search query string false "Search by receipt number or payer"
// @Param includeVoided query bool false "Include voided receipts"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} map[string]interface{}
// @Security CookieAuth
// @Router /receipts [get]
func (h *ReceiptHandler) Index(c *gin.Context) {
	receipts, pagination, err := h.receiptService.List(c.Request.Context(), receiptFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		responses = append(responses, receipts[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"receipts": responses, "pagination": pagination})
}

// @Summary Get Receipt
// @Tags Receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) Show(c *gin.Context) {
	receipt, err := h.receiptService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt.ToResponse()})
}

// @Summary Issue Receipt
// @Description Issue an official or collection receipt, optionally linked to an approved application
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body services.ReceiptInput true "Receipt Data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	var in services.ReceiptInput
	if err := BindNestedOrFlat(c, "receipt", &in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.Issue(c.Request.Context(), in, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"receipt": receipt.ToResponse()})
}

// @Summary Void Receipt
// @Tags Receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param request body VoidRequest true "Void reason"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security CookieAuth
// @Router /receipts/{id}/void [post]
func (h *ReceiptHandler) Void(c *gin.Context) {
	var req VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.Void(c.Request.Context(), c.Param("id"), req.Reason, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt.ToResponse()})
}

// @Summary Receipt PDF
// @Description Printable receipt; voided receipts carry a VOID stamp
// @Tags Receipts
// @Produce application/pdf
// @Param id path string true "Receipt ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security CookieAuth
// @Router /receipts/{id}/pdf [get]
func (h *ReceiptHandler) PDF(c *gin.Context) {
	doc, err := h.exportService.ReceiptPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc, "inline")
}

// @Summary Export Receipts
// @Description Download the receipt register as CSV or XLSX. Filters match the list endpoint; pagination is ignored.
// @Tags Receipts
// @Produce text/csv
// @Param format query string false "csv or xlsx" default(csv)
// @Param type query string false "OFFICIAL_RECEIPT or COLLECTION_RECEIPT"
// @Param includeVoided query bool false "Include voided receipts"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Security CookieAuth
// @Router /receipts/export [get]
func (h *ReceiptHandler) Export(c *gin.Context) {
	doc, err := h.exportService.ExportReceipts(c.Request.Context(), receiptFilter(c), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, doc, "attachment")
}

func sendDocument(c *gin.Context, doc *services.Document, disposition string) {
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
