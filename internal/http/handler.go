package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/contract-payments/internal/http/middleware"
	"github.com/nurpe/contract-payments/internal/http/response"
	"github.com/nurpe/contract-payments/internal/service"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	contracts *service.ContractService
	payments  *service.PaymentService
	admin     *service.AdminService
	health    HealthChecker
	log       zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	payments *service.PaymentService,
	admin *service.AdminService,
	health HealthChecker,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts: contracts,
		payments:  payments,
		admin:     admin,
		health:    health,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, profileAuth, adminAuth gin.HandlerFunc) {
	router.GET("/healthz", h.healthz)

	profiled := router.Group("/")
	profiled.Use(profileAuth)
	profiled.GET("/contracts/:id", h.getContract)
	profiled.GET("/contracts", h.listContracts)
	profiled.GET("/jobs/unpaid", h.listUnpaidJobs)
	profiled.POST("/jobs/:job_id/pay", h.payJob)
	profiled.GET("/jobs/:job_id/receipt", h.jobReceipt)

	router.POST("/balances/deposit/:userId", h.deposit)

	admin := router.Group("/admin")
	admin.Use(adminAuth)
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.GET("/best-clients/export", h.exportBestClients)
}

type contractURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

type jobURI struct {
	JobID uint `uri:"job_id" binding:"required,min=1"`
}

type depositURI struct {
	UserID uint `uri:"userId" binding:"required,min=1"`
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"money"`
}

type periodQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

type bestClientsQuery struct {
	periodQuery
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

var emptyData = []struct{}{}

func (h *Handler) getContract(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		response.Error(c, http.StatusForbidden, service.ErrMissingProfileID.Error())
		return
	}

	var uri contractURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), uri.ID, profile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Contract details", contract)
}

func (h *Handler) listContracts(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		response.Error(c, http.StatusForbidden, service.ErrMissingProfileID.Error())
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), profile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "List of contracts", contracts)
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		response.Error(c, http.StatusForbidden, service.ErrMissingProfileID.Error())
		return
	}

	jobs, err := h.contracts.ListUnpaidJobs(c.Request.Context(), profile)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "All unpaid jobs retrieved successfully", jobs)
}

func (h *Handler) payJob(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		response.Error(c, http.StatusForbidden, service.ErrMissingProfileID.Error())
		return
	}

	var uri jobURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	receipt, err := h.payments.PayJob(c.Request.Context(), uri.JobID, profile)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Uint("job_id", receipt.JobID).
		Uint("client_id", receipt.ClientID).
		Uint("contractor_id", receipt.ContractorID).
		Str("amount", receipt.Amount.String()).
		Msg("job paid")
	response.Success(c, http.StatusOK, "Payment successful", emptyData)
}

func (h *Handler) jobReceipt(c *gin.Context) {
	profile, ok := middleware.MustProfile(c)
	if !ok {
		response.Error(c, http.StatusForbidden, service.ErrMissingProfileID.Error())
		return
	}

	var uri jobURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, err := h.payments.Receipt(c.Request.Context(), uri.JobID, profile)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) deposit(c *gin.Context) {
	var uri depositURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.payments.Deposit(c.Request.Context(), uri.UserID, req.Amount); err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Uint("user_id", uri.UserID).
		Str("amount", req.Amount.String()).
		Msg("deposit accepted")
	response.Success(c, http.StatusOK, "Deposit successful", emptyData)
}

func (h *Handler) bestProfession(c *gin.Context) {
	var query periodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	period, err := query.period()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.admin.BestProfession(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Data retrieved successfully", result)
}

func (h *Handler) bestClients(c *gin.Context) {
	query, period, ok := h.bindBestClients(c)
	if !ok {
		return
	}

	clients, err := h.admin.BestClients(c.Request.Context(), period, query.Limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Data retrieved successfully", clients)
}

func (h *Handler) exportBestClients(c *gin.Context) {
	query, period, ok := h.bindBestClients(c)
	if !ok {
		return
	}

	result, err := h.admin.ExportBestClients(c.Request.Context(), period, query.Limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) bindBestClients(c *gin.Context) (bestClientsQuery, service.Period, bool) {
	var query bestClientsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, validationMessage(err))
		return query, service.Period{}, false
	}
	period, err := query.period()
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return query, service.Period{}, false
	}
	return query, period, true
}

func (h *Handler) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		response.Error(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.Success(c, http.StatusOK, "ok", nil)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := response.StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		response.Error(c, status, "internal error")
		return
	}
	response.Error(c, status, err.Error())
}

func (q periodQuery) period() (service.Period, error) {
	start, err := parseDate(q.Start)
	if err != nil {
		return service.Period{}, fmt.Errorf("start %w", err)
	}
	end, err := parseDate(q.End)
	if err != nil {
		return service.Period{}, fmt.Errorf("end %w", err)
	}
	return service.Period{Start: start, End: end}, nil
}

var errBadDate = errors.New("must be a date in YYYY-MM-DD or RFC3339 format")

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errBadDate
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errBadDate
}
