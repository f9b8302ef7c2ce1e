package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/ecoloop/core/internal/domain/entities"
	"github.com/ecoloop/core/internal/infrastructure/logger"
	"github.com/ecoloop/core/internal/ports"
)

// PageHandler renders the HTML pages
type PageHandler struct {
	recyclingService ports.RecyclingService
	logger           *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(recyclingService ports.RecyclingService, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		recyclingService: recyclingService,
		logger:           logger,
	}
}

// Index renders the landing page
func (h *PageHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

// Recycle renders the submission form
func (h *PageHandler) Recycle(c echo.Context) error {
	return c.Render(http.StatusOK, "recycle.html", nil)
}

// Report renders the submissions of one company
func (h *PageHandler) Report(c echo.Context) error {
	company := companyParam(c)

	report, err := h.recyclingService.CompanyReport(c.Request().Context(), company)
	if err != nil {
		requestLogger(h.logger, c).WithError(err).Errorw("Report failed", "company", company)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}

	return c.Render(http.StatusOK, "report.html", report)
}

// Transaction renders the payment form
func (h *PageHandler) Transaction(c echo.Context) error {
	return c.Render(http.StatusOK, "transaction.html", nil)
}

// RecyclingHandler handles recycling submissions
type RecyclingHandler struct {
	recyclingService ports.RecyclingService
	logger           *logger.Logger
}

// NewRecyclingHandler creates a new recycling handler
func NewRecyclingHandler(recyclingService ports.RecyclingService, logger *logger.Logger) *RecyclingHandler {
	return &RecyclingHandler{
		recyclingService: recyclingService,
		logger:           logger,
	}
}

// Submit records a submission from the recycle form and redirects to the company report
func (h *RecyclingHandler) Submit(c echo.Context) error {
	plastic, err := h.record(c)
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/report/"+url.PathEscape(plastic.Company))
}

// CreatePlastic records a submission and returns it as JSON
func (h *RecyclingHandler) CreatePlastic(c echo.Context) error {
	plastic, err := h.record(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, plastic)
}

// GetReport returns a company report as JSON
func (h *RecyclingHandler) GetReport(c echo.Context) error {
	company := companyParam(c)

	report, err := h.recyclingService.CompanyReport(c.Request().Context(), company)
	if err != nil {
		requestLogger(h.logger, c).WithError(err).Errorw("Report failed", "company", company)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}

	return c.JSON(http.StatusOK, report)
}

func (h *RecyclingHandler) record(c echo.Context) (*entities.Plastic, error) {
	var req ports.RecordPlasticRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	plastic, err := h.recyclingService.RecordPlastic(c.Request().Context(), req)
	if err != nil {
		requestLogger(h.logger, c).WithError(err).Errorw("Record plastic failed", "company", req.Company)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to save submission").SetInternal(err)
	}

	return plastic, nil
}

// TransactionHandler handles payment transactions
type TransactionHandler struct {
	paymentService ports.PaymentService
	logger         *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(paymentService ports.PaymentService, logger *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Submit charges the payment form and redirects back to it
func (h *TransactionHandler) Submit(c echo.Context) error {
	if _, err := h.process(c); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/transaction")
}

// CreateTransaction charges and returns the recorded transaction as JSON
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	tx, err := h.process(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tx)
}

// ListTransactions returns every recorded transaction
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	txs, err := h.paymentService.ListTransactions(c.Request().Context())
	if err != nil {
		requestLogger(h.logger, c).WithError(err).Errorw("List transactions failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve transactions")
	}

	return c.JSON(http.StatusOK, DataResponse[entities.Transaction]{Data: txs, Total: len(txs)})
}

func (h *TransactionHandler) process(c echo.Context) (*entities.Transaction, error) {
	var req ports.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.paymentService.ProcessTransaction(c.Request().Context(), req)
	if err != nil {
		// rendered as {"success":false,"error":...} by the error handler
		if errors.Is(err, entities.ErrPaymentFailed) {
			return nil, err
		}
		requestLogger(h.logger, c).WithError(err).Errorw("Process transaction failed")
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to save transaction").SetInternal(err)
	}

	return tx, nil
}

// AuthHandler handles operator login
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles operator login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		requestLogger(h.logger, c).LogSecurityEvent("login_failed", c.RealIP(), map[string]interface{}{"error": err.Error()})
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// AdminHandler exposes the raw document to operators
type AdminHandler struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store ports.DocumentStore, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		logger: logger,
	}
}

// GetDocument returns the whole stored document. Unlike the public pages it
// reports read failures instead of hiding them.
func (h *AdminHandler) GetDocument(c echo.Context) error {
	doc, err := h.store.Load(c.Request().Context())
	if err != nil && !errors.Is(err, entities.ErrStoreRead) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := DocumentResponse{Backend: h.store.Name(), Document: doc}
	if err != nil {
		resp.ReadError = err.Error()
	}

	return c.JSON(http.StatusOK, resp)
}

// companyParam returns the decoded company segment. Echo routes on the
// decoded URL.Path unless the request carried a RawPath, so only then is the
// param still escaped.
func companyParam(c echo.Context) string {
	raw := c.Param("company")
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if company, err := url.PathUnescape(raw); err == nil {
		return company
	}
	return raw
}

// requestLogger tags l with the id assigned by the RequestID middleware
func requestLogger(l *logger.Logger, c echo.Context) *logger.Logger {
	return l.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID))
}

// Request/Response types

type PaymentErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type DocumentResponse struct {
	Backend   string             `json:"backend"`
	ReadError string             `json:"read_error,omitempty"`
	Document  *entities.Document `json:"document"`
}

type DataResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
