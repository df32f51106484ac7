package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-wallet-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-wallet-ledger/pkg/logging"
)

// Server HTTP 進入點 (Driving Adapter)，將請求轉交給 WalletUseCase
type Server struct {
	wallet   *usecase.WalletUseCase
	validate *validator.Validate
	logger   *logging.Logger
}

func NewServer(wallet *usecase.WalletUseCase, logger *logging.Logger) *Server {
	return &Server{
		wallet:   wallet,
		validate: validator.New(),
		logger:   logger,
	}
}

// Router 建立路由
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/", s.handleWelcome).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/accounts", s.handleCreateAccount).Methods(http.MethodPost)
	api.HandleFunc("/accounts/top-up", s.handleTopUp).Methods(http.MethodPost)
	api.HandleFunc("/accounts/charge", s.handleCharge).Methods(http.MethodPost)
	api.HandleFunc("/accounts/{id}", s.handleGetAccount).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", "not_found")
	})
	return r
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Welcome to Wallet Ledger API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"createAccount": "POST /api/accounts",
			"getAccount":    "GET /api/accounts/{id}",
			"topUp":         "POST /api/accounts/top-up",
			"charge":        "POST /api/accounts/charge",
		},
	})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "invalid_body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Name must be between 1 and 100 characters", "invalid_name")
		return
	}

	account, err := s.wallet.CreateAccount(r.Context(), req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	account, err := s.wallet.GetAccount(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	s.handleMovement(w, r, domain.TransactionTypeTopUp)
}

func (s *Server) handleCharge(w http.ResponseWriter, r *http.Request) {
	s.handleMovement(w, r, domain.TransactionTypeCharge)
}

// handleMovement 入金與扣款共用同一條處理路徑，差別只在交易類型
func (s *Server) handleMovement(w http.ResponseWriter, r *http.Request, txType domain.TransactionType) {
	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "invalid_body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "invalid_request")
		return
	}

	var (
		result *usecase.MovementResult
		err    error
	)
	switch txType {
	case domain.TransactionTypeTopUp:
		result, err = s.wallet.TopUp(r.Context(), req.AccountID, req.Amount.String(), req.ReferenceID)
	default:
		result, err = s.wallet.Charge(r.Context(), req.AccountID, req.Amount.String(), req.ReferenceID)
	}
	if err != nil {
		movementsTotal.WithLabelValues(string(txType), movementResultLabel(err)).Inc()
		s.writeDomainError(w, err)
		return
	}
	movementsTotal.WithLabelValues(string(txType), "success").Inc()

	writeJSON(w, http.StatusOK, movementResponse{
		AccountID:            result.Account.ID,
		NewBalance:           domain.FormatAmount(result.Account.Balance),
		TransactionID:        result.Transaction.ID,
		TransactionReference: result.Transaction.Reference(),
	})
}

// writeDomainError 將業務錯誤對應到 HTTP 狀態碼
// 儲存層錯誤一律以 500 回應，細節只進 log 不外洩
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var dup *domain.DuplicateError
	switch {
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:         "Transaction already processed",
			Code:          "duplicate_transaction",
			TransactionID: dup.TransactionID,
		})
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found", "account_not_found")
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "Insufficient funds for this transaction", "insufficient_funds")
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountMustBePositive):
		writeError(w, http.StatusBadRequest, "Invalid amount format or value", "invalid_amount")
	case errors.Is(err, domain.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "Name must be between 1 and 100 characters", "invalid_name")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	// 金額欄位走 json.Number，避免被解成 float64
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
