package web

import (
	"net/http"
	"strconv"

	"github.com/dnlwrthstr/custodian-service/internal/domain"
	"github.com/dnlwrthstr/custodian-service/internal/services"
)

func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (s *Server) handleCreateCustodian(w http.ResponseWriter, r *http.Request) {
	var c domain.Custodian
	if err := decodeBody(r, &c); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = ""
	if err := c.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.svc.CreateCustodian(r.Context(), c)
	if err != nil {
		s.respondServiceError(w, r, err, "custodian not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCustodians(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt64(r, "skip", 0)
	if err != nil {
		httpError(w, http.StatusBadRequest, "skip must be an integer")
		return
	}
	limit, err := queryInt64(r, "limit", 100)
	if err != nil {
		httpError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	custodians, err := s.svc.ListCustodians(r.Context(), skip, limit)
	if err != nil {
		s.respondServiceError(w, r, err, "custodian not found")
		return
	}
	writeJSON(w, http.StatusOK, custodians)
}

func (s *Server) handleGetCustodian(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := s.svc.GetCustodian(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "custodian with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCustodian(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var upd domain.CustodianUpdate
	if err := decodeBody(r, &upd); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.svc.UpdateCustodian(r.Context(), id, upd)
	if err != nil {
		s.respondServiceError(w, r, err, "custodian with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCustodian(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	found, err := s.svc.DeleteCustodian(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "custodian with ID "+id+" not found")
		return
	}
	if !found {
		httpError(w, http.StatusNotFound, "custodian with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := s.svc.ListPortfolios(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, r, err, "portfolio not found")
		return
	}
	writeJSON(w, http.StatusOK, portfolios)
}

func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var p domain.Portfolio
	if err := decodeBody(r, &p); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = ""
	p.CustodianID = r.PathValue("id")
	if err := p.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.svc.CreatePortfolio(r.Context(), p)
	if err != nil {
		s.respondServiceError(w, r, err, "portfolio not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("portfolioID")
	p, err := s.svc.GetPortfolio(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "portfolio with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("portfolioID")
	var upd domain.PortfolioUpdate
	if err := decodeBody(r, &upd); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.svc.UpdatePortfolio(r.Context(), id, upd)
	if err != nil {
		s.respondServiceError(w, r, err, "portfolio with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("portfolioID")
	found, err := s.svc.DeletePortfolio(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "portfolio with ID "+id+" not found")
		return
	}
	if !found {
		httpError(w, http.StatusNotFound, "portfolio with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.svc.ListAccounts(r.Context(), r.PathValue("id"), r.URL.Query().Get("portfolio_id"))
	if err != nil {
		s.respondServiceError(w, r, err, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a domain.Account
	if err := decodeBody(r, &a); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a.ID = ""
	a.CustodianID = r.PathValue("id")
	if err := a.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.svc.CreateAccount(r.Context(), a)
	if err != nil {
		s.respondServiceError(w, r, err, "account not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountID")
	a, err := s.svc.GetAccount(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "account with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountID")
	var upd domain.AccountUpdate
	if err := decodeBody(r, &upd); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := s.svc.UpdateAccount(r.Context(), id, upd)
	if err != nil {
		s.respondServiceError(w, r, err, "account with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("accountID")
	found, err := s.svc.DeleteAccount(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "account with ID "+id+" not found")
		return
	}
	if !found {
		httpError(w, http.StatusNotFound, "account with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := services.PositionListOptions{
		PortfolioID: query.Get("portfolio_id"),
		AccountID:   query.Get("account_id"),
	}

	positions, err := s.svc.ListPositions(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		s.respondServiceError(w, r, err, "position not found")
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var p domain.Position
	if err := decodeBody(r, &p); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = ""
	p.CustodianID = r.PathValue("id")
	if err := p.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.svc.CreatePosition(r.Context(), p)
	if err != nil {
		s.respondServiceError(w, r, err, "position not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("positionID")
	p, err := s.svc.GetPosition(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "position with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("positionID")
	var upd domain.PositionUpdate
	if err := decodeBody(r, &upd); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.svc.UpdatePosition(r.Context(), id, upd)
	if err != nil {
		s.respondServiceError(w, r, err, "position with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("positionID")
	found, err := s.svc.DeletePosition(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "position with ID "+id+" not found")
		return
	}
	if !found {
		httpError(w, http.StatusNotFound, "position with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := services.TransactionListOptions{
		PortfolioID: query.Get("portfolio_id"),
		AccountID:   query.Get("account_id"),
		FromDate:    query.Get("from_date"),
		ToDate:      query.Get("to_date"),
	}

	transactions, err := s.svc.ListTransactions(r.Context(), r.PathValue("id"), opts)
	if err != nil {
		s.respondServiceError(w, r, err, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t domain.Transaction
	if err := decodeBody(r, &t); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t.ID = ""
	t.CustodianID = r.PathValue("id")
	if err := t.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.svc.CreateTransaction(r.Context(), t)
	if err != nil {
		s.respondServiceError(w, r, err, "transaction not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("transactionID")
	t, err := s.svc.GetTransaction(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "transaction with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("transactionID")
	var upd domain.TransactionUpdate
	if err := decodeBody(r, &upd); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.svc.UpdateTransaction(r.Context(), id, upd)
	if err != nil {
		s.respondServiceError(w, r, err, "transaction with ID "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("transactionID")
	found, err := s.svc.DeleteTransaction(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "transaction with ID "+id+" not found")
		return
	}
	if !found {
		httpError(w, http.StatusNotFound, "transaction with ID "+id+" not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
