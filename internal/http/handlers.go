package http

import (
	"context"
	"errors"
	"net/http"

	"smartpay/internal/core"
	"smartpay/internal/log"
	"smartpay/internal/services"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	payments := s.svc.List()
	writeJSON(w, http.StatusOK, ListResponse{
		Board:     services.BuildBoard(payments, s.now(), s.board),
		CanCreate: s.access.CanCreate(len(payments)),
		FreeLimit: s.access.FreeLimit,
	})
}

const limitMessage = "free plan limit reached, upgrade to add more payments"

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.access.CanCreate(s.svc.Len()) {
		writeError(w, http.StatusPaymentRequired, limitMessage)
		return
	}

	p, err := decodePaymentRequest(r, true)
	if err != nil {
		s.writeRequestError(w, r, err)
		return
	}

	receipt, err := s.svc.AddIfAllowed(r.Context(), p, s.access)
	if errors.Is(err, core.ErrLimitReached) {
		writeError(w, http.StatusPaymentRequired, limitMessage)
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeMutation(w, r, http.StatusCreated, receipt)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := decodePaymentRequest(r, false)
	if err != nil {
		s.writeRequestError(w, r, err)
		return
	}

	receipt, err := s.svc.UpdateByID(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeMutation(w, r, http.StatusOK, receipt)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := s.svc.MarkPaidByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeMutation(w, r, http.StatusOK, receipt)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := s.svc.DeleteByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setPersistWarning(w, receipt)
	s.remind(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := services.Decide(s.svc.List(), s.now())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, NotificationResponse{
		Title:   n.Title,
		Message: n.Message,
		Urgency: string(n.Urgency),
		Count:   n.Count,
	})
}

// writeMutation replies with the affected payment and triggers a reminder check.
func (s *Server) writeMutation(w http.ResponseWriter, r *http.Request, status int, receipt services.Receipt) {
	p, err := s.svc.Get(receipt.ID)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Mutated payment vanished",
			log.FieldPaymentID, receipt.ID, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	index, err := s.svc.IndexOf(receipt.ID)
	if err != nil {
		index = receipt.Index
	}

	warning := setPersistWarning(w, receipt)
	s.remind(r.Context())
	writeJSON(w, status, PaymentResponse{
		Payment: services.NewBoardItem(p, index, s.now(), s.board),
		Warning: warning,
	})
}

// writeRequestError separates malformed bodies from rejected values.
func (s *Server) writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrValidation) {
		writeDomainError(w, err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Bad request body", log.FieldError, err)
	writeError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) remind(ctx context.Context) {
	if s.reminder == nil {
		return
	}
	s.reminder.Check(ctx, s.now())
}
