package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/model"
	"github.com/iliyamo/library-seat-manager/internal/payment"
	"github.com/iliyamo/library-seat-manager/internal/queue"
	"github.com/iliyamo/library-seat-manager/internal/repository"
	"github.com/iliyamo/library-seat-manager/internal/schedule"
	queue_publisher "github.com/iliyamo/library-seat-manager/internal/service"
)

type checkoutReq struct {
	Months uint32 `json:"months" validate:"required,min=1,max=24"`
}

type paymentResp struct {
	ID          uint64  `json:"id"`
	OrderID     string  `json:"order_id"`
	StudentID   uint64  `json:"student_id"`
	ShiftID     uint64  `json:"shift_id"`
	AmountCents uint32  `json:"amount_cents"`
	Months      uint32  `json:"months"`
	Status      string  `json:"status"`
	SettledAt   *string `json:"settled_at,omitempty"`
}

func toPaymentResp(p *model.Payment) paymentResp {
	resp := paymentResp{
		ID:          p.ID,
		OrderID:     p.OrderID,
		StudentID:   p.StudentID,
		ShiftID:     p.ShiftID,
		AmountCents: p.AmountCents,
		Months:      p.Months,
		Status:      p.Status,
	}
	if p.SettledAt != nil {
		s := p.SettledAt.UTC().Format(time.RFC3339)
		resp.SettledAt = &s
	}
	return resp
}

// CreateCheckout opens a gateway checkout for a student's subscription.
// The amount is the student's shift fee times the number of months; the
// payment row starts PENDING and flips when the gateway notifies us.
func (h *OwnerHandler) CreateCheckout(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	studentID, err := pathID(c, "student_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	st, err := h.Students.GetByIDAndLibrary(ctx, studentID, lib.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if st.ShiftID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student has no shift to subscribe to"})
	}
	sh, err := h.Shifts.GetByIDAndLibrary(ctx, *st.ShiftID, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load shift failed"})
	}

	orderID := "SUB-" + uuid.NewString()
	amount := sh.FeeCents * req.Months

	token, redirectURL, err := h.Gateway.CreateTransaction(payment.CheckoutInput{
		OrderID:     orderID,
		AmountCents: amount,
		StudentName: st.Name,
		ItemName:    sh.Name + " shift subscription",
		Months:      req.Months,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway unavailable"})
	}

	p := &model.Payment{
		OrderID:     orderID,
		LibraryID:   lib.ID,
		StudentID:   st.ID,
		ShiftID:     sh.ID,
		AmountCents: amount,
		Months:      req.Months,
	}
	if err := h.Payments.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payment failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"payment":      toPaymentResp(p),
		"snap_token":   token,
		"redirect_url": redirectURL,
	})
}

// ListPayments returns all payments of a library, newest first.
func (h *OwnerHandler) ListPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	payments, err := h.Payments.ListByLibrary(ctx, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]paymentResp, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// PaymentNotification receives the gateway's server-to-server callback.
// The SHA-512 signature is verified before anything is trusted. A
// settlement extends the student's membership in one transaction and is
// idempotent against duplicate callbacks; afterwards the student's seat
// is re-checked and released if it was given away while the membership
// had lapsed.
func (h *OwnerHandler) PaymentNotification(c echo.Context) error {
	var n payment.Notification
	if err := c.Bind(&n); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Gateway.VerifySignature(n); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	p, err := h.Payments.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown order"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	switch payment.ResolveStatus(n.TransactionStatus, n.FraudStatus) {
	case payment.StatusSettled:
		settledAt := time.Now().UTC()
		if err := h.Payments.Settle(ctx, p.OrderID, settledAt); err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				// Duplicate callback for an already-processed payment.
				return c.JSON(http.StatusOK, echo.Map{"status": "already processed"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "settle failed"})
		}
		h.afterSettle(ctx, c, p, settledAt)
		return c.JSON(http.StatusOK, echo.Map{"status": "settled"})
	case payment.StatusFailed:
		if err := h.Payments.MarkFailed(ctx, p.OrderID); err != nil && !errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "failed"})
	default:
		return c.JSON(http.StatusOK, echo.Map{"status": "pending"})
	}
}

// afterSettle re-checks the settled student's seat and publishes the
// payment.confirmed event. The seat may have been given away while the
// membership had lapsed; in that case the seat is released rather than
// leaving two students colliding on it.
func (h *OwnerHandler) afterSettle(ctx context.Context, c echo.Context, p *model.Payment, settledAt time.Time) {
	st, err := h.Students.GetByIDAndLibrary(ctx, p.StudentID, p.LibraryID)
	if err != nil {
		c.Logger().Warnf("post-settle student load failed for order %s: %v", p.OrderID, err)
		return
	}

	if st.SeatNumber != nil && st.ShiftID != nil {
		sh, err := h.Shifts.GetByIDAndLibrary(ctx, *st.ShiftID, p.LibraryID)
		if err == nil {
			existing, lerr := h.Students.ListAssignments(ctx, p.LibraryID)
			if lerr == nil {
				cand := schedule.Shift{ID: sh.ID, Name: sh.Name, StartTime: sh.StartTime, EndTime: sh.EndTime}
				dec := schedule.ResolveSeatAssignment(*st.SeatNumber, cand, existing, st.ID)
				if !dec.Assignable {
					if cerr := h.Students.ClearSeat(ctx, st.ID); cerr != nil {
						c.Logger().Warnf("post-settle seat release failed for student %d: %v", st.ID, cerr)
					} else {
						st.SeatNumber = nil
					}
				}
			}
		}
	}

	ev := queue.PaymentConfirmedEvent{
		PaymentID:   p.ID,
		OrderID:     p.OrderID,
		LibraryID:   p.LibraryID,
		StudentID:   st.ID,
		StudentName: st.Name,
		AmountCents: p.AmountCents,
		Months:      p.Months,
		SettledAt:   settledAt.Format(time.RFC3339),
	}
	if st.SeatNumber != nil {
		ev.SeatNumber = *st.SeatNumber
	}
	if lib, err := h.Libraries.GetByID(ctx, p.LibraryID); err == nil {
		ev.LibraryName = lib.Name
	}
	if sh, err := h.Shifts.GetByIDAndLibrary(ctx, p.ShiftID, p.LibraryID); err == nil {
		ev.ShiftName = sh.Name
	}

	// Broker trouble never fails the gateway callback.
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishPaymentConfirmed(pubCtx, ev)
	}()
}
