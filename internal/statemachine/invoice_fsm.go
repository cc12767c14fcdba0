package statemachine

import (
	"context"
	"fmt"

	"github.com/factuurdesk/factuur-api/internal/models"
	"github.com/looplab/fsm"
)

// InvoiceFSM wraps an invoice with its status state machine
type InvoiceFSM struct {
	invoice *models.Invoice
	fsm     *fsm.FSM
}

// NewInvoiceFSM creates a new invoice state machine
func NewInvoiceFSM(invoice *models.Invoice) *InvoiceFSM {
	ifsm := &InvoiceFSM{
		invoice: invoice,
	}

	ifsm.fsm = fsm.NewFSM(
		invoice.Status,
		fsm.Events{
			// draft → sent
			{Name: "send", Src: []string{models.InvoiceStatusDraft}, Dst: models.InvoiceStatusSent},

			// draft/sent → cancelled
			{Name: "cancel", Src: []string{models.InvoiceStatusDraft, models.InvoiceStatusSent}, Dst: models.InvoiceStatusCancelled},

			// sent/partial → overdue (status sweep past due date)
			{Name: "mark_overdue", Src: []string{models.InvoiceStatusSent, models.InvoiceStatusPartial}, Dst: models.InvoiceStatusOverdue},

			// sent/partial/overdue → paid (payments cover the total)
			{Name: "mark_paid", Src: []string{models.InvoiceStatusSent, models.InvoiceStatusPartial, models.InvoiceStatusOverdue}, Dst: models.InvoiceStatusPaid},

			// sent/overdue → partial (payments cover part of the total)
			{Name: "mark_partial", Src: []string{models.InvoiceStatusSent, models.InvoiceStatusOverdue}, Dst: models.InvoiceStatusPartial},
		},
		fsm.Callbacks{},
	)

	return ifsm
}

// Send transitions the invoice to sent
func (i *InvoiceFSM) Send(ctx context.Context) error {
	if !i.invoice.MaySend() {
		return fmt.Errorf("invoice cannot be sent in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "send"); err != nil {
		return fmt.Errorf("failed to send invoice: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// Cancel transitions the invoice to cancelled
func (i *InvoiceFSM) Cancel(ctx context.Context) error {
	if !i.invoice.MayCancel() {
		return fmt.Errorf("invoice cannot be cancelled in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel invoice: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// MarkOverdue transitions the invoice to overdue
func (i *InvoiceFSM) MarkOverdue(ctx context.Context) error {
	if !i.invoice.MayMarkOverdue() {
		return fmt.Errorf("invoice cannot be marked overdue in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "mark_overdue"); err != nil {
		return fmt.Errorf("failed to mark invoice overdue: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// MarkPaid transitions the invoice to paid
func (i *InvoiceFSM) MarkPaid(ctx context.Context) error {
	if !i.invoice.MayMarkPaid() {
		return fmt.Errorf("invoice cannot be marked paid in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "mark_paid"); err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// MarkPartial transitions the invoice to partially paid
func (i *InvoiceFSM) MarkPartial(ctx context.Context) error {
	if !i.invoice.MayMarkPartial() {
		return fmt.Errorf("invoice cannot be marked partial in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "mark_partial"); err != nil {
		return fmt.Errorf("failed to mark invoice partial: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InvoiceFSM) Current() string {
	return i.fsm.Current()
}
