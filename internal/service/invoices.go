package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
	"github.com/santalucia-health/hospital-admin-service/internal/pagination"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
)

// recomputeInvoiceTotal keeps Invoice.TotalCents equal to the sum of its
// active line items. Runs inside the caller's transaction; tolerates the
// invoice being gone (direct item deletes racing an invoice cascade).
func recomputeInvoiceTotal(ctx context.Context, st store.Store, invoiceID string) error {
	raw, err := st.Get(ctx, model.KindInvoice, invoiceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}
	inv, ok := raw.(*model.Invoice)
	if !ok {
		return fmt.Errorf("store returned %T for invoice %s", raw, invoiceID)
	}

	items, err := st.List(ctx, model.KindInvoiceLineItem, store.Query{
		Filters: []store.Filter{{Field: "invoiceId", Value: invoiceID}},
	})
	if err != nil {
		return fmt.Errorf("list line items of %s: %w", invoiceID, err)
	}
	var total int64
	for _, item := range items {
		total += item.(*model.InvoiceLineItem).AmountCents
	}
	if inv.TotalCents == total {
		return nil
	}
	inv.TotalCents = total
	return st.Update(ctx, inv)
}

// SweepOverdueInvoices marks every pending invoice whose due date has passed
// as overdue, through the ordinary lifecycle transition. Returns the number
// of invoices marked.
func (r *Registry) SweepOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	var due []string
	page := pagination.Params{Page: 1, Limit: pagination.MaxLimit}
	for {
		invoices, total, err := r.Invoices.List(ctx, ListOptions{
			Status: model.StatusPending,
			Page:   page,
		})
		if err != nil {
			return 0, fmt.Errorf("list pending invoices: %w", err)
		}
		for _, inv := range invoices {
			if inv.DueDate.Before(asOf) {
				due = append(due, inv.ID)
			}
		}
		if page.Page*page.Limit >= total {
			break
		}
		page.Page++
	}

	marked := 0
	for _, id := range due {
		if _, err := r.Invoices.Transition(ctx, id, model.ActionMarkOverdue, ""); err != nil {
			log.Printf("Failed to mark invoice %s overdue: %v", id, err)
			continue
		}
		marked++
	}
	return marked, nil
}
