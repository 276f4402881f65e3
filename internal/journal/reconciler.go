package journal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type TotalAPI interface {
	Total(ctx context.Context, orderID int) (model.OrderTotal, error)
}

type SaleAPI interface {
	List(ctx context.Context) ([]model.Sale, error)
	Create(ctx context.Context, in model.NewSale) (model.Sale, error)
}

// Reconciler rolls unfinished checkouts forward: it never cancels an order,
// it only creates the missing sale.
type Reconciler struct {
	Repo   Repository
	Orders TotalAPI
	Sales  SaleAPI
	Logger *log.Logger

	// Grace keeps the reconciler off entries a live checkout is still working on.
	Grace       time.Duration
	BatchSize   int
	MaxAttempts int

	now func() time.Time
}

func NewReconciler(repo Repository, orders TotalAPI, sales SaleAPI, logger *log.Logger) *Reconciler {
	return &Reconciler{
		Repo:        repo,
		Orders:      orders,
		Sales:       sales,
		Logger:      logger,
		Grace:       30 * time.Second,
		BatchSize:   50,
		MaxAttempts: 10,
		now:         time.Now,
	}
}

type RunStats struct {
	Seen    int
	Frozen  int
	Failed  int
}

func (r *Reconciler) RunOnce(ctx context.Context) (RunStats, error) {
	var stats RunStats

	// exhausted entries stay failed and are left for an operator
	pending, err := r.Repo.Pending(ctx, r.now().Add(-r.Grace), r.MaxAttempts, r.BatchSize)
	if err != nil {
		return stats, fmt.Errorf("list pending checkouts: %w", err)
	}
	if len(pending) == 0 {
		return stats, nil
	}

	sales, err := r.Sales.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list sales: %w", err)
	}

	for _, e := range pending {
		stats.Seen++

		if sale, ok := model.FindSaleForOrder(sales, e.OrderID); ok {
			if err := r.Repo.MarkFrozen(ctx, e.OrderID, sale.ID); err != nil {
				return stats, err
			}
			stats.Frozen++
			continue
		}

		if err := r.freeze(ctx, e); err != nil {
			r.Logger.Printf("reconcile order %d: %v", e.OrderID, err)
			if merr := r.Repo.MarkFailed(ctx, e.OrderID, err.Error()); merr != nil {
				return stats, merr
			}
			stats.Failed++
			continue
		}
		stats.Frozen++
	}
	return stats, nil
}

func (r *Reconciler) freeze(ctx context.Context, e Entry) error {
	total := e.Total.Decimal
	if !e.Total.Valid {
		t, err := r.Orders.Total(ctx, e.OrderID)
		if err != nil {
			return fmt.Errorf("compute total: %w", err)
		}
		total = t.Total
		if err := r.Repo.MarkTotal(ctx, e.OrderID, total); err != nil {
			return fmt.Errorf("record total: %w", err)
		}
	}

	sale, err := r.Sales.Create(ctx, model.NewSale{
		OrderID:       e.OrderID,
		PaymentMethod: model.PendingPaymentMethod,
		Total:         total,
	})
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return r.Repo.MarkFrozen(ctx, e.OrderID, sale.ID)
}

// Run calls RunOnce every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Logger.Println("checkout reconciler stopped")
			return
		case <-ticker.C:
			stats, err := r.RunOnce(ctx)
			if err != nil {
				r.Logger.Printf("checkout reconcile: %v", err)
				continue
			}
			if stats.Seen > 0 {
				r.Logger.Printf("checkout reconcile: seen=%d frozen=%d failed=%d",
					stats.Seen, stats.Frozen, stats.Failed)
			}
		}
	}
}
