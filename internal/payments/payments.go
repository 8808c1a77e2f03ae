package payments

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neonwriters/backend/internal/store"
)

// Payment statuses.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// ErrPaymentNotFound is returned when no payment matches the given id.
var ErrPaymentNotFound = errors.New("payment not found")

// Payment is a single transaction record. Field names match the persisted
// JSON format.
type Payment struct {
	ID       string  `json:"id"`
	UserName string  `json:"userName"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
	Date     string  `json:"date"`
	Status   string  `json:"status"`
}

// RecordInput carries the fields needed to record a new payment.
type RecordInput struct {
	UserName string  `json:"userName" validate:"required"`
	Type     string  `json:"type" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Method   string  `json:"method" validate:"required"`
}

// Stats aggregates a payment list.
type Stats struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalPaid          float64 `json:"totalPaid"`
	PendingPayments    int     `json:"pendingPayments"`
	TotalTransactions  int     `json:"totalTransactions"`
	TodayRevenue       float64 `json:"todayRevenue"`
	MonthRevenue       float64 `json:"monthRevenue"`
	AverageTransaction float64 `json:"averageTransaction"`
}

// Service owns the payments collection. Same whole-collection
// read-modify-write pattern as the registry.
type Service struct {
	store store.Store
}

// NewService constructs a payments Service over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Record appends a new pending payment and returns it.
func (s *Service) Record(ctx context.Context, input RecordInput) (Payment, error) {
	payment := Payment{
		ID:       fmt.Sprintf("PAY-%s", strings.ToUpper(uuid.NewString()[:8])),
		UserName: input.UserName,
		Type:     input.Type,
		Amount:   input.Amount,
		Method:   input.Method,
		Date:     time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Status:   StatusPending,
	}

	all := s.load(ctx)
	all = append(all, payment)
	if err := s.save(ctx, all); err != nil {
		return Payment{}, err
	}

	log.Printf("[Payments] Recorded %s: %s %.2f via %s", payment.ID, payment.Type, payment.Amount, payment.Method)
	return payment, nil
}

// List returns all payments, newest first.
func (s *Service) List(ctx context.Context) []Payment {
	all := s.load(ctx)
	sortNewestFirst(all)
	return all
}

// Get returns the payment with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	for _, p := range s.load(ctx) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrPaymentNotFound
}

// MarkPaid transitions a payment to paid.
func (s *Service) MarkPaid(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusPaid)
}

// MarkFailed transitions a payment to failed.
func (s *Service) MarkFailed(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusFailed)
}

func (s *Service) setStatus(ctx context.Context, id, status string) error {
	all := s.load(ctx)
	for i := range all {
		if all[i].ID == id {
			all[i].Status = status
			if err := s.save(ctx, all); err != nil {
				return err
			}
			log.Printf("[Payments] %s marked %s", id, status)
			return nil
		}
	}
	return ErrPaymentNotFound
}

// FilterByRange returns payments dated within [start, end]. Payments
// without a parseable date are excluded.
func (s *Service) FilterByRange(ctx context.Context, start, end time.Time) []Payment {
	var filtered []Payment
	for _, p := range s.load(ctx) {
		when, ok := parseDate(p.Date)
		if !ok {
			continue
		}
		if when.Before(start) || when.After(end) {
			continue
		}
		filtered = append(filtered, p)
	}
	sortNewestFirst(filtered)
	return filtered
}

// Stats aggregates the full collection.
func (s *Service) Stats(ctx context.Context) Stats {
	return ComputeStats(s.load(ctx), time.Now())
}

// ComputeStats aggregates an arbitrary payment list, e.g. a date-filtered
// one. Averages are zero for an empty list.
func ComputeStats(all []Payment, now time.Time) Stats {
	stats := Stats{TotalTransactions: len(all)}

	today := now.Format("2006-01-02")
	for _, p := range all {
		stats.TotalRevenue += p.Amount
		if p.Status == StatusPaid {
			stats.TotalPaid += p.Amount
		}
		if p.Status == StatusPending {
			stats.PendingPayments++
		}

		when, ok := parseDate(p.Date)
		if !ok {
			continue
		}
		if when.Format("2006-01-02") == today {
			stats.TodayRevenue += p.Amount
		}
		if when.Year() == now.Year() && when.Month() == now.Month() {
			stats.MonthRevenue += p.Amount
		}
	}

	if len(all) > 0 {
		stats.AverageTransaction = stats.TotalRevenue / float64(len(all))
	}
	return stats
}

// ExportCSV renders the full collection as CSV, newest first.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	all := s.List(ctx)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"id", "userName", "type", "amount", "method", "date", "status"}); err != nil {
		return "", err
	}
	for _, p := range all {
		record := []string{
			p.ID,
			p.UserName,
			p.Type,
			fmt.Sprintf("%.2f", p.Amount),
			p.Method,
			p.Date,
			p.Status,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func (s *Service) load(ctx context.Context) []Payment {
	raw, err := s.store.Get(ctx, store.KeyPayments)
	if err == store.ErrNotFound {
		return []Payment{}
	}
	if err != nil {
		log.Printf("[Payments] Error reading payments: %v", err)
		return []Payment{}
	}

	var all []Payment
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		log.Printf("[Payments] Error parsing payments: %v", err)
		return []Payment{}
	}
	return all
}

func (s *Service) save(ctx context.Context, all []Payment) error {
	encoded, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, store.KeyPayments, string(encoded))
}

func sortNewestFirst(all []Payment) {
	sort.SliceStable(all, func(i, j int) bool {
		a, _ := parseDate(all[i].Date)
		b, _ := parseDate(all[j].Date)
		return a.After(b)
	})
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02T15:04:05.000Z", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
