package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexconectado/pdv-caixa/internal/dto"
	"github.com/alexconectado/pdv-caixa/internal/infra"
	"github.com/alexconectado/pdv-caixa/internal/model"
	"github.com/alexconectado/pdv-caixa/internal/money"
	"github.com/alexconectado/pdv-caixa/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dashboardCacheTTL = 60 * time.Second

type ReportService interface {
	// Report lists the filtered sales (cancelled ones included but flagged)
	// with period totals that exclude them.
	Report(ctx context.Context, filter dto.ReportFilter) (*dto.ReportResponse, error)
	// Dashboard is the month-to-date view: KPIs, top products, operator
	// ranking and the per-method split.
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	// ExportCSV and ExportPDF share the Report filter semantics exactly, so
	// the grand total always matches the on-screen report.
	ExportCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, string, error)
	ExportPDF(ctx context.Context, filter dto.ReportFilter) ([]byte, string, error)
}

type reportService struct {
	sales repository.SaleRepository
	cash  repository.CashRepository
	rdb   *redis.Client // nil disables the dashboard cache
}

func NewReportService(sales repository.SaleRepository, cash repository.CashRepository, rdb *redis.Client) ReportService {
	return &reportService{sales: sales, cash: cash, rdb: rdb}
}

// resolveRange applies the default period (today → today) and builds the
// repository filter. Filtering happens in the query layer, not in memory.
func resolveRange(filter dto.ReportFilter) (repository.SaleRangeFilter, error) {
	start := money.BusinessDay(time.Now())
	if filter.Start != "" {
		parsed, err := money.ParseDate(filter.Start)
		if err != nil {
			return repository.SaleRangeFilter{}, err
		}
		start = parsed
	}
	end := start
	if filter.End != "" {
		parsed, err := money.ParseDate(filter.End)
		if err != nil {
			return repository.SaleRangeFilter{}, err
		}
		end = parsed
	}

	rf := repository.SaleRangeFilter{
		Start:         start,
		End:           end,
		PaymentMethod: filter.PaymentMethod,
		SessionStatus: filter.SessionStatus,
	}
	if filter.OperatorID != "" {
		id, err := uuid.Parse(filter.OperatorID)
		if err != nil {
			return repository.SaleRangeFilter{}, err
		}
		rf.OperatorID = &id
	}
	return rf, nil
}

func (s *reportService) Report(ctx context.Context, filter dto.ReportFilter) (*dto.ReportResponse, error) {
	rf, err := resolveRange(filter)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListByRange(ctx, rf)
	if err != nil {
		return nil, err
	}
	sessions, err := s.cash.ListByDateRange(ctx, rf.Start, rf.End, rf.SessionStatus)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReportResponse{
		Start:    money.FormatDate(rf.Start),
		End:      money.FormatDate(rf.End),
		Sales:    make([]dto.SaleResponse, 0, len(sales)),
		Sessions: make([]dto.SessionResponse, 0, len(sessions)),
		Totals:   periodTotals(sales, rf.Start, rf.End),
	}
	for i := range sales {
		resp.Sales = append(resp.Sales, saleToResponse(&sales[i]))
	}
	for i := range sessions {
		name := ""
		if sessions[i].OpenedBy != nil {
			name = sessions[i].OpenedBy.FullName
		}
		resp.Sessions = append(resp.Sessions, sessionToResponse(&sessions[i], name))
	}
	return resp, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	today := money.BusinessDay(time.Now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	cacheKey := "pdv:dashboard:" + money.FormatDate(today)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached dto.DashboardResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	sales, err := s.sales.ListByRange(ctx, repository.SaleRangeFilter{Start: monthStart, End: today})
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		MonthStart:       money.FormatDate(monthStart),
		Totals:           periodTotals(sales, monthStart, today),
		TopProducts:      topProducts(sales, 10),
		OperatorRankings: operatorRanking(sales, 10),
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *reportService) ExportCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, string, error) {
	report, err := s.Report(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	data, err := infra.WriteSalesCSV(report.Sales, report.Totals.Gross)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("relatorio_%s_a_%s.csv", report.Start, report.End)
	return data, name, nil
}

func (s *reportService) ExportPDF(ctx context.Context, filter dto.ReportFilter) ([]byte, string, error) {
	report, err := s.Report(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	data, err := infra.BuildReportPDF(report.Start, report.End, report.Sales, report.Totals.Gross)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("relatorio_%s_a_%s.pdf", report.Start, report.End)
	return data, name, nil
}

// ─── Aggregation helpers ─────────────────────────────────────────────────────

// periodTotals sums the non-cancelled sales of the period. Raw sums keep full
// precision; only the derived averages are rounded.
func periodTotals(sales []model.Sale, start, end time.Time) dto.PeriodTotals {
	totals := dto.PeriodTotals{}
	for i := range sales {
		sale := &sales[i]
		if sale.Cancellation != nil {
			continue
		}
		totals.Gross = totals.Gross.Add(sale.Amount)
		totals.Count++
		switch sale.PaymentMethod {
		case model.PaymentCash:
			totals.PerMethod.Cash = totals.PerMethod.Cash.Add(sale.Amount)
		case model.PaymentPix:
			totals.PerMethod.Pix = totals.PerMethod.Pix.Add(sale.Amount)
		case model.PaymentDebit:
			totals.PerMethod.Debit = totals.PerMethod.Debit.Add(sale.Amount)
		case model.PaymentCredit:
			totals.PerMethod.Credit = totals.PerMethod.Credit.Add(sale.Amount)
		}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	totals.DailyAverage = totals.Gross.Div(decimal.NewFromInt(int64(days))).Round(2)
	if totals.Count > 0 {
		totals.AverageTicket = totals.Gross.Div(decimal.NewFromInt(int64(totals.Count))).Round(2)
	} else {
		totals.AverageTicket = decimal.Zero
	}
	return totals
}

// topProducts ranks product codes by sale count descending. Ties keep the
// original encounter order (stable sort over first-seen positions).
func topProducts(sales []model.Sale, n int) []dto.ProductRanking {
	index := map[string]int{}
	ranking := []dto.ProductRanking{}
	for i := range sales {
		sale := &sales[i]
		if sale.Cancellation != nil {
			continue
		}
		pos, seen := index[sale.ProductCode]
		if !seen {
			pos = len(ranking)
			index[sale.ProductCode] = pos
			ranking = append(ranking, dto.ProductRanking{ProductCode: sale.ProductCode})
		}
		ranking[pos].Count++
		ranking[pos].Total = ranking[pos].Total.Add(sale.Amount)
	}
	sortStableByDesc(ranking, func(a, b dto.ProductRanking) bool { return a.Count > b.Count })
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// operatorRanking ranks operators by summed amount descending.
func operatorRanking(sales []model.Sale, n int) []dto.OperatorRanking {
	index := map[uuid.UUID]int{}
	ranking := []dto.OperatorRanking{}
	for i := range sales {
		sale := &sales[i]
		if sale.Cancellation != nil {
			continue
		}
		pos, seen := index[sale.OperatorID]
		if !seen {
			pos = len(ranking)
			index[sale.OperatorID] = pos
			entry := dto.OperatorRanking{OperatorID: sale.OperatorID.String()}
			if sale.Operator != nil {
				entry.OperatorName = sale.Operator.FullName
			}
			ranking = append(ranking, entry)
		}
		ranking[pos].Count++
		ranking[pos].Total = ranking[pos].Total.Add(sale.Amount)
	}
	sortStableByDesc(ranking, func(a, b dto.OperatorRanking) bool { return a.Total.GreaterThan(b.Total) })
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// sortStableByDesc is a tiny insertion sort; rankings are small (≤ a few
// hundred entries) and stability matters for tie-breaking.
func sortStableByDesc[T any](items []T, less func(a, b T) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
