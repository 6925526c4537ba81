package sales

import (
	"context"
	"time"

	appops "github.com/foodshop/backend/internal/application/operations"
	"github.com/foodshop/backend/internal/domain/catalog"
	domainsales "github.com/foodshop/backend/internal/domain/sales"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesService logs and voids manual sales. The unit price is captured from
// the catalog at record time so later price changes never rewrite history.
type SalesService struct {
	txScope        appops.TransactionScope
	recordedSales  domainsales.RecordedSaleRepository
	variants       catalog.ProductVariantRepository
	shifts         domainsales.ShiftProvider
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSalesService creates a SalesService. A nil shift provider disables
// shift attribution.
func NewSalesService(
	txScope appops.TransactionScope,
	recordedSales domainsales.RecordedSaleRepository,
	variants catalog.ProductVariantRepository,
	shifts domainsales.ShiftProvider,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *SalesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesService{
		txScope:        txScope,
		recordedSales:  recordedSales,
		variants:       variants,
		shifts:         shifts,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Record logs a sale against an open day
func (s *SalesService) Record(ctx context.Context, req RecordSaleRequest) (*RecordedSaleResponse, error) {
	variant, err := s.variants.FindByID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}
	if !variant.Active {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Product variant is inactive")
	}

	soldAt := req.SoldAt
	if soldAt.IsZero() {
		soldAt = time.Now()
	}

	var shiftID *uuid.UUID
	if s.shifts != nil {
		assignment, ok, err := s.shifts.ShiftAt(ctx, req.DailyRecordID, soldAt)
		if err != nil {
			s.logger.Warn("shift lookup failed, recording sale without attribution", zap.Error(err))
		} else if ok {
			shiftID = &assignment.ShiftID
		}
	}

	var sale *domainsales.RecordedSale
	err = s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		record, err := repos.DailyRecords().FindByID(ctx, req.DailyRecordID)
		if err != nil {
			return err
		}
		if err := record.EnsureOpen(); err != nil {
			return err
		}

		sale, err = domainsales.NewRecordedSale(req.DailyRecordID, req.VariantID, req.Quantity, variant.Price, shiftID)
		if err != nil {
			return err
		}
		return repos.RecordedSales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, domainsales.NewSaleRecordedEvent(sale))
	}
	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("variant", variant.Name),
		zap.Int64("quantity", sale.Quantity),
	)

	response := toRecordedSaleResponse(sale)
	return &response, nil
}

// Void voids a recorded sale on a still-open day. The row stays for audit;
// reconciliation and revenue totals skip it.
func (s *SalesService) Void(ctx context.Context, req VoidSaleRequest) (*RecordedSaleResponse, error) {
	var sale *domainsales.RecordedSale
	err := s.txScope.Execute(ctx, func(repos appops.TransactionalRepositories) error {
		var err error
		sale, err = repos.RecordedSales().FindByID(ctx, req.SaleID)
		if err != nil {
			return err
		}
		record, err := repos.DailyRecords().FindByID(ctx, sale.DailyRecordID)
		if err != nil {
			return err
		}
		if err := record.EnsureOpen(); err != nil {
			return err
		}
		if err := sale.MarkVoided(req.Reason, req.Notes); err != nil {
			return err
		}
		return repos.RecordedSales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)
	s.logger.Info("sale voided",
		zap.String("sale_id", sale.ID.String()),
		zap.String("reason", req.Reason),
	)

	response := toRecordedSaleResponse(sale)
	return &response, nil
}

// ListByDay returns a day's recorded sales, voided rows included
func (s *SalesService) ListByDay(ctx context.Context, dailyRecordID uuid.UUID) ([]RecordedSaleResponse, error) {
	salesList, err := s.recordedSales.FindByDailyRecord(ctx, dailyRecordID)
	if err != nil {
		return nil, err
	}
	out := make([]RecordedSaleResponse, 0, len(salesList))
	for i := range salesList {
		out = append(out, toRecordedSaleResponse(&salesList[i]))
	}
	return out, nil
}

func (s *SalesService) publishEvents(ctx context.Context, sale *domainsales.RecordedSale) {
	if s.eventPublisher == nil {
		return
	}
	events := sale.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	sale.ClearDomainEvents()
}

func toRecordedSaleResponse(sale *domainsales.RecordedSale) RecordedSaleResponse {
	return RecordedSaleResponse{
		ID:         sale.ID,
		VariantID:  sale.VariantID,
		Quantity:   sale.Quantity,
		UnitPrice:  sale.UnitPrice,
		Revenue:    sale.Revenue(),
		ShiftID:    sale.ShiftID,
		Voided:     sale.IsVoided(),
		VoidReason: sale.Void.Reason,
	}
}
