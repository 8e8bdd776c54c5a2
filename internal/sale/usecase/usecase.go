package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-sale-service/internal/apperrors"
	"github.com/fekuna/omnipos-sale-service/internal/catalog"
	"github.com/fekuna/omnipos-sale-service/internal/model"
	"github.com/fekuna/omnipos-sale-service/internal/sale"
	"github.com/fekuna/omnipos-sale-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sale-service/internal/sale/resolver"
	"github.com/fekuna/omnipos-sale-service/internal/stock"
	"github.com/fekuna/omnipos-sale-service/pkg/logger"
	"github.com/fekuna/omnipos-sale-service/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type saleUseCase struct {
	catalog  catalog.UseCase
	ledger   stock.Ledger
	repo     sale.Repository
	resolver *resolver.Resolver
	producer EventPublisher
	metrics  *metrics.SaleMetrics
	logger   logger.ZapLogger
}

func NewSaleUseCase(
	cat catalog.UseCase,
	ledger stock.Ledger,
	repo sale.Repository,
	producer EventPublisher,
	m *metrics.SaleMetrics,
	log logger.ZapLogger,
) sale.UseCase {
	return &saleUseCase{
		catalog:  cat,
		ledger:   ledger,
		repo:     repo,
		resolver: resolver.New(cat),
		producer: producer,
		metrics:  m,
		logger:   log,
	}
}

func (uc *saleUseCase) ValidateBasket(ctx context.Context, input *dto.ValidateBasketInput) (*model.DemandPlan, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.ErrorList{&apperrors.ValidationError{Field: "items", Reason: "basket is empty"}}
	}

	var errs apperrors.ErrorList

	// 1. Resolve every line and merge demand per product. Two lines can
	// hit the same bottle; checking them one by one would let both pass
	// against stock that covers only one.
	merged := map[string]model.Demand{}
	for i := range input.Items {
		lineDemand, err := uc.resolver.Resolve(ctx, &input.Items[i])
		if err != nil {
			var list apperrors.ErrorList
			if ok := asErrorList(err, &list); ok {
				errs = append(errs, list...)
				continue
			}
			return nil, err
		}
		for productID, d := range lineDemand {
			agg := merged[productID]
			agg.Servings += d.Servings
			agg.VolumeML += d.VolumeML
			merged[productID] = agg
		}
	}

	// 2. Convert merged demand to containers.
	productIDs := make([]string, 0, len(merged))
	for id := range merged {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	plan := &model.DemandPlan{}
	for _, productID := range productIDs {
		p, err := uc.catalog.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			errs = append(errs, &apperrors.NotFoundError{Entity: "product", ID: productID})
			continue
		}

		d := merged[productID]
		containers, err := stock.ContainersFor(p, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		plan.Lines = append(plan.Lines, model.DemandLine{
			ProductID:  productID,
			Servings:   d.Servings,
			VolumeML:   d.VolumeML,
			Containers: containers,
		})
	}

	// 3. Advisory stock check over the aggregated plan, one check per
	// product. Skipped if resolution already failed: the plan would be
	// incomplete and the shortfall numbers misleading.
	if len(errs) == 0 {
		shortfalls, err := uc.ledger.Check(ctx, plan)
		if err != nil {
			return nil, err
		}
		for _, s := range shortfalls {
			errs = append(errs, s)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return plan, nil
}

func (uc *saleUseCase) CommitSale(ctx context.Context, input *dto.CommitSaleInput) (*model.Sale, error) {
	start := time.Now()

	exists, err := uc.catalog.PaymentMethodExists(ctx, input.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, uc.fail(apperrors.ErrorList{&apperrors.NotFoundError{Entity: "payment method", ID: input.PaymentMethodID}})
	}

	plan, err := uc.ValidateBasket(ctx, &dto.ValidateBasketInput{Items: input.Items})
	if err != nil {
		return nil, uc.fail(err)
	}

	s := uc.buildSale(input)

	// The repository applies sale rows and conditional stock decrements
	// in one transaction; the advisory check above is not trusted here.
	if err := uc.repo.CreateWithDemand(ctx, s, plan); err != nil {
		return nil, uc.fail(err)
	}

	if uc.metrics != nil {
		uc.metrics.SalesCommitted.Inc()
		uc.metrics.CommitDuration.Observe(time.Since(start).Seconds())
	}
	uc.logger.Info("sale committed",
		zap.String("sale_id", s.ID),
		zap.Float64("total", s.Total),
		zap.Int("items", len(s.Items)),
	)

	uc.publishCommitted(ctx, s, plan)

	return s, nil
}

func (uc *saleUseCase) buildSale(input *dto.CommitSaleInput) *model.Sale {
	now := time.Now()
	s := &model.Sale{
		ID:              uuid.New().String(),
		PaymentMethodID: input.PaymentMethodID,
		UserID:          input.UserID,
		CreatedAt:       now,
	}

	for _, line := range input.Items {
		qty := int(line.Quantity)
		subtotal := line.Price*float64(qty) - line.Discount

		item := model.SaleItem{
			ID:       uuid.New().String(),
			SaleID:   s.ID,
			Quantity: qty,
			Price:    line.Price,
			Discount: line.Discount,
			Subtotal: subtotal,
		}
		switch {
		case line.ProductID != "":
			id := line.ProductID
			item.ProductID = &id
		case line.DoseID != "":
			id := line.DoseID
			item.CompositeID = &id
		case line.ComboID != "":
			id := line.ComboID
			item.CompositeID = &id
		}

		s.Items = append(s.Items, item)
		s.Total += subtotal
	}

	return s
}

func (uc *saleUseCase) fail(err error) error {
	if uc.metrics != nil {
		uc.metrics.SalesFailed.WithLabelValues(apperrors.Code(err)).Inc()
	}
	return err
}

func asErrorList(err error, target *apperrors.ErrorList) bool {
	list, ok := err.(apperrors.ErrorList)
	if ok {
		*target = list
	}
	return ok
}
