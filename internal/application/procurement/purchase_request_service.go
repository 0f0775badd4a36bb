package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PurchaseRequestService handles purchase request business operations,
// including the split conversion of a request into per-supplier purchase
// orders
type PurchaseRequestService struct {
	requestRepo      procurement.PurchaseRequestRepository
	orderRepo        procurement.PurchaseOrderRepository
	suppliers        SupplierDirectory
	txScope          TransactionScope
	eventPublisher   shared.EventPublisher
	defaultTolerance decimal.Decimal
}

// NewPurchaseRequestService creates a new PurchaseRequestService
func NewPurchaseRequestService(
	requestRepo procurement.PurchaseRequestRepository,
	orderRepo procurement.PurchaseOrderRepository,
	suppliers SupplierDirectory,
	txScope TransactionScope,
) *PurchaseRequestService {
	return &PurchaseRequestService{
		requestRepo: requestRepo,
		orderRepo:   orderRepo,
		suppliers:   suppliers,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDefaultTolerance sets the tolerance percent applied to converted
// order lines when the caller does not supply one
func (s *PurchaseRequestService) SetDefaultTolerance(tolerance decimal.Decimal) {
	s.defaultTolerance = tolerance
}

// Create creates a new purchase request
func (s *PurchaseRequestService) Create(ctx context.Context, req CreatePurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	requestNumber, err := s.requestRepo.GenerateRequestNumber(ctx)
	if err != nil {
		return nil, err
	}

	requestDate := timeOrZero(req.RequestDate)
	request, err := procurement.NewPurchaseRequest(requestNumber, requestDate, procurement.PurchaseRequestPriority(req.Priority), req.Purpose)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		ref, err := newItemRef(item.ItemKind, item.ItemID, item.ItemName, item.ItemCode, item.Unit)
		if err != nil {
			return nil, err
		}
		prItem, err := request.AddItem(ref, item.Quantity, item.PreferredSupplierID)
		if err != nil {
			return nil, err
		}
		if item.Remark != "" {
			request.GetItem(prItem.ID).Remark = item.Remark
		}
	}

	if req.CreatedBy != nil {
		request.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &request.BaseAggregateRoot)

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// GetByID retrieves a purchase request by ID
func (s *PurchaseRequestService) GetByID(ctx context.Context, requestID uuid.UUID) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// GetByRequestNumber retrieves a purchase request by request number
func (s *PurchaseRequestService) GetByRequestNumber(ctx context.Context, requestNumber string) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// List retrieves purchase requests with filtering and pagination
func (s *PurchaseRequestService) List(ctx context.Context, filter PurchaseRequestListFilter) ([]PurchaseRequestListItemResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	requests, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseRequestListItemResponses(requests), total, nil
}

// Update updates the request header fields.
// Rejected once conversion has started.
func (s *PurchaseRequestService) Update(ctx context.Context, requestID uuid.UUID, req UpdatePurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	priority := request.Priority
	if req.Priority != nil {
		priority = procurement.PurchaseRequestPriority(*req.Priority)
	}
	purpose := request.Purpose
	if req.Purpose != nil {
		purpose = *req.Purpose
	}

	if err := request.UpdateDetails(priority, purpose); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// AddItem adds an item to the request
func (s *PurchaseRequestService) AddItem(ctx context.Context, requestID uuid.UUID, req AddPurchaseRequestItemRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	ref, err := newItemRef(req.ItemKind, req.ItemID, req.ItemName, req.ItemCode, req.Unit)
	if err != nil {
		return nil, err
	}
	prItem, err := request.AddItem(ref, req.Quantity, req.PreferredSupplierID)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		request.GetItem(prItem.ID).Remark = req.Remark
	}

	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// UpdateItem changes an item's requested quantity
func (s *PurchaseRequestService) UpdateItem(ctx context.Context, requestID, itemID uuid.UUID, req UpdatePurchaseRequestItemRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// RemoveItem removes an item from the request
func (s *PurchaseRequestService) RemoveItem(ctx context.Context, requestID, itemID uuid.UUID) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// Cancel cancels a purchase request
func (s *PurchaseRequestService) Cancel(ctx context.Context, requestID uuid.UUID, req CancelPurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &request.BaseAggregateRoot)

	response := ToPurchaseRequestResponse(request)
	return &response, nil
}

// SplitConvert converts part of a request into one draft purchase order
// for the target supplier. The supplier's declared kind must accept every
// selected item, every selection must fit within its item's remaining
// quantity, and duplicate selections of the same item merge into one
// order line. The order and the request ledger are persisted atomically.
func (s *PurchaseRequestService) SplitConvert(ctx context.Context, requestID uuid.UUID, req SplitConvertRequest) (*SplitConvertResponse, error) {
	supplier, err := s.suppliers.GetSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	var result *SplitConvertResponse
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		request, err := repos.RequestRepo().FindByID(ctx, requestID)
		if err != nil {
			return err
		}

		orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}
		order, err := procurement.NewPurchaseOrder(orderNumber, supplier, &request.ID)
		if err != nil {
			return err
		}
		if req.Remark != "" {
			order.SetRemark(req.Remark)
		}
		if req.CreatedBy != nil {
			order.SetCreatedBy(*req.CreatedBy)
		}

		for _, sel := range req.Selections {
			prItem := request.GetItem(sel.RequestItemID)
			if prItem == nil {
				return shared.NewDomainError("ITEM_NOT_FOUND", "Request item not found")
			}
			if !supplier.Kind.Accepts(prItem.Item.Kind) {
				return &procurement.TypeMismatchError{
					SupplierID:   supplier.ID,
					SupplierKind: supplier.Kind,
					ItemKind:     prItem.Item.Kind,
				}
			}

			tolerance := s.defaultTolerance
			if sel.TolerancePercent != nil {
				tolerance = *sel.TolerancePercent
			}
			discountMode := procurement.DiscountMode(sel.DiscountMode)
			if discountMode == "" {
				discountMode = procurement.DiscountModePercent
			}

			// Same PR item selected twice for one supplier merges into a
			// single order line; the conversion ledger keeps both entries
			var poItemID uuid.UUID
			if existing := order.GetItemBySource(prItem.ID); existing != nil {
				if err := order.MergeItemQuantity(existing.ID, sel.Quantity); err != nil {
					return err
				}
				poItemID = existing.ID
			} else {
				sourceID := prItem.ID
				poItem, err := order.AddItem(prItem.Item, sel.Quantity, sel.UnitPrice, discountMode,
					sel.DiscountValue, sel.TaxRatePercent, tolerance, &sourceID)
				if err != nil {
					return err
				}
				poItemID = poItem.ID
			}

			if err := request.RecordConversion(prItem.ID, supplier.ID, order.ID, poItemID, sel.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		if err := repos.RequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}

		s.publishEvents(ctx, &order.BaseAggregateRoot)
		s.publishEvents(ctx, &request.BaseAggregateRoot)

		result = &SplitConvertResponse{
			Request: ToPurchaseRequestResponse(request),
			Order:   ToPurchaseOrderResponse(order),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PurchaseRequestService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
}
