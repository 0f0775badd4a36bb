package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo        procurement.PurchaseOrderRepository
	suppliers        SupplierDirectory
	approvalPolicy   ApprovalPolicy
	eventPublisher   shared.EventPublisher
	defaultTolerance decimal.Decimal
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo procurement.PurchaseOrderRepository, suppliers SupplierDirectory) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:      orderRepo,
		suppliers:      suppliers,
		approvalPolicy: AllowAllApprovalPolicy{},
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetApprovalPolicy sets the approval routing policy
func (s *PurchaseOrderService) SetApprovalPolicy(policy ApprovalPolicy) {
	s.approvalPolicy = policy
}

// SetDefaultTolerance sets the tolerance percent applied to order lines
// when the caller does not supply one
func (s *PurchaseOrderService) SetDefaultTolerance(tolerance decimal.Decimal) {
	s.defaultTolerance = tolerance
}

// Create creates a new direct purchase order in DRAFT status
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.suppliers.GetSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(orderNumber, supplier, nil)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		ref, err := newItemRef(item.ItemKind, item.ItemID, item.ItemName, item.ItemCode, item.Unit)
		if err != nil {
			return nil, err
		}
		tolerance := s.defaultTolerance
		if item.TolerancePercent != nil {
			tolerance = *item.TolerancePercent
		}
		if _, err := order.AddItem(ref, item.Quantity, item.UnitPrice,
			procurement.DiscountMode(item.DiscountMode), item.DiscountValue,
			item.TaxRatePercent, tolerance, nil); err != nil {
			return nil, err
		}
	}

	if !req.DiscountAmount.IsZero() || !req.ShippingCharges.IsZero() || !req.OtherCharges.IsZero() {
		if err := order.SetCharges(req.DiscountAmount, req.ShippingCharges, req.OtherCharges); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &order.BaseAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by order number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// ListBySourceRequest retrieves the orders converted from a purchase request
func (s *PurchaseOrderService) ListBySourceRequest(ctx context.Context, requestID uuid.UUID) ([]PurchaseOrderListItemResponse, error) {
	orders, err := s.orderRepo.FindBySourceRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderListItemResponses(orders), nil
}

// AddItem adds a line to a draft order
func (s *PurchaseOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddPurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ref, err := newItemRef(req.ItemKind, req.ItemID, req.ItemName, req.ItemCode, req.Unit)
	if err != nil {
		return nil, err
	}
	tolerance := s.defaultTolerance
	if req.TolerancePercent != nil {
		tolerance = *req.TolerancePercent
	}
	if _, err := order.AddItem(ref, req.Quantity, req.UnitPrice,
		procurement.DiscountMode(req.DiscountMode), req.DiscountValue,
		req.TaxRatePercent, tolerance, nil); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateItem updates a draft order line
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req UpdatePurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItem(itemID, req.Quantity, req.UnitPrice,
		procurement.DiscountMode(req.DiscountMode), req.DiscountValue, req.TaxRatePercent); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveItem removes a line from a draft order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// SetCharges sets order-level discount, shipping and other charges on a draft order
func (s *PurchaseOrderService) SetCharges(ctx context.Context, orderID uuid.UUID, req SetPurchaseOrderChargesRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.SetCharges(req.DiscountAmount, req.ShippingCharges, req.OtherCharges); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Submit moves an order from DRAFT to PENDING_APPROVAL
func (s *PurchaseOrderService) Submit(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Submit(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &order.BaseAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Approve approves a pending order. The routing policy runs first; the
// aggregate still rejects self-approval regardless of the policy.
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID uuid.UUID, req ApprovePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.approvalPolicy.CanApprove(ctx, req.ApproverID, order); err != nil {
		return nil, err
	}
	if err := order.Approve(req.ApproverID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &order.BaseAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Reject rejects a pending order
func (s *PurchaseOrderService) Reject(ctx context.Context, orderID uuid.UUID, req RejectPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Reject(req.ApproverID, req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &order.BaseAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order that has no received goods
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &order.BaseAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Close closes a fully received order
func (s *PurchaseOrderService) Close(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Close(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &order.BaseAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
}
