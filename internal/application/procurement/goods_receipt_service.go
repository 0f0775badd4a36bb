package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// GoodsReceiptService handles goods receipt business operations.
// Completion commits the accepted quantities to the referenced purchase
// order in a single transaction; draft receipts touch nothing.
type GoodsReceiptService struct {
	receiptRepo    procurement.GoodsReceiptRepository
	orderRepo      procurement.PurchaseOrderRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewGoodsReceiptService creates a new GoodsReceiptService
func NewGoodsReceiptService(
	receiptRepo procurement.GoodsReceiptRepository,
	orderRepo procurement.PurchaseOrderRepository,
	txScope TransactionScope,
) *GoodsReceiptService {
	return &GoodsReceiptService{
		receiptRepo: receiptRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *GoodsReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a goods receipt in DRAFT status. For PO-based receipts
// the supplier is resolved from the referenced order and every line's
// ceiling is pre-checked against the order so obviously inadmissible
// drafts are rejected up front.
func (s *GoodsReceiptService) Create(ctx context.Context, req CreateGoodsReceiptRequest) (*GoodsReceiptResponse, error) {
	receiptType := procurement.GoodsReceiptType(req.Type)

	supplierID := uuid.Nil
	supplierName := req.SupplierName
	var order *procurement.PurchaseOrder
	if receiptType == procurement.GoodsReceiptTypePOBased {
		if req.PurchaseOrderID == nil {
			return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "PO-based receipt requires a purchase order reference")
		}
		var err error
		order, err = s.orderRepo.FindByID(ctx, *req.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		supplierID = order.Supplier.ID
		supplierName = order.Supplier.Name
	} else if req.SupplierID != nil {
		supplierID = *req.SupplierID
	}

	receiptNumber, err := s.receiptRepo.GenerateReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := procurement.NewGoodsReceipt(receiptNumber, receiptType, supplierID, supplierName, req.PurchaseOrderID, timeOrZero(req.ReceivedAt))
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		receipt.Remark = req.Remark
	}
	if req.CreatedBy != nil {
		receipt.SetCreatedBy(*req.CreatedBy)
	}

	// Admission runs on the received quantity, cumulative per order line
	// across the receipt
	pendingReceived := make(map[uuid.UUID]decimal.Decimal)
	for _, item := range req.Items {
		input, err := toGoodsReceiptItemInput(item)
		if err != nil {
			return nil, err
		}
		if order != nil && item.POItemID != nil {
			total := pendingReceived[*item.POItemID].Add(item.ReceivedQuantity)
			if err := order.CheckReceivable(*item.POItemID, total); err != nil {
				return nil, err
			}
			pendingReceived[*item.POItemID] = total
		}
		if _, err := receipt.AddItem(input); err != nil {
			return nil, err
		}
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &receipt.BaseAggregateRoot)

	response := ToGoodsReceiptResponse(receipt)
	return &response, nil
}

// GetByID retrieves a goods receipt by ID
func (s *GoodsReceiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*GoodsReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToGoodsReceiptResponse(receipt)
	return &response, nil
}

// List retrieves goods receipts with filtering and pagination
func (s *GoodsReceiptService) List(ctx context.Context, filter GoodsReceiptListFilter) ([]GoodsReceiptListItemResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.PurchaseOrderID != nil {
		domainFilter.Filters["purchase_order_id"] = *filter.PurchaseOrderID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	receipts, err := s.receiptRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToGoodsReceiptListItemResponses(receipts), total, nil
}

// ListByPurchaseOrder retrieves the receipts recorded against an order
func (s *GoodsReceiptService) ListByPurchaseOrder(ctx context.Context, orderID uuid.UUID) ([]GoodsReceiptListItemResponse, error) {
	receipts, err := s.receiptRepo.FindByPurchaseOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToGoodsReceiptListItemResponses(receipts), nil
}

// Complete completes a draft receipt and, for PO-based receipts, applies
// the accepted quantities to the referenced order. Both aggregates are
// saved under optimistic lock in one transaction; any ceiling violation
// rolls the whole operation back.
func (s *GoodsReceiptService) Complete(ctx context.Context, receiptID uuid.UUID) (*CompleteGoodsReceiptResponse, error) {
	var result *CompleteGoodsReceiptResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		receipt, err := repos.ReceiptRepo().FindByID(ctx, receiptID)
		if err != nil {
			return err
		}

		if err := receipt.Complete(); err != nil {
			return err
		}

		var orderResponse *PurchaseOrderResponse
		if deltas := receipt.ReceiptDeltas(); len(deltas) > 0 {
			order, err := repos.OrderRepo().FindByID(ctx, *receipt.PurchaseOrderID)
			if err != nil {
				return err
			}
			if err := order.ApplyReceipt(deltas); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
				return err
			}
			s.publishEvents(ctx, &order.BaseAggregateRoot)
			r := ToPurchaseOrderResponse(order)
			orderResponse = &r
		}

		if err := repos.ReceiptRepo().SaveWithLock(ctx, receipt); err != nil {
			return err
		}
		s.publishEvents(ctx, &receipt.BaseAggregateRoot)

		result = &CompleteGoodsReceiptResponse{
			Receipt: ToGoodsReceiptResponse(receipt),
			Order:   orderResponse,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Receive creates and immediately completes a receipt in one call
func (s *GoodsReceiptService) Receive(ctx context.Context, req CreateGoodsReceiptRequest) (*CompleteGoodsReceiptResponse, error) {
	created, err := s.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Complete(ctx, created.ID)
}

// RemoveItem removes a line from a draft receipt
func (s *GoodsReceiptService) RemoveItem(ctx context.Context, receiptID, itemID uuid.UUID) (*GoodsReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	if err := receipt.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToGoodsReceiptResponse(receipt)
	return &response, nil
}

// AddItem adds a line to a draft receipt
func (s *GoodsReceiptService) AddItem(ctx context.Context, receiptID uuid.UUID, item CreateGoodsReceiptItemInput) (*GoodsReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	input, err := toGoodsReceiptItemInput(item)
	if err != nil {
		return nil, err
	}

	if receipt.Type == procurement.GoodsReceiptTypePOBased && receipt.PurchaseOrderID != nil && item.POItemID != nil {
		order, err := s.orderRepo.FindByID(ctx, *receipt.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		// Lines already on the draft count against the same ceiling
		total := item.ReceivedQuantity
		for _, line := range receipt.Items {
			if line.POItemID != nil && *line.POItemID == *item.POItemID {
				total = total.Add(line.ReceivedQuantity)
			}
		}
		if err := order.CheckReceivable(*item.POItemID, total); err != nil {
			return nil, err
		}
	}

	if _, err := receipt.AddItem(input); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToGoodsReceiptResponse(receipt)
	return &response, nil
}

func toGoodsReceiptItemInput(item CreateGoodsReceiptItemInput) (procurement.GoodsReceiptItemInput, error) {
	ref, err := newItemRef(item.ItemKind, item.ItemID, item.ItemName, item.ItemCode, item.Unit)
	if err != nil {
		return procurement.GoodsReceiptItemInput{}, err
	}
	return procurement.GoodsReceiptItemInput{
		POItemID:         item.POItemID,
		Item:             ref,
		ReceivedQuantity: item.ReceivedQuantity,
		AcceptedQuantity: item.AcceptedQuantity,
		RejectedQuantity: item.RejectedQuantity,
		SerialNumbers:    item.SerialNumbers,
		BatchNumber:      item.BatchNumber,
		ManufactureDate:  item.ManufactureDate,
		ExpiryDate:       item.ExpiryDate,
		Remark:           item.Remark,
	}, nil
}

func (s *GoodsReceiptService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
}
