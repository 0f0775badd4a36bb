package procurement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PurchaseInvoiceService handles purchase invoice business operations.
// Posting commits the invoiced quantities to the referenced purchase
// order and emits a financial entry in a single transaction.
type PurchaseInvoiceService struct {
	invoiceRepo    procurement.PurchaseInvoiceRepository
	orderRepo      procurement.PurchaseOrderRepository
	txScope        TransactionScope
	entryPoster    EntryPoster
	eventPublisher shared.EventPublisher
}

// NewPurchaseInvoiceService creates a new PurchaseInvoiceService
func NewPurchaseInvoiceService(
	invoiceRepo procurement.PurchaseInvoiceRepository,
	orderRepo procurement.PurchaseOrderRepository,
	txScope TransactionScope,
) *PurchaseInvoiceService {
	return &PurchaseInvoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
		entryPoster: NoOpEntryPoster{},
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseInvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetEntryPoster sets the accounting entry poster
func (s *PurchaseInvoiceService) SetEntryPoster(poster EntryPoster) {
	s.entryPoster = poster
}

// Create creates a purchase invoice in DRAFT status. For PO-based
// invoices the supplier is resolved from the referenced order and every
// line must reference an order line; fully invoiced orders admit no
// further invoices.
func (s *PurchaseInvoiceService) Create(ctx context.Context, req CreatePurchaseInvoiceRequest) (*PurchaseInvoiceResponse, error) {
	invoiceType := procurement.PurchaseInvoiceType(req.Type)

	supplierID := uuid.Nil
	supplierName := req.SupplierName
	var order *procurement.PurchaseOrder
	if invoiceType == procurement.PurchaseInvoiceTypePOBased {
		if req.PurchaseOrderID == nil {
			return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "PO-based invoice requires a purchase order reference")
		}
		var err error
		order, err = s.orderRepo.FindByID(ctx, *req.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.CanInvoice() {
			return nil, &procurement.POApprovalRequiredError{POID: order.ID, Status: order.Status}
		}
		if order.IsFullyInvoiced() {
			return nil, shared.NewDomainError(procurement.ErrCodeFullyInvoiced, "Order is already fully invoiced")
		}
		supplierID = order.Supplier.ID
		supplierName = order.Supplier.Name
	} else if req.SupplierID != nil {
		supplierID = *req.SupplierID
	}

	invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := procurement.NewPurchaseInvoice(invoiceNumber, invoiceType, supplierID, supplierName, req.PurchaseOrderID, timeOrZero(req.InvoiceDate))
	if err != nil {
		return nil, err
	}
	invoice.SupplierInvoice = req.SupplierInvoice
	if req.Remark != "" {
		invoice.Remark = req.Remark
	}
	if req.CreatedBy != nil {
		invoice.SetCreatedBy(*req.CreatedBy)
	}

	for _, item := range req.Items {
		ref, err := newItemRef(item.ItemKind, item.ItemID, item.ItemName, item.ItemCode, item.Unit)
		if err != nil {
			return nil, err
		}
		if order != nil && item.POItemID != nil {
			if order.GetItem(*item.POItemID) == nil {
				return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
			}
		}
		if _, err := invoice.AddItem(item.POItemID, ref, item.Quantity, item.UnitPrice,
			procurement.DiscountMode(item.DiscountMode), item.DiscountValue, item.TaxRatePercent); err != nil {
			return nil, err
		}
	}

	if !req.DiscountAmount.IsZero() || !req.ShippingCharges.IsZero() || !req.OtherCharges.IsZero() {
		if err := invoice.SetCharges(req.DiscountAmount, req.ShippingCharges, req.OtherCharges); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &invoice.BaseAggregateRoot)

	response := ToPurchaseInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves a purchase invoice by ID
func (s *PurchaseInvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*PurchaseInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves purchase invoices with filtering and pagination
func (s *PurchaseInvoiceService) List(ctx context.Context, filter PurchaseInvoiceListFilter) ([]PurchaseInvoiceListItemResponse, int64, error) {
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
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseInvoiceListItemResponses(invoices), total, nil
}

// ListByPurchaseOrder retrieves the invoices billed against an order
func (s *PurchaseInvoiceService) ListByPurchaseOrder(ctx context.Context, orderID uuid.UUID) ([]PurchaseInvoiceListItemResponse, error) {
	invoices, err := s.invoiceRepo.FindByPurchaseOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToPurchaseInvoiceListItemResponses(invoices), nil
}

// Post posts a draft invoice and, for PO-based invoices, applies the
// invoiced quantities to the referenced order. Both aggregates are saved
// under optimistic lock in one transaction; the financial entry is
// emitted in the same scope.
func (s *PurchaseInvoiceService) Post(ctx context.Context, invoiceID uuid.UUID) (*PostInvoiceResponse, error) {
	var result *PostInvoiceResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		if err := invoice.Post(); err != nil {
			return err
		}

		var orderResponse *PurchaseOrderResponse
		if deltas := invoice.InvoiceDeltas(); len(deltas) > 0 {
			order, err := repos.OrderRepo().FindByID(ctx, *invoice.PurchaseOrderID)
			if err != nil {
				return err
			}
			if err := order.ApplyInvoice(deltas); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
				return err
			}
			s.publishEvents(ctx, &order.BaseAggregateRoot)
			r := ToPurchaseOrderResponse(order)
			orderResponse = &r
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}

		if err := s.entryPoster.PostEntry(ctx, FinancialEntry{
			SourceType:  "PURCHASE_INVOICE",
			SourceID:    invoice.ID,
			SupplierID:  invoice.SupplierID,
			Amount:      invoice.GrandTotal,
			EntryDate:   *invoice.PostedAt,
			Description: fmt.Sprintf("Purchase invoice %s posted", invoice.InvoiceNumber),
		}); err != nil {
			return err
		}

		s.publishEvents(ctx, &invoice.BaseAggregateRoot)

		result = &PostInvoiceResponse{
			Invoice: ToPurchaseInvoiceResponse(invoice),
			Order:   orderResponse,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PurchaseInvoiceService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
}
