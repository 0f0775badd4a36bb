package procurement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PaymentService handles supplier payment business operations.
// Recording a payment settles it against the invoice balance atomically;
// cancelling a completed payment restores the balance in the same
// transaction.
type PaymentService struct {
	paymentRepo          procurement.PaymentRepository
	invoiceRepo          procurement.PurchaseInvoiceRepository
	txScope              TransactionScope
	entryPoster          EntryPoster
	eventPublisher       shared.EventPublisher
	chequeValidityMonths int
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo procurement.PaymentRepository,
	invoiceRepo procurement.PurchaseInvoiceRepository,
	txScope TransactionScope,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		txScope:     txScope,
		entryPoster: NoOpEntryPoster{},
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetEntryPoster sets the accounting entry poster
func (s *PaymentService) SetEntryPoster(poster EntryPoster) {
	s.entryPoster = poster
}

// SetChequeValidityMonths overrides the default cheque validity window
func (s *PaymentService) SetChequeValidityMonths(months int) {
	s.chequeValidityMonths = months
}

// Record records a payment against a posted invoice and settles it
// immediately. Validation runs in a fixed order: the invoice must be
// posted, must not already be settled, the amount must fit within the
// outstanding balance, and the supplier-scoped reference number must be
// unused. Payment and invoice are saved in one transaction.
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	var result *RecordPaymentResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		if !invoice.IsPosted() {
			return &procurement.InvoiceNotPostedError{InvoiceID: invoice.ID}
		}
		if invoice.IsFullyPaid() {
			return &procurement.AlreadyPaidError{InvoiceID: invoice.ID}
		}
		if req.Amount.GreaterThan(invoice.BalanceAmount) {
			return &procurement.AmountExceedsBalanceError{
				InvoiceID: invoice.ID,
				Amount:    req.Amount,
				Balance:   invoice.BalanceAmount,
			}
		}
		if req.ReferenceNumber != "" {
			exists, err := repos.PaymentRepo().ExistsByReference(ctx, invoice.SupplierID, req.ReferenceNumber)
			if err != nil {
				return err
			}
			if exists {
				return &procurement.DuplicateReferenceError{
					SupplierID: invoice.SupplierID,
					Reference:  req.ReferenceNumber,
				}
			}
		}

		paymentNumber, err := repos.PaymentRepo().GeneratePaymentNumber(ctx)
		if err != nil {
			return err
		}

		payment, err := procurement.NewPayment(procurement.NewPaymentInput{
			PaymentNumber:        paymentNumber,
			InvoiceID:            invoice.ID,
			SupplierID:           invoice.SupplierID,
			Amount:               req.Amount,
			Mode:                 procurement.PaymentMode(req.Mode),
			ReferenceNumber:      req.ReferenceNumber,
			BankName:             req.BankName,
			ChequeDate:           req.ChequeDate,
			PaymentDate:          timeOrZero(req.PaymentDate),
			Remark:               req.Remark,
			ChequeValidityMonths: s.chequeValidityMonths,
		})
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			payment.SetCreatedBy(*req.CreatedBy)
		}

		if err := payment.Complete(); err != nil {
			return err
		}
		if err := invoice.ApplyPayment(req.Amount); err != nil {
			return err
		}

		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}

		if err := s.entryPoster.PostEntry(ctx, FinancialEntry{
			SourceType:  "PAYMENT",
			SourceID:    payment.ID,
			SupplierID:  payment.SupplierID,
			Amount:      payment.Amount,
			EntryDate:   payment.PaymentDate,
			Description: fmt.Sprintf("Payment %s against invoice %s", payment.PaymentNumber, invoice.InvoiceNumber),
		}); err != nil {
			return err
		}

		s.publishEvents(ctx, &payment.BaseAggregateRoot)
		s.publishEvents(ctx, &invoice.BaseAggregateRoot)

		result = &RecordPaymentResponse{
			Payment: ToPaymentResponse(payment),
			Invoice: ToPurchaseInvoiceResponse(invoice),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.InvoiceID != nil {
		domainFilter.Filters["invoice_id"] = *filter.InvoiceID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Mode != "" {
		domainFilter.Filters["mode"] = filter.Mode
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	payments, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPaymentResponses(payments), total, nil
}

// ListByInvoice retrieves the payments applied against an invoice
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// Cancel cancels a payment. Cancelling a completed payment restores the
// invoice balance in the same transaction.
func (s *PaymentService) Cancel(ctx context.Context, paymentID uuid.UUID, req CancelPaymentRequest) (*PaymentResponse, error) {
	var result *PaymentResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}

		wasCompleted := payment.IsCompleted()
		if err := payment.Cancel(req.Reason); err != nil {
			return err
		}

		if wasCompleted {
			invoice, err := repos.InvoiceRepo().FindByID(ctx, payment.InvoiceID)
			if err != nil {
				return err
			}
			if err := invoice.ReversePayment(payment.Amount); err != nil {
				return err
			}
			if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
				return err
			}
			s.publishEvents(ctx, &invoice.BaseAggregateRoot)
		}

		if err := repos.PaymentRepo().SaveWithLock(ctx, payment); err != nil {
			return err
		}
		s.publishEvents(ctx, &payment.BaseAggregateRoot)

		response := ToPaymentResponse(payment)
		result = &response
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
}
