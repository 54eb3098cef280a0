// Package payout settles seller and deliveryman earnings for delivered orders.
package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"marketplaceOrders/internal/metrics"
	"marketplaceOrders/internal/result"
	"marketplaceOrders/internal/wallet"
	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

// PayOutInput is one settlement batch.
type PayOutInput struct {
	PaymentID   int64
	PartnerType string
	OrderIDs    []int64
	// ActingUserID is the admin whose wallet is the counterparty of wallet payouts.
	ActingUserID int64
}

// Service pays partners order by order. Each order commits or rolls back on its own.
// Running the same batch twice pays twice.
type Service struct {
	store   *repository.Store
	ledger  *wallet.Ledger
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates a payout Service. A nil ledger gets NewLedger; nil metrics and logger are allowed.
func NewService(store *repository.Store, ledger *wallet.Ledger, m *metrics.Metrics, log *zap.Logger) *Service {
	if ledger == nil {
		ledger = wallet.NewLedger()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, ledger: ledger, metrics: m, log: log, now: time.Now}
}

// PayOut settles the orders with the partners of the given type.
func (s *Service) PayOut(ctx context.Context, in PayOutInput) result.Result[struct{}] {
	log := s.log.With(zap.Int64("payment_id", in.PaymentID), zap.String("partner_type", in.PartnerType))

	payment, err := s.store.Payments.GetByID(ctx, in.PaymentID)
	if err != nil {
		log.Error("load payment method failed", zap.Error(err))
		return result.Fail[struct{}](result.InternalError)
	}
	if payment == nil || (payment.Tag != models.PaymentTagWallet && payment.Tag != models.PaymentTagCash) {
		return result.Fail[struct{}](result.InvalidPaymentMethod)
	}
	partnerType, err := models.ParsePartnerType(in.PartnerType)
	if err != nil {
		return result.Fail[struct{}](result.InvalidPartnerType)
	}

	var admin *models.User
	if in.ActingUserID != 0 {
		if admin, err = s.store.Users.GetByID(ctx, in.ActingUserID); err != nil {
			log.Error("load acting user failed", zap.Error(err))
			return result.Fail[struct{}](result.InternalError)
		}
	}

	orders, err := s.store.Orders.FindManyForPayout(ctx, in.OrderIDs)
	if err != nil {
		log.Error("load orders failed", zap.Error(err))
		return result.Fail[struct{}](result.InternalError)
	}
	if len(orders) < len(in.OrderIDs) {
		log.Warn("some orders do not exist and were skipped",
			zap.Int("requested", len(in.OrderIDs)), zap.Int("found", len(orders)))
	}

	var errs []result.OrderError
	for i := range orders {
		kind := s.payOrder(ctx, log, payment, partnerType, admin, &orders[i])
		s.metrics.ObservePayout(string(partnerType), kind.Code())
		if kind != result.Success {
			errs = append(errs, result.NewOrderError(orders[i].ID, kind))
		}
	}
	if len(errs) > 0 {
		return result.Partial[struct{}](errs)
	}
	return result.OK(struct{}{})
}

func (s *Service) payOrder(ctx context.Context, log *zap.Logger, payment *models.PaymentMethod, partnerType models.PartnerType, admin *models.User, o *models.PayoutOrder) result.Kind {
	partner := o.Seller
	if partnerType == models.PartnerDeliveryman {
		partner = o.Deliveryman
	}
	if partner == nil {
		return result.PartnerNotFound
	}
	useWallet := payment.Tag == models.PaymentTagWallet
	if useWallet && partner.Wallet == nil {
		return result.WalletMissing
	}

	var p settlement
	switch partnerType {
	case models.PartnerSeller:
		p = sellerSettlement(o.ID, o.SellerFee)
	case models.PartnerDeliveryman:
		p = deliverymanSettlement(o.ID, o.DeliveryFee)
	}

	var createdBy *int64
	if admin != nil {
		createdBy = &admin.ID
	}
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if useWallet {
			if err := s.ledger.RecordMovement(ctx, tx, partner, wallet.Movement{
				Type: p.partnerMove, Amount: p.amount, Note: p.partnerNote, CreatedBy: createdBy,
			}); err != nil {
				return fmt.Errorf("partner wallet: %w", err)
			}
			if err := s.ledger.RecordMovement(ctx, tx, admin, wallet.Movement{
				Type: p.adminMove, Amount: p.amount, Note: p.adminNote, CreatedBy: createdBy,
			}); err != nil {
				return fmt.Errorf("admin wallet: %w", err)
			}
		}
		pp, err := tx.Payouts.CreatePartnerPayment(ctx, &models.PaymentToPartner{
			UserID:  partner.ID,
			OrderID: o.ID,
			Type:    partnerType,
		})
		if err != nil {
			return fmt.Errorf("create partner payment: %w", err)
		}
		_, err = tx.Payouts.CreateTransaction(ctx, &models.Transaction{
			PayableID:         pp.ID,
			Price:             p.price,
			UserID:            partner.ID,
			PaymentSysID:      payment.ID,
			Note:              p.transactionNote,
			PerformTime:       s.now().UTC(),
			Status:            models.TransactionStatusPaid,
			StatusDescription: p.transactionNote,
		})
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("order payout rolled back", zap.Int64("order_id", o.ID), zap.Error(err))
		if errors.Is(err, wallet.ErrWalletMissing) {
			return result.WalletMissing
		}
		return result.InternalError
	}
	log.Info("order paid out", zap.Int64("order_id", o.ID), zap.Int64("user_id", partner.ID), zap.String("price", p.price.String()))
	return result.Success
}

// settlement is what one order pays one partner.
type settlement struct {
	amount          decimal.Decimal // moved between wallets, never negative
	price           decimal.Decimal // recorded on the transaction
	partnerMove     models.WalletHistoryType
	adminMove       models.WalletHistoryType
	partnerNote     string
	adminNote       string
	transactionNote string
}

// A positive seller fee is owed to the seller; a negative one is owed by the seller.
func sellerSettlement(orderID int64, fee decimal.Decimal) settlement {
	p := settlement{
		amount:          fee.Abs(),
		price:           fee,
		partnerMove:     models.WalletWithdraw,
		adminMove:       models.WalletTopup,
		partnerNote:     fmt.Sprintf("For Seller Order payment #%d", orderID),
		adminNote:       fmt.Sprintf("Payment for Seller. Order #%d", orderID),
		transactionNote: fmt.Sprintf("Transaction for seller payment to #%d", orderID),
	}
	if fee.IsPositive() {
		p.partnerMove, p.adminMove = models.WalletTopup, models.WalletWithdraw
	}
	return p
}

// The whole delivery fee goes to the deliveryman.
func deliverymanSettlement(orderID int64, fee decimal.Decimal) settlement {
	return settlement{
		amount:          fee,
		price:           fee,
		partnerMove:     models.WalletTopup,
		adminMove:       models.WalletWithdraw,
		partnerNote:     fmt.Sprintf("Payment for delivery service #%d", orderID),
		adminNote:       fmt.Sprintf("Payment to deliveryman for Order #%d", orderID),
		transactionNote: fmt.Sprintf("Transaction for deliveryman payment to #%d", orderID),
	}
}
