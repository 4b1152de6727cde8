package order

import (
	"context"
	"time"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/cart"
	"tokoria-be/internal/logger"
	"tokoria-be/internal/payment"
	"tokoria-be/internal/product"
	"tokoria-be/internal/user"
	"tokoria-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*Order, error)
	RetryPaymentSession(ctx context.Context, orderID uuid.UUID) (*Order, error)
	GetOrders(ctx context.Context, filter *FilterInput, limit, page int32) ([]*Order, int64, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) (*Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*Order, error)
	HandlePaymentCallback(ctx context.Context, cb payment.Callback) (*Order, error)
}

type service struct {
	repo        Repository
	cartRepo    cart.Repository
	productRepo product.Repository
	userRepo    user.Repository
	gateway     payment.Gateway
}

func NewService(
	repo Repository,
	cartRepo cart.Repository,
	productRepo product.Repository,
	userRepo user.Repository,
	gateway payment.Gateway,
) Service {
	return &service{
		repo:        repo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		gateway:     gateway,
	}
}

// Checkout turns the caller's cart into a persisted order. Stock
// decrements, order/item inserts and the cart wipe share one commit;
// the gateway session (for hosted payment) is created after that
// commit, so a gateway failure leaves a retryable PENDING_PAYMENT
// order rather than rolling back the reservation.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, apperr.New(apperr.CodeAccessDenied, "authentication required")
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", userID),
		zap.String("payment_method", string(input.PaymentMethod)),
	)

	if !input.PaymentMethod.Valid() {
		return nil, apperr.Newf(apperr.CodeInvalidInput, "unknown payment method %q", input.PaymentMethod)
	}
	surcharge, ok := input.ShippingMethod.Surcharge()
	if !ok {
		return nil, apperr.Newf(apperr.CodeInvalidInput, "unknown shipping method %q", input.ShippingMethod)
	}

	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	crt, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if crt == nil || len(crt.Items) == 0 {
		return nil, apperr.New(apperr.CodeCartNotFound, "cart is empty").
			With("user_id", userID)
	}

	status := StatusOrderConfirmed
	if input.PaymentMethod.RequiresGateway() {
		status = StatusPendingPayment
	}

	var total int64
	items := make([]LineItem, 0, len(crt.Items))
	for _, ci := range crt.Items {
		variant, err := s.productRepo.GetVariantByID(ctx, product.GetVariantOptions{
			VariantID:  ci.VariantID,
			OnlyActive: true,
		})
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, apperr.New(apperr.CodeProductVariantNotFound, "product variant not found").
				With("variant_id", ci.VariantID)
		}
		if variant.Stock < ci.Quantity {
			return nil, apperr.New(apperr.CodeInsufficientStock, "insufficient stock").
				With("variant_id", ci.VariantID).
				With("requested", ci.Quantity).
				With("available", variant.Stock)
		}

		li := buildLineItem(ci, variant)
		total += li.Subtotal
		items = append(items, li)
	}
	total += surcharge

	o := &Order{
		ID:              uuid.New(),
		OrderCode:       utils.GenerateOrderCode(),
		UserID:          userID,
		ShippingAddress: ComposeShippingAddress(profile),
		PaymentMethod:   input.PaymentMethod,
		ShippingMethod:  input.ShippingMethod,
		Status:          status,
		Note:            input.Note,
		TotalAmount:     total,
		CreatedAt:       time.Now(),
		Items:           items,
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		return nil, err
	}

	log = log.With(zap.String("order_code", o.OrderCode), zap.Int64("total", total))
	log.Info("order created")

	if input.PaymentMethod.RequiresGateway() {
		if err := s.createPaymentSession(ctx, o); err != nil {
			log.Error("payment session creation failed after commit", zap.Error(err))
			return nil, err
		}
	}

	return o, nil
}

// createPaymentSession asks the gateway for a hosted checkout page and
// stores the session link on the (already committed) order.
func (s *service) createPaymentSession(ctx context.Context, o *Order) error {
	items := make([]payment.SessionItem, 0, len(o.Items))
	for _, li := range o.Items {
		items = append(items, payment.SessionItem{
			Name:     li.ProductName + " - " + li.VariantName,
			Quantity: li.Quantity,
			Price:    li.UnitPrice,
		})
	}

	sess, err := s.gateway.CreateSession(ctx, payment.SessionRequest{
		OrderCode:   o.OrderCode,
		Amount:      o.TotalAmount,
		Description: "Order " + o.OrderCode,
		Items:       items,
	})
	if err != nil {
		if apperr.IsCode(err, apperr.CodeGatewayUnavailable) {
			return err
		}
		return apperr.Wrap(apperr.CodePaymentCreationFailed, "failed to create payment session", err).
			With("order_id", o.ID.String()).
			With("order_code", o.OrderCode)
	}

	if err := s.repo.SavePaymentSession(ctx, o.ID, sess.CheckoutURL, sess.GatewayRef); err != nil {
		return err
	}

	o.CheckoutURL = &sess.CheckoutURL
	o.GatewayRef = &sess.GatewayRef
	return nil
}

// RetryPaymentSession re-attempts session creation for an order whose
// checkout committed but whose gateway call failed. Replaying it on an
// order that already has a session just returns the existing link.
func (s *service) RetryPaymentSession(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	o, err := s.loadOwnedOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.PaymentMethod.RequiresGateway() {
		return nil, apperr.New(apperr.CodeInvalidInput, "order does not use gateway payment").
			With("order_id", orderID.String())
	}
	if o.Status != StatusPendingPayment {
		return nil, apperr.New(apperr.CodeInvalidStatusTransition, "order is not awaiting payment").
			With("order_id", orderID.String()).
			With("status", string(o.Status))
	}
	if o.GatewayRef != nil {
		return o, nil
	}

	if err := s.createPaymentSession(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetOrders(ctx context.Context, filter *FilterInput, limit, page int32) ([]*Order, int64, error) {
	userID, _ := utils.GetUserIDFromContext(ctx)
	isAdmin := utils.IsAdmin(ctx)

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	orders, err := s.repo.FetchOrders(ctx, userID, isAdmin, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountOrders(ctx, userID, isAdmin, filter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	return s.loadOwnedOrder(ctx, orderID)
}

// loadOwnedOrder loads an order and enforces that the caller owns it,
// unless the request is internal (webhook reconciliation) or from an
// admin.
func (s *service) loadOwnedOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.New(apperr.CodeOrderNotFound, "order not found").
			With("order_id", orderID.String())
	}

	if utils.IsInternalRequest(ctx) || utils.IsAdmin(ctx) {
		return o, nil
	}

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || o.UserID != userID {
		return nil, apperr.New(apperr.CodeAccessDenied, "cannot access others' orders").
			With("order_id", orderID.String())
	}
	return o, nil
}

// UpdateStatus applies one transition of the status machine. It has no
// stock or payment side effects of its own; cancellation and the
// callback reconciler own those.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) (*Order, error) {
	if !ValidStatus(newStatus) {
		return nil, apperr.Newf(apperr.CodeInvalidInput, "unknown status %q", newStatus)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.New(apperr.CodeOrderNotFound, "order not found").
			With("order_id", orderID.String())
	}

	if err := s.applyTransition(ctx, o, newStatus, nil); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) applyTransition(ctx context.Context, o *Order, newStatus Status, reason *string) error {
	if !CanTransition(o.Status, newStatus) {
		return apperr.New(apperr.CodeInvalidStatusTransition, "invalid status transition").
			With("order_id", o.ID.String()).
			With("from", string(o.Status)).
			With("to", string(newStatus))
	}

	if err := s.repo.UpdateStatus(ctx, o.ID, newStatus, reason); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.String("order_code", o.OrderCode),
		zap.String("from", string(o.Status)),
		zap.String("to", string(newStatus)),
	)

	o.Status = newStatus
	if reason != nil {
		o.CancelReason = reason
	}
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel moves an order to CANCELLED on behalf of its owner (or an
// admin), restoring reserved stock and cancelling any live gateway
// session upstream.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*Order, error) {
	o, err := s.loadOwnedOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.cancelOrder(ctx, o, reason, false)
}

// cancelOrder is the shared cancellation path. When cancelledUpstream
// is set the gateway already voided the session itself (cancel
// callback) and must not be called again.
//
// The sequence is: restore stock, attempt the external cancel, and on
// external failure compensate by taking the restored stock back before
// surfacing the error. Only after the external call succeeds (or is
// skipped) does the status flip to CANCELLED.
func (s *service) cancelOrder(ctx context.Context, o *Order, reason string, cancelledUpstream bool) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "cancelOrder"),
		zap.String("order_code", o.OrderCode),
		zap.Bool("cancelled_upstream", cancelledUpstream),
	)

	if !Cancellable(o.Status) {
		return nil, apperr.New(apperr.CodeOrderNotCancellable, "order can no longer be cancelled").
			With("order_id", o.ID.String()).
			With("status", string(o.Status))
	}

	if err := s.repo.RestoreStock(ctx, o.Items); err != nil {
		return nil, err
	}

	if !cancelledUpstream && o.GatewayRef != nil {
		if err := s.gateway.CancelSession(ctx, *o.GatewayRef, reason); err != nil {
			log.Error("upstream cancellation failed, compensating stock restore", zap.Error(err))
			if cerr := s.repo.CompensateStock(ctx, o.Items); cerr != nil {
				log.Error("stock compensation failed", zap.Error(cerr))
			}
			return nil, apperr.Wrap(apperr.CodePaymentCancellationFailed, "failed to cancel payment session", err).
				With("order_id", o.ID.String())
		}
	}

	if err := s.applyTransition(ctx, o, StatusCancelled, &reason); err != nil {
		return nil, err
	}

	log.Info("order cancelled", zap.String("reason", reason))
	return o, nil
}

// HandlePaymentCallback reconciles an asynchronous gateway notification
// into the order's status. It is idempotent: replays that would
// re-apply the current status are no-ops.
func (s *service) HandlePaymentCallback(ctx context.Context, cb payment.Callback) (*Order, error) {
	ctx = utils.SetInternalContext(ctx)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "HandlePaymentCallback"),
		zap.String("gateway_ref", cb.OrderCode),
		zap.String("callback_status", cb.Status),
		zap.Bool("cancel", cb.Cancel),
	)

	if info := s.gateway.InterpretCallback(cb); info != nil {
		o, err := s.repo.GetByGatewayRef(ctx, info.GatewayRef)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, apperr.New(apperr.CodeOrderNotFound, "no order matches payment reference").
				With("gateway_ref", info.GatewayRef)
		}

		target := StatusPaymentFailed
		if info.Status == payment.CallbackStatusPaid {
			target = StatusPaymentConfirmed
		}

		if o.Status == target {
			log.Info("duplicate payment callback ignored")
			return o, nil
		}

		if err := s.applyTransition(ctx, o, target, nil); err != nil {
			return nil, err
		}
		return o, nil
	}

	if cb.Cancel && cb.Status == payment.CallbackStatusCancelled {
		if err := s.gateway.VerifySignature(cb); err != nil {
			log.Warn("cancel callback with invalid signature ignored", zap.Error(err))
			return nil, nil
		}

		o, err := s.repo.GetByGatewayRef(ctx, cb.OrderCode)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, apperr.New(apperr.CodeOrderNotFound, "no order matches payment reference").
				With("gateway_ref", cb.OrderCode)
		}

		if o.Status == StatusCancelled {
			log.Info("duplicate cancel callback ignored")
			return nil, nil
		}

		if _, err := s.cancelOrder(ctx, o, "cancelled at payment gateway", true); err != nil {
			return nil, err
		}
		return nil, nil
	}

	log.Info("unrecognizable payment callback ignored")
	return nil, nil
}
