package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"marketplaceOrders/internal/db"
	"marketplaceOrders/models"
)

func openStore(t *testing.T, name string) *Store {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return NewStore(d)
}

func int64Ptr(v int64) *int64 { return &v }

func TestOrderRepository_CreateGetUpdate(t *testing.T) {
	s := openStore(t, "orderrepo")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seller, err := s.Users.Create(ctx, "seller", models.RoleSeller)
	if err != nil {
		t.Fatalf("create seller: %v", err)
	}
	shop, err := s.Users.CreateShop(ctx, seller.ID)
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	courier, err := s.Users.Create(ctx, "courier", models.RoleDeliveryman)
	if err != nil {
		t.Fatalf("create courier: %v", err)
	}

	ord, err := s.Orders.Create(ctx, &models.Order{
		ShopID:      &shop.ID,
		SellerFee:   decimal.RequireFromString("12.50"),
		DeliveryFee: decimal.RequireFromString("3.25"),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if ord.Status != models.OrderStatusNew {
		t.Errorf("default status = %q, want new", ord.Status)
	}
	if !ord.SellerFee.Equal(decimal.RequireFromString("12.5")) || !ord.DeliveryFee.Equal(decimal.RequireFromString("3.25")) {
		t.Errorf("fees not round-tripped: %s / %s", ord.SellerFee, ord.DeliveryFee)
	}
	if ord.DeliverymanID != nil {
		t.Errorf("deliveryman should be empty, got %v", *ord.DeliverymanID)
	}

	if err := s.Orders.UpdateStatus(ctx, ord.ID, models.OrderStatusAccepted, &courier.ID); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := s.Orders.GetByID(ctx, ord.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %+v", err, got)
	}
	if got.Status != models.OrderStatusAccepted || got.DeliverymanID == nil || *got.DeliverymanID != courier.ID {
		t.Errorf("unexpected order after update: %+v", got)
	}

	// A nil deliveryman keeps the current assignment.
	if err := s.Orders.UpdateStatus(ctx, ord.ID, models.OrderStatusReady, nil); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, _ = s.Orders.GetByID(ctx, ord.ID)
	if got.DeliverymanID == nil || *got.DeliverymanID != courier.ID {
		t.Errorf("deliveryman lost on update: %+v", got)
	}

	if err := s.Orders.UpdateStatus(ctx, 999999, models.OrderStatusReady, nil); err != ErrNotFound {
		t.Errorf("update missing order: err = %v, want ErrNotFound", err)
	}
	missing, err := s.Orders.GetByID(ctx, 999999)
	if err != nil || missing != nil {
		t.Errorf("get missing order: %+v %v", missing, err)
	}

	if _, err := s.Orders.Create(ctx, &models.Order{Status: "bogus"}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestOrderRepository_ListFiltersAndPages(t *testing.T) {
	s := openStore(t, "orderlist")
	ctx := context.Background()

	courier, err := s.Users.Create(ctx, "c1", models.RoleDeliveryman)
	if err != nil {
		t.Fatalf("create courier: %v", err)
	}
	var ids []int64
	for i, st := range []models.OrderStatus{models.OrderStatusNew, models.OrderStatusDelivered, models.OrderStatusDelivered, models.OrderStatusCanceled} {
		o := &models.Order{Status: st}
		if i%2 == 1 {
			o.DeliverymanID = &courier.ID
		}
		created, err := s.Orders.Create(ctx, o)
		if err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
		ids = append(ids, created.ID)
	}

	delivered, err := s.Orders.List(ctx, ListOrdersParams{Statuses: []models.OrderStatus{models.OrderStatusDelivered}})
	if err != nil {
		t.Fatalf("list delivered: %v", err)
	}
	if len(delivered) != 2 || delivered[0].ID != ids[2] || delivered[1].ID != ids[1] {
		t.Fatalf("delivered list mismatch: %+v", delivered)
	}

	byCourier, err := s.Orders.List(ctx, ListOrdersParams{DeliverymanID: &courier.ID})
	if err != nil {
		t.Fatalf("list by courier: %v", err)
	}
	if len(byCourier) != 2 {
		t.Fatalf("expected 2 orders for courier, got %d", len(byCourier))
	}

	page1, err := s.Orders.List(ctx, ListOrdersParams{PageSize: 3})
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	if len(page1) != 3 {
		t.Fatalf("page1 len = %d, want 3", len(page1))
	}
	page2, err := s.Orders.List(ctx, ListOrdersParams{PageSize: 3, AfterID: page1[len(page1)-1].ID})
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	if len(page2) != 1 || page2[0].ID != ids[0] {
		t.Fatalf("page2 mismatch: %+v", page2)
	}
}

func TestOrderRepository_FindManyForPayout(t *testing.T) {
	s := openStore(t, "orderpayout")
	ctx := context.Background()

	seller, _ := s.Users.Create(ctx, "seller", models.RoleSeller)
	if _, err := s.Wallets.Create(ctx, seller.ID, decimal.RequireFromString("5")); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	shop, _ := s.Users.CreateShop(ctx, seller.ID)
	courier, _ := s.Users.Create(ctx, "courier", models.RoleDeliveryman)

	withBoth, err := s.Orders.Create(ctx, &models.Order{ShopID: &shop.ID, DeliverymanID: &courier.ID})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	bare, err := s.Orders.Create(ctx, &models.Order{})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	list, err := s.Orders.FindManyForPayout(ctx, []int64{bare.ID, withBoth.ID, 424242})
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 orders (missing id skipped), got %d", len(list))
	}
	if list[0].ID != withBoth.ID || list[1].ID != bare.ID {
		t.Fatalf("orders not sorted by id: %d, %d", list[0].ID, list[1].ID)
	}
	first := list[0]
	if first.Seller == nil || first.Seller.ID != seller.ID || first.Seller.Wallet == nil {
		t.Fatalf("seller not loaded with wallet: %+v", first.Seller)
	}
	if !first.Seller.Wallet.Balance.Equal(decimal.NewFromInt(5)) {
		t.Errorf("seller wallet balance = %s", first.Seller.Wallet.Balance)
	}
	if first.Deliveryman == nil || first.Deliveryman.ID != courier.ID || first.Deliveryman.Wallet != nil {
		t.Fatalf("deliveryman mismatch: %+v", first.Deliveryman)
	}
	if list[1].Seller != nil || list[1].Deliveryman != nil {
		t.Fatalf("bare order should have no partners: %+v", list[1])
	}

	empty, err := s.Orders.FindManyForPayout(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty ids: %v %v", empty, err)
	}
}
