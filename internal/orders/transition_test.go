package orders

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplaceOrders/internal/cache"
	"marketplaceOrders/internal/metrics"
	"marketplaceOrders/internal/result"
	"marketplaceOrders/internal/status"
	tu "marketplaceOrders/internal/testutil"
	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

type fixture struct {
	store    *repository.Store
	registry *status.Registry
	metrics  *metrics.Metrics
	svc      *TransitionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := tu.NewStore(t)
	reg := status.NewRegistry(s.Statuses, cache.NewMemory(), status.DefaultTTL, nil)
	m := metrics.New()
	return &fixture{
		store:    s,
		registry: reg,
		metrics:  m,
		svc:      NewTransitionService(s, status.DefaultPolicy(), reg, m, nil),
	}
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	b, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(b)
}

func strPtr(s string) *string { return &s }

func (f *fixture) notes(t *testing.T, orderID int64) []models.OrderStatusNote {
	t.Helper()
	notes, err := f.store.Notes.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return notes
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newFixture(t)
	res := f.svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 999999, Status: "accepted"})
	assert.False(t, res.OK)
	assert.Equal(t, result.NotFound, res.Kind)
	assert.Equal(t, "ERROR_404", res.Code)
	assert.Nil(t, res.Data)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	o := tu.CreateOrder(t, f.store, models.Order{})
	res := f.svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: o.ID, Status: "bogus_status", Note: strPtr("x")})
	assert.Equal(t, result.InvalidStatus, res.Kind)
	assert.Equal(t, "ERROR_253", res.Code)
	assert.Empty(t, f.notes(t, o.ID))
	assert.Contains(t, scrape(t, f.metrics), `marketplace_orders_status_transitions_total{code="ERROR_253",to="unknown"} 1`)
}

func TestUpdateStatus_TerminalStatusesRejectEveryChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, terminal := range []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCanceled} {
		o := tu.CreateOrder(t, f.store, models.Order{Status: terminal})
		for _, to := range models.OrderStatuses {
			if to == terminal {
				continue
			}
			res := f.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: o.ID, Status: to.String(), Note: strPtr("try")})
			require.Equal(t, result.IllegalTransition, res.Kind, "%s -> %s", terminal, to)
			assert.Equal(t, result.KeyTransitionRejected, res.Message.Key)
			assert.Equal(t, terminal.String(), res.Message.Params["from"])
			assert.Equal(t, to.String(), res.Message.Params["to"])
		}
		got, err := f.store.Orders.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, terminal, got.Status)
		assert.Empty(t, f.notes(t, o.ID))
	}
}

func TestUpdateStatus_AcceptWithNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := tu.CreateUser(t, f.store, "admin", models.RoleAdmin, nil)
	o := tu.CreateOrder(t, f.store, models.Order{Status: models.OrderStatusNew})

	res := f.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: o.ID, Status: "accepted", Note: strPtr("ok"), ActingUserID: &admin.ID})
	require.True(t, res.OK, res.Code)
	assert.Equal(t, result.Success, res.Kind)
	assert.Equal(t, "NO_ERROR", res.Code)
	require.NotNil(t, res.Data)
	assert.Equal(t, models.OrderStatusAccepted, res.Data.Status)

	got, err := f.store.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, got.Status)

	notes := f.notes(t, o.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "ok", notes[0].Note)
	assert.Equal(t, models.OrderStatusAccepted, notes[0].Status)
	assert.Equal(t, &admin.ID, notes[0].UserID)

	assert.Contains(t, scrape(t, f.metrics), `marketplace_orders_status_transitions_total{code="NO_ERROR",to="accepted"} 1`)
}

func TestUpdateStatus_NoNoteAndSelfTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := tu.CreateOrder(t, f.store, models.Order{Status: models.OrderStatusDelivered})

	res := f.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: o.ID, Status: "delivered"})
	require.True(t, res.OK)
	assert.Equal(t, models.OrderStatusDelivered, res.Data.Status)
	assert.Empty(t, f.notes(t, o.ID))
}

func TestUpdateStatus_AssignsDeliveryman(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	courier := tu.CreateUser(t, f.store, "courier", models.RoleDeliveryman, nil)
	o := tu.CreateOrder(t, f.store, models.Order{Status: models.OrderStatusReady})

	res := f.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: o.ID, Status: "on_a_way", DeliverymanID: &courier.ID})
	require.True(t, res.OK)
	require.NotNil(t, res.Data.DeliverymanID)
	assert.Equal(t, courier.ID, *res.Data.DeliverymanID)

	// A later change without a deliveryman keeps the assignment.
	res = f.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: o.ID, Status: "delivered"})
	require.True(t, res.OK)
	assert.Equal(t, courier.ID, *res.Data.DeliverymanID)
}

func TestUpdateStatus_InvalidatesRegistry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := tu.CreateOrder(t, f.store, models.Order{})

	before, err := f.registry.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, before, 7)

	// Mutate configuration without going through the registry.
	require.NoError(t, f.store.Statuses.SetActive(ctx, before[6].ID, false))
	cached, err := f.registry.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 7)

	res := f.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: o.ID, Status: "accepted"})
	require.True(t, res.OK)

	after, err := f.registry.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 6)
}

func TestUpdateStatus_NoteFailureLeavesOrderUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := tu.CreateOrder(t, f.store, models.Order{Status: models.OrderStatusNew})
	ghost := int64(424242) // violates the note's user foreign key

	res := f.svc.UpdateStatus(ctx, UpdateStatusInput{OrderID: o.ID, Status: "accepted", Note: strPtr("x"), ActingUserID: &ghost})
	assert.Equal(t, result.InternalError, res.Kind)
	assert.Equal(t, "ERROR_501", res.Code)
	assert.Nil(t, res.Data)

	got, err := f.store.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusNew, got.Status)
	assert.Empty(t, f.notes(t, o.ID))
}

func TestUpdateStatus_StorageFailureIsInternalError(t *testing.T) {
	d := tu.OpenInMemoryDB(t, t.Name())
	s := repository.NewStore(d)
	svc := NewTransitionService(s, status.DefaultPolicy(), nil, nil, nil)
	require.NoError(t, d.Close())

	res := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: 1, Status: "accepted"})
	assert.Equal(t, result.InternalError, res.Kind)
	assert.False(t, res.OK)
}
