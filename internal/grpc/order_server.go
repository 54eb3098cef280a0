package grpcserver

import (
	"context"
	"errors"
	"sort"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"marketplaceOrders/internal/auth"
	"marketplaceOrders/internal/i18n"
	"marketplaceOrders/internal/orders"
	"marketplaceOrders/internal/payout"
	"marketplaceOrders/internal/result"
	statusreg "marketplaceOrders/internal/status"
	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

const (
	maxPageSize     = 100 // Maximum allowed page size for list operations.
	defaultPageSize = 20  // Default page size for list operations.
)

// Server implements marketplace.orders.v1.OrderService.
type Server struct {
	Users       repository.UserRepositoryI
	Orders      repository.OrderRepositoryI
	Registry    *statusreg.Registry
	Transitions *orders.TransitionService
	Payouts     *payout.Service
	Translator  *i18n.Translator
}

var _ OrderServiceServer = (*Server)(nil)

type updateStatusRequest struct {
	OrderID       int64   `json:"order_id"`
	Status        string  `json:"status"`
	DeliverymanID *int64  `json:"deliveryman_id"`
	Note          *string `json:"note"`
}

type payOutRequest struct {
	PaymentID   int64   `json:"payment_id"`
	PartnerType string  `json:"partner_type"`
	OrderIDs    []int64 `json:"order_ids"`
}

type listOrdersRequest struct {
	Statuses      []string `json:"statuses"`
	ShopID        *int64   `json:"shop_id"`
	DeliverymanID *int64   `json:"deliveryman_id"`
	PageSize      int      `json:"page_size"`
	PageToken     string   `json:"page_token"`
}

type getOrderRequest struct {
	ID int64 `json:"id"`
}

// locale reads the caller's preferred language from the accept-language header.
func locale(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get("accept-language"); len(v) > 0 {
		return v[0]
	}
	return ""
}

// UpdateStatus changes one order's status on behalf of a staff member.
func (s *Server) UpdateStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	u, err := auth.RequireStaff(ctx, s.Users)
	if err != nil {
		return nil, err
	}
	var req updateStatusRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if req.OrderID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	if strings.TrimSpace(req.Status) == "" {
		return nil, status.Error(codes.InvalidArgument, "status is required")
	}
	res := s.Transitions.UpdateStatus(ctx, orders.UpdateStatusInput{
		OrderID:       req.OrderID,
		Status:        strings.TrimSpace(req.Status),
		DeliverymanID: req.DeliverymanID,
		Note:          req.Note,
		ActingUserID:  &u.ID,
	})
	return fromResult(res, s.Translator, locale(ctx))
}

// PayOut settles a batch of orders. Admin only.
func (s *Server) PayOut(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	admin, err := auth.RequireAdmin(ctx, s.Users)
	if err != nil {
		return nil, err
	}
	var req payOutRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if len(req.OrderIDs) == 0 {
		return nil, status.Error(codes.InvalidArgument, "order_ids is required")
	}
	res := s.Payouts.PayOut(ctx, payout.PayOutInput{
		PaymentID:    req.PaymentID,
		PartnerType:  req.PartnerType,
		OrderIDs:     req.OrderIDs,
		ActingUserID: admin.ID,
	})
	return fromResult(res, s.Translator, locale(ctx))
}

type listStatusesRequest struct {
	Sort string `json:"sort"` // "", "asc" or "desc" by display position
}

// ListStatuses returns the active statuses, optionally ordered by display position.
func (s *Server) ListStatuses(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	var req listStatusesRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	dir := strings.ToLower(strings.TrimSpace(req.Sort))
	if dir != "" && dir != "asc" && dir != "desc" {
		return nil, status.Errorf(codes.InvalidArgument, "sort must be asc or desc, got %q", req.Sort)
	}
	defs, err := s.Registry.ListActive(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list statuses: %v", err)
	}
	if defs == nil {
		defs = []models.StatusDefinition{}
	}
	if dir != "" {
		sort.SliceStable(defs, func(i, j int) bool {
			if dir == "desc" {
				return defs[i].Sort > defs[j].Sort
			}
			return defs[i].Sort < defs[j].Sort
		})
	}
	return fromResult(result.OK(defs), s.Translator, locale(ctx))
}

type updateStatusDefinitionRequest struct {
	ID     int64 `json:"id"`
	Active *bool `json:"active"`
	Sort   *int  `json:"sort"`
}

// UpdateStatusDefinition toggles a status or moves it in the display order. Admin only.
// Every change drops the cached status list.
func (s *Server) UpdateStatusDefinition(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	var req updateStatusDefinitionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if req.Active == nil && req.Sort == nil {
		return nil, status.Error(codes.InvalidArgument, "active or sort is required")
	}
	apply := func(err error) (*structpb.Struct, error) {
		if errors.Is(err, repository.ErrNotFound) {
			return fromResult(result.Fail[struct{}](result.NotFound), s.Translator, locale(ctx))
		}
		return nil, status.Errorf(codes.Internal, "update status definition: %v", err)
	}
	if req.Active != nil {
		if err := s.Registry.SetActive(ctx, req.ID, *req.Active); err != nil {
			return apply(err)
		}
	}
	if req.Sort != nil {
		if err := s.Registry.SetSort(ctx, req.ID, *req.Sort); err != nil {
			return apply(err)
		}
	}
	return fromResult(result.OK(struct{}{}), s.Translator, locale(ctx))
}

func (s *Server) ListStatusNames(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	if err := decodeRequest(in, &struct{}{}); err != nil {
		return nil, err
	}
	names, err := s.Registry.NamesByID(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list status names: %v", err)
	}
	return fromResult(result.OK(names), s.Translator, locale(ctx))
}

type orderPage struct {
	Orders        []models.Order `json:"orders"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// ListOrders lists orders with optional filters and cursor pagination.
func (s *Server) ListOrders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireStaff(ctx, s.Users); err != nil {
		return nil, err
	}
	var req listOrdersRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	size := req.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	p := repository.ListOrdersParams{ShopID: req.ShopID, DeliverymanID: req.DeliverymanID, PageSize: size}
	for _, st := range req.Statuses {
		want := models.OrderStatus(strings.TrimSpace(st))
		if !want.Valid() {
			return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", st)
		}
		p.Statuses = append(p.Statuses, want)
	}
	if strings.TrimSpace(req.PageToken) != "" {
		after, err := decodePageToken(req.PageToken)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid page_token: %v", err)
		}
		p.AfterID = after
	}

	list, err := s.Orders.List(ctx, p)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list orders: %v", err)
	}
	page := orderPage{Orders: list}
	if page.Orders == nil {
		page.Orders = []models.Order{}
	}
	if len(list) == size {
		page.NextPageToken = encodePageToken(list[len(list)-1].ID)
	}
	return fromResult(result.OK(page), s.Translator, locale(ctx))
}

func (s *Server) GetOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireStaff(ctx, s.Users); err != nil {
		return nil, err
	}
	var req getOrderRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	o, err := s.Orders.GetByID(ctx, req.ID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get order: %v", err)
	}
	if o == nil {
		return fromResult(result.Fail[*models.Order](result.NotFound), s.Translator, locale(ctx))
	}
	return fromResult(result.OK(o), s.Translator, locale(ctx))
}
