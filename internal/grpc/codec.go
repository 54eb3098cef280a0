package grpcserver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"marketplaceOrders/internal/i18n"
	"marketplaceOrders/internal/result"
)

// decodeRequest validates in against dst's JSON shape. Unknown fields are rejected.
func decodeRequest(in *structpb.Struct, dst any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// encodeResponse converts any JSON-serializable value into a Struct.
func encodeResponse(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

type orderErrorView struct {
	OrderID int64  `json:"order_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type response struct {
	OK         bool             `json:"ok"`
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	MessageKey string           `json:"message_key"`
	Data       any              `json:"data,omitempty"`
	Errors     []orderErrorView `json:"errors,omitempty"`
}

// fromResult renders r in locale. Data is only attached on success.
func fromResult[T any](r result.Result[T], tr *i18n.Translator, locale string) (*structpb.Struct, error) {
	resp := response{
		OK:         r.OK,
		Code:       r.Code,
		Message:    tr.Translate(r.Message, locale),
		MessageKey: r.Message.Key,
	}
	if r.OK {
		resp.Data = r.Data
	}
	for _, e := range r.Errors {
		resp.Errors = append(resp.Errors, orderErrorView{
			OrderID: e.OrderID,
			Code:    e.Code,
			Message: tr.Translate(e.Message, locale),
		})
	}
	return encodeResponse(resp)
}

func encodePageToken(afterID int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(afterID, 10)))
}

// decodePageToken parses an opaque page_token into the last order id seen.
func decodePageToken(token string) (int64, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("base64: %w", err)
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid cursor")
	}
	return id, nil
}
