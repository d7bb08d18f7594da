package http

import (
	"time"

	"returns/internal/core/application/usecases/commands"
	"returns/internal/core/application/usecases/queries"
)

type createOrderRequest struct {
	PickupAddress string   `json:"pickup_address"`
	Retailer      string   `json:"retailer"`
	Boxes         []string `json:"boxes"`
	Rush          bool     `json:"rush"`
	PromoCode     *string  `json:"promo_code,omitempty"`
	Tip           string   `json:"tip,omitempty"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type progressOrderRequest struct {
	Target   string     `json:"target"`
	PickupAt *time.Time `json:"pickup_at,omitempty"`
}

type requestRefundRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

type refundWebhookRequest struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

type bulkTransitionRequest struct {
	OrderIDs []string `json:"order_ids"`
	Target   string   `json:"target"`
}

type bulkRefundItemRequest struct {
	OrderID string `json:"order_id"`
	Amount  string `json:"amount"`
}

type bulkRefundRequest struct {
	Items  []bulkRefundItemRequest `json:"items"`
	Reason string                  `json:"reason"`
}

type bulkFailureResponse struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type bulkResultResponse struct {
	Succeeded []string              `json:"succeeded"`
	Failed    []bulkFailureResponse `json:"failed"`
}

func toBulkResultResponse(result commands.BulkResult) bulkResultResponse {
	response := bulkResultResponse{
		Succeeded: make([]string, len(result.Succeeded)),
		Failed:    make([]bulkFailureResponse, len(result.Failed)),
	}
	for i, id := range result.Succeeded {
		response.Succeeded[i] = id.String()
	}
	for i, failure := range result.Failed {
		response.Failed[i] = bulkFailureResponse{
			OrderID: failure.OrderID.String(),
			Reason:  failure.Reason,
		}
	}

	return response
}

type createPromoRequest struct {
	Code       string    `json:"code"`
	Kind       string    `json:"kind"`
	Value      string    `json:"value"`
	ExpiresAt  time.Time `json:"expires_at"`
	UsageLimit int       `json:"usage_limit"`
}

type createPromoResponse struct {
	ID string `json:"id"`
}

type availableOrderResponse struct {
	ID             string    `json:"id"`
	TrackingNumber string    `json:"tracking_number"`
	PickupAddress  string    `json:"pickup_address"`
	Retailer       string    `json:"retailer"`
	BoxCount       int       `json:"box_count"`
	Rush           bool      `json:"rush"`
	Total          string    `json:"total"`
	DistanceMiles  float64   `json:"distance_miles"`
	CreatedAt      time.Time `json:"created_at"`
}

func toAvailableOrderResponse(item queries.GetAvailableOrdersQueryResponse) availableOrderResponse {
	return availableOrderResponse{
		ID:             item.ID.String(),
		TrackingNumber: item.TrackingNumber,
		PickupAddress:  item.PickupAddress,
		Retailer:       item.Retailer,
		BoxCount:       item.BoxCount,
		Rush:           item.Rush,
		Total:          item.Total.String(),
		DistanceMiles:  item.DistanceMiles,
		CreatedAt:      item.CreatedAt,
	}
}

type priceBreakdownResponse struct {
	BasePrice   string `json:"base_price"`
	DistanceFee string `json:"distance_fee"`
	SizeFee     string `json:"size_fee"`
	MultiBoxFee string `json:"multi_box_fee"`
	Discount    string `json:"discount"`
	ServiceFee  string `json:"service_fee"`
	RushFee     string `json:"rush_fee"`
	Total       string `json:"total"`
}

type orderResponse struct {
	ID             string   `json:"id"`
	TrackingNumber string   `json:"tracking_number"`
	CustomerID     string   `json:"customer_id"`
	DriverID       *string  `json:"driver_id,omitempty"`
	PickupAddress  string   `json:"pickup_address"`
	Retailer       string   `json:"retailer"`
	Boxes          []string `json:"boxes"`
	DistanceMiles  float64  `json:"distance_miles"`
	Rush           bool     `json:"rush"`
	PromoCode      *string  `json:"promo_code,omitempty"`
	Tip            string   `json:"tip"`

	Price priceBreakdownResponse `json:"price"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`

	CustomerPaid   string `json:"customer_paid"`
	RefundedToDate string `json:"refunded_to_date"`

	DriverEarning       string `json:"driver_earning"`
	PlatformFee         string `json:"platform_fee"`
	Settled             bool   `json:"settled"`
	NeedsReconciliation bool   `json:"needs_reconciliation"`

	CreatedAt         time.Time  `json:"created_at"`
	ScheduledPickupAt *time.Time `json:"scheduled_pickup_at,omitempty"`
	ActualDeliveryAt  *time.Time `json:"actual_delivery_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toOrderResponse(view queries.GetOrderQueryResponse) orderResponse {
	response := orderResponse{
		ID:             view.ID.String(),
		TrackingNumber: view.TrackingNumber,
		CustomerID:     view.CustomerID.String(),
		PickupAddress:  view.PickupAddress,
		Retailer:       view.Retailer,
		Boxes:          view.Boxes,
		DistanceMiles:  view.DistanceMiles,
		Rush:           view.Rush,
		PromoCode:      view.PromoCode,
		Tip:            view.Tip.String(),
		Price: priceBreakdownResponse{
			BasePrice:   view.Price.BasePrice.String(),
			DistanceFee: view.Price.DistanceFee.String(),
			SizeFee:     view.Price.SizeFee.String(),
			MultiBoxFee: view.Price.MultiBoxFee.String(),
			Discount:    view.Price.Discount.String(),
			ServiceFee:  view.Price.ServiceFee.String(),
			RushFee:     view.Price.RushFee.String(),
			Total:       view.Price.Total.String(),
		},
		Status:              view.Status,
		PaymentStatus:       view.PaymentStatus,
		CustomerPaid:        view.CustomerPaid.String(),
		RefundedToDate:      view.RefundedToDate.String(),
		DriverEarning:       view.DriverEarning.String(),
		PlatformFee:         view.PlatformFee.String(),
		Settled:             view.Settled,
		NeedsReconciliation: view.NeedsReconciliation,
		CreatedAt:           view.CreatedAt,
		ScheduledPickupAt:   view.ScheduledPickupAt,
		ActualDeliveryAt:    view.ActualDeliveryAt,
		UpdatedAt:           view.UpdatedAt,
	}

	if view.DriverID != nil {
		driverID := view.DriverID.String()
		response.DriverID = &driverID
	}

	return response
}
