package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tournevent/fulfillment/internal/store"
	"github.com/tournevent/fulfillment/pkg/carrier"
	"go.uber.org/zap"
)

const maxRequestBytes = 64 << 10

const invalidAddressPayload = "Invalid address payload"

type validateAddressResponse struct {
	OK                bool             `json:"ok"`
	Valid             bool             `json:"valid"`
	NormalizedAddress *carrier.Address `json:"normalizedAddress,omitempty"`
	Messages          []string         `json:"messages"`
}

type validateAddressFailure struct {
	OK       bool     `json:"ok"`
	Messages []string `json:"messages"`
}

type transactionResponse struct {
	Primary   *carrier.Attempt  `json:"primary"`
	Secondary *carrier.Attempt  `json:"secondary,omitempty"`
	Attempts  []carrier.Attempt `json:"attempts"`
	Out       map[string]any    `json:"out,omitempty"`
}

type carriersResponse struct {
	CarrierIDs []string `json:"carrierIds"`
}

type orderResponse struct {
	Order *store.Order `json:"order"`
}

type shipmentsResponse struct {
	Shipments []store.Shipment `json:"shipments"`
}

type ordersResponse struct {
	Orders []store.OrderSummary `json:"orders"`
}

// decodeAddressPayload accepts {"address": {...}} or a bare address object.
func decodeAddressPayload(body []byte) (carrier.Address, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return carrier.Address{}, err
	}
	if envelope == nil {
		return carrier.Address{}, errors.New("address payload is null")
	}

	raw := json.RawMessage(body)
	if nested, ok := envelope["address"]; ok && string(nested) != "null" {
		raw = nested
	}

	var addr carrier.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return carrier.Address{}, err
	}
	return addr, nil
}

// handleValidateAddress godoc
// @Summary Validate a shipping address
// @Description Checks an address with the carrier API using the credential selected for the request.
// @Tags shipping
// @Accept json
// @Produce json
// @Param address body carrier.Address true "Address, bare or wrapped as {address}"
// @Success 200 {object} validateAddressResponse
// @Failure 400 {object} validateAddressFailure
// @Failure 500 {object} validateAddressFailure
// @Router /api/shipping/validate-address [post]
func (s *Server) handleValidateAddress(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, validateAddressFailure{Messages: []string{invalidAddressPayload}})
		return
	}

	addr, err := decodeAddressPayload(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, validateAddressFailure{Messages: []string{invalidAddressPayload}})
		return
	}

	result, err := s.deps.Validator.ValidateAddress(r.Context(), addr, s.flow(r))
	if err != nil {
		if r.Context().Err() != nil {
			s.logger.Ctx(r.Context()).Info("Address validation cancelled by client")
			return
		}
		if errors.Is(err, carrier.ErrMalformedInput) {
			writeJSON(w, http.StatusBadRequest, validateAddressFailure{Messages: []string{invalidAddressPayload}})
			return
		}
		s.logger.Ctx(r.Context()).Error("Address validation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, validateAddressFailure{Messages: []string{carrier.PublicMessage(err)}})
		return
	}

	writeJSON(w, http.StatusOK, validateAddressResponse{
		OK:                true,
		Valid:             result.Valid,
		NormalizedAddress: result.NormalizedAddress,
		Messages:          result.Messages,
	})
}

// handleGetTransaction godoc
// @Summary Look up a label transaction
// @Description Fetches a purchased-label transaction, falling back to the other credential when the first attempt fails.
// @Tags shipping
// @Produce json
// @Param transactionId path string true "Carrier transaction id"
// @Success 200 {object} transactionResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Failure 502 {object} transactionResponse
// @Router /api/admin/shipping/transactions/{transactionId} [get]
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Retriever.Retrieve(r.Context(), r.PathValue("transactionId"), s.flow(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, result.StatusCode(), transactionResponse{
		Primary:   result.Primary(),
		Secondary: result.Secondary(),
		Attempts:  result.Attempts,
		Out:       result.Out,
	})
}

// handleListCarriers godoc
// @Summary List carrier account ids
// @Description Lists active carrier accounts. Disabled in production.
// @Tags shipping
// @Produce json
// @Success 200 {object} carriersResponse
// @Failure 500 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /api/shipping/carriers [get]
func (s *Server) handleListCarriers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.deps.Catalog.ListCarrierIDs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, carriersResponse{CarrierIDs: ids})
}

// handleListPackages godoc
// @Summary List shipping packages
// @Description Returns all packages, defaults first then by name.
// @Tags shipping
// @Produce json
// @Success 200 {array} store.ShippingPackage
// @Failure 500 {object} errorResponse
// @Router /api/shipping/packages [get]
func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.deps.Catalog.ListPackages(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkgs)
}

// handleOrderDetail godoc
// @Summary Get an order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param orderId path string true "Order id (UUID)"
// @Success 200 {object} orderResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/admin/orders/{orderId} [get]
func (s *Server) handleOrderDetail(w http.ResponseWriter, r *http.Request) {
	order, err := s.deps.Admin.OrderDetail(r.Context(), r.PathValue("orderId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order})
}

// handleOrderShipments godoc
// @Summary List an order's shipments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param orderId path string true "Order id (UUID)"
// @Success 200 {object} shipmentsResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/admin/orders/{orderId}/shipments [get]
func (s *Server) handleOrderShipments(w http.ResponseWriter, r *http.Request) {
	shipments, err := s.deps.Admin.Shipments(r.Context(), r.PathValue("orderId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shipmentsResponse{Shipments: shipments})
}

// handleRecentOrders godoc
// @Summary List recent orders
// @Description The 12 newest orders with their customer.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ordersResponse
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/admin/orders [get]
func (s *Server) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.deps.Admin.RecentOrders(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}
