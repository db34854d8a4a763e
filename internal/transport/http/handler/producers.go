package handler

import (
	"encoding/json"
	"net/http"

	"github.com/salu-0/rubbereco-api/internal/application/notify"
	"github.com/salu-0/rubbereco-api/internal/domain"
	"github.com/salu-0/rubbereco-api/internal/pkg/validate"
)

// ProducerHandler exposes one endpoint per notification kind. The CRUD
// screens of the dashboard call these when a workflow event happens.
type ProducerHandler struct {
	store *notify.Store
}

func NewProducerHandler(store *notify.Store) *ProducerHandler {
	return &ProducerHandler{store: store}
}

type originatorBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

type producerBody struct {
	Originator    originatorBody    `json:"originator" validate:"required"`
	FarmLocation  string            `json:"farm_location"`
	NumberOfTrees int               `json:"number_of_trees" validate:"gte=0"`
	StartDate     string            `json:"start_date"`
	Urgency       string            `json:"urgency" validate:"omitempty,oneof=low normal high urgent"`
	BudgetRange   string            `json:"budget_range"`
	LeaseDuration string            `json:"lease_duration"`
	ServiceType   string            `json:"service_type"`
	Description   string            `json:"description"`
	Extra         map[string]string `json:"extra"`
}

func (b producerBody) toPayload() domain.Payload {
	return domain.Payload{
		Originator: domain.Contact{
			Name:  b.Originator.Name,
			Email: b.Originator.Email,
			Phone: b.Originator.Phone,
		},
		FarmLocation:  b.FarmLocation,
		NumberOfTrees: b.NumberOfTrees,
		StartDate:     b.StartDate,
		Urgency:       b.Urgency,
		BudgetRange:   b.BudgetRange,
		LeaseDuration: b.LeaseDuration,
		ServiceType:   b.ServiceType,
		Description:   b.Description,
		Extra:         b.Extra,
	}
}

// decodeProducer parses and validates the shared producer body.
func decodeProducer(w http.ResponseWriter, r *http.Request) (domain.Payload, bool) {
	var body producerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return domain.Payload{}, false
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Payload{}, false
	}
	return body.toPayload(), true
}

func (h *ProducerHandler) TapperRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProducer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddTapperRequest(r.Context(), p))
}

func (h *ProducerHandler) StaffRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProducer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddStaffRequest(r.Context(), p))
}

func (h *ProducerHandler) LandRegistration(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProducer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddLandRegistration(r.Context(), p))
}

func (h *ProducerHandler) LandLease(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProducer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddLandLease(r.Context(), p))
}

func (h *ProducerHandler) ServiceRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProducer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddServiceRequest(r.Context(), p))
}

func (h *ProducerHandler) TenancyOffering(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProducer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddTenancyOffering(r.Context(), p))
}

func (h *ProducerHandler) LeaveRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProducer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddLeaveRequest(r.Context(), p))
}
