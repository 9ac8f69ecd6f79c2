// Package command is the capability-restricted entry point for the
// conversational assistant. Only the actions listed here can be reached, and
// each one calls the same service methods as the HTTP API.
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"senstosales/internal/domain"
	"senstosales/internal/port"
	"senstosales/internal/service"
)

// Action names a permitted operation.
type Action string

const (
	ActionCreateDC               Action = "create_dc"
	ActionCreateInvoice          Action = "create_invoice"
	ActionQueryRemaining         Action = "query_remaining"
	ActionQueryPendingDeliveries Action = "query_pending_deliveries"
)

var permitted = map[Action]bool{
	ActionCreateDC:               true,
	ActionCreateInvoice:          true,
	ActionQueryRemaining:         true,
	ActionQueryPendingDeliveries: true,
}

// ParseAction accepts only whitelisted action names.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	if !permitted[a] {
		return "", domain.Forbidden("action %q not permitted", name)
	}
	return a, nil
}

// CreateDCPayload is what the assistant proposes for a new DC. Number and
// date are optional and default to the next DC number and today.
type CreateDCPayload struct {
	DCNumber      string                     `json:"dc_number"`
	DCDate        string                     `json:"dc_date"`
	PONumber      string                     `json:"po_number"`
	ConsigneeName string                     `json:"consignee_name"`
	Remarks       string                     `json:"remarks"`
	Items         []service.ChallanLineInput `json:"items"`
}

// RemainingPayload asks for the ledger position of a PO line or lot.
type RemainingPayload struct {
	POLineID string `json:"po_line_id"`
	LotNo    *int   `json:"lot_no,omitempty"`
}

// PendingPayload lists DCs not yet invoiced, optionally for one PO.
type PendingPayload struct {
	PONumber string `json:"po_number"`
}

// Verification is the read-only answer to "what would happen if I confirm".
type Verification struct {
	Action   Action   `json:"action"`
	OK       bool     `json:"ok"`
	Summary  string   `json:"summary"`
	Warnings []string `json:"warnings,omitempty"`
	Data     any      `json:"data,omitempty"`
}

// Outcome is the result of an executed action.
type Outcome struct {
	Action  Action `json:"action"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Dispatcher routes permitted actions to the services.
type Dispatcher struct {
	challans service.ChallanService
	invoices service.InvoiceService
	ledger   service.LedgerService
	log      *zap.Logger
	now      func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the clock used for default document dates.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher creates a Dispatcher over the given services.
func NewDispatcher(challans service.ChallanService, invoices service.InvoiceService,
	ledger service.LedgerService, log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{challans: challans, invoices: invoices, ledger: ledger, log: log, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Verify checks a proposed action against committed data without writing.
// owner is the caller's owner tag, applied exactly as Execute applies it.
// Rule violations come back as a failed Verification; only unexpected
// failures are returned as errors.
func (d *Dispatcher) Verify(ctx context.Context, owner, name string, payload json.RawMessage) (*Verification, error) {
	action, err := ParseAction(name)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionCreateDC:
		var p CreateDCPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		preview, err := d.challans.Preview(ctx, d.challanInput(&p, owner))
		if err != nil {
			return rejected(action, err)
		}
		v := &Verification{
			Action:  action,
			OK:      true,
			Summary: fmt.Sprintf("DC %s against PO %s with %d line(s)", preview.DCNumber, preview.PONumber, len(preview.Lines)),
			Data:    preview,
		}
		for _, l := range preview.Lines {
			if l.After.IsZero() {
				v.Warnings = append(v.Warnings, fmt.Sprintf("PO line %s will be fully dispatched", l.POLineID))
			}
		}
		return v, nil

	case ActionCreateInvoice:
		var p service.CreateInvoiceInput
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		draft, err := d.invoices.Preview(ctx, d.invoiceInput(&p, owner))
		if err != nil {
			return rejected(action, err)
		}
		return &Verification{
			Action: action,
			OK:     true,
			Summary: fmt.Sprintf("invoice %s for delivery challan %s, total %s",
				draft.InvoiceNumber, draft.DCNumber, draft.Total.StringFixed(2)),
			Data: draft,
		}, nil

	default:
		out, err := d.query(ctx, action, payload)
		if err != nil {
			return rejected(action, err)
		}
		return &Verification{Action: action, OK: true, Summary: out.Message, Data: out.Data}, nil
	}
}

// Execute performs a confirmed action.
func (d *Dispatcher) Execute(ctx context.Context, owner, name string, payload json.RawMessage) (*Outcome, error) {
	action, err := ParseAction(name)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionCreateDC:
		var p CreateDCPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		res, err := d.challans.Create(ctx, d.challanInput(&p, owner))
		if err != nil {
			return nil, err
		}
		d.log.Info("dispatcher.Execute: action executed",
			zap.String("action", string(action)), zap.String("dc_number", res.DCNumber))
		return &Outcome{
			Action:  action,
			Message: fmt.Sprintf("Created delivery challan %s", res.DCNumber),
			Data:    res,
		}, nil

	case ActionCreateInvoice:
		var p service.CreateInvoiceInput
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		res, err := d.invoices.Create(ctx, d.invoiceInput(&p, owner))
		if err != nil {
			return nil, err
		}
		d.log.Info("dispatcher.Execute: action executed",
			zap.String("action", string(action)), zap.String("invoice_number", res.InvoiceNumber))
		return &Outcome{
			Action:  action,
			Message: fmt.Sprintf("Created invoice %s for %s", res.InvoiceNumber, res.TotalAmount.StringFixed(2)),
			Data:    res,
		}, nil

	default:
		return d.query(ctx, action, payload)
	}
}

func (d *Dispatcher) query(ctx context.Context, action Action, payload json.RawMessage) (*Outcome, error) {
	switch action {
	case ActionQueryRemaining:
		var p RemainingPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.POLineID) == "" {
			return nil, domain.InvalidInput("po_line_id is required")
		}
		pos, err := d.ledger.Position(ctx, p.POLineID, p.LotNo)
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Action:  action,
			Message: fmt.Sprintf("%s remaining of %s ordered", pos.Remaining.String(), pos.Ordered.String()),
			Data:    pos,
		}, nil

	case ActionQueryPendingDeliveries:
		var p PendingPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		pending, err := d.challans.List(ctx, port.ChallanFilter{PONumber: p.PONumber, PendingOnly: true})
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Action:  action,
			Message: fmt.Sprintf("%d delivery challan(s) awaiting invoice", len(pending)),
			Data:    pending,
		}, nil
	}
	return nil, domain.Forbidden("action %q not permitted", action)
}

func (d *Dispatcher) challanInput(p *CreateDCPayload, owner string) *service.CreateChallanInput {
	date := p.DCDate
	if date == "" {
		date = d.now().Format(domain.DateLayout)
	}
	return &service.CreateChallanInput{
		OwnerID:       owner,
		AutoNumber:    true,
		DCNumber:      p.DCNumber,
		DCDate:        date,
		PONumber:      p.PONumber,
		ConsigneeName: p.ConsigneeName,
		Remarks:       p.Remarks,
		Lines:         p.Items,
	}
}

func (d *Dispatcher) invoiceInput(p *service.CreateInvoiceInput, owner string) *service.CreateInvoiceInput {
	p.OwnerID = owner
	if p.InvoiceDate == "" {
		p.InvoiceDate = d.now().Format(domain.DateLayout)
	}
	return p
}

// rejected turns a classified rule failure into a negative Verification.
func rejected(action Action, err error) (*Verification, error) {
	if domain.KindOf(err) == domain.KindInternal {
		return nil, err
	}
	msg := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	return &Verification{Action: action, OK: false, Summary: msg, Warnings: []string{msg}}, nil
}

// decode reads a payload strictly; unknown fields are rejected so that the
// assistant cannot smuggle fields the action does not define.
func decode(payload json.RawMessage, v any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		payload = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.InvalidInput("invalid payload: %v", err)
	}
	return nil
}
