package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"senstosales/internal/config"
	"senstosales/internal/domain"
	"senstosales/internal/port"
	"senstosales/internal/repository/sqlstore"
	"senstosales/internal/sequence"
	"senstosales/internal/service"
	"senstosales/internal/tax"
)

type engine struct {
	pos      service.PurchaseOrderService
	challans service.ChallanService
	invoices service.InvoiceService
	receipts service.ReceiptService
	ledger   service.LedgerService
}

func newSQLiteStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	cfg := &config.DBConfig{
		Driver:        config.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "ledger.db"),
		BusyTimeoutMS: 10000,
		MaxOpen:       8,
		MaxIdle:       8,
	}
	conn, err := sqlstore.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, sqlstore.MigrateUp(conn))
	return sqlstore.NewStore(conn)
}

func newEngine(t *testing.T) *engine {
	store := newSQLiteStore(t)
	log := zap.NewNop()
	rates := tax.NewRateSelector(nil, "33", decimal.NewFromInt(9), decimal.NewFromInt(9), decimal.NewFromInt(18))
	return &engine{
		pos:      service.NewPurchaseOrderService(store, log),
		challans: service.NewChallanService(store, sequence.NewGenerator("DC", sequence.WithClock(fixedClock)), log),
		invoices: service.NewInvoiceService(store, sequence.NewGenerator("INV", sequence.WithClock(fixedClock)), rates, nil, log),
		receipts: service.NewReceiptService(store, log),
		ledger:   service.NewLedgerService(store),
	}
}

// seedPO ingests PO-1 with a single line and returns the line id.
func seedPO(t *testing.T, e *engine, ordered string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.pos.Ingest(ctx, &service.IngestPOInput{
		PONumber:  "PO-1",
		PODate:    "2025-06-15",
		BuyerName: "Southern Railway",
		Lines: []service.POLineInput{
			{LineNo: 1, Description: "Brake block", HSNCode: "8708", OrderedQty: dec(ordered), Rate: dec("200")},
		},
	})
	require.NoError(t, err)
	po, err := e.pos.Get(ctx, "PO-1")
	require.NoError(t, err)
	require.Len(t, po.Lines, 1)
	return po.Lines[0].ID
}

func dispatch(e *engine, dcNumber, lineID, qty string) (*service.ChallanResult, error) {
	return e.challans.Create(context.Background(), &service.CreateChallanInput{
		DCNumber: dcNumber,
		DCDate:   "2025-07-01",
		PONumber: "PO-1",
		Lines:    []service.ChallanLineInput{{POLineID: lineID, DispatchQty: dec(qty)}},
	})
}

func TestLedger_EndToEndScenario(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	lineID := seedPO(t, e, "100")

	_, err := dispatch(e, "DC-A", lineID, "60")
	require.NoError(t, err)
	remaining, err := e.ledger.RemainingQuantity(ctx, lineID, nil)
	require.NoError(t, err)
	assert.Equal(t, "40", remaining.String())

	_, err = dispatch(e, "DC-B", lineID, "50")
	assertKind(t, err, domain.KindBusinessRuleViolation)
	assert.Contains(t, err.Error(), "exceeds remaining (40)")

	_, err = dispatch(e, "DC-B", lineID, "40")
	require.NoError(t, err)
	remaining, err = e.ledger.RemainingQuantity(ctx, lineID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())

	result, err := e.invoices.Create(ctx, &service.CreateInvoiceInput{
		InvoiceDate: "2025-07-02",
		DCNumber:    "DC-A",
		BuyerName:   "Southern Railway",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV/2025-26/001", result.InvoiceNumber)
	assert.Equal(t, "14160.00", result.TotalAmount.StringFixed(2))

	inv, err := e.invoices.Get(ctx, result.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, "12000.00", inv.TaxableValue.StringFixed(2))
	assert.Equal(t, "1080.00", inv.CGST.StringFixed(2))
	assert.Equal(t, "1080.00", inv.SGST.StringFixed(2))
	assert.Equal(t, "14160.00", inv.Total.StringFixed(2))
	require.Len(t, inv.Lines, 1)

	_, err = e.invoices.Create(ctx, &service.CreateInvoiceInput{
		InvoiceDate: "2025-07-03",
		DCNumber:    "DC-A",
		BuyerName:   "Southern Railway",
	})
	assertKind(t, err, domain.KindConflict)

	// An invoiced DC is frozen, a pending one can still be replaced.
	_, err = e.challans.Update(ctx, "DC-A", &service.CreateChallanInput{
		DCDate: "2025-07-01", PONumber: "PO-1",
		Lines: []service.ChallanLineInput{{POLineID: lineID, DispatchQty: dec("10")}},
	})
	assertKind(t, err, domain.KindForbidden)
	assertKind(t, e.challans.Delete(ctx, "DC-A"), domain.KindForbidden)

	_, err = e.challans.Update(ctx, "DC-B", &service.CreateChallanInput{
		DCDate: "2025-07-01", PONumber: "PO-1",
		Lines: []service.ChallanLineInput{{POLineID: lineID, DispatchQty: dec("30")}},
	})
	require.NoError(t, err)

	summaries, err := e.challans.List(ctx, port.ChallanFilter{PONumber: "PO-1", PendingOnly: true})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "DC-B", summaries[0].DCNumber)
	assert.Equal(t, domain.ChallanStatusPending, summaries[0].Status)

	pos, err := e.ledger.Position(ctx, lineID, nil)
	require.NoError(t, err)
	assert.Equal(t, "90", pos.Dispatched.String())
	assert.Equal(t, "60", pos.Invoiced.String())
	assert.Equal(t, "10", pos.Remaining.String())

	assertKind(t, e.pos.Delete(ctx, "PO-1"), domain.KindConflict)
}

func TestLedger_LotsAreCheckedIndependently(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	_, err := e.pos.Ingest(ctx, &service.IngestPOInput{
		PONumber: "PO-1",
		Lines: []service.POLineInput{{
			LineNo: 1, OrderedQty: dec("10"), Rate: dec("5"),
			Lots: []service.LotInput{{LotNo: 1, OrderedQty: dec("4")}, {LotNo: 2, OrderedQty: dec("6")}},
		}},
	})
	require.NoError(t, err)
	po, err := e.pos.Get(ctx, "PO-1")
	require.NoError(t, err)
	lineID := po.Lines[0].ID
	one, two := 1, 2

	_, err = dispatch(e, "DC-1", lineID, "1")
	assertKind(t, err, domain.KindInvalidInput)

	_, err = e.challans.Create(ctx, &service.CreateChallanInput{
		DCNumber: "DC-1", DCDate: "2025-07-01", PONumber: "PO-1",
		Lines: []service.ChallanLineInput{{POLineID: lineID, LotNo: &one, DispatchQty: dec("5")}},
	})
	assertKind(t, err, domain.KindBusinessRuleViolation)

	_, err = e.challans.Create(ctx, &service.CreateChallanInput{
		DCNumber: "DC-1", DCDate: "2025-07-01", PONumber: "PO-1",
		Lines: []service.ChallanLineInput{
			{POLineID: lineID, LotNo: &one, DispatchQty: dec("4")},
			{POLineID: lineID, LotNo: &two, DispatchQty: dec("6")},
		},
	})
	require.NoError(t, err)

	remaining, err := e.ledger.RemainingQuantity(ctx, lineID, &two)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())

	three := 3
	_, err = e.ledger.RemainingQuantity(ctx, lineID, &three)
	assertKind(t, err, domain.KindNotFound)
}

func TestLedger_ConcurrentDispatchNeverOverCommits(t *testing.T) {
	e := newEngine(t)
	lineID := seedPO(t, e, "100")

	const writers = 16
	var (
		mu       sync.Mutex
		accepted int
		rejected int
	)
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		dcNumber := fmt.Sprintf("DC-%02d", i)
		g.Go(func() error {
			_, err := dispatch(e, dcNumber, lineID, "10")
			mu.Lock()
			defer mu.Unlock()
			switch domain.KindOf(err) {
			case "":
				accepted++
			case domain.KindBusinessRuleViolation:
				rejected++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 10, accepted)
	assert.Equal(t, writers-10, rejected)
	remaining, err := e.ledger.RemainingQuantity(context.Background(), lineID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())
}

func TestLedger_ConcurrentInvoicesGetDistinctSequentialNumbers(t *testing.T) {
	e := newEngine(t)
	lineID := seedPO(t, e, "100")

	const n = 8
	for i := 0; i < n; i++ {
		_, err := dispatch(e, fmt.Sprintf("DC-%02d", i), lineID, "5")
		require.NoError(t, err)
	}

	numbers := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		idx := i
		g.Go(func() error {
			res, err := e.invoices.Create(context.Background(), &service.CreateInvoiceInput{
				InvoiceDate: "2025-07-02",
				DCNumber:    fmt.Sprintf("DC-%02d", idx),
				BuyerName:   "Southern Railway",
			})
			if err != nil {
				return err
			}
			numbers[idx] = res.InvoiceNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Strings(numbers)
	for i, number := range numbers {
		assert.Equal(t, sequence.Format("INV", "2025-26", i+1), number)
	}
}

func TestLedger_ReceiptBlocksPODelete(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	seedPO(t, e, "10")

	_, err := e.receipts.Create(ctx, &service.CreateReceiptInput{
		SRVNumber: "SRV-1", SRVDate: "2025-07-05", PONumber: "PO-1",
		ReceivedQty: dec("5"), AcceptedQty: dec("5"),
	})
	require.NoError(t, err)
	_, err = e.receipts.Create(ctx, &service.CreateReceiptInput{
		SRVNumber: "SRV-1", SRVDate: "2025-07-05", PONumber: "PO-1",
		ReceivedQty: dec("5"),
	})
	assertKind(t, err, domain.KindConflict)

	assertKind(t, e.pos.Delete(ctx, "PO-1"), domain.KindConflict)
	list, err := e.receipts.ListByPO(ctx, "PO-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLedger_DeleteUnreferencedPO(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	seedPO(t, e, "10")

	require.NoError(t, e.pos.Delete(ctx, "PO-1"))
	_, err := e.pos.Get(ctx, "PO-1")
	assertKind(t, err, domain.KindNotFound)
}
