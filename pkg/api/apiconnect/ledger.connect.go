package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, used for routing and metrics labels.
const (
	LedgerServiceCreateTransactionProcedure = "/splitledger.v1.LedgerService/CreateTransaction"
	LedgerServiceSettleDebtProcedure        = "/splitledger.v1.LedgerService/SettleDebt"
	LedgerServiceDeleteTransactionProcedure = "/splitledger.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure  = "/splitledger.v1.LedgerService/ListTransactions"
	LedgerServiceGetDashboardProcedure      = "/splitledger.v1.LedgerService/GetDashboard"
	LedgerServiceGetGroupSummaryProcedure   = "/splitledger.v1.LedgerService/GetGroupSummary"
	LedgerServiceGetSettlementsProcedure    = "/splitledger.v1.LedgerService/GetSettlements"
	LedgerServiceGetDebtsProcedure          = "/splitledger.v1.LedgerService/GetDebts"
)

// LedgerServiceClient is a client for the splitledger.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	GetDebts(context.Context, *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error)
}

// NewLedgerServiceClient constructs a client for the splitledger.v1.LedgerService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createTransaction: connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+LedgerServiceCreateTransactionProcedure, opts...),
		settleDebt:        connect.NewClient[api.SettleDebtRequest, api.SettleDebtResponse](httpClient, baseURL+LedgerServiceSettleDebtProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		getDashboard:      connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+LedgerServiceGetDashboardProcedure, opts...),
		getGroupSummary:   connect.NewClient[api.GetGroupSummaryRequest, api.GetGroupSummaryResponse](httpClient, baseURL+LedgerServiceGetGroupSummaryProcedure, opts...),
		getSettlements:    connect.NewClient[api.GetSettlementsRequest, api.GetSettlementsResponse](httpClient, baseURL+LedgerServiceGetSettlementsProcedure, opts...),
		getDebts:          connect.NewClient[api.GetDebtsRequest, api.GetDebtsResponse](httpClient, baseURL+LedgerServiceGetDebtsProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	settleDebt        *connect.Client[api.SettleDebtRequest, api.SettleDebtResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	getDashboard      *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
	getGroupSummary   *connect.Client[api.GetGroupSummaryRequest, api.GetGroupSummaryResponse]
	getSettlements    *connect.Client[api.GetSettlementsRequest, api.GetSettlementsResponse]
	getDebts          *connect.Client[api.GetDebtsRequest, api.GetDebtsResponse]
}

func (c *ledgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupSummary(ctx context.Context, req *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	return c.getGroupSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	return c.getSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDebts(ctx context.Context, req *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error) {
	return c.getDebts.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by servers of the splitledger.v1.LedgerService service.
type LedgerServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
	GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	GetDebts(context.Context, *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for the service and returns the
// path prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateTransactionProcedure, connect.NewUnaryHandler(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts...))
	mux.Handle(LedgerServiceSettleDebtProcedure, connect.NewUnaryHandler(LedgerServiceSettleDebtProcedure, svc.SettleDebt, opts...))
	mux.Handle(LedgerServiceDeleteTransactionProcedure, connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...))
	mux.Handle(LedgerServiceListTransactionsProcedure, connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(LedgerServiceGetDashboardProcedure, connect.NewUnaryHandler(LedgerServiceGetDashboardProcedure, svc.GetDashboard, opts...))
	mux.Handle(LedgerServiceGetGroupSummaryProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupSummaryProcedure, svc.GetGroupSummary, opts...))
	mux.Handle(LedgerServiceGetSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceGetSettlementsProcedure, svc.GetSettlements, opts...))
	mux.Handle(LedgerServiceGetDebtsProcedure, connect.NewUnaryHandler(LedgerServiceGetDebtsProcedure, svc.GetDebts, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.CreateTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.SettleDebt is not implemented"))
}

func (UnimplementedLedgerServiceHandler) DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.DeleteTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.ListTransactions is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetDashboard is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetGroupSummary is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetSettlements is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetDebts(context.Context, *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.LedgerService.GetDebts is not implemented"))
}
