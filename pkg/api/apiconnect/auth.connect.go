package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "splitledger.v1.AuthService"

// Procedure paths, used for routing and metrics labels.
const (
	AuthServiceRegisterProcedure          = "/splitledger.v1.AuthService/Register"
	AuthServiceLoginProcedure             = "/splitledger.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure    = "/splitledger.v1.AuthService/GetCurrentUser"
	AuthServiceUpdatePreferencesProcedure = "/splitledger.v1.AuthService/UpdatePreferences"
)

// AuthServiceClient is a client for the splitledger.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdatePreferences(context.Context, *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error)
}

// NewAuthServiceClient constructs a client for the splitledger.v1.AuthService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	opts = clientOptions(opts)
	return &authServiceClient{
		register:          connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:             connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser:    connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		updatePreferences: connect.NewClient[api.UpdatePreferencesRequest, api.UpdatePreferencesResponse](httpClient, baseURL+AuthServiceUpdatePreferencesProcedure, opts...),
	}
}

type authServiceClient struct {
	register          *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login             *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentUser    *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	updatePreferences *connect.Client[api.UpdatePreferencesRequest, api.UpdatePreferencesResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) UpdatePreferences(ctx context.Context, req *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error) {
	return c.updatePreferences.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by servers of the splitledger.v1.AuthService service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdatePreferences(context.Context, *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for the service and returns the
// path prefix to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	mux.Handle(AuthServiceUpdatePreferencesProcedure, connect.NewUnaryHandler(AuthServiceUpdatePreferencesProcedure, svc.UpdatePreferences, opts...))
	return "/" + AuthServiceName + "/", mux
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.AuthService.Register is not implemented"))
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.AuthService.Login is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.AuthService.GetCurrentUser is not implemented"))
}

func (UnimplementedAuthServiceHandler) UpdatePreferences(context.Context, *connect.Request[api.UpdatePreferencesRequest]) (*connect.Response[api.UpdatePreferencesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitledger.v1.AuthService.UpdatePreferences is not implemented"))
}
