package myq

import "context"

// API defines the myQ session operations implemented by Client.
// Depend on it instead of *Client to substitute a fake in tests.
type API interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ResolveAccount(ctx context.Context) (*AccountResult, error)

	GetDevices(ctx context.Context) (*DevicesResult, error)
	GetDevice(ctx context.Context, serialNumber string) (*DeviceResult, error)

	GetDoorState(ctx context.Context, serialNumber string) (*DeviceStateResult, error)
	SetDoorState(ctx context.Context, serialNumber string, action Action) (*Result, error)
	GetLightState(ctx context.Context, serialNumber string) (*DeviceStateResult, error)
	SetLightState(ctx context.Context, serialNumber string, action Action) (*Result, error)
}

var _ API = (*Client)(nil)
