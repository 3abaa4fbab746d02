package myq

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClient_GetDoorState(t *testing.T) {
	ctx := context.Background()

	t.Run("returns door state", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(door("S1", DoorStateOpening)))
		client := loggedInClient(f)

		result, err := client.GetDoorState(ctx, "S1")
		require.NoError(t, err)
		assert.Equal(t, CodeOK, result.Code)
		state, ok := result.StringValue()
		assert.True(t, ok)
		assert.Equal(t, DoorStateOpening, state)
	})

	t.Run("device without door state is invalid", func(t *testing.T) {
		for _, serial := range []string{"L1", "H1", "weird serial/with'chars"} {
			f := newFakeService(t, accountRoutes(light("L1", LightStateOn), hub("H1"), hub("weird serial/with'chars")))
			client := loggedInClient(f)

			_, err := client.GetDoorState(ctx, serial)
			require.Error(t, err, serial)
			assert.True(t, IsInvalidDevice(err), serial)
			assert.NotErrorIs(t, err, ErrDeviceStateNotFound)
			assert.Contains(t, err.Error(), serial)
			assert.Contains(t, err.Error(), "is not a door")
		}
	})

	t.Run("unknown device", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(door("S1", DoorStateClosed)))
		client := loggedInClient(f)

		_, err := client.GetDoorState(ctx, "S9")
		assert.True(t, IsDeviceNotFound(err))
	})

	t.Run("requires login", func(t *testing.T) {
		doer := &mockDoer{}
		client := NewClient(WithHTTPClient(doer))

		_, err := client.GetDoorState(ctx, "S1")
		assert.True(t, IsLoginRequired(err))
		doer.AssertNotCalled(t, "Do", mock.Anything)
	})

	t.Run("missing serial", func(t *testing.T) {
		_, err := NewClient().GetDoorState(ctx, "")
		assert.True(t, IsInvalidArgument(err))
	})
}

func TestClient_GetLightState(t *testing.T) {
	ctx := context.Background()

	t.Run("returns light state", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(light("L1", LightStateOff)))
		client := loggedInClient(f)

		result, err := client.GetLightState(ctx, "L1")
		require.NoError(t, err)
		assert.Equal(t, LightStateOff, result.DeviceState)
	})

	t.Run("door is not a light", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(door("S1", DoorStateClosed)))
		client := loggedInClient(f)

		_, err := client.GetLightState(ctx, "S1")
		assert.True(t, IsInvalidDevice(err))
		assert.Contains(t, err.Error(), "Device with serial number 'S1' is not a light.")
	})

	t.Run("requires login", func(t *testing.T) {
		doer := &mockDoer{}
		client := NewClient(WithHTTPClient(doer))

		_, err := client.GetLightState(ctx, "L1")
		assert.True(t, IsLoginRequired(err))
		doer.AssertNotCalled(t, "Do", mock.Anything)
	})
}

func TestClient_SetDoorState(t *testing.T) {
	ctx := context.Background()

	t.Run("sends mapped action", func(t *testing.T) {
		tests := []struct {
			action Action
			want   string
		}{
			{DoorOpen, "open"},
			{DoorClose, "close"},
		}

		for _, tt := range tests {
			t.Run(tt.action.String(), func(t *testing.T) {
				f := newFakeService(t, accountRoutes(door("S1", DoorStateClosed)))
				client := loggedInClient(f)

				result, err := client.SetDoorState(ctx, "S1", tt.action)
				require.NoError(t, err)
				assert.Equal(t, &Result{Code: CodeOK}, result)

				puts := f.requestsTo(http.MethodPut, "/device/Accounts/A/Devices/S1/actions")
				require.Len(t, puts, 1)
				assert.JSONEq(t, `{"action_type":"`+tt.want+`"}`, string(puts[0].Body))
				assert.Equal(t, "T", puts[0].Header.Get(HeaderSecurityToken))
			})
		}
	})

	t.Run("invalid actions never reach the network", func(t *testing.T) {
		for _, action := range []Action{0, LightTurnOn, LightTurnOff, Action(99), Action(-1)} {
			doer := &mockDoer{}
			client := NewClient(WithHTTPClient(doer))
			client.securityToken = "T"

			_, err := client.SetDoorState(ctx, "S1", action)
			require.Error(t, err, action.String())
			assert.True(t, IsInvalidArgument(err), action.String())
			doer.AssertNotCalled(t, "Do", mock.Anything)
		}
	})

	t.Run("invalid action message names valid set", func(t *testing.T) {
		_, err := NewClient().SetDoorState(ctx, "S1", LightTurnOn)
		assert.Contains(t, err.Error(), "DoorOpen and DoorClose")

		_, err = NewClient().SetDoorState(ctx, "S1", 0)
		assert.Contains(t, err.Error(), "Action parameter is not specified.")
	})

	t.Run("cached device without capability fails without network", func(t *testing.T) {
		doer := &mockDoer{}
		client := NewClient(WithHTTPClient(doer))
		client.securityToken = "T"
		client.accountID = "A"
		client.devices = []Device{{SerialNumber: "L1", State: DeviceState{AttributeLightState: LightStateOn}}}

		_, err := client.SetDoorState(ctx, "L1", DoorOpen)
		require.Error(t, err)
		assert.True(t, IsInvalidDevice(err))
		assert.Contains(t, err.Error(), "'L1' is not a door")
		doer.AssertNotCalled(t, "Do", mock.Anything)
	})

	t.Run("cached device with capability skips fetch", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(door("S1", DoorStateClosed)))
		client := loggedInClient(f)
		_, err := client.GetDevices(ctx)
		require.NoError(t, err)

		_, err = client.SetDoorState(ctx, "S1", DoorOpen)
		require.NoError(t, err)

		assert.Len(t, f.requestsTo(http.MethodGet, "/device/Accounts/A/Devices"), 1)
		assert.Len(t, f.requestsTo(http.MethodPut, "/device/Accounts/A/Devices/S1/actions"), 1)
	})

	t.Run("uncached device is fetched first", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(light("L1", LightStateOn)))
		client := loggedInClient(f)

		_, err := client.SetDoorState(ctx, "L1", DoorClose)
		assert.True(t, IsInvalidDevice(err))
		assert.Len(t, f.requestsTo(http.MethodGet, "/device/Accounts/A/Devices"), 1)
		assert.Empty(t, f.requestsTo(http.MethodPut, "/device/Accounts/A/Devices/L1/actions"))
	})

	t.Run("unknown device", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(door("S1", DoorStateClosed)))
		client := loggedInClient(f)

		_, err := client.SetDoorState(ctx, "S9", DoorClose)
		assert.True(t, IsDeviceNotFound(err))
	})

	t.Run("service rejects action", func(t *testing.T) {
		routes := accountRoutes(door("S1", DoorStateClosed))
		routes["PUT /device/Accounts/A/Devices/{serial}/actions"] = reply(http.StatusBadRequest, map[string]any{"code": "400.301"})
		f := newFakeService(t, routes)
		client := loggedInClient(f)

		_, err := client.SetDoorState(ctx, "S1", DoorClose)
		assert.True(t, IsDeviceNotFound(err))
	})

	t.Run("requires login", func(t *testing.T) {
		doer := &mockDoer{}
		client := NewClient(WithHTTPClient(doer))

		_, err := client.SetDoorState(ctx, "S1", DoorOpen)
		assert.True(t, IsLoginRequired(err))
		doer.AssertNotCalled(t, "Do", mock.Anything)
	})

	t.Run("missing serial", func(t *testing.T) {
		_, err := NewClient().SetDoorState(ctx, "", DoorOpen)
		assert.True(t, IsInvalidArgument(err))
	})
}

func TestClient_SetLightState(t *testing.T) {
	ctx := context.Background()

	t.Run("sends mapped action", func(t *testing.T) {
		tests := []struct {
			action Action
			want   string
		}{
			{LightTurnOn, "turnon"},
			{LightTurnOff, "turnoff"},
		}

		for _, tt := range tests {
			t.Run(tt.action.String(), func(t *testing.T) {
				f := newFakeService(t, accountRoutes(light("L1", LightStateOff)))
				client := loggedInClient(f)

				result, err := client.SetLightState(ctx, "L1", tt.action)
				require.NoError(t, err)
				assert.Equal(t, CodeOK, result.Code)

				puts := f.requestsTo(http.MethodPut, "/device/Accounts/A/Devices/L1/actions")
				require.Len(t, puts, 1)
				assert.JSONEq(t, `{"action_type":"`+tt.want+`"}`, string(puts[0].Body))
			})
		}
	})

	t.Run("door actions are rejected", func(t *testing.T) {
		doer := &mockDoer{}
		client := NewClient(WithHTTPClient(doer))
		client.securityToken = "T"

		_, err := client.SetLightState(ctx, "L1", DoorOpen)
		assert.True(t, IsInvalidArgument(err))
		assert.Contains(t, err.Error(), "LightTurnOn and LightTurnOff")
		doer.AssertNotCalled(t, "Do", mock.Anything)
	})

	t.Run("door is not a light", func(t *testing.T) {
		f := newFakeService(t, accountRoutes(door("S1", DoorStateClosed)))
		client := loggedInClient(f)

		_, err := client.SetLightState(ctx, "S1", LightTurnOn)
		assert.True(t, IsInvalidDevice(err))
		assert.Contains(t, err.Error(), "is not a light")
	})
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFakeService(t, accountRoutes(fakeDevice{
		"serial_number": "S1",
		"state":         map[string]any{"door_state": "deviceState"},
	}))
	client := f.newClient()

	login, err := client.Login(ctx, "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "T", login.SecurityToken)

	devices, err := client.GetDevices(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", client.AccountID())
	require.Len(t, devices.Devices, 1)
	assert.Equal(t, "S1", devices.Devices[0].SerialNumber)

	result, err := client.SetDoorState(ctx, "S1", DoorClose)
	require.NoError(t, err)
	assert.Equal(t, &Result{Code: CodeOK}, result)

	puts := f.requestsTo(http.MethodPut, "/device/Accounts/A/Devices/S1/actions")
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"action_type":"close"}`, string(puts[0].Body))
	assert.Equal(t, "T", puts[0].Header.Get(HeaderSecurityToken))
}

func TestClient_IndependentSessions(t *testing.T) {
	ctx := context.Background()
	f := newFakeService(t, accountRoutes(door("S1", DoorStateClosed)))

	a := f.newClient()
	b := f.newClient()
	_, err := a.Login(ctx, "a", "p")
	require.NoError(t, err)

	assert.Equal(t, "T", a.SecurityToken())
	assert.Empty(t, b.SecurityToken())

	_, err = b.GetDevices(ctx)
	assert.True(t, IsLoginRequired(err))
}
