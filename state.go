package myq

import (
	"context"
	"errors"
	"net/http"
)

type actionRequest struct {
	ActionType string `json:"action_type"`
}

// GetDoorState returns the door_state of the door with the given serial
// number. The value may be an intermediate state such as DoorStateOpening.
// A device without a door state fails with CodeInvalidDevice.
func (c *Client) GetDoorState(ctx context.Context, serialNumber string) (*DeviceStateResult, error) {
	if serialNumber == "" {
		return nil, errSerialNumberNotSpecified()
	}
	result, err := c.getDeviceState(ctx, serialNumber, AttributeDoorState)
	if err != nil {
		return nil, notA(err, serialNumber, "door")
	}
	return result, nil
}

// GetLightState returns the light_state of the light with the given serial
// number. A device without a light state fails with CodeInvalidDevice.
func (c *Client) GetLightState(ctx context.Context, serialNumber string) (*DeviceStateResult, error) {
	if serialNumber == "" {
		return nil, errSerialNumberNotSpecified()
	}
	result, err := c.getDeviceState(ctx, serialNumber, AttributeLightState)
	if err != nil {
		return nil, notA(err, serialNumber, "light")
	}
	return result, nil
}

// SetDoorState requests that a door open or close. action must be DoorOpen
// or DoorClose.
//
// The service actuates asynchronously and the new state is not read back;
// poll GetDoorState to observe the door settle.
func (c *Client) SetDoorState(ctx context.Context, serialNumber string, action Action) (*Result, error) {
	if serialNumber == "" {
		return nil, errSerialNumberNotSpecified()
	}
	actionType, err := lookupAction(action, doorActions, "door", "DoorOpen and DoorClose")
	if err != nil {
		return nil, err
	}
	result, err := c.setDeviceState(ctx, serialNumber, actionType, AttributeDoorState)
	if err != nil {
		return nil, notA(err, serialNumber, "door")
	}
	return result, nil
}

// SetLightState requests that a light turn on or off. action must be
// LightTurnOn or LightTurnOff.
//
// The new state is not read back; poll GetLightState to confirm it.
func (c *Client) SetLightState(ctx context.Context, serialNumber string, action Action) (*Result, error) {
	if serialNumber == "" {
		return nil, errSerialNumberNotSpecified()
	}
	actionType, err := lookupAction(action, lightActions, "light", "LightTurnOn and LightTurnOff")
	if err != nil {
		return nil, err
	}
	result, err := c.setDeviceState(ctx, serialNumber, actionType, AttributeLightState)
	if err != nil {
		return nil, notA(err, serialNumber, "light")
	}
	return result, nil
}

func lookupAction(action Action, valid map[Action]string, deviceKind, validNames string) (string, error) {
	if action == 0 {
		return "", newError(CodeInvalidArgument, "Action parameter is not specified.")
	}
	actionType, ok := valid[action]
	if !ok {
		return "", newError(CodeInvalidArgument,
			"Invalid action parameter '%s' specified for a %s; valid actions are %s.", action, deviceKind, validNames)
	}
	return actionType, nil
}

// notA converts CodeDeviceStateNotFound into CodeInvalidDevice: a missing
// state attribute means the device is not of the requested kind.
func notA(err error, serialNumber, deviceKind string) error {
	if errors.Is(err, ErrDeviceStateNotFound) {
		return newError(CodeInvalidDevice, "Device with serial number '%s' is not a %s.", serialNumber, deviceKind)
	}
	return err
}

func errStateNotPresent(attribute string) *Error {
	return newError(CodeDeviceStateNotFound, "State attribute '%s' is not present on device.", attribute)
}

// getDeviceState fetches the device and returns the value of attribute.
// Fails with CodeDeviceStateNotFound if the device lacks the attribute.
func (c *Client) getDeviceState(ctx context.Context, serialNumber, attribute string) (*DeviceStateResult, error) {
	result, err := c.GetDevice(ctx, serialNumber)
	if err != nil {
		return nil, err
	}
	value, ok := result.Device.State[attribute]
	if !ok {
		return nil, errStateNotPresent(attribute)
	}
	return &DeviceStateResult{
		Code:        CodeOK,
		DeviceState: value,
	}, nil
}

// setDeviceState sends actionType to the device after checking that it has
// attribute: against the cached device when there is one, otherwise
// against a fresh fetch.
func (c *Client) setDeviceState(ctx context.Context, serialNumber, actionType, attribute string) (*Result, error) {
	if device, ok := c.cachedDevice(serialNumber); ok {
		if !device.State.Has(attribute) {
			return nil, errStateNotPresent(attribute)
		}
	} else if _, err := c.getDeviceState(ctx, serialNumber, attribute); err != nil {
		return nil, err
	}

	accountID, err := c.ensureAccountID(ctx)
	if err != nil {
		return nil, err
	}

	_, err = c.Do(ctx, &ServiceRequest{
		Method:  http.MethodPut,
		BaseURL: c.deviceBaseURL,
		Path:    deviceActionsRoute(accountID, serialNumber),
		Body:    actionRequest{ActionType: actionType},
	})
	c.logDeviceAction(ctx, serialNumber, actionType, err)
	if err != nil {
		return nil, err
	}

	return &Result{Code: CodeOK}, nil
}
