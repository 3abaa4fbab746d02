package myq

import (
	"context"
	"net/http"
)

// GetDevices returns the metadata and state of every device on the account
// and replaces the client's device cache with them. An account without
// devices yields an empty, non-nil slice.
func (c *Client) GetDevices(ctx context.Context) (*DevicesResult, error) {
	if c.SecurityToken() == "" {
		return nil, newError(CodeLoginRequired, "Not logged in. Please call Login() first.")
	}

	accountID, err := c.ensureAccountID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, &ServiceRequest{
		Method:  http.MethodGet,
		BaseURL: c.deviceBaseURL,
		Path:    devicesRoute(accountID),
	})
	if err != nil {
		return nil, err
	}

	devices, err := parseDeviceList(resp.Body)
	if err != nil {
		return nil, &Error{
			Code:     CodeInvalidServiceResponse,
			Message:  "Service did not return valid devices in response.",
			Response: resp,
			Err:      err,
		}
	}

	c.mu.Lock()
	c.devices = devices
	c.mu.Unlock()

	return &DevicesResult{
		Code:    CodeOK,
		Devices: cloneDevices(devices),
	}, nil
}

// GetDevice returns the device with the given serial number. It always
// fetches a fresh device list rather than trusting the cache.
func (c *Client) GetDevice(ctx context.Context, serialNumber string) (*DeviceResult, error) {
	if serialNumber == "" {
		return nil, errSerialNumberNotSpecified()
	}

	result, err := c.GetDevices(ctx)
	if err != nil {
		return nil, err
	}

	device := FindDeviceBySerial(result.Devices, serialNumber)
	if device == nil {
		return nil, newError(CodeDeviceNotFound, "Could not find device with serial number '%s'.", serialNumber)
	}

	return &DeviceResult{
		Code:   CodeOK,
		Device: *device,
	}, nil
}

// cachedDevice returns a copy of the cached device with the given serial
// number, or false if the cache has none.
func (c *Client) cachedDevice(serialNumber string) (Device, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	device := FindDeviceBySerial(c.devices, serialNumber)
	if device == nil {
		return Device{}, false
	}
	return cloneDevice(*device), true
}

// parseDeviceList extracts the items array from a device list response.
func parseDeviceList(body []byte) ([]Device, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	return arrayField[Device](obj, "items")
}

func errSerialNumberNotSpecified() *Error {
	return newError(CodeInvalidArgument, "Serial number parameter is not specified.")
}
