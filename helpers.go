package myq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

var (
	errNotObject    = errors.New("response body is not a JSON object")
	errFieldMissing = errors.New("field missing")
	errFieldType    = errors.New("field has wrong type")
)

// truncatePreview returns a truncated string for error messages.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// decodeObject parses a response body that must be a JSON object.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v (body: %s)", errNotObject, err, truncatePreview(data))
	}
	if obj == nil {
		return nil, fmt.Errorf("%w (body: %s)", errNotObject, truncatePreview(data))
	}
	return obj, nil
}

// field returns the raw value of name. An absent key and an explicit JSON
// null are both reported as errFieldMissing.
func field(obj map[string]json.RawMessage, name string) (json.RawMessage, error) {
	raw, ok := obj[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: %s", errFieldMissing, name)
	}
	return raw, nil
}

// stringField returns the non-empty string value of name.
func stringField(obj map[string]json.RawMessage, name string) (string, error) {
	raw, err := field(obj, name)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", errFieldType, name)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s", errFieldMissing, name)
	}
	return s, nil
}

// objectField returns the JSON object value of name.
func objectField(obj map[string]json.RawMessage, name string) (map[string]json.RawMessage, error) {
	raw, err := field(obj, name)
	if err != nil {
		return nil, err
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, fmt.Errorf("%w: %s is not an object", errFieldType, name)
	}
	return inner, nil
}

// arrayField decodes the JSON array value of name into a slice of T.
// The result is never nil on success.
func arrayField[T any](obj map[string]json.RawMessage, name string) ([]T, error) {
	raw, err := field(obj, name)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s is not an array", errFieldType, name)
	}
	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errFieldType, name, err)
	}
	return items, nil
}

// Has reports whether the device has the given state attribute.
func (s DeviceState) Has(attribute string) bool {
	_, ok := s[attribute]
	return ok
}

// GetString returns a string attribute value.
// Returns the value and true if found, or empty string and false if not.
func (s DeviceState) GetString(attribute string) (string, bool) {
	v, ok := s[attribute].(string)
	return v, ok
}

// GetBool returns a bool attribute value. The service reports some flags as
// the strings "true" and "false"; those are accepted too.
func (s DeviceState) GetBool(attribute string) (bool, bool) {
	switch v := s[attribute].(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true", "True":
			return true, true
		case "false", "False":
			return false, true
		}
	}
	return false, false
}

// IsDoor reports whether the device has a door_state attribute.
func (d Device) IsDoor() bool {
	return d.State.Has(AttributeDoorState)
}

// IsLight reports whether the device has a light_state attribute.
func (d Device) IsLight() bool {
	return d.State.Has(AttributeLightState)
}

// Online reports the device's online attribute. Devices without one are
// reported offline.
func (d Device) Online() bool {
	online, _ := d.State.GetBool(AttributeOnline)
	return online
}

// FindDeviceBySerial returns the device with the given serial number.
// Returns a pointer to the device in the slice, or nil if not found.
func FindDeviceBySerial(devices []Device, serialNumber string) *Device {
	for i := range devices {
		if devices[i].SerialNumber == serialNumber {
			return &devices[i]
		}
	}
	return nil
}

// FilterDevices returns devices matching the given filter function.
func FilterDevices(devices []Device, filter func(Device) bool) []Device {
	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if filter(d) {
			result = append(result, d)
		}
	}
	return result
}

// Doors returns the devices that report a door state.
func Doors(devices []Device) []Device {
	return FilterDevices(devices, Device.IsDoor)
}

// Lights returns the devices that report a light state.
func Lights(devices []Device) []Device {
	return FilterDevices(devices, Device.IsLight)
}

// cloneDevices returns a copy of devices that shares no maps or slices
// with the original.
func cloneDevices(devices []Device) []Device {
	if devices == nil {
		return nil
	}
	out := make([]Device, len(devices))
	for i, d := range devices {
		out[i] = cloneDevice(d)
	}
	return out
}

func cloneDevice(d Device) Device {
	if d.State != nil {
		state := make(DeviceState, len(d.State))
		for k, v := range d.State {
			state[k] = cloneValue(v)
		}
		d.State = state
	}
	return d
}

// cloneValue deep-copies values produced by encoding/json.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := maps.Clone(t)
		for k, inner := range m {
			m[k] = cloneValue(inner)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return v
	}
}
