package myq

// DeviceState holds a device's state attributes as returned by the service.
// The keys present are the device's capabilities: a door has door_state,
// a light has light_state.
type DeviceState map[string]any

// DeviceType classifies the hardware behind a device.
type DeviceType string

// Device type constants.
const (
	DeviceTypeHub                     DeviceType = "hub"
	DeviceTypeVirtualGarageDoorOpener DeviceType = "virtualgaragedooropener"
	DeviceTypeWifiGarageDoorOpener    DeviceType = "wifigaragedooropener"
	DeviceTypeWifiGDOGateway          DeviceType = "wifigdogateway"
	DeviceTypeLampModule              DeviceType = "lampmodule"
)

// DeviceFamily groups device types by function.
type DeviceFamily string

// Device family constants.
const (
	DeviceFamilyGarageDoor DeviceFamily = "garagedoor"
	DeviceFamilyGateway    DeviceFamily = "gateway"
	DeviceFamilyLamp       DeviceFamily = "lamp"
)

// Door states reported in the door_state attribute.
const (
	DoorStateOpen        = "open"
	DoorStateClosed      = "closed"
	DoorStateOpening     = "opening"
	DoorStateClosing     = "closing"
	DoorStateStopped     = "stopped"
	DoorStateTransition  = "transition"
	DoorStateAutoReverse = "autoreverse"
)

// Light states reported in the light_state attribute.
const (
	LightStateOn  = "on"
	LightStateOff = "off"
)

// Device represents one device on the account.
type Device struct {
	Href           string       `json:"href,omitempty"`
	SerialNumber   string       `json:"serial_number"`
	DeviceFamily   DeviceFamily `json:"device_family,omitempty"`
	DevicePlatform string       `json:"device_platform,omitempty"`
	DeviceType     DeviceType   `json:"device_type,omitempty"`
	Name           string       `json:"name,omitempty"`
	ParentDevice   string       `json:"parent_device,omitempty"`
	ParentDeviceID string       `json:"parent_device_id,omitempty"`
	CreatedDate    string       `json:"created_date,omitempty"`
	State          DeviceState  `json:"state,omitempty"`
}

// Result is returned by operations that produce nothing beyond success.
type Result struct {
	Code Code `json:"code"`
}

// LoginResult is returned by Login.
type LoginResult struct {
	Code          Code   `json:"code"`
	SecurityToken string `json:"securityToken"`
}

// AccountResult is returned by ResolveAccount.
type AccountResult struct {
	Code      Code   `json:"code"`
	AccountID string `json:"accountId"`
}

// DevicesResult is returned by GetDevices.
type DevicesResult struct {
	Code    Code     `json:"code"`
	Devices []Device `json:"devices"`
}

// DeviceResult is returned by GetDevice.
type DeviceResult struct {
	Code   Code   `json:"code"`
	Device Device `json:"device"`
}

// DeviceStateResult is returned by GetDoorState and GetLightState.
// DeviceState holds the raw attribute value, usually a string such as
// DoorStateClosed or LightStateOn.
type DeviceStateResult struct {
	Code        Code `json:"code"`
	DeviceState any  `json:"deviceState"`
}

// StringValue returns the state value as a string.
func (r *DeviceStateResult) StringValue() (string, bool) {
	s, ok := r.DeviceState.(string)
	return s, ok
}
