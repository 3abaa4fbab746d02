package myq

import (
	"net/url"
	"time"
)

const (
	// DefaultAuthBaseURL is the base URL for login and account requests.
	DefaultAuthBaseURL = "https://api.myqdevice.com/api/v5"

	// DefaultDeviceBaseURL is the base URL for device listing and actions.
	DefaultDeviceBaseURL = "https://api.myqdevice.com/api/v5.1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultApplicationID identifies this client to the service.
	DefaultApplicationID = "JVM/G9Nwih5BwKgNCjLxiFUQxQijAebyyg8QUHr7JOrP+tuPb8iHfRHKwTmDzHOu"

	DefaultUserAgent  = "okhttp/3.10.0"
	DefaultAPIVersion = "5.1"
	DefaultBrandID    = "2"
	DefaultCulture    = "en"
)

// Header names sent with service requests.
const (
	HeaderContentType   = "Content-Type"
	HeaderApplicationID = "MyQApplicationId"
	HeaderUserAgent     = "User-Agent"
	HeaderAPIVersion    = "ApiVersion"
	HeaderBrandID       = "BrandId"
	HeaderCulture       = "Culture"
	HeaderSecurityToken = "SecurityToken"
)

// State attributes read from Device.State.
const (
	AttributeDoorState  = "door_state"
	AttributeLightState = "light_state"
	AttributeOnline     = "online"
	AttributeLastUpdate = "last_update"
)

// Action types accepted by the actions endpoint.
const (
	actionTypeOpen    = "open"
	actionTypeClose   = "close"
	actionTypeTurnOn  = "turnon"
	actionTypeTurnOff = "turnoff"
)

const (
	routeLogin   = "/Login"
	routeAccount = "/My"
)

func devicesRoute(accountID string) string {
	return "/Accounts/" + url.PathEscape(accountID) + "/Devices"
}

func deviceActionsRoute(accountID, serialNumber string) string {
	return devicesRoute(accountID) + "/" + url.PathEscape(serialNumber) + "/actions"
}
