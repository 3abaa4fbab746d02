// Package myq provides a Go client for the myQ device-management service,
// which controls garage door openers and lights tied to a myQ account.
//
// # Authentication
//
// A Client starts unauthenticated. Login exchanges the account email and
// password for a short-lived session token held in memory:
//
//	client := myq.NewClient()
//	if _, err := client.Login(ctx, email, password); err != nil {
//	    log.Fatal(err)
//	}
//
// When the token expires, operations fail with CodeLoginRequired and the
// caller logs in again. The client never re-authenticates on its own and
// never persists credentials.
//
// # Devices
//
// List devices and inspect their state attributes:
//
//	result, err := client.GetDevices(ctx)
//	for _, d := range result.Devices {
//	    fmt.Printf("%s %s door=%v\n", d.SerialNumber, d.Name, d.IsDoor())
//	}
//
// A device's capabilities are the keys of its State map. Doors report
// door_state and lights report light_state.
//
// # Doors and Lights
//
//	state, err := client.GetDoorState(ctx, serial)
//	_, err = client.SetDoorState(ctx, serial, myq.DoorClose)
//	_, err = client.SetLightState(ctx, serial, myq.LightTurnOn)
//
// Actions are asynchronous on the service side: SetDoorState returns once
// the request is accepted. Poll GetDoorState to watch the door move.
//
// # Error Handling
//
// Every failure is an *Error with one Code:
//
//	_, err := client.GetDoorState(ctx, serial)
//	switch {
//	case myq.IsLoginRequired(err):
//	    // log in again
//	case myq.IsDeviceNotFound(err):
//	    // no such serial number on the account
//	case myq.IsInvalidDevice(err):
//	    // the device is not a door
//	case errors.Is(err, myq.ErrServiceUnreachable):
//	    // network problem
//	}
//
// The client performs no retries.
//
// # Concurrency
//
// A Client is one session. Its operations are not serialized: resolve the
// account once with ResolveAccount before issuing concurrent per-device
// requests, and never call Login concurrently with other operations.
package myq
