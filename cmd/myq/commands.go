package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	myq "github.com/thomasmunduchira/myq-api"
)

// runner executes CLI commands against an authenticated session.
type runner struct {
	api  myq.API
	out  io.Writer
	json bool

	wait        bool
	interval    time.Duration
	waitTimeout time.Duration
}

type command struct {
	name        string
	summary     string
	needsSerial bool
	run         func(r *runner, ctx context.Context, serial string) error
}

var commands = []command{
	{"account", "print the account ID", false, (*runner).account},
	{"devices", "list devices on the account", false, (*runner).devices},
	{"device", "show one device", true, (*runner).device},
	{"door-state", "print a door's state", true, (*runner).doorState},
	{"light-state", "print a light's state", true, (*runner).lightState},
	{"open", "open a door", true, doorAction(myq.DoorOpen, myq.DoorStateOpen)},
	{"close", "close a door", true, doorAction(myq.DoorClose, myq.DoorStateClosed)},
	{"light-on", "turn a light on", true, lightAction(myq.LightTurnOn)},
	{"light-off", "turn a light off", true, lightAction(myq.LightTurnOff)},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// execute runs the named command with its arguments.
func (r *runner) execute(ctx context.Context, name string, args []string) error {
	cmd, ok := lookupCommand(name)
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	var serial string
	switch {
	case cmd.needsSerial && len(args) != 1:
		return fmt.Errorf("%s requires exactly one serial number", name)
	case !cmd.needsSerial && len(args) != 0:
		return fmt.Errorf("%s takes no arguments", name)
	case cmd.needsSerial:
		serial = args[0]
	}

	return cmd.run(r, ctx, serial)
}

func (r *runner) account(ctx context.Context, _ string) error {
	result, err := r.api.ResolveAccount(ctx)
	if err != nil {
		return err
	}
	if r.json {
		return r.printJSON(result)
	}
	fmt.Fprintln(r.out, result.AccountID)
	return nil
}

func (r *runner) devices(ctx context.Context, _ string) error {
	result, err := r.api.GetDevices(ctx)
	if err != nil {
		return err
	}
	if r.json {
		return r.printJSON(result.Devices)
	}
	for _, d := range result.Devices {
		fmt.Fprintf(r.out, "%s\t%s\t%s\t%s\n", d.SerialNumber, d.DeviceFamily, d.Name, summarizeState(d))
	}
	return nil
}

func (r *runner) device(ctx context.Context, serial string) error {
	result, err := r.api.GetDevice(ctx, serial)
	if err != nil {
		return err
	}
	if r.json {
		return r.printJSON(result.Device)
	}

	d := result.Device
	fmt.Fprintf(r.out, "serial:   %s\n", d.SerialNumber)
	fmt.Fprintf(r.out, "name:     %s\n", d.Name)
	fmt.Fprintf(r.out, "family:   %s\n", d.DeviceFamily)
	fmt.Fprintf(r.out, "type:     %s\n", d.DeviceType)
	fmt.Fprintf(r.out, "online:   %t\n", d.Online())

	keys := make([]string, 0, len(d.State))
	for k := range d.State {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(r.out, "state.%s: %v\n", k, d.State[k])
	}
	return nil
}

func (r *runner) doorState(ctx context.Context, serial string) error {
	result, err := r.api.GetDoorState(ctx, serial)
	if err != nil {
		return err
	}
	return r.printState(result)
}

func (r *runner) lightState(ctx context.Context, serial string) error {
	result, err := r.api.GetLightState(ctx, serial)
	if err != nil {
		return err
	}
	return r.printState(result)
}

func doorAction(action myq.Action, settled string) func(*runner, context.Context, string) error {
	return func(r *runner, ctx context.Context, serial string) error {
		if _, err := r.api.SetDoorState(ctx, serial, action); err != nil {
			return err
		}
		if !r.wait {
			fmt.Fprintf(r.out, "%s: %s requested\n", serial, action)
			return nil
		}
		return r.waitForDoor(ctx, serial, settled)
	}
}

func lightAction(action myq.Action) func(*runner, context.Context, string) error {
	return func(r *runner, ctx context.Context, serial string) error {
		if _, err := r.api.SetLightState(ctx, serial, action); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s: %s requested\n", serial, action)
		return nil
	}
}

// waitForDoor polls the door state until it reports target, printing each
// state change.
func (r *runner) waitForDoor(ctx context.Context, serial, target string) error {
	ctx, cancel := context.WithTimeout(ctx, r.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := ""
	for {
		result, err := r.api.GetDoorState(ctx, serial)
		if err != nil {
			return err
		}
		state := fmt.Sprint(result.DeviceState)
		if state != last {
			fmt.Fprintf(r.out, "%s: %s\n", serial, state)
			last = state
		}
		if state == target {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("door %s did not reach %s: %w", serial, target, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *runner) printState(result *myq.DeviceStateResult) error {
	if r.json {
		return r.printJSON(result)
	}
	fmt.Fprintln(r.out, result.DeviceState)
	return nil
}

func (r *runner) printJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func summarizeState(d myq.Device) string {
	if s, ok := d.State.GetString(myq.AttributeDoorState); ok {
		return "door=" + s
	}
	if s, ok := d.State.GetString(myq.AttributeLightState); ok {
		return "light=" + s
	}
	if d.Online() {
		return "online"
	}
	return "offline"
}
