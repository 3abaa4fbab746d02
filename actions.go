package myq

import "strconv"

// Action is a state change requested on a door or light. The zero value
// means no action was specified.
type Action int

// Door actions, accepted by SetDoorState.
const (
	DoorOpen Action = iota + 1
	DoorClose
)

// Light actions, accepted by SetLightState.
const (
	LightTurnOn Action = iota + 10
	LightTurnOff
)

var actionNames = map[Action]string{
	DoorOpen:     "DoorOpen",
	DoorClose:    "DoorClose",
	LightTurnOn:  "LightTurnOn",
	LightTurnOff: "LightTurnOff",
}

// String returns the Go name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Action(" + strconv.Itoa(int(a)) + ")"
}

// doorActions and lightActions map each domain's actions to the
// action_type the service expects.
var (
	doorActions = map[Action]string{
		DoorOpen:  actionTypeOpen,
		DoorClose: actionTypeClose,
	}
	lightActions = map[Action]string{
		LightTurnOn:  actionTypeTurnOn,
		LightTurnOff: actionTypeTurnOff,
	}
)
