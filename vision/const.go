package vision

import "time"

const (
	// BaseURL is the root of the Vision+ cloud API.
	BaseURL = "https://dev-vision.watts.io/api"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 20 * time.Second
)

// Device interface types reported by the discovery endpoint.
const (
	InterfaceThermostat = "homeassistant.components.THERMOSTAT"
	InterfaceSwitch     = "homeassistant.components.SWITCH"
)

// Default settable temperature bounds in degrees Celsius. Individual devices
// may report narrower bounds in their device report.
const (
	DefaultMinTemperature = 5.0
	DefaultMaxTemperature = 35.0
)

// ThermostatMode enumerates the operating modes supported by Vision+
// thermostats. The integer codes are fixed by the vendor API.
type ThermostatMode int

const (
	ModeComfort ThermostatMode = iota + 1
	ModeOff
	ModeEco
	ModeDefrost
	ModeTimer
	ModeProgram
)

// Valid reports whether the mode is one of the vendor-defined codes.
func (m ThermostatMode) Valid() bool {
	return m >= ModeComfort && m <= ModeProgram
}

// String implements fmt.Stringer.
func (m ThermostatMode) String() string {
	switch m {
	case ModeComfort:
		return "COMFORT"
	case ModeOff:
		return "OFF"
	case ModeEco:
		return "ECO"
	case ModeDefrost:
		return "DEFROST"
	case ModeTimer:
		return "TIMER"
	case ModeProgram:
		return "PROGRAM"
	default:
		return "UNKNOWN"
	}
}

// Operation names for Endpoints.
const (
	OpDiscover          = "discover"
	OpDeviceReport      = "device_report"
	OpSetTemperature    = "set_temperature"
	OpSetThermostatMode = "set_thermostat_mode"
	OpSetSwitchState    = "set_switch_state"
)

// Endpoints maps operation names to path templates relative to BaseURL.
// "{device_id}" is replaced with the device identifier.
var Endpoints = map[string]string{
	OpDiscover:          "/integrations/home-assistant/discover",
	OpDeviceReport:      "/integrations/home-assistant/report/{device_id}",
	OpSetTemperature:    "/integrations/home-assistant/control/thermostat/{device_id}/set-temperature",
	OpSetThermostatMode: "/integrations/home-assistant/control/thermostat/{device_id}/set-mode",
	OpSetSwitchState:    "/integrations/home-assistant/control/switch/{device_id}/change-state",
}
