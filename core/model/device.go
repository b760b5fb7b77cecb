package model

import "fmt"

// DeviceType identifies the kind of appliance behind a switchable device.
type DeviceType string

const (
	TypeRefrigerator   DeviceType = "refrigerator"
	TypeFreezer        DeviceType = "freezer"
	TypeRouter         DeviceType = "router"
	TypeCamera         DeviceType = "camera"
	TypeTelevision     DeviceType = "television"
	TypeWashingMachine DeviceType = "washing_machine"
	TypeDryer          DeviceType = "dryer"
	TypeDishwasher     DeviceType = "dishwasher"
	TypeOven           DeviceType = "oven"
	TypeMicrowave      DeviceType = "microwave"
	TypeKettle         DeviceType = "kettle"
	TypeGeyser         DeviceType = "geyser"
	TypeHeater         DeviceType = "heater"
	TypeAircon         DeviceType = "aircon"
	TypePoolPump       DeviceType = "pool_pump"
	TypeLight          DeviceType = "light"
	TypeComputer       DeviceType = "computer"
	TypeConsole        DeviceType = "console"
	TypeOther          DeviceType = "other"
)

// DeviceStatus represents the switch state of a device.
type DeviceStatus string

const (
	StatusOn  DeviceStatus = "on"
	StatusOff DeviceStatus = "off"
)

// DefaultHoursPerDay is assumed when a device has no recorded usage hours.
const DefaultHoursPerDay = 8

// Device represents a switchable appliance owned by a single user.
type Device struct {
	ID                 string       `json:"id"`
	OwnerID            string       `json:"owner_id"`
	Name               string       `json:"name"`
	Type               DeviceType   `json:"type"`
	Room               string       `json:"room"`
	RatedPowerWatts    float64      `json:"rated_power_watts"`
	AverageHoursPerDay float64      `json:"average_hours_per_day"`
	Status             DeviceStatus `json:"status"`
}

// IsOn reports whether the device is currently drawing power.
func (d Device) IsOn() bool { return d.Status == StatusOn }

// HoursPerDay returns the recorded daily usage hours, falling back to the
// default when unset.
func (d Device) HoursPerDay() float64 {
	if d.AverageHoursPerDay <= 0 {
		return DefaultHoursPerDay
	}
	return d.AverageHoursPerDay
}

// Validate checks that the device record is sound before it reaches the
// repository.
func (d Device) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("device name is required")
	}
	if d.Type == "" {
		return fmt.Errorf("device type is required")
	}
	if d.RatedPowerWatts <= 0 {
		return fmt.Errorf("rated power must be positive")
	}
	if d.AverageHoursPerDay < 0 || d.AverageHoursPerDay > 24 {
		return fmt.Errorf("average hours per day must be within [0,24]")
	}
	return nil
}
