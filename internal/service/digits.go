package service

import "fmt"

// MaxHeatingMinutes is the device-side limit for one heating run.
const MaxHeatingMinutes = 120

// Digits is the three-position minute selector, hundreds first.
type Digits [3]int

func (d Digits) Total() int { return d[0]*100 + d[1]*10 + d[2] }

// DigitsOf splits minutes into selector positions.
func DigitsOf(minutes int) Digits {
	if minutes < 0 {
		minutes = 0
	}
	minutes %= 1000
	return Digits{minutes / 100, minutes / 10 % 10, minutes % 10}
}

// digitBase is the cycle length of each position; hundreds only offers 0 and 1.
var digitBase = Digits{2, 10, 10}

// PickerView is what the minute selector shows.
type PickerView struct {
	Digits        Digits `json:"digits"`
	Total         int    `json:"total"`
	Display       string `json:"display"`
	AcceptEnabled bool   `json:"accept_enabled"`
	LimitWarning  bool   `json:"limit_warning"`
}

// MinutePicker edits a temporary copy of the configured minutes.
type MinutePicker struct {
	temp    Digits
	warning bool
}

func (p *MinutePicker) Open(current Digits) {
	p.temp = current
	p.warning = p.temp.Total() > MaxHeatingMinutes
}

func checkPosition(pos int) error {
	if pos < 0 || pos >= len(digitBase) {
		return invalid("position", "posicion_invalida")
	}
	return nil
}

// Increment advances one position. A step that would pass the limit is
// refused and only raises the warning.
func (p *MinutePicker) Increment(pos int) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	next := p.temp
	next[pos] = (next[pos] + 1) % digitBase[pos]
	if next.Total() > MaxHeatingMinutes {
		p.warning = true
		return nil
	}
	p.temp = next
	p.warning = false
	return nil
}

// Decrement steps one position back, wrapping around. Wrapping may exceed
// the limit; Accept stays disabled until it is fixed.
func (p *MinutePicker) Decrement(pos int) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	p.temp[pos] = (p.temp[pos] + digitBase[pos] - 1) % digitBase[pos]
	p.warning = p.temp.Total() > MaxHeatingMinutes
	return nil
}

func (p *MinutePicker) AcceptEnabled() bool {
	return p.temp.Total() <= MaxHeatingMinutes
}

// Accept returns the chosen digits or a validation error above the limit.
func (p *MinutePicker) Accept() (Digits, error) {
	if !p.AcceptEnabled() {
		p.warning = true
		return p.temp, invalid("minutes", "limite_minutos")
	}
	return p.temp, nil
}

func (p *MinutePicker) View() PickerView {
	return PickerView{
		Digits:        p.temp,
		Total:         p.temp.Total(),
		Display:       fmt.Sprintf("%03d", p.temp.Total()),
		AcceptEnabled: p.AcceptEnabled(),
		LimitWarning:  p.warning,
	}
}
