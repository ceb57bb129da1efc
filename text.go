package writemode

import (
	"fmt"
)

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Available() {
		return nil, fmt.Errorf("writemode: cannot marshal %v: %w", m, ErrModeUnavailable)
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Set implements flag.Value.
func (m *Mode) Set(value string) error {
	return m.UnmarshalText([]byte(value))
}

// Type implements pflag.Value.
func (m *Mode) Type() string {
	return "writemode"
}
