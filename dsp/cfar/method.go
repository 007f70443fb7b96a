package cfar

import (
	"fmt"
	"strings"
)

// Method selects a CFAR estimator.
type Method int

const (
	// MethodCA uses cell averaging.
	MethodCA Method = iota
	// MethodOS uses an ordered statistic.
	MethodOS
	// MethodTM uses a trimmed mean.
	MethodTM
	// MethodFusion votes CA, OS and TM.
	MethodFusion

	methodCount // sentinel for validation
)

var methodNames = [methodCount]string{"ca", "os", "tm", "fusion"}

// String returns the short method name.
func (m Method) String() string {
	if m.Valid() {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", m)
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m >= 0 && m < methodCount
}

// ParseMethod accepts the short names and their "_cfar" suffixed forms,
// case-insensitively.
func ParseMethod(s string) (Method, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_cfar")
	for i, n := range methodNames {
		if n == name {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("cfar: unknown method %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cfar: invalid method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
