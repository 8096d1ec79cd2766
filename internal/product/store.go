package product

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStore = errors.New("unknown store")

// StoreID identifies a supported retailer. The zero value is not a valid store.
type StoreID int

const (
	AMAZON StoreID = iota + 1
	NEWEGG
	CANADA_COMPUTERS
)

// Stores lists every supported retailer in declaration order.
var Stores = []StoreID{AMAZON, NEWEGG, CANADA_COMPUTERS}

func (s StoreID) Valid() bool {
	switch s {
	case AMAZON, NEWEGG, CANADA_COMPUTERS:
		return true
	}
	return false
}

// String returns the persisted name of the store, ex. "CANADA_COMPUTERS".
func (s StoreID) String() string {
	switch s {
	case AMAZON:
		return "AMAZON"
	case NEWEGG:
		return "NEWEGG"
	case CANADA_COMPUTERS:
		return "CANADA_COMPUTERS"
	}
	return fmt.Sprintf("StoreID(%d)", int(s))
}

// DisplayName is the name used in rendered notifications.
func (s StoreID) DisplayName() string {
	switch s {
	case AMAZON:
		return "Amazon"
	case NEWEGG:
		return "Newegg"
	case CANADA_COMPUTERS:
		return "Canada Computers"
	}
	return s.String()
}

func ParseStoreID(name string) (StoreID, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	for _, s := range Stores {
		if s.String() == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: '%s'", ErrUnknownStore, name)
}

func (s StoreID) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStore, int(s))
	}
	return []byte(s.String()), nil
}

func (s *StoreID) UnmarshalText(text []byte) error {
	parsed, err := ParseStoreID(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
