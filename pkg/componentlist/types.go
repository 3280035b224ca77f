package componentlist

import (
	"bytes"
	"encoding/json"
)

// Document is the complete component list. Field order is the key order of
// the serialized document.
type Document struct {
	Platform   Platform    `json:"PLATFORM"`
	Components []Component `json:"COMPONENTS"`
	Properties []Property  `json:"PROPERTIES"`
}

// Platform identifies the device as a whole.
type Platform struct {
	Manufacturer string `json:"PLATFORMMANUFACTURERSTR"`
	Model        string `json:"PLATFORMMODEL"`
	Version      string `json:"PLATFORMVERSION"`
	Serial       string `json:"PLATFORMSERIAL"`
}

// ComponentClass places a component in the class registry.
type ComponentClass struct {
	Registry string `json:"COMPONENTCLASSREGISTRY"`
	Value    string `json:"COMPONENTCLASSVALUE"`
}

// Component is one hardware or firmware element of the platform.
type Component struct {
	Class            ComponentClass `json:"COMPONENTCLASS"`
	Manufacturer     string         `json:"MANUFACTURER"`
	Model            string         `json:"MODEL"`
	Serial           string         `json:"SERIAL"`
	Revision         *string        `json:"REVISION,omitempty"`
	FieldReplaceable *string        `json:"FIELDREPLACEABLE,omitempty"`
	Addresses        []Address      `json:"ADDRESSES,omitempty"`
}

// Address is a network address keyed by its kind, e.g. {"WLANMAC": "..."}.
type Address struct {
	Kind  AddressKind
	Value string
}

// MarshalJSON encodes the address as a single-key object.
func (a Address) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]string{a.Kind.Key(): a.Value}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Property is a name/value characteristic of the platform.
type Property struct {
	Name  string `json:"PROPERTYNAME"`
	Value string `json:"PROPERTYVALUE"`
}
