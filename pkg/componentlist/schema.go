// Package componentlist assembles extracted fields into a TCG component list
// document.
package componentlist

import "github.com/paccor4esp/paccor4esp/pkg/extractor"

// RegistryTCG is the OID of the TCG Component Class Registry.
const RegistryTCG = "2.23.133.18.3.1"

// Component class values from the TCG Component Class Registry.
const (
	ClassEmbeddedProcessor = "00010008"
	ClassFlash             = "0006000A"
	ClassNIC               = "00090000"
	ClassWiFiAdapter       = "00090003"
	ClassBluetoothAdapter  = "00090004"
	ClassFirmware          = "00130003"
	ClassBootloader        = "00130005"
	ClassGPIO              = "000E0000"
	ClassELF               = "00130000"
	ClassEFuse             = "00130000"
)

// AddressKind selects the key of a component's network address.
type AddressKind int

const (
	AddressNone AddressKind = iota
	AddressEthernetMAC
	AddressWLANMAC
	AddressBluetoothMAC
)

// Key returns the JSON key for the address kind.
func (k AddressKind) Key() string {
	switch k {
	case AddressEthernetMAC:
		return "ETHERNETMAC"
	case AddressWLANMAC:
		return "WLANMAC"
	case AddressBluetoothMAC:
		return "BLUETOOTHMAC"
	default:
		return ""
	}
}

// Schema binds a component category to the keys it emits.
type Schema struct {
	ClassValue          string
	HasRevision         bool
	HasFieldReplaceable bool
	Address             AddressKind
}

var schemas = map[extractor.Category]Schema{
	extractor.CategoryCPU:        {ClassValue: ClassEmbeddedProcessor, HasRevision: true, HasFieldReplaceable: true},
	extractor.CategoryFlash:      {ClassValue: ClassFlash, HasRevision: true, HasFieldReplaceable: true},
	extractor.CategoryEthernet:   {ClassValue: ClassNIC, HasRevision: true, HasFieldReplaceable: true, Address: AddressEthernetMAC},
	extractor.CategoryWiFi:       {ClassValue: ClassWiFiAdapter, HasRevision: true, HasFieldReplaceable: true, Address: AddressWLANMAC},
	extractor.CategoryBluetooth:  {ClassValue: ClassBluetoothAdapter, HasRevision: true, HasFieldReplaceable: true, Address: AddressBluetoothMAC},
	extractor.CategoryFirmware:   {ClassValue: ClassFirmware},
	extractor.CategoryBootloader: {ClassValue: ClassBootloader},
	extractor.CategoryELF:        {ClassValue: ClassELF},
	extractor.CategoryEFuse:      {ClassValue: ClassEFuse},
	extractor.CategoryGPIO:       {ClassValue: ClassGPIO},
}

// SchemaFor returns the schema of a component category.
func SchemaFor(c extractor.Category) (Schema, bool) {
	s, ok := schemas[c]
	return s, ok
}
