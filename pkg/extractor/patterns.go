package extractor

import "regexp"

// NotSpecified is recorded for a pattern that found nothing in the log.
const NotSpecified = "Not Specified"

// FieldName names the attribute a pattern feeds.
type FieldName string

const (
	FieldManufacturer FieldName = "manufacturer"
	FieldModel        FieldName = "model"
	FieldVersion      FieldName = "version"
	FieldSerial       FieldName = "serial"
	FieldRevision     FieldName = "revision"
	FieldCores        FieldName = "cores"
	FieldFrequency    FieldName = "frequency"
)

// Pattern is one marker in the table. The first capture group of Expr is the
// value recorded for Field.
type Pattern struct {
	Field      FieldName
	Expr       *regexp.Regexp
	PatternStr string
	Marker     string // literal text that identifies the line in the log
}

// macAddress matches six hex octets separated by ':' or '-'.
const macAddress = `(?:[0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}`

var patternTable = buildPatternTable()

// Patterns returns the compiled patterns for c in table order.
// The returned slice must not be modified.
func Patterns(c Category) []*Pattern {
	return patternTable[c]
}

func buildPatternTable() map[Category][]*Pattern {
	table := map[Category][]*Pattern{
		CategoryPlatform: {
			{Field: FieldModel, Marker: "Model Number: ", PatternStr: `Model Number: (.*)`},
			{Field: FieldVersion, Marker: "silicon revision ", PatternStr: `silicon revision (.*),`},
			{Field: FieldSerial, Marker: "BASE_MAC: ", PatternStr: `BASE_MAC: (` + macAddress + `)`},
		},
		CategoryCPU: {
			{Field: FieldManufacturer, Marker: "--toolchain-prefix ", PatternStr: `--toolchain-prefix ([^-]*)`},
			{Field: FieldCores, Marker: "Chip with ", PatternStr: `Chip with ([^,]*)`},
			{Field: FieldFrequency, Marker: "cpu freq: ", PatternStr: `cpu freq: (.*) Hz`},
			{Field: FieldSerial, Marker: "CHIP_ID: ", PatternStr: `CHIP_ID: (.*)`},
			{Field: FieldRevision, Marker: "silicon revision ", PatternStr: `silicon revision (.*),`},
		},
		CategoryFlash: {
			{Field: FieldManufacturer, Marker: "FLASH_MANUFACTURER_ID: ", PatternStr: `FLASH_MANUFACTURER_ID: (.*)`},
			{Field: FieldModel, Marker: "FLASH_SIZE: ", PatternStr: `FLASH_SIZE: (.*)`},
			{Field: FieldSerial, Marker: "UNIQUE_FLASH_CHIP_ID: ", PatternStr: `UNIQUE_FLASH_CHIP_ID: (.*)`},
		},
		CategoryEthernet: {
			{Field: FieldManufacturer, Marker: "Manufacturer: ", PatternStr: `Manufacturer: (.*)`},
			// version number and build hash, e.g. "4670,719f9f6"
			{Field: FieldModel, Marker: "phy_version ", PatternStr: `phy_version (\d+,[^,]+)`},
			{Field: FieldSerial, Marker: "ETH_MAC: ", PatternStr: `ETH_MAC: (` + macAddress + `)`},
			{Field: FieldRevision, Marker: "phy_version ", PatternStr: `phy_version ([^,]*)`},
		},
		CategoryWiFi: {
			{Field: FieldManufacturer, Marker: "Manufacturer: ", PatternStr: `Manufacturer: (.*)`},
			{Field: FieldModel, Marker: "wifi:wifi firmware version: ", PatternStr: `wifi:wifi firmware version: (.*)`},
			{Field: FieldSerial, Marker: "WIFI_STA MAC: ", PatternStr: `WIFI_STA MAC: (` + macAddress + `)`},
			{Field: FieldRevision, Marker: "wifi:wifi certification version:", PatternStr: `wifi:wifi certification version:(.*)`},
		},
		CategoryBluetooth: {
			{Field: FieldManufacturer, Marker: "Manufacturer: ", PatternStr: `Manufacturer: (.*)`},
			{Field: FieldModel, Marker: "BT controller compile version [", PatternStr: `BT controller compile version \[([^\]]*)`},
			{Field: FieldSerial, Marker: "BLUETOOTH_MAC: ", PatternStr: `BLUETOOTH_MAC: (` + macAddress + `)`},
		},
		CategoryFirmware: {
			{Field: FieldSerial, Marker: "Firmware partition SHA256 checksum: ", PatternStr: `Firmware partition SHA256 checksum: (.*)`},
		},
		CategoryBootloader: {
			{Field: FieldSerial, Marker: "Bootloader partition SHA256 checksum: ", PatternStr: `Bootloader partition SHA256 checksum: (.*)`},
		},
		// Executable and Linkable Format image digest.
		CategoryELF: {
			{Field: FieldSerial, Marker: "ELF SHA256 checksum: ", PatternStr: `ELF SHA256 checksum: (.*)`},
		},
		// Secure Boot V2 public key digest read from eFuse BLK2.
		CategoryEFuse: {
			{Field: FieldSerial, Marker: "RSA-PSS SHA-256 checksum: ", PatternStr: `RSA-PSS SHA-256 checksum: (.*)`},
		},
		CategoryGPIO: {
			// bit array of valid (1) and invalid (0) pins
			{Field: FieldModel, Marker: "GPIO VALID PINS: ", PatternStr: `GPIO VALID PINS: (.*)`},
			// bit array of input levels
			{Field: FieldSerial, Marker: "GPIO PIN LEVELS: ", PatternStr: `GPIO PIN LEVELS: (.*)`},
		},
	}

	for _, patterns := range table {
		for _, p := range patterns {
			p.Expr = regexp.MustCompile(p.PatternStr)
		}
	}

	return table
}
