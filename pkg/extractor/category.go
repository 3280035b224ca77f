// Package extractor pulls platform and component attributes out of an ESP
// console capture using a fixed table of marker patterns.
package extractor

// Category identifies one group of patterns in the table.
type Category string

const (
	CategoryPlatform   Category = "PLATFORM"
	CategoryCPU        Category = "CPU"
	CategoryFlash      Category = "FLASH"
	CategoryEthernet   Category = "ETHERNET"
	CategoryWiFi       Category = "WIFI"
	CategoryBluetooth  Category = "BLUETOOTH"
	CategoryFirmware   Category = "FIRMWARE"
	CategoryBootloader Category = "BOOTLOADER"
	CategoryELF        Category = "ELF"
	CategoryEFuse      Category = "EFUSE"
	CategoryGPIO       Category = "GPIO"
)

// ComponentCategories lists the component categories in document order.
var ComponentCategories = []Category{
	CategoryCPU,
	CategoryFlash,
	CategoryEthernet,
	CategoryWiFi,
	CategoryBluetooth,
	CategoryFirmware,
	CategoryBootloader,
	CategoryELF,
	CategoryEFuse,
	CategoryGPIO,
}

// AllCategories is PLATFORM followed by ComponentCategories.
var AllCategories = append([]Category{CategoryPlatform}, ComponentCategories...)
