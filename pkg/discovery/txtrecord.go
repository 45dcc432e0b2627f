package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeAccessoryTXT creates TXT records for an accessory advertisement.
func EncodeAccessoryTXT(info *AccessoryInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyProfile] = info.Profile
	txt[TXTKeyName] = info.Name

	if info.DeviceType != "" {
		txt[TXTKeyDeviceType] = info.DeviceType
	}
	if info.ID != "" {
		txt[TXTKeyID] = info.ID
	}

	return txt
}

// DecodeAccessoryTXT parses TXT records from an accessory advertisement.
func DecodeAccessoryTXT(txt TXTRecordMap) (*AccessoryInfo, error) {
	info := &AccessoryInfo{}

	var ok bool
	info.Profile, ok = txt[TXTKeyProfile]
	if !ok || info.Profile == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyProfile)
	}

	info.Name, ok = txt[TXTKeyName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyName)
	}

	info.DeviceType = txt[TXTKeyDeviceType]
	info.ID = txt[TXTKeyID]

	return info, nil
}

// ValidateAccessoryInfo checks an advertisement before registration.
func ValidateAccessoryInfo(info *AccessoryInfo) error {
	if info.Profile == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyProfile)
	}
	if info.Name == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyName)
	}
	for k, v := range EncodeAccessoryTXT(info) {
		if len(v) > MaxTXTValueLen {
			return fmt.Errorf("%w: %s too long", ErrInvalidTXTRecord, k)
		}
	}
	return ValidateInstanceName(info.Instance())
}

// TXTRecordsToStrings converts a TXTRecordMap to "key=value" strings,
// sorted by key.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, found := strings.Cut(s, "=")
		if found {
			txt[k] = v
		} else if k != "" {
			// Key without value (boolean flag)
			txt[k] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return ErrEmptyInstanceName
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
