package utils

import "regexp"

// Input formats carried over from the profile rules: Indian mobile
// numbers, state vehicle plates and driving licence numbers.
var (
	mobileRe  = regexp.MustCompile(`^[6-9]\d{9}$`)
	vehicleRe = regexp.MustCompile(`^[A-Z]{2}\s?\d{2}\s?[A-Z]{1,2}\s?\d{4}$`)
	licenseRe = regexp.MustCompile(`^[A-Z]{2}-\d{2,3}/\d{4}/\d{7}$`)
)

// ValidMobile reports whether s is a 10-digit mobile number starting with
// 6, 7, 8 or 9.
func ValidMobile(s string) bool { return mobileRe.MatchString(s) }

// ValidVehicle reports whether s follows the SS DD CC NNNN plate format
// (e.g. "DL 01 AB 1234"); the spaces are optional.
func ValidVehicle(s string) bool { return vehicleRe.MatchString(s) }

// ValidLicense reports whether s follows the SS-RTO/YYYY/NNNNNNN licence
// format (e.g. "DL-04/2011/0149646").
func ValidLicense(s string) bool { return licenseRe.MatchString(s) }
