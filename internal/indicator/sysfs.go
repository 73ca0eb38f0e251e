package indicator

import "os"

// brightnessFileMode matches the usual permissions on sysfs attributes.
const brightnessFileMode = 0200

// writeBrightness writes "1" or "0" to a sysfs brightness attribute.
func writeBrightness(path string, on bool) error {
	value := []byte("0")
	if on {
		value = []byte("1")
	}
	return os.WriteFile(path, value, brightnessFileMode)
}
