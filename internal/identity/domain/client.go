package domain

import "strings"

const (
	maxDeviceInfo = 255
	maxIPAddress  = 45 // IPv6 with zone
)

// ClientInfo describes the device presenting credentials.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// Normalize trims both fields to their column widths.
func (c ClientInfo) Normalize() ClientInfo {
	return ClientInfo{
		UserAgent: truncate(strings.TrimSpace(c.UserAgent), maxDeviceInfo),
		IPAddress: truncate(strings.TrimSpace(c.IPAddress), maxIPAddress),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Avoid splitting a multi-byte rune.
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
