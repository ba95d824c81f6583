package convert

import (
	"path/filepath"
	"strings"
)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines splits on \r\n, \r and \n.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(newlines.Replace(s), "\n")
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsPDFName reports whether name carries a .pdf extension.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(name)), ".pdf")
}
