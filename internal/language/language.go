// Package language holds the persisted UI language tag.
package language

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/remedia/internal/store"
)

// Default is used when nothing valid is stored.
const Default = "en"

// Supported tags, in menu order.
var Supported = []string{"en", "te", "hi"}

func valid(tag string) bool {
	for _, s := range Supported {
		if s == tag {
			return true
		}
	}
	return false
}

// Get returns the stored tag, or Default when missing or unknown.
func Get(kv store.Storage) string {
	v, ok, err := kv.Get(store.KeyLanguage)
	if err != nil || !ok || !valid(v) {
		return Default
	}
	return v
}

// Set stores tag after validating it.
func Set(kv store.Storage, tag string) error {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !valid(tag) {
		return fmt.Errorf("unsupported language %q (want one of %s)", tag, strings.Join(Supported, ", "))
	}
	return kv.Set(store.KeyLanguage, tag)
}
