// Package namegen produces short random human readable names, used to make task IDs unique.
package namegen

import (
	"fmt"
	"sync"

	vendor "github.com/anandvarma/namegen"
)

var (
	mu  sync.Mutex
	gen = vendor.New()
)

type ID string

func Get() ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(gen.Get())
}

// Suffixed returns prefix followed by a random name.
func Suffixed(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, Get())
}

func (id ID) String() string {
	return string(id)
}
