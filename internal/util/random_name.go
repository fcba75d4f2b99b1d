package util

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var adjectives = []string{
	"Fast", "Slow", "Quick", "Speedy", "Trotting", "Weaving", "Gracious", "Healthy", "Happy", "Funny",
	"Red", "Blue", "Green", "Brown", "Fuzzy", "Smiling", "Tall", "Grand", "Ultimate", "Prime",
	"Clever", "Sly", "Bold", "Patient", "Lucky", "Stubborn", "Sneaky", "Steady",
}

var animals = []string{
	"Dog", "Cat", "Mouse", "Otter", "Fox", "Wolf", "Bear", "Owl", "Badger", "Heron", "Lynx",
	"Beaver", "Hedgehog", "Raccoon", "Magpie", "Moose", "Marten", "Crow", "Hare", "Walrus",
}

// nameAttempts is how many plain names are tried before a number is appended
const nameAttempts = 20

var (
	randomMu sync.Mutex
	random   = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec
)

// GetRandomName returns a random name by combining an adjective with an animal
func GetRandomName() string {
	randomMu.Lock()
	defer randomMu.Unlock()

	return fmt.Sprintf("%s %s", adjectives[random.Intn(len(adjectives))], animals[random.Intn(len(animals))])
}

// UniqueName returns a random name for which taken returns false
func UniqueName(taken func(name string) bool) string {
	for i := 0; i < nameAttempts; i++ {
		if name := GetRandomName(); !taken(name) {
			return name
		}
	}

	for i := 2; ; i++ {
		if name := fmt.Sprintf("%s %d", GetRandomName(), i); !taken(name) {
			return name
		}
	}
}
