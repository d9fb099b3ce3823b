package dice

import (
	"math/rand"
	"time"

	"github.com/auramoney/gameclient/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/auramoney/gameclient/internal/dice Roller

// Choice selects how many dice a roll uses.
type Choice string

const (
	// ChoiceSingle rolls one die
	ChoiceSingle Choice = "single"

	// ChoiceDouble rolls two dice
	ChoiceDouble Choice = "double"
)

// Roller provides dice rolling functionality. The client rolls locally
// for immediate feedback before the server's authoritative result
// arrives.
type Roller interface {
	// Roll generates a roll for the given choice
	Roll(choice Choice) *models.DiceResult
}

// Config for dice roller
type Config struct {
	// Optional seed for testing
	Seed int64

	// Sides per die, defaults to 6
	Sides int
}

type roller struct {
	random *rand.Rand
	sides  int
}

// New creates a new dice roller
func New(cfg *Config) *roller {
	var seed int64
	sides := 6
	if cfg != nil {
		if cfg.Seed != 0 {
			seed = cfg.Seed
		}
		if cfg.Sides > 0 {
			sides = cfg.Sides
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &roller{
		random: rand.New(rand.NewSource(seed)),
		sides:  sides,
	}
}

// Roll generates a roll for the given choice
func (r *roller) Roll(choice Choice) *models.DiceResult {
	count := 1
	if choice == ChoiceDouble {
		count = 2
	}

	values := make([]int, 0, count)
	for i := 0; i < count; i++ {
		values = append(values, r.random.Intn(r.sides)+1)
	}

	return models.NewDiceResult(values...)
}
